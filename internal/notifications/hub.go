package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"hallbook/internal/shared/constants"
	"hallbook/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const subscriberBuffer = 16

// Broker fans newly created notifications out to live subscribers.
type Broker interface {
	Publish(ctx context.Context, n *Notification) error
	// Subscribe returns a channel of notifications for userID. The channel is
	// closed after cancel is called or ctx is done.
	Subscribe(ctx context.Context, userID string) (<-chan Notification, func(), error)
}

// LocalHub is an in-process Broker for single-instance deployments.
type LocalHub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Notification]struct{}
}

func NewLocalHub() *LocalHub {
	return &LocalHub{subs: make(map[string]map[chan Notification]struct{})}
}

func (h *LocalHub) Publish(ctx context.Context, n *Notification) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[n.UserID.String()] {
		select {
		case ch <- *n:
		default:
			// slow subscriber; the next snapshot catches it up
		}
	}
	return nil
}

func (h *LocalHub) Subscribe(ctx context.Context, userID string) (<-chan Notification, func(), error) {
	ch := make(chan Notification, subscriberBuffer)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan Notification]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[userID], ch)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return ch, cancel, nil
}

func (h *LocalHub) subscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

// RedisHub fans out through Redis pub/sub so every API instance sees every
// notification.
type RedisHub struct {
	client *redis.Client
}

func NewRedisHub(client *redis.Client) *RedisHub {
	return &RedisHub{client: client}
}

func (h *RedisHub) Publish(ctx context.Context, n *Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	channel := constants.BuildUserNotificationChannel(n.UserID.String())
	return h.client.Publish(ctx, channel, payload).Err()
}

func (h *RedisHub) Subscribe(ctx context.Context, userID string) (<-chan Notification, func(), error) {
	pubsub := h.client.Subscribe(ctx, constants.BuildUserNotificationChannel(userID))

	// Wait for the subscription to be confirmed before returning
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan Notification, subscriberBuffer)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			pubsub.Close()
		})
	}

	go func() {
		defer close(out)
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var n Notification
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					logger.GetDefault().WarnWithContext(ctx, "Dropping malformed notification message", map[string]interface{}{
						"channel": msg.Channel,
						"error":   err.Error(),
					})
					continue
				}
				select {
				case out <- n:
				default:
				}
			}
		}
	}()

	return out, cancel, nil
}
