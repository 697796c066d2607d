package bookings

import (
	"context"
	"fmt"
	"time"

	"hallbook/internal/shared/constants"
	"hallbook/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SlotLocker serialises booking attempts for one owner/resource/date.
type SlotLocker interface {
	// Acquire returns ErrSlotBusy when another request holds the slot.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisSlotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSlotLocker builds a locker whose locks expire after ttl, or after
// the default slot lock TTL when ttl is not positive.
func NewRedisSlotLocker(client *redis.Client, ttl time.Duration) *RedisSlotLocker {
	if ttl <= 0 {
		ttl = constants.TTL_BOOKING_SLOT_LOCK
	}
	return &RedisSlotLocker{client: client, ttl: ttl}
}

func (l *RedisSlotLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	if !ok {
		return nil, ErrSlotBusy
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			logger.GetDefault().WarnWithContext(releaseCtx, "Failed to release slot lock", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return release, nil
}
