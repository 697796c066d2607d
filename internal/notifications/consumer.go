package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"hallbook/internal/shared/config"
	"hallbook/pkg/logger"

	"github.com/IBM/sarama"
)

type ConsumerConfig struct {
	Brokers           []string
	GroupID           string
	Topics            []string
	SessionTimeout    time.Duration
	Heartbeat         time.Duration
	MaxProcessingTime time.Duration
	OffsetOldest      bool
	MaxRetries        int
	RetryBackoff      time.Duration
}

func NewConsumerConfig(cfg config.KafkaConfig) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:           cfg.Brokers,
		GroupID:           cfg.ConsumerGroup,
		Topics:            []string{cfg.EmailTopic},
		SessionTimeout:    30 * time.Second,
		Heartbeat:         3 * time.Second,
		MaxProcessingTime: 5 * time.Minute,
		OffsetOldest:      true,
		MaxRetries:        cfg.MaxRetries,
		RetryBackoff:      cfg.RetryBackoff,
	}
}

// KafkaEmailConsumer runs a pool of consumer group members, each delivering
// queued e-mails through an EmailService.
type KafkaEmailConsumer struct {
	config *ConsumerConfig
	sender EmailService

	mu     sync.Mutex
	groups []sarama.ConsumerGroup
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewKafkaEmailConsumer(cfg *ConsumerConfig, sender EmailService) *KafkaEmailConsumer {
	return &KafkaEmailConsumer{config: cfg, sender: sender}
}

func (c *KafkaEmailConsumer) saramaConfig() *sarama.Config {
	sc := sarama.NewConfig()
	sc.Consumer.Group.Session.Timeout = c.config.SessionTimeout
	sc.Consumer.Group.Heartbeat.Interval = c.config.Heartbeat
	sc.Consumer.MaxProcessingTime = c.config.MaxProcessingTime
	sc.Consumer.Return.Errors = true
	sc.Consumer.Offsets.AutoCommit.Enable = true
	sc.Consumer.Offsets.AutoCommit.Interval = time.Second
	if c.config.OffsetOldest {
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	return sc
}

// Start launches numWorkers group members. Each member gets its own share of
// the topic's partitions.
func (c *KafkaEmailConsumer) Start(ctx context.Context, numWorkers int) error {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	for i := 0; i < numWorkers; i++ {
		group, err := sarama.NewConsumerGroup(c.config.Brokers, c.config.GroupID, c.saramaConfig())
		if err != nil {
			cancel()
			c.closeGroups()
			return fmt.Errorf("failed to create consumer group: %w", err)
		}

		c.mu.Lock()
		c.groups = append(c.groups, group)
		c.mu.Unlock()

		handler := &emailHandler{consumer: c, workerID: i}
		c.wg.Add(2)
		go func() {
			defer c.wg.Done()
			c.runWorker(ctx, group, handler)
		}()
		go func(workerID int) {
			defer c.wg.Done()
			for err := range group.Errors() {
				logger.GetDefault().ErrorWithContext(ctx, "Email consumer group error", err, map[string]interface{}{
					"worker_id": workerID,
				})
			}
		}(i)
	}

	logger.GetDefault().InfoWithContext(ctx, "Email consumer workers started", map[string]interface{}{
		"workers": numWorkers,
		"topics":  c.config.Topics,
	})
	return nil
}

func (c *KafkaEmailConsumer) runWorker(ctx context.Context, group sarama.ConsumerGroup, handler *emailHandler) {
	for {
		if err := group.Consume(ctx, c.config.Topics, handler); err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "Email consumer error", err, map[string]interface{}{
				"worker_id": handler.workerID,
			})
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// Stop cancels all workers, closes their groups and waits for them to exit.
func (c *KafkaEmailConsumer) Stop() error {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	err := c.closeGroups()
	c.wg.Wait()
	return err
}

func (c *KafkaEmailConsumer) closeGroups() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for _, g := range c.groups {
		if err := g.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close consumer group: %w", err)
		}
	}
	c.groups = nil
	return firstErr
}

// deliver decodes one queued message and sends it, retrying with
// exponential backoff.
func (c *KafkaEmailConsumer) deliver(ctx context.Context, payload []byte) error {
	var email EmailNotification
	if err := json.Unmarshal(payload, &email); err != nil {
		// A message that cannot be decoded will never succeed
		logger.GetDefault().ErrorWithContext(ctx, "Dropping undecodable email message", err, nil)
		return nil
	}

	email.Status = EmailStatusSending
	if err := c.executeWithRetry(ctx, &email); err != nil {
		email.MarkFailed(err)
		return err
	}
	email.MarkSent()
	return nil
}

func (c *KafkaEmailConsumer) executeWithRetry(ctx context.Context, email *EmailNotification) error {
	maxRetries := c.config.MaxRetries
	backoff := c.config.RetryBackoff

	for attempt := 0; ; attempt++ {
		err := c.sender.Send(ctx, email)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			logger.GetDefault().ErrorWithContext(ctx, "Email delivery failed", err, map[string]interface{}{
				"email_id": email.ID.String(),
				"attempts": attempt + 1,
			})
			return err
		}

		email.IncrementRetry()
		delay := backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

type emailHandler struct {
	consumer *KafkaEmailConsumer
	workerID int
}

func (h *emailHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *emailHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *emailHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.consumer.deliver(session.Context(), message.Value); err != nil {
				// Failed mail is not redelivered; the error is already logged
				logger.GetDefault().WarnWithContext(session.Context(), "Email message skipped after retries", map[string]interface{}{
					"worker_id": h.workerID,
					"partition": message.Partition,
					"offset":    message.Offset,
				})
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
