package notifications

import (
	"context"
	"fmt"
	"time"

	"hallbook/internal/shared/config"
	"hallbook/pkg/logger"

	"github.com/IBM/sarama"
)

// KafkaProducerConfig contains configuration for the e-mail queue producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	Compression      sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// NewKafkaProducerConfig builds the producer configuration from app config
func NewKafkaProducerConfig(cfg config.KafkaConfig) *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          cfg.Brokers,
		Topic:            cfg.EmailTopic,
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll,
		Compression:      sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000,
	}
}

// KafkaEmailProducer queues e-mails on a Kafka topic. It satisfies Dispatcher.
type KafkaEmailProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

func NewKafkaEmailProducer(cfg *KafkaProducerConfig) (*KafkaEmailProducer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = cfg.RequiredAcks
	saramaConfig.Producer.Compression = cfg.Compression
	saramaConfig.Producer.Retry.Max = cfg.RetryMax
	saramaConfig.Producer.Timeout = cfg.Timeout
	saramaConfig.Producer.Idempotent = cfg.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = cfg.MaxMessageBytes

	// Idempotent producers require a single in-flight request
	if cfg.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
		saramaConfig.Version = sarama.V2_1_0_0
	}

	// Hash partitioner keeps one recipient's mail in order
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return newKafkaEmailProducer(producer, cfg), nil
}

func newKafkaEmailProducer(producer sarama.SyncProducer, cfg *KafkaProducerConfig) *KafkaEmailProducer {
	return &KafkaEmailProducer{producer: producer, config: cfg}
}

func (p *KafkaEmailProducer) Dispatch(ctx context.Context, email *EmailNotification) error {
	email.Status = EmailStatusQueued
	email.UpdatedAt = time.Now()

	payload, err := email.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(email.PartitionKey()),
		Value:     sarama.ByteEncoder(payload),
		Headers:   p.createHeaders(email),
		Timestamp: email.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		email.MarkFailed(err)
		return fmt.Errorf("failed to send email to Kafka: %w", err)
	}

	logger.GetDefault().DebugWithContext(ctx, "Email queued", map[string]interface{}{
		"topic":     p.config.Topic,
		"partition": partition,
		"offset":    offset,
		"type":      string(email.Type),
	})
	return nil
}

func (p *KafkaEmailProducer) createHeaders(email *EmailNotification) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("email_id"), Value: []byte(email.ID.String())},
		{Key: []byte("email_type"), Value: []byte(email.Type)},
		{Key: []byte("priority"), Value: []byte(email.Priority)},
		{Key: []byte("producer"), Value: []byte("hallbook-api")},
		{Key: []byte("created_at"), Value: []byte(email.CreatedAt.Format(time.RFC3339))},
	}
	if email.BookingID != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("booking_id"),
			Value: []byte(email.BookingID.String()),
		})
	}
	return headers
}

func (p *KafkaEmailProducer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}
