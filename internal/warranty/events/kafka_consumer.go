package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/warranty/internal/warranty/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler processes one consumed event.
type Handler func(context.Context, models.Event) error

type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	defaultHandlerRetries  = 5
	defaultHandlerInterval = 200 * time.Millisecond
)

// Consumer reads domain events from a Kafka topic and dispatches them by
// event type.
//
// A group reader does not hand a message out twice, and committing a later
// offset moves past anything before it. A failing handler is therefore
// retried with backoff; once the retries are spent the event is logged and
// committed so the partition keeps moving.
type Consumer struct {
	reader   KafkaReader
	logger   *zap.Logger
	handlers map[models.EventType]Handler
	done     chan struct{}

	retries       uint64
	retryInterval time.Duration
}

func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return newConsumer(kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
		Dialer:  kafka.DefaultDialer,
	}), logger)
}

func newConsumer(reader KafkaReader, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader:   reader,
		logger:   logger.Named("kafka_consumer"),
		handlers: make(map[models.EventType]Handler),
		done:     make(chan struct{}),

		retries:       defaultHandlerRetries,
		retryInterval: defaultHandlerInterval,
	}
}

// RegisterHandler routes events of eventType to fn. Register before Start.
func (c *Consumer) RegisterHandler(eventType models.EventType, fn Handler) {
	c.handlers[eventType] = fn
}

// Start consumes in the background until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		c.run(ctx)
	}()
}

func (c *Consumer) run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("Failed to fetch message", zap.Error(err))
			continue
		}

		var event models.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Error("Failed to parse event",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			c.commit(ctx, msg, "")
			continue
		}

		handler, ok := c.handlers[event.Type]
		if !ok {
			c.logger.Debug("No handler for event", zap.String("event_type", string(event.Type)))
			c.commit(ctx, msg, event.Type)
			continue
		}

		if err := c.handle(ctx, handler, event); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("Failed to handle event, skipping",
				zap.Error(err),
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID),
				zap.String("tenant_id", event.TenantID),
			)
		}
		c.commit(ctx, msg, event.Type)
	}
}

// handle runs fn until it succeeds, the retries are spent or ctx is done.
// Returning backoff.Permanent from fn stops the retries early.
func (c *Consumer) handle(ctx context.Context, fn Handler, event models.Event) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(c.retryInterval),
		), c.retries),
		ctx,
	)
	return backoff.RetryNotify(func() error {
		return fn(ctx, event)
	}, policy, func(err error, wait time.Duration) {
		c.logger.Warn("Event handler failed, retrying",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Duration("wait", wait),
		)
	})
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message, eventType models.EventType) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message",
			zap.Error(err),
			zap.String("event_type", string(eventType)),
		)
	}
}

// Close closes the reader. Cancel the Start context and wait on Done first.
func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close Kafka reader", zap.Error(err))
	}
}

// Done is closed when the consume loop has exited.
func (c *Consumer) Done() <-chan struct{} {
	return c.done
}
