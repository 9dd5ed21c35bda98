// Package events moves domain events between the service and Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gartstein/warranty/internal/warranty/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

var (
	ErrQueueFull      = fmt.Errorf("kafka producer queue full")
	ErrProducerClosed = fmt.Errorf("kafka producer closed")
)

const (
	HeaderEventType = "event_type"
	HeaderTenantID  = "tenant_id"
)

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes domain events to a Kafka topic. Events are queued and
// written by a background loop.
type Producer struct {
	writer    KafkaWriter
	events    chan models.Event
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewProducer creates a producer writing to topic and starts its loop.
func NewProducer(brokers []string, logger *zap.Logger, topic string) *Producer {
	return newProducer(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
		Topic:    topic,
	}, logger, 1000)
}

func newProducer(writer KafkaWriter, logger *zap.Logger, queueSize int) *Producer {
	p := &Producer{
		writer:    writer,
		events:    make(chan models.Event, queueSize),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.eventLoop()
	return p
}

// EnsureTopic creates topic on the first broker. An existing topic is not
// an error.
func EnsureTopic(brokers []string, topic string, partitions int, logger *zap.Logger) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err), zap.String("topic", topic))
	}
	return nil
}

// Publish queues events for delivery. Events that do not fit in the queue
// are dropped and reported with ErrQueueFull.
func (p *Producer) Publish(_ context.Context, events ...models.Event) error {
	select {
	case <-p.closeChan:
		return ErrProducerClosed
	default:
	}

	for i, event := range events {
		select {
		case p.events <- event:
		default:
			p.logger.Warn("Kafka producer queue full, dropping event",
				zap.String("event_type", string(event.Type)),
				zap.String("aggregate_id", event.AggregateID),
			)
			return fmt.Errorf("%w: %d of %d events queued", ErrQueueFull, i, len(events))
		}
	}
	return nil
}

func (p *Producer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			p.drain()
			return
		}
	}
}

func (p *Producer) drain() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		default:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event models.Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("aggregate_id", event.AggregateID),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(event.Type)},
			{Key: HeaderTenantID, Value: []byte(event.TenantID)},
		},
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("aggregate_id", event.AggregateID),
		)
		return
	}
}

// Close flushes queued events and closes the writer.
func (p *Producer) Close() {
	p.closeOnce.Do(func() {
		close(p.closeChan)
		<-p.done
		if err := p.writer.Close(); err != nil {
			p.logger.Error("Failed to close Kafka writer", zap.Error(err))
		}
	})
}
