package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gartstein/warranty/internal/warranty/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func statusEvent(t *testing.T, claimID string) models.Event {
	event, err := models.NewEvent(models.ClaimStatusChanged, models.ClaimAggregateType, claimID, "acme",
		models.ClaimStatusChange{ClaimID: claimID, From: models.ClaimOpen, To: models.ClaimApproved})
	require.NoError(t, err)
	return event
}

func TestNewProducer(t *testing.T) {
	producer := NewProducer([]string{"localhost:9092"}, zaptest.NewLogger(t), "warranty.claims")

	writer, ok := producer.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "warranty.claims", writer.Topic)
	assert.NotNil(t, producer.events)
	assert.Equal(t, "kafka_producer", producer.logger.Check(zap.InfoLevel, "").LoggerName)

	producer.Close()
}

func TestProducer_Publish(t *testing.T) {
	t.Run("queues events", func(t *testing.T) {
		producer := &Producer{
			events:    make(chan models.Event, 2),
			closeChan: make(chan struct{}),
			logger:    zaptest.NewLogger(t),
		}

		err := producer.Publish(context.Background(), statusEvent(t, "clm_1"), statusEvent(t, "clm_2"))
		require.NoError(t, err)
		assert.Equal(t, 2, len(producer.events))
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := &Producer{
			events:    make(chan models.Event, 1),
			closeChan: make(chan struct{}),
			logger:    zap.New(core),
		}

		err := producer.Publish(context.Background(), statusEvent(t, "clm_1"), statusEvent(t, "clm_2"))
		assert.ErrorIs(t, err, ErrQueueFull)
		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("aggregate_id", "clm_2")).Len())
	})

	t.Run("closed producer", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("Close").Return(nil)
		producer := newProducer(mockWriter, zaptest.NewLogger(t), 1)
		producer.Close()

		err := producer.Publish(context.Background(), statusEvent(t, "clm_1"))
		assert.ErrorIs(t, err, ErrProducerClosed)
	})
}

func TestProducer_SendEvent(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	logger := zaptest.NewLogger(t)
	event := statusEvent(t, "clm_1")

	producer := &Producer{
		writer: mockWriter,
		logger: logger,
	}

	t.Run("successful send", func(t *testing.T) {
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)

		producer.sendEvent(context.Background(), event)

		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, []kafka.Message{
			{
				Key:   []byte("clm_1"),
				Value: mustMarshal(event),
				Headers: []kafka.Header{
					{Key: HeaderEventType, Value: []byte(models.ClaimStatusChanged)},
					{Key: HeaderTenantID, Value: []byte("acme")},
				},
			},
		})
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer.logger = zap.New(core)

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("aggregate_id", "clm_1")).Len())
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer.logger = zap.New(core)
		mockWriter.ExpectedCalls = nil
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))

		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_CloseFlushesQueue(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
	mockWriter.On("Close").Return(nil)

	producer := newProducer(mockWriter, zaptest.NewLogger(t), 10)
	require.NoError(t, producer.Publish(context.Background(), statusEvent(t, "clm_1"), statusEvent(t, "clm_2")))

	producer.Close()
	producer.Close()

	mockWriter.AssertNumberOfCalls(t, "WriteMessages", 2)
	mockWriter.AssertNumberOfCalls(t, "Close", 1)
}

func TestProducer_EventLoop(t *testing.T) {
	written := make(chan struct{}, 1)
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { written <- struct{}{} }).
		Return(nil)
	mockWriter.On("Close").Return(nil)

	producer := newProducer(mockWriter, zaptest.NewLogger(t), 1)
	defer producer.Close()

	require.NoError(t, producer.Publish(context.Background(), statusEvent(t, "clm_1")))

	select {
	case <-written:
	case <-time.After(time.Second):
		t.Fatal("event was not written")
	}
}

func mustMarshal(event models.Event) []byte {
	data, _ := json.Marshal(event)
	return data
}
