package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
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

// recordingWriter keeps every written message.
type recordingWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestNewProducerInternal(t *testing.T) {
	producer := newProducer(&recordingWriter{}, zaptest.NewLogger(t), 10)
	defer producer.Close()

	assert.NotNil(t, producer.writer)
	assert.Equal(t, 10, cap(producer.events))
	assert.NotNil(t, producer.closeChan)
	assert.Equal(t, "kafka_producer", producer.logger.Check(zap.InfoLevel, "").LoggerName)
}

func TestProducer_Produce(t *testing.T) {
	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		// No event loop: the queue is never consumed.
		producer := &Producer{
			events: make(chan Event, 1),
			logger: zap.New(core),
		}
		id := uuid.New()

		producer.Produce(CompanySeeded, id, uuid.Nil)
		producer.Produce(CompanySeeded, id, uuid.Nil)

		assert.Equal(t, 1, len(producer.events))
		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
	})
}

func TestProducer_CloseFlushesQueue(t *testing.T) {
	writer := &recordingWriter{}
	producer := newProducer(writer, zaptest.NewLogger(t), 100)

	companyID, officeID := uuid.New(), uuid.New()
	producer.Produce(StoreReset, uuid.Nil, uuid.Nil)
	producer.Produce(CompanySeeded, companyID, uuid.Nil)
	producer.Produce(OfficeSeeded, officeID, companyID)
	producer.Produce(HeadOfficeAssigned, companyID, officeID)

	producer.Close()

	writer.mu.Lock()
	defer writer.mu.Unlock()
	require.Len(t, writer.messages, 4, "Close should flush queued events")
	assert.True(t, writer.closed)

	var last Event
	require.NoError(t, json.Unmarshal(writer.messages[3].Value, &last))
	assert.Equal(t, Event{Type: HeadOfficeAssigned, ID: companyID, ParentID: officeID}, last)
	assert.Equal(t, []byte(companyID.String()), writer.messages[3].Key)
}

func TestProducer_SendEvent(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	logger := zaptest.NewLogger(t)
	officeID, companyID := uuid.New(), uuid.New()

	producer := &Producer{
		writer: mockWriter,
		logger: logger,
	}

	t.Run("successful send", func(t *testing.T) {
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)

		event := Event{Type: OfficeSeeded, ID: officeID, ParentID: companyID}
		producer.sendEvent(context.Background(), event)

		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, []kafka.Message{
			{
				Key:   []byte(officeID.String()),
				Value: mustMarshal(event),
			},
		})
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer.logger = zap.New(core)

		// Mock JSON marshaling to force error
		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		event := Event{Type: CompanySeeded, ID: companyID}
		producer.sendEvent(context.Background(), event)

		// Verify error logging
		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("entity_id", companyID.String())).Len())
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer.logger = zap.New(core)
		mockWriter.ExpectedCalls = nil
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))

		event := Event{Type: CompanySeeded, ID: companyID}
		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_Close(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("Close").Return(nil)

	producer := newProducer(mockWriter, zaptest.NewLogger(t), 1)
	producer.Close()

	// Verify close channel is closed
	select {
	case <-producer.closeChan:
	default:
		t.Error("closeChan not closed")
	}

	mockWriter.AssertCalled(t, "Close")
}

func TestNop(t *testing.T) {
	var n Nop
	assert.NotPanics(t, func() {
		n.Produce(EmployeeSeeded, uuid.New(), uuid.New())
		n.Close()
	})
}

func mustMarshal(ev Event) []byte {
	data, _ := json.Marshal(ev)
	return data
}
