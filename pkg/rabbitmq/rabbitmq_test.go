package rabbitmq_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"catalogbench/internal/models"
	"catalogbench/pkg/rabbitmq"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func TestClient_PublishBenchmarkReport(t *testing.T) {
	ch := new(MockChannel)
	client := rabbitmq.NewClientWithChannel(ch, "", zap.NewNop())

	report := models.BenchmarkReport{ID: "run-1", Records: 3, DocumentCRUD: 2 * time.Second}

	var published amqp.Publishing
	ch.On("Publish", "", rabbitmq.DefaultQueue, false, false, mock.AnythingOfType("amqp.Publishing")).
		Run(func(args mock.Arguments) { published = args.Get(4).(amqp.Publishing) }).
		Return(nil).Once()

	require.NoError(t, client.PublishBenchmarkReport(report))
	ch.AssertExpectations(t)

	assert.Equal(t, "application/json", published.ContentType)
	assert.Equal(t, amqp.Persistent, published.DeliveryMode)
	assert.Equal(t, "run-1", published.MessageId)

	var decoded models.BenchmarkReport
	require.NoError(t, json.Unmarshal(published.Body, &decoded))
	assert.Equal(t, report.ID, decoded.ID)
	assert.Equal(t, report.Records, decoded.Records)
	assert.Equal(t, report.DocumentCRUD, decoded.DocumentCRUD)
}

func TestClient_PublishError(t *testing.T) {
	ch := new(MockChannel)
	client := rabbitmq.NewClientWithChannel(ch, "reports", zap.NewNop())

	ch.On("Publish", "", "reports", false, false, mock.Anything).Return(errors.New("channel/connection is not open")).Once()

	err := client.PublishBenchmarkReport(models.BenchmarkReport{ID: "run-2"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish message")
}

func TestClient_Close(t *testing.T) {
	ch := new(MockChannel)
	ch.On("Close").Return(nil).Once()

	client := rabbitmq.NewClientWithChannel(ch, "", zap.NewNop())
	assert.NoError(t, client.Close())
	ch.AssertExpectations(t)

	ch = new(MockChannel)
	ch.On("Close").Return(errors.New("already closed")).Once()
	client = rabbitmq.NewClientWithChannel(ch, "", zap.NewNop())
	assert.Error(t, client.Close())
}
