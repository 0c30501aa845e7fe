package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	json "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	event := OrderEvent{
		Type:       TypeUpsaleCreated,
		OrderID:    "ORDER-2",
		Status:     "COMPLETED",
		CustomerID: "cust_123",
		Amount:     ParseAmount("25.00"),
		Currency:   "USD",
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "checkout.orders", msg.Topic)
		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "ORDER-2", string(key))

		value, err := msg.Value.Encode()
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(value, &decoded))
		assert.Equal(t, TypeUpsaleCreated, decoded["type"])
		assert.Equal(t, "cust_123", decoded["customer_id"])
		assert.Equal(t, "25", decoded["amount"])
		return nil
	})

	publisher := NewKafkaPublisherWithProducer(producer, "checkout.orders")
	require.NoError(t, publisher.Publish(context.Background(), event))
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisher_PublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewKafkaPublisherWithProducer(producer, "checkout.orders")
	err := publisher.Publish(context.Background(), OrderEvent{Type: TypeOrderCreated, OrderID: "ORDER-1"})
	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers))
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisher_CanceledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := NewKafkaPublisherWithProducer(producer, "checkout.orders")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, publisher.Publish(ctx, OrderEvent{OrderID: "ORDER-1"}), context.Canceled)
	require.NoError(t, publisher.Close())
}

func TestParseAmount(t *testing.T) {
	assert.True(t, decimal.RequireFromString("25.5").Equal(ParseAmount("25.50")))
	assert.True(t, ParseAmount("not-a-number").IsZero())
	assert.True(t, ParseAmount("").IsZero())
}
