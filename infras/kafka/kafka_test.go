package kafka_test

import (
	"context"
	"poolbook/config"
	"poolbook/infras/kafka"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{
		Key:   "set-1",
		Value: map[string]any{"pool_id": "2", "units": 3},
	}

	got, err := msg.ToKafkaMessage()

	assert.NoError(t, err)
	assert.Equal(t, []byte("set-1"), got.Key)
	assert.JSONEq(t, `{"pool_id":"2","units":3}`, string(got.Value))
}

func TestMessage_ToKafkaMessageUnsupportedValue(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage()

	assert.Error(t, err)
}

func TestClient_WithoutBrokersDropsMessages(t *testing.T) {
	client := kafka.New(&config.Config{})

	err := client.SendMessages(context.Background(), "booking.booked", kafka.Message{Key: "k", Value: "v"})

	assert.NoError(t, err)
	assert.NoError(t, client.Close())
}
