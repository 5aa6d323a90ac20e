package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/GoArmGo/UserApp/internal/messaging/payloads"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amqp "github.com/rabbitmq/amqp091-go"
)

type recordingAcknowledger struct {
	acks    int
	nacks   int
	requeue []bool
}

func (a *recordingAcknowledger) Ack(uint64, bool) error {
	a.acks++
	return nil
}

func (a *recordingAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacks++
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *recordingAcknowledger) Reject(_ uint64, requeue bool) error {
	return a.Nack(0, false, requeue)
}

func testClient() *Client {
	return &Client{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func validBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(payloads.NewUserEvent(payloads.UserCreated, uuid.New()))
	require.NoError(t, err)
	return body
}

func TestHandleDelivery_MalformedIsDroppedWithoutRequeue(t *testing.T) {
	ack := &recordingAcknowledger{}
	called := false

	testClient().handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte(`{"type":`)},
		func(context.Context, payloads.UserEvent) error {
			called = true
			return nil
		})

	assert.False(t, called)
	assert.Zero(t, ack.acks)
	assert.Equal(t, []bool{false}, ack.requeue)
}

func TestHandleDelivery_HandlerFailureIsRequeued(t *testing.T) {
	ack := &recordingAcknowledger{}

	testClient().handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: validBody(t)},
		func(context.Context, payloads.UserEvent) error {
			return errors.New("bucket unavailable")
		})

	assert.Zero(t, ack.acks)
	assert.Equal(t, []bool{true}, ack.requeue)
}

func TestHandleDelivery_SuccessIsAcked(t *testing.T) {
	ack := &recordingAcknowledger{}
	var got payloads.UserEvent

	body := validBody(t)
	testClient().handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body},
		func(_ context.Context, event payloads.UserEvent) error {
			got = event
			return nil
		})

	assert.Equal(t, 1, ack.acks)
	assert.Zero(t, ack.nacks)
	assert.Equal(t, payloads.UserCreated, got.Type)
	assert.NotEqual(t, uuid.Nil, got.UserID)
}
