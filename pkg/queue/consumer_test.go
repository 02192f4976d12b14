package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsumerHandleDecodesReceipt(t *testing.T) {
	var got ReceiptMessage
	c := NewConsumer("", "receipts", func(_ context.Context, msg ReceiptMessage) error {
		got = msg
		return nil
	}, zap.NewNop())

	body := []byte(`{"cart_id":"c1","subtotal_cents":10000,"points_used":20,"amount_paid_cents":8000,"points_earned":4}`)
	require.NoError(t, c.handle(context.Background(), body))

	assert.Equal(t, "c1", got.CartID)
	assert.Equal(t, int64(8000), got.AmountPaidCents)
	assert.Equal(t, 4, got.PointsEarned)
}

func TestConsumerHandleRejectsGarbage(t *testing.T) {
	called := false
	c := NewConsumer("", "receipts", func(context.Context, ReceiptMessage) error {
		called = true
		return nil
	}, zap.NewNop())

	err := c.handle(context.Background(), []byte("not json"))
	assert.Error(t, err)
	assert.False(t, called)
}

func TestConsumerHandlePropagatesHandlerError(t *testing.T) {
	boom := errors.New("smtp down")
	c := NewConsumer("", "receipts", func(context.Context, ReceiptMessage) error {
		return boom
	}, zap.NewNop())

	assert.ErrorIs(t, c.handle(context.Background(), []byte(`{}`)), boom)
}

func TestSleepStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Minute))
}
