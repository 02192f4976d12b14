package usecase

import (
	"context"

	"hotel-booking/pkg/payment"
	"hotel-booking/pkg/queue"
)

// ReceiptPublisher delivers settlement receipts after commit.
type ReceiptPublisher interface {
	PublishReceipt(ctx context.Context, msg queue.ReceiptMessage) error
}

// PaymentGateway opens hosted checkout sessions.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error)
}

// IdempotencyStore deduplicates checkout requests by key. Reserve returns
// the stored result for a finished key and nil when the caller owns it.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) ([]byte, error)
	MarkSuccess(ctx context.Context, key string, result []byte) error
	MarkFailure(ctx context.Context, key string) error
}

// Integrations groups the collaborators outside the database. Any field may
// be nil: receipts are then skipped and gateway checkout is unavailable.
type Integrations struct {
	Receipts    ReceiptPublisher
	Payments    PaymentGateway
	Idempotency IdempotencyStore
}
