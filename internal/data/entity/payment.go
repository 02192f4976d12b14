package entity

import "github.com/google/uuid"

// Payment is the settlement record of a cart.
type Payment struct {
	BaseNoDelete
	CartID       uuid.UUID     `db:"cart_id"`
	CustomerID   uuid.UUID     `db:"customer_id"`
	Method       PaymentMethod `db:"method"`
	Subtotal     Money         `db:"subtotal_cents"`
	PointsUsed   int           `db:"points_used"`
	AmountPaid   Money         `db:"amount_paid_cents"`
	PointsEarned int           `db:"points_earned"`
	Status       PaymentStatus `db:"status"`
	ExternalRef  *string       `db:"external_ref"`
}
