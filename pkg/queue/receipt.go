// Package queue carries checkout receipts over RabbitMQ. Publishing happens
// after the settlement transaction commits and never fails the checkout.
package queue

import "time"

// ReceiptMessage is the body published for every settled cart.
type ReceiptMessage struct {
	CartID          string    `json:"cart_id"`
	PaymentID       string    `json:"payment_id"`
	CustomerID      string    `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	Email           string    `json:"email"`
	Method          string    `json:"method"`
	SubtotalCents   int64     `json:"subtotal_cents"`
	PointsUsed      int       `json:"points_used"`
	AmountPaidCents int64     `json:"amount_paid_cents"`
	PointsEarned    int       `json:"points_earned"`
	PointsBalance   int       `json:"points_balance"`
	RoomStays       int       `json:"room_stays"`
	ServiceBookings int       `json:"service_bookings"`
	SettledAt       time.Time `json:"settled_at"`
}
