package entity

import "fmt"

// LineStatus is the lifecycle of a room-stay or service line item.
type LineStatus string

const (
	LineStatusPending   LineStatus = "pending"
	LineStatusConfirmed LineStatus = "confirmed"
	LineStatusCompleted LineStatus = "completed"
	LineStatusCancelled LineStatus = "cancelled"
)

func (s LineStatus) Valid() bool {
	switch s {
	case LineStatusPending, LineStatusConfirmed, LineStatusCompleted, LineStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether s -> next is a legal move.
func (s LineStatus) CanTransitionTo(next LineStatus) bool {
	switch s {
	case LineStatusPending:
		return next == LineStatusConfirmed || next == LineStatusCancelled
	case LineStatusConfirmed:
		return next == LineStatusCompleted || next == LineStatusCancelled
	case LineStatusCompleted, LineStatusCancelled:
		return false
	}
	return false
}

// Transition returns next, or an error naming the illegal move.
func (s LineStatus) Transition(next LineStatus) (LineStatus, error) {
	if !s.CanTransitionTo(next) {
		return s, &TransitionError{From: string(s), To: string(next)}
	}
	return next, nil
}

// OccupiesRoom is true for statuses that count against availability.
func (s LineStatus) OccupiesRoom() bool {
	return s != LineStatusCancelled
}

type CartStatus string

const (
	CartStatusActive CartStatus = "active"
	CartStatusPaid   CartStatus = "paid"
)

func (s CartStatus) CanTransitionTo(next CartStatus) bool {
	switch s {
	case CartStatusActive:
		return next == CartStatusPaid
	case CartStatusPaid:
		return false
	}
	return false
}

// RoomState is informational. Availability comes from overlapping stays.
type RoomState string

const (
	RoomStateAvailable RoomState = "available"
	RoomStateReserved  RoomState = "reserved"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodDirect  PaymentMethod = "direct"
	PaymentMethodGateway PaymentMethod = "gateway"
)

// TransitionError is returned for an illegal status change.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move from %s to %s", e.From, e.To)
}
