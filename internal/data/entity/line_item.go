package entity

import (
	"time"

	"github.com/google/uuid"
)

// Origin says which flow created a line item.
type Origin int

const (
	// OriginCart items wait in the customer's cart until checkout.
	OriginCart Origin = iota
	// OriginDirect items are booked and confirmed by the customer outside the cart.
	OriginDirect
	// OriginStaff items are entered by staff for a customer or a walk-in guest.
	OriginStaff
)

func (o Origin) String() string {
	switch o {
	case OriginCart:
		return "cart"
	case OriginDirect:
		return "direct"
	case OriginStaff:
		return "staff"
	}
	return "unknown"
}

// Holder identifies who a line item is for: a registered customer or a named guest.
type Holder struct {
	CustomerID *uuid.UUID
	GuestName  *string
}

type RoomStay struct {
	ID         uuid.UUID  `db:"id"`
	StartDate  time.Time  `db:"start_date"`
	EndDate    time.Time  `db:"end_date"`
	Status     LineStatus `db:"status"`
	Price      Money      `db:"price_cents"`
	CustomerID *uuid.UUID `db:"customer_id"`
	GuestName  *string    `db:"guest_name"`
	RoomID     uuid.UUID  `db:"room_id"`
	CartID     *uuid.UUID `db:"cart_id"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

type ServiceBooking struct {
	ID         uuid.UUID  `db:"id"`
	Date       time.Time  `db:"booking_date"`
	Time       string     `db:"booking_time"`
	Status     LineStatus `db:"status"`
	Price      Money      `db:"price_cents"`
	CustomerID *uuid.UUID `db:"customer_id"`
	GuestName  *string    `db:"guest_name"`
	ServiceID  uuid.UUID  `db:"service_id"`
	CartID     *uuid.UUID `db:"cart_id"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// NewRoomStay builds a stay for the given origin. Cart stays start pending and
// carry the cart id; direct and staff stays are confirmed immediately.
func NewRoomStay(origin Origin, holder Holder, roomID uuid.UUID, cartID *uuid.UUID, start, end time.Time, price Money) *RoomStay {
	now := time.Now()
	stay := &RoomStay{
		ID:         uuid.New(),
		StartDate:  start,
		EndDate:    end,
		Status:     LineStatusConfirmed,
		Price:      price,
		CustomerID: holder.CustomerID,
		GuestName:  holder.GuestName,
		RoomID:     roomID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if origin == OriginCart {
		stay.Status = LineStatusPending
		stay.CartID = cartID
	}
	return stay
}

// NewServiceBooking builds a service line item. A free service never enters
// the cart, whatever the origin.
func NewServiceBooking(origin Origin, holder Holder, serviceID uuid.UUID, cartID *uuid.UUID, date time.Time, at string, price Money) *ServiceBooking {
	now := time.Now()
	booking := &ServiceBooking{
		ID:         uuid.New(),
		Date:       date,
		Time:       at,
		Status:     LineStatusConfirmed,
		Price:      price,
		CustomerID: holder.CustomerID,
		GuestName:  holder.GuestName,
		ServiceID:  serviceID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if origin == OriginCart && price > 0 {
		booking.Status = LineStatusPending
		booking.CartID = cartID
	}
	return booking
}

// Overlaps uses half-open intervals: [start, end).
func (s *RoomStay) Overlaps(start, end time.Time) bool {
	return s.StartDate.Before(end) && s.EndDate.After(start)
}

// CoversDay is true when the guest sleeps in the room on the night of day.
func (s *RoomStay) CoversDay(day time.Time) bool {
	return !s.StartDate.After(day) && s.EndDate.After(day)
}
