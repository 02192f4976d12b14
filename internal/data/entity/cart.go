package entity

import "github.com/google/uuid"

type Cart struct {
	BaseNoDelete
	CustomerID uuid.UUID  `db:"customer_id"`
	Status     CartStatus `db:"status"`
	// Total is the stored cache. RecomputeTotal is the source of truth.
	Total     Money `db:"total_cents"`
	RoomStays []*RoomStay
	Services  []*ServiceBooking
}

// RecomputeTotal sums the locked prices of the cart's current line items.
func (c *Cart) RecomputeTotal() Money {
	var total Money
	for _, s := range c.RoomStays {
		total += s.Price
	}
	for _, s := range c.Services {
		total += s.Price
	}
	return total
}

// Reconcile replaces the cached total and reports whether it had drifted.
func (c *Cart) Reconcile() bool {
	fresh := c.RecomputeTotal()
	drifted := fresh != c.Total
	c.Total = fresh
	return drifted
}

func (c *Cart) IsEmpty() bool {
	return len(c.RoomStays) == 0 && len(c.Services) == 0
}
