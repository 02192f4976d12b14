package usecase

import "hotel-booking/internal/data/entity"

const (
	// one point for every 20 currency units actually paid
	earnStep = entity.Money(20 * 100)
	// one point redeems one currency unit
	pointValue = entity.Money(100)
)

// PointsEarned is floor(amountPaid / 20). Nothing is earned on a zero payment.
func PointsEarned(amountPaid entity.Money) int {
	if amountPaid <= 0 {
		return 0
	}
	return int(amountPaid / earnStep)
}

// PointsValue is the discount granted for redeeming points.
func PointsValue(points int) entity.Money {
	return pointValue.Mul(points)
}
