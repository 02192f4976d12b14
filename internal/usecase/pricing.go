package usecase

import (
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/utils"
)

// Nights counts calendar nights between two dates.
func Nights(start, end time.Time) int {
	d := utils.TruncateDay(end).Sub(utils.TruncateDay(start))
	return int(d.Hours() / 24)
}

// PriceRoomStay charges at least one night even for a same-day range.
func PriceRoomStay(rate entity.Money, start, end time.Time) entity.Money {
	nights := Nights(start, end)
	if nights < 1 {
		nights = 1
	}
	return rate.Mul(nights)
}

// PriceService is the flat service price. A missing price means free.
func PriceService(service *entity.Service) entity.Money {
	if service == nil || service.Price == nil {
		return 0
	}
	return *service.Price
}
