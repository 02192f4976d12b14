package usecase

import (
	"hotel-booking/internal/data/repository"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	Availability AvailabilityService
	Cart         CartService
	Checkout     CheckoutService
	Reservation  ReservationService
	Catalog      CatalogService
	Staff        StaffService
}

func NewService(repo *repository.Repository, integrations Integrations, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:         NewAuthService(repo, config, log),
		Availability: NewAvailabilityService(repo, log),
		Cart:         NewCartService(repo, log),
		Checkout:     NewCheckoutService(repo, integrations, config, log),
		Reservation:  NewReservationService(repo, log),
		Catalog:      NewCatalogService(repo, log),
		Staff:        NewStaffService(repo, log),
	}
}
