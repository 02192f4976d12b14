package adaptor

import (
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth        *AuthHandler
	Reservation *ReservationHandler
	Cart        *CartHandler
	Catalog     *CatalogHandler
	Staff       *StaffHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(service.Auth, config.Session, log),
		Reservation: NewReservationHandler(service.Availability, service.Reservation, log),
		Cart:        NewCartHandler(service.Cart, service.Checkout, log),
		Catalog:     NewCatalogHandler(service.Catalog, log),
		Staff:       NewStaffHandler(service.Staff, log),
	}
}
