package repository

import (
	"hotel-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Tx             database.Transactor
	User           UserRepository
	Session        SessionRepository
	Customer       CustomerRepository
	Category       CategoryRepository
	Room           RoomRepository
	Service        ServiceRepository
	Cart           CartRepository
	RoomStay       RoomStayRepository
	ServiceBooking ServiceBookingRepository
	Payment        PaymentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Tx:             database.NewTransactor(db),
		User:           NewUserRepository(db, log),
		Session:        NewSessionRepository(db, log),
		Customer:       NewCustomerRepository(db, log),
		Category:       NewCategoryRepository(db, log),
		Room:           NewRoomRepository(db, log),
		Service:        NewServiceRepository(db, log),
		Cart:           NewCartRepository(db, log),
		RoomStay:       NewRoomStayRepository(db, log),
		ServiceBooking: NewServiceBookingRepository(db, log),
		Payment:        NewPaymentRepository(db, log),
	}
}
