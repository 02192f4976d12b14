package wire

import (
	"net/http"

	"hotel-booking/internal/adaptor"
	"hotel-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	auth func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	customer := middleware.RequireCustomer(log)
	roomManager := middleware.RequireRoomManager(log)

	r.Route("/reservations", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/check-availability", reservationHandler.CheckAvailability)
		r.Get("/unavailable-dates", reservationHandler.UnavailableDates)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.With(customer).Post("/", reservationHandler.BookRoom)
			r.With(customer).Get("/mine", reservationHandler.MyReservations)

			r.With(roomManager).Post("/staff", reservationHandler.StaffBookRoom)
			r.With(roomManager).Get("/", reservationHandler.ListReservations)
			r.With(roomManager).Put("/{id}/complete", reservationHandler.CompleteRoomStay)

			// Cancellation is checked against admin rights in the service.
			r.With(middleware.RequireAdmin(log)).Put("/{id}/cancel", reservationHandler.CancelRoomStay)
		})
	})

	// ==================== SERVICE RESERVATIONS ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)

		// Customers book for themselves, staff for a customer or a walk-in guest.
		r.Post("/services/{id}/reserve", reservationHandler.ReserveService)

		r.With(middleware.RequireStaff(log)).Get("/services/reservations", reservationHandler.ListServiceReservations)
		r.With(middleware.RequireStaff(log)).Put("/services/reservations/{id}/complete", reservationHandler.CompleteService)
	})
}
