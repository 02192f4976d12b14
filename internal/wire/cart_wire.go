package wire

import (
	"net/http"

	"hotel-booking/internal/adaptor"
	"hotel-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCart(
	r chi.Router,
	cartHandler *adaptor.CartHandler,
	auth func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	// ==================== CART ROUTES (customer only) ====================
	r.Route("/paniers", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireCustomer(log))

		r.Get("/active", cartHandler.GetActive)
		r.Post("/add", cartHandler.AddRoom)
		r.Post("/add-service", cartHandler.AddService)
		r.Delete("/remove/{id}", cartHandler.RemoveRoom)
		r.Delete("/remove-service/{id}", cartHandler.RemoveService)

		r.Post("/checkout", cartHandler.Checkout)
		r.Post("/create-checkout-session", cartHandler.CreateCheckoutSession)
		r.Post("/checkout-session/{sessionId}/confirm", cartHandler.ConfirmCheckoutSession)
	})
}
