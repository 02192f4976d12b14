package wire

import (
	"net/http"

	"hotel-booking/internal/adaptor"
	"hotel-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireStaff(
	r chi.Router,
	staffHandler *adaptor.StaffHandler,
	auth func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireAdmin(log))

		r.Post("/admin/staff", staffHandler.CreateStaff)
		r.Get("/admin/staff", staffHandler.ListStaff)
		r.Put("/admin/staff/{id}/promote", staffHandler.PromoteToAdmin)
	})

	// ==================== STAFF ROUTES ====================
	r.With(auth, middleware.RequireStaff(log)).Get("/customers", staffHandler.ListCustomers)
}
