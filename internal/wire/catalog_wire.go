package wire

import (
	"net/http"

	"hotel-booking/internal/adaptor"
	"hotel-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	auth func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/categories", catalogHandler.ListCategories)
	r.Get("/categories/{id}", catalogHandler.GetCategory)
	r.Get("/services", catalogHandler.ListServices)
	r.Get("/services/{id}", catalogHandler.GetService)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireAdmin(log))

		r.Post("/admin/categories", catalogHandler.CreateCategory)
		r.Post("/admin/rooms", catalogHandler.CreateRoom)
		r.Delete("/admin/rooms/{id}", catalogHandler.DeleteRoom)
		r.Post("/admin/services", catalogHandler.CreateService)
	})
}
