package wire

import (
	"net/http"

	"hotel-booking/internal/adaptor"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/middleware"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired HTTP router.
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes. rdb may be nil, which
// disables rate limiting.
func Wiring(repo *repository.Repository, integrations usecase.Integrations, config *utils.Config, logger *zap.Logger, rdb *redis.Client) *App {
	service := usecase.NewService(repo, integrations, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(handler, repo, config, logger, rdb)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
	rdb *redis.Client,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.Tracing)
	r.Use(middleware.Metrics)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	r.Use(middleware.RateLimit(config.RateLimit, rdb, logger))

	auth := middleware.AuthSession(repo.Session, repo.User, config.Session.CookieName, logger)

	wireAuth(r, handler.Auth, auth)
	wireReservation(r, handler.Reservation, auth, logger)
	wireCart(r, handler.Cart, auth, logger)
	wireCatalog(r, handler.Catalog, auth, logger)
	wireStaff(r, handler.Staff, auth, logger)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
