package wire

import (
	"net/http"

	"travel-booking/internal/adaptor"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/event"
	"travel-booking/internal/usecase"
	"travel-booking/pkg/middleware"
	"travel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired router
type App struct {
	Router *chi.Mux
}

// Dependencies are the external collaborators built by the caller.
// Redis and Events may be nil.
type Dependencies struct {
	Repo     *repository.Repository
	Flights  usecase.FlightSearcher
	Payments usecase.PaymentProcessor
	Events   event.Publisher
	Redis    *redis.Client
}

// Wiring builds services, handlers and routes
func Wiring(deps Dependencies, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(deps.Repo, deps.Flights, deps.Payments, deps.Events, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, deps.Redis, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	rdb *redis.Client,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigins))
	r.Use(middleware.Metrics())

	idempotent := middleware.Idempotency(rdb, config.Redis.IdempotencyTTL, logger)

	// Apply routes
	wireAuth(r, handler.Auth)
	wireBooking(r, handler.Booking, idempotent)
	wirePayment(r, handler.Payment, idempotent)
	wireFlight(r, handler.Flight)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
