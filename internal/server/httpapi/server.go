// Package httpapi is the thin HTTP dispatcher in front of the services. It
// decodes and validates the JSON wire contracts, routes to the credential
// store, the favourites registry, and the dashboard orchestrator, and maps
// the error taxonomy onto HTTP statuses.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/weatherdash/internal/logging"
	"github.com/dmitrijs2005/weatherdash/internal/server/models"
	"github.com/dmitrijs2005/weatherdash/internal/server/observability"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
	dbCheckTimeout  = 2 * time.Second
)

// AccountService is the credential store surface used by the dispatcher.
type AccountService interface {
	Create(ctx context.Context, username, password string) (*models.Account, error)
	VerifyLogin(ctx context.Context, username, password string) error
	UpdatePassword(ctx context.Context, username, newPassword string) error
	ClearAll(ctx context.Context) error
}

// FavouriteService is the favourites registry surface used by the dispatcher.
type FavouriteService interface {
	Add(ctx context.Context, username, location string) ([]string, error)
	Remove(ctx context.Context, username, location string) ([]string, error)
	Clear(ctx context.Context, username string) error
	List(ctx context.Context, username string) ([]string, error)
	Count(ctx context.Context, username string) (int, error)
}

// DashboardService is the favourites-weather orchestrator surface used by
// the dispatcher.
type DashboardService interface {
	WeatherForFavourite(ctx context.Context, username, location string) (*models.CurrentWeather, error)
	AllFavouriteWeathers(ctx context.Context, username string) ([]models.CurrentWeather, error)
	HistoricalForFavourite(ctx context.Context, username, location, date string) (*models.DayWeather, error)
	ForecastForFavourite(ctx context.Context, username, location string, days int) ([]models.DayWeather, error)
}

// Pinger reports storage reachability for the db-check endpoint. *sql.DB
// satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server exposes the dashboard API over HTTP.
type Server struct {
	httpServer *http.Server
	logger     logging.Logger
}

func NewServer(addr string, accounts AccountService, favourites FavouriteService, dashboard DashboardService, db Pinger, m *observability.Metrics, logger logging.Logger) *Server {

	h := &handler{
		accounts:   accounts,
		favourites: favourites,
		dashboard:  dashboard,
		db:         db,
		validate:   validator.New(),
		logger:     logger.With("module", "httpapi"),
	}

	r := chi.NewRouter()
	r.Use(requestMetrics(m))

	r.Get("/api/health", h.health)
	r.Get("/api/db-check", h.dbCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/create-account", h.createAccount)
	r.Post("/api/login", h.login)
	r.Post("/api/update-password", h.updatePassword)
	r.Delete("/api/clear-users", h.clearUsers)

	r.Post("/api/add-favourite", h.addFavourite)
	r.Post("/api/remove-favourite", h.removeFavourite)
	r.Post("/api/clear-favourites", h.clearFavourites)
	r.Get("/api/favourites", h.listFavourites)
	r.Get("/api/favourites-length", h.favouritesLength)

	r.Get("/api/weather", h.weatherForFavourite)
	r.Get("/api/all-weathers", h.allFavouriteWeathers)
	r.Get("/api/historical", h.historicalForFavourite)
	r.Get("/api/forecast", h.forecastForFavourite)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		logger: logger.With("module", "http_server"),
	}
}

// Run starts the server and shuts it down gracefully when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "error shutting down HTTP server", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// ServeHTTP delegates to the router, useful for httptest-based tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// requestMetrics counts finished requests by route pattern and status code.
func requestMetrics(m *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.RequestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		})
	}
}
