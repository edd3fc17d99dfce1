package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-monitor/internal/api/handlers"
	custommiddleware "github.com/ndewijer/portfolio-monitor/internal/api/middleware"
	"github.com/ndewijer/portfolio-monitor/internal/config"
	"github.com/ndewijer/portfolio-monitor/internal/metrics"
	"github.com/ndewijer/portfolio-monitor/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	positionService *service.PositionService,
	portfolioService *service.PortfolioService,
	alertService *service.AlertService,
	cfg *config.Config,
	log zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Handle("/metrics", metrics.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/positions", func(r chi.Router) {
			positionHandler := handlers.NewPositionHandler(positionService, portfolioService)
			r.Get("/", positionHandler.Positions)
			r.Post("/", positionHandler.CreatePosition)

			r.Route("/{positionId}", func(r chi.Router) {
				r.Use(custommiddleware.ValidatePositionIDMiddleware)
				r.Get("/", positionHandler.Position)
				r.Put("/", positionHandler.UpdatePosition)
				r.Delete("/", positionHandler.DeletePosition)
			})
		})

		portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
		r.Get("/portfolio/summary", portfolioHandler.PortfolioSummary)
		r.Get("/quotes/{symbol}", portfolioHandler.SearchSymbol)

		alertHandler := handlers.NewAlertHandler(alertService)
		r.Get("/alerts", alertHandler.Alerts)
	})

	return r
}
