package httpapi

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kislikjeka/bankview/internal/transport/httpapi/handler"
	"github.com/kislikjeka/bankview/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/bankview/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger         *logger.Logger
	AllowedOrigins []string
	AccountHandler *handler.AccountHandler
	ViewHandler    *handler.ViewHandler
	HealthHandler  *handler.HealthHandler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit()) // Rate limiting: 100 req/s with burst of 20

	// Health check endpoints
	r.Get("/health", handler.GetHealth)
	if cfg.HealthHandler != nil {
		r.Get("/health/detailed", cfg.HealthHandler.GetHealthDetailed)
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AccountHandler != nil {
			r.Get("/accounts", cfg.AccountHandler.ListAccounts)
			r.Post("/accounts/refresh", cfg.AccountHandler.RefreshAccounts)
		}

		if cfg.ViewHandler != nil {
			r.Post("/accounts/{id}/view", cfg.ViewHandler.OpenView)
			r.Route("/views/{sid}", func(r chi.Router) {
				r.Get("/", cfg.ViewHandler.GetView)
				r.Delete("/", cfg.ViewHandler.CloseView)
				r.Post("/more", cfg.ViewHandler.LoadMore)
				r.Put("/filter", cfg.ViewHandler.ApplyFilter)
				r.Delete("/filter", cfg.ViewHandler.ClearFilter)
				r.Post("/retry", cfg.ViewHandler.Retry)
				r.Post("/favorite", cfg.ViewHandler.ToggleFavorite)
			})
		}
	})

	return r
}
