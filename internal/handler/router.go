package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/capitalize-ai/travel-assistant/internal/middleware"
	"github.com/capitalize-ai/travel-assistant/pkg/logger"
)

// RouterConfig holds HTTP surface settings.
type RouterConfig struct {
	APIPrefix         string
	FrontendOrigins   []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Handlers groups the API handlers mounted by NewRouter.
type Handlers struct {
	Health      *HealthHandler
	Chat        *ChatHandler
	Activities  *ActivityHandler
	Bookings    *BookingHandler
	Escalations *EscalationHandler
}

// NewRouter builds the API router.
func NewRouter(cfg RouterConfig, h Handlers, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.FrontendOrigins))

	r.Get("/health", h.Health.Health)
	r.Get("/ready", h.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route(cfg.APIPrefix, func(r chi.Router) {
		if cfg.RateLimitRequests > 0 {
			r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}

		r.Get("/activities", h.Activities.List)
		r.Get("/activities/{id}", h.Activities.Get)

		r.Get("/chat/{conversation_id}", h.Chat.List)
		r.Post("/chat/{conversation_id}", h.Chat.Send)

		r.Post("/bookings", h.Bookings.Create)
		r.Get("/bookings/{id}", h.Bookings.Get)

		r.Get("/escalations/by-id/{id}", h.Bookings.GetEscalation)
		r.Post("/escalations/{conversation_id}/supervisor-reply", h.Escalations.SupervisorReply)
	})

	return r
}
