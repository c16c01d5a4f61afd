package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pensionworks/support-bot/internal/analytics"
	httpmiddleware "github.com/pensionworks/support-bot/internal/http/middleware"
	"github.com/pensionworks/support-bot/internal/whatsapp"
	"github.com/pensionworks/support-bot/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Webhook            *whatsapp.WebhookHandler
	Analytics          *analytics.Handler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// WebhookRatePerSec throttles the public webhook per source IP.
	// Zero disables rate limiting.
	WebhookRatePerSec float64
	WebhookBurst      int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints: webhook and health.
	r.Group(func(public chi.Router) {
		public.Get("/", cfg.Analytics.Health)
		public.Get("/health", cfg.Analytics.Health)

		public.Route("/webhook", func(wh chi.Router) {
			if cfg.WebhookRatePerSec > 0 {
				wh.Use(httpmiddleware.RateLimit(cfg.WebhookRatePerSec, cfg.WebhookBurst))
			}
			wh.Get("/", cfg.Webhook.Verify)
			wh.Post("/", cfg.Webhook.Receive)
		})

		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Reporting endpoints, guarded by the admin JWT.
	r.Route("/api/analytics", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		admin.Get("/interactions", cfg.Analytics.Interactions)
		admin.Get("/tickets", cfg.Analytics.Tickets)
		admin.Get("/agent-performance", cfg.Analytics.AgentPerformance)
		admin.Get("/conversation-analytics", cfg.Analytics.ConversationAnalytics)
	})

	return r
}
