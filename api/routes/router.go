package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mikekode/creenly-licensing/api/controllers"
	"github.com/mikekode/creenly-licensing/api/middleware"
	"github.com/mikekode/creenly-licensing/internal/licensing"
	"github.com/mikekode/creenly-licensing/pkg/config"
	"github.com/mikekode/creenly-licensing/pkg/logger"
)

// NewRouter wires the admin issuance API.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	licenseService licensing.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/licenses", controllers.LicenseIssue(licenseService, logg))
	})

	return r
}
