// Package api assembles the console's HTTP surface: the screen
// endpoints for the external-event register/update screen, the health
// endpoints, and the metrics endpoint.
package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/eventport/organizer-console/internal/api/handlers"
	"github.com/eventport/organizer-console/internal/api/middleware"
	"github.com/eventport/organizer-console/internal/auth"
	"github.com/eventport/organizer-console/internal/config"
	"github.com/eventport/organizer-console/internal/i18n"
	"github.com/eventport/organizer-console/internal/metrics"
	"github.com/eventport/organizer-console/internal/upstream"
)

// Version information, set at build time via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func NewRouter(cfg config.Config, logger zerolog.Logger) (http.Handler, error) {
	bundle, err := i18n.Load(cfg.I18n.Language)
	if err != nil {
		return nil, err
	}

	sessions := auth.NewSessionManager(cfg.Session.Secret, cfg.Session.Expiry, "organizer-console")

	platform := upstream.NewClient(cfg.Upstream.BaseURL,
		upstream.WithHTTPClient(&http.Client{Timeout: cfg.Upstream.Timeout}),
		upstream.WithRateLimit(cfg.Upstream.RateLimit),
		upstream.WithTokenSource(auth.AccessTokenFromContext),
		upstream.WithRequestIDSource(middleware.GetRequestID),
		upstream.WithObserver(func(resource string, status int) {
			metrics.UpstreamRequestsTotal.WithLabelValues(resource, statusClass(status)).Inc()
		}),
		upstream.WithLogger(logger),
	)

	screenHandler := handlers.NewExternalEventHandler(platform, bundle.T, cfg.Session.CookieSecure, cfg.Environment)
	healthChecker := handlers.NewHealthChecker(platform, Version, GitCommit)

	sessionAuth := middleware.SessionAuth(sessions, cfg.Session.CookieSecure)
	csrfProtect := middleware.CSRFProtection([]byte(cfg.CSRF.Key), cfg.Session.CookieSecure)

	screen := func(h http.HandlerFunc) http.Handler {
		return sessionAuth(csrfProtect(h))
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/health", healthChecker.Health())
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.Handle("/organizer/api/events/{eventId}/external-events/new",
		screen(screenHandler.ReadModel))
	mux.Handle("/organizer/api/events/{eventId}/external-events/{serialId}/edit",
		screen(screenHandler.ReadModel))
	mux.Handle("/organizer/api/events/{eventId}/external-events", methodMux(map[string]http.Handler{
		http.MethodPost: screen(screenHandler.Submit),
	}))
	mux.Handle("/organizer/api/events/{eventId}/external-events/{serialId}", methodMux(map[string]http.Handler{
		http.MethodPost: screen(screenHandler.Submit),
	}))

	var handler http.Handler = mux
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler, nil
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}

func statusClass(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
