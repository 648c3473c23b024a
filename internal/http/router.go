package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"gitea.jw6.us/james/taskdeck/internal/api"
	"gitea.jw6.us/james/taskdeck/internal/auth"
	"gitea.jw6.us/james/taskdeck/internal/config"
	"gitea.jw6.us/james/taskdeck/internal/http/csrf"
	"gitea.jw6.us/james/taskdeck/internal/http/ratelimit"
	"gitea.jw6.us/james/taskdeck/internal/metrics"
	"gitea.jw6.us/james/taskdeck/internal/store"
)

// NewRouter wires the JSON API routes and operational endpoints.
func NewRouter(cfg *config.Config, store *store.Store, authService *auth.Service, sessions *auth.SessionManager) http.Handler {
	r := chi.NewRouter()

	// Credential endpoints: 5 requests per second, burst of 10 per IP.
	// The limiter resolves the client address itself so forwarding headers
	// are only believed when the peer is a trusted proxy.
	authRateLimiter := ratelimit.NewIPRateLimiter(rate.Limit(5), 10, 5*time.Minute, cfg.TrustedProxies)

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.HealthCheck(ctx); err != nil {
			http.Error(w, "unready", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.PrometheusEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}

	apiHandler := api.NewHandler(store, authService, sessions)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authRateLimiter.Middleware())
				r.Post("/register", apiHandler.Register)
				r.Post("/login", apiHandler.Login)
			})
			// Logout succeeds even without a session; only /me is gated.
			// Fetching /me also hands the client its CSRF token cookie.
			r.Post("/logout", apiHandler.Logout)
			r.With(authService.RequireSession, csrf.Middleware(cfg)).Get("/me", apiHandler.Me)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(authService.RequireSession)
			r.Use(csrf.Middleware(cfg))
			r.Get("/", apiHandler.ListTasks)
			r.Post("/", apiHandler.CreateTask)
			r.Get("/{id}", apiHandler.GetTask)
			r.Put("/{id}", apiHandler.UpdateTask)
			r.Delete("/{id}", apiHandler.DeleteTask)
		})

		r.Route("/calendar", func(r chi.Router) {
			r.Use(authService.RequireSession)
			r.Use(csrf.Middleware(cfg))
			r.Get("/", apiHandler.ListEvents)
			r.Get("/month/{year}/{month}", apiHandler.ListEventsByMonth)
			r.Post("/", apiHandler.CreateEvent)
			r.Get("/{id}", apiHandler.GetEvent)
			r.Put("/{id}", apiHandler.UpdateEvent)
			r.Delete("/{id}", apiHandler.DeleteEvent)
		})
	})

	return r
}
