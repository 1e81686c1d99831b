package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const maxBodySize = 1 << 20

// NewRouter builds the full HTTP surface: API routes, health check and the
// static front-end served from staticDir.
func NewRouter(h *ActivityHandler, staticDir string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestSize(maxBodySize))
	r.Use(CORS)

	r.Get("/", Root)
	r.Get("/health", HealthCheck)

	r.Route("/activities", func(r chi.Router) {
		r.Get("/", h.ListActivities)
		r.Post("/{name}/signup", h.Signup)
		r.Delete("/{name}/unregister", h.Unregister)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/verify", h.Verify)
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	return r
}
