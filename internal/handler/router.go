package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the intake's route table. When webDir is non-empty the
// static site is served under /site/.
func NewRouter(h *RegistrationHandler, webDir string) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger)                  // structured access log
	r.Use(CORS)                    // the static site posts cross-origin

	// Liveness and intake share the root URL.
	r.Get("/", h.Liveness)
	r.Post("/", h.Register)
	r.Post("/register", h.Register)

	r.Get("/health", HealthCheck)
	r.Get("/countdown", h.Countdown)

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Get("/{key}", h.GetEvent)
	})

	r.Get("/registrations", h.ListRegistrations)
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/{name}/registrations", h.ListCategoryRegistrations)
	})

	if webDir != "" {
		r.Handle("/site/*", http.StripPrefix("/site/", http.FileServer(http.Dir(webDir))))
	}

	return r
}
