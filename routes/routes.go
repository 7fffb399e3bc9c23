package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/roadtodev/rolegate/authz"
	"github.com/roadtodev/rolegate/handlers"
	"github.com/roadtodev/rolegate/middleware"
)

// SetupRoutes assembles the router with the guard applied per route
// group. Role requirements are disjunctive: listing several roles means
// any one of them grants access.
func SetupRoutes(guard *middleware.Guard) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	// CORS middleware: the browser client calls the API cross-origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// Public: reachable without any session
		r.With(guard.RequireRoles(authz.RolePublic)).
			Get("/status", handlers.Status())

		// Any authenticated role
		r.With(guard.RequireRoles("viewer", "editor", "admin")).
			Get("/me", handlers.Me())

		r.Route("/articles", func(r chi.Router) {
			r.With(guard.RequireRoles("viewer", "editor")).
				Get("/", handlers.ListArticles())
			r.With(guard.RequireRoles("editor")).
				Post("/", handlers.CreateArticle())
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(guard.RequireRoles("admin"))
			r.Get("/settings", handlers.AdminSettings())
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not_found"}`))
	})

	return r
}
