package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"postforge/internal/admission"
	"postforge/internal/http/handlers"
	"postforge/internal/infra"
	"postforge/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, limiter admission.Controller) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(app.Logger),
		middleware.Locale("en"),
		middleware.CORS(cfg.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/policies/{owner_id}", app.PolicyGet)

	r.Route("/v1/posts", func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter))
		r.Post("/image", app.PostsImage)
		r.Post("/video", app.PostsVideo)
	})

	return r
}
