package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/quill-api/internal/api"
	apiMiddleware "github.com/phrazzld/quill-api/internal/api/middleware"
	"github.com/phrazzld/quill-api/internal/platform/metrics"
	"github.com/phrazzld/quill-api/internal/service/article"
)

// setupRouter builds the chi router. Article writes sit behind the bearer
// middleware only when the article service runs in required mode.
func (app *application) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(apiMiddleware.Metrics)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	authHandler := api.NewAuthHandler(app.authService)
	articleHandler := api.NewArticleHandler(app.articleService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.authService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Get("/articles", articleHandler.ListArticles)

		r.Group(func(r chi.Router) {
			if app.articleService.AuthMode() == article.ModeRequired {
				r.Use(authMiddleware.Authenticate)
			}
			r.Post("/articles", articleHandler.CreateArticle)
			r.Post("/articles/{id}/like", articleHandler.LikeArticle)
			r.Put("/articles/{id}", articleHandler.UpdateArticle)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	if app.config.Metrics.Enabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	return r
}
