package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rohitid33/sprint-rail/internal/api"
	apimiddleware "github.com/rohitid33/sprint-rail/internal/api/middleware"
	"github.com/rohitid33/sprint-rail/internal/domain"
)

// setupRouter wires all routes and the middleware chain.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	taxonomyHandler := api.NewTaxonomyHandler(app.contentService, app.logger)
	cardHandler := api.NewCardHandler(app.contentService, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	tokenHandler := api.NewTokenHandler(app.config.Auth.TokenSecret, app.callerID, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(apimiddleware.IdentityMiddleware(app.callerID))

		r.Get("/default-token", tokenHandler.DefaultToken)

		// Hierarchy enumeration, rename, and cascade delete, level by level.
		r.Route("/subjects", func(r chi.Router) {
			r.Get("/", taxonomyHandler.ListSegments(domain.LevelSubject))
			r.Route("/{subject}", func(r chi.Router) {
				r.Patch("/", taxonomyHandler.Rename(domain.LevelSubject))
				r.Delete("/", taxonomyHandler.Delete(domain.LevelSubject))
				r.Get("/modules", taxonomyHandler.ListSegments(domain.LevelModule))
				r.Route("/modules/{module}", func(r chi.Router) {
					r.Patch("/", taxonomyHandler.Rename(domain.LevelModule))
					r.Delete("/", taxonomyHandler.Delete(domain.LevelModule))
					r.Get("/chapters", taxonomyHandler.ListSegments(domain.LevelChapter))
					r.Route("/chapters/{chapter}", func(r chi.Router) {
						r.Patch("/", taxonomyHandler.Rename(domain.LevelChapter))
						r.Delete("/", taxonomyHandler.Delete(domain.LevelChapter))
						r.Get("/sections", taxonomyHandler.ListSegments(domain.LevelSection))
						r.Route("/sections/{section}", func(r chi.Router) {
							r.Patch("/", taxonomyHandler.Rename(domain.LevelSection))
							r.Delete("/", taxonomyHandler.Delete(domain.LevelSection))
							r.Get("/topics", taxonomyHandler.ListSegments(domain.LevelTopic))
							r.Route("/topics/{topic}", func(r chi.Router) {
								r.Patch("/", taxonomyHandler.Rename(domain.LevelTopic))
								r.Delete("/", taxonomyHandler.Delete(domain.LevelTopic))
								r.Get("/facts", taxonomyHandler.ListTopicCards)
								r.Get("/performance", reviewHandler.Performance)
								r.Post("/cards", cardHandler.AddCard)
								r.Patch("/cards/reorder", cardHandler.Reorder)
							})
						})
					})
				})
			})
		})

		// Raw text ingestion and structural cards.
		r.Post("/submit-raw", cardHandler.SubmitRaw)
		r.Post("/submit-raw/structure", cardHandler.SubmitStructure)

		// Per-card operations.
		r.Route("/cards/{cardID}", func(r chi.Router) {
			r.Delete("/", cardHandler.DeleteCard)
			r.Patch("/content", cardHandler.UpdateContent)
			r.Patch("/keywords", cardHandler.UpdateKeywords)
			r.Patch("/review", reviewHandler.ReviewCard)
			r.Get("/blanks", reviewHandler.GetBlanks)
			r.Patch("/blanks", reviewHandler.UpdateBlanks)
		})
		r.Post("/card-review/{cardID}", reviewHandler.ReviewCardByHistory)

		// Staged topic review, matched by topic name alone.
		r.Post("/topics/{topic}/review", reviewHandler.ReviewTopic)

		// Due sets.
		r.Get("/review-cards", reviewHandler.DueLegacy)
		r.Get("/review-tasks", reviewHandler.DueToday)
		r.Get("/review-tasks/tomorrow", reviewHandler.DueTomorrow)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
