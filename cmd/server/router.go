package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/essaylab-api/internal/api"
	apiMiddleware "github.com/phrazzld/essaylab-api/internal/api/middleware"
	"github.com/phrazzld/essaylab-api/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// setupRouter registers every route. Public endpoints called from the
// marketing site get CORS; authenticated ones are same-origin only.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(metrics.Middleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	publicCORS := cors.New(cors.Options{
		AllowedOrigins: app.config.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         600,
	})

	quotaHandler := api.NewQuotaHandler(app.quotaService, app.logger)
	referralHandler := api.NewReferralHandler(app.referralService, app.logger)
	flashcardHandler := api.NewFlashcardHandler(app.flashcardService, app.logger)
	guestHandler := api.NewGuestHandler(app.guestGate, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(publicCORS.Handler)
			public := map[string]http.HandlerFunc{
				"/invites/validate": referralHandler.ValidateInvite,
				"/guest/check":      guestHandler.Check,
				"/guest/mark":       guestHandler.Mark,
				"/guest/claim":      guestHandler.Claim,
			}
			for path, handler := range public {
				r.Post(path, handler)
				// Preflights must match a route for the CORS middleware to run.
				r.Options(path, func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusNoContent)
				})
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/quota", quotaHandler.GetStatus)
			r.Post("/quota/submissions", quotaHandler.RecordSubmission)

			r.Get("/referrals/code", referralHandler.GetInviteCode)
			r.Post("/referrals/redeem", referralHandler.RedeemInvite)
			r.Post("/promos/redeem", referralHandler.RedeemPromo)

			r.Post("/flashcards", flashcardHandler.CreateForEssay)
			r.Get("/flashcards/due", flashcardHandler.ListDue)
			r.Post("/flashcards/{id}/grade", flashcardHandler.Grade)

			if app.vocabularyService != nil {
				vocabularyHandler := api.NewVocabularyHandler(app.vocabularyService, app.logger)
				r.Post("/essays/{id}/vocabulary", vocabularyHandler.Generate)
			}
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	return r
}
