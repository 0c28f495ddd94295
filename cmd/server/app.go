package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/essaylab-api/internal/api"
	"github.com/phrazzld/essaylab-api/internal/config"
	"github.com/phrazzld/essaylab-api/internal/domain/srs"
	"github.com/phrazzld/essaylab-api/internal/domain/tier"
	"github.com/phrazzld/essaylab-api/internal/events"
	"github.com/phrazzld/essaylab-api/internal/flashcard"
	"github.com/phrazzld/essaylab-api/internal/guest"
	"github.com/phrazzld/essaylab-api/internal/metrics"
	"github.com/phrazzld/essaylab-api/internal/platform/gemini"
	"github.com/phrazzld/essaylab-api/internal/platform/keypool"
	"github.com/phrazzld/essaylab-api/internal/platform/postgres"
	"github.com/phrazzld/essaylab-api/internal/platform/redisstore"
	"github.com/phrazzld/essaylab-api/internal/quota"
	"github.com/phrazzld/essaylab-api/internal/referral"
	"github.com/phrazzld/essaylab-api/internal/service/auth"
	"github.com/phrazzld/essaylab-api/internal/store"
	"github.com/phrazzld/essaylab-api/internal/vocabulary"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	registry *prometheus.Registry
	emitter  *events.InMemoryEventEmitter

	jwtService auth.JWTService

	quotaService      quota.Service
	referralService   referral.Service
	flashcardService  flashcard.Service
	vocabularyService vocabulary.Service // nil when no Gemini keys are configured
	guestGate         api.GuestGate
}

// newApplication wires stores, services and the event pipeline.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		registry: prometheus.NewRegistry(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Quota.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid quota timezone %q: %w", cfg.Quota.Timezone, err)
	}

	// Metrics are fed from committed usage events.
	app.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.MustRegister(app.registry)
	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.emitter.RegisterHandler(metrics.EventHandler{})

	accounts := postgres.NewPostgresAccountStore(db, logger)
	inviteCodes := postgres.NewPostgresInviteCodeStore(db, logger)
	redemptions := postgres.NewPostgresRedemptionStore(db, logger)
	cards := postgres.NewPostgresFlashcardStore(db, logger)
	vocab := postgres.NewPostgresVocabularyStore(db, logger)

	app.quotaService = quota.NewLedger(db, accounts, tier.NewDefaultResolver(), logger,
		quota.WithLocation(loc),
		quota.WithEmitter(app.emitter))

	app.referralService = referral.NewService(db, accounts, inviteCodes, redemptions,
		cfg.Promo.Codes, logger,
		referral.WithEmitter(app.emitter))

	app.flashcardService = flashcard.NewService(db, cards, vocab, srs.NewDefaultService(), logger,
		flashcard.WithLocation(loc),
		flashcard.WithEmitter(app.emitter))

	trials, err := app.guestTrialStore(ctx)
	if err != nil {
		return nil, err
	}
	app.guestGate = guest.NewGate(trials, logger,
		guest.WithDevBypass(cfg.Guest.DevBypass),
		guest.WithEmitter(app.emitter))

	if len(cfg.LLM.GeminiAPIKeys) == 0 {
		logger.Warn("no Gemini API keys configured, vocabulary generation disabled")
	} else {
		pool, err := keypool.New(cfg.LLM.GeminiAPIKeys)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini key pool: %w", err)
		}
		generator, err := gemini.NewGeminiGenerator(ctx, logger, cfg.LLM, pool)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini generator: %w", err)
		}
		app.vocabularyService = vocabulary.NewService(db, generator, vocab, app.flashcardService, logger,
			vocabulary.WithEmitter(app.emitter))
		logger.Info("vocabulary generation enabled",
			slog.String("model", cfg.LLM.ModelName),
			slog.Int("keys", pool.Size()))
	}

	logger.Info("application initialized")
	return app, nil
}

func (app *application) guestTrialStore(ctx context.Context) (store.GuestTrialStore, error) {
	if app.config.Guest.Store != "redis" {
		return postgres.NewPostgresGuestTrialStore(app.db, app.logger), nil
	}

	client, err := setupRedis(ctx, app.config.Redis.URL, app.logger)
	if err != nil {
		return nil, err
	}
	app.redis = client
	return redisstore.NewGuestTrialStore(client, 0, app.logger), nil
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases connections after the server has stopped.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
