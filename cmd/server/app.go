package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-planner/internal/config"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/phrazzld/scry-planner/internal/domain/schedule"
	"github.com/phrazzld/scry-planner/internal/events"
	"github.com/phrazzld/scry-planner/internal/platform/postgres"
	"github.com/phrazzld/scry-planner/internal/platform/redislock"
	"github.com/phrazzld/scry-planner/internal/service/ledger"
	"github.com/phrazzld/scry-planner/internal/service/planner"
	"github.com/phrazzld/scry-planner/internal/service/profile"
	"github.com/phrazzld/scry-planner/internal/service/userlock"
	"github.com/phrazzld/scry-planner/internal/store"
	"github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config   *config.Config
	location *time.Location
	defaults domain.SchedulePreferences

	// Core services
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	// Stores and transaction boundary
	stores store.Stores
	tx     store.Transactor
	locker userlock.Locker

	// Service interfaces
	plannerService planner.Service
	ledgerService  ledger.Service
	profileService profile.Service

	// Event system
	eventEmitter events.EventEmitter
}

// newApplication creates a new application instance with all dependencies
// initialized. The database connection must already be established.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.location, err = time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule timezone: %w", err)
	}

	app.defaults, err = defaultPreferences(cfg.Schedule)
	if err != nil {
		return nil, err
	}

	app.locker, err = app.setupLocker(ctx)
	if err != nil {
		return nil, err
	}

	// Initialize stores
	app.stores = postgres.NewStores(db, logger)
	app.tx = postgres.NewTransactor(db, logger)

	// Event system: completions and regenerations are logged for now
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewLogHandler(logger))
	app.eventEmitter = emitter

	allocator := schedule.NewAllocator(schedule.WithLocation(app.location))

	app.plannerService = planner.NewService(
		app.stores,
		app.tx,
		allocator,
		app.locker,
		app.eventEmitter,
		logger,
		planner.WithLocation(app.location),
	)
	app.ledgerService = ledger.NewService(app.stores.Blocks, app.tx, app.locker, app.eventEmitter, logger)
	app.profileService = profile.NewService(app.stores, app.tx, app.locker, logger)

	logger.Info("application services initialized")
	return app, nil
}

// setupLocker selects the per-user lock backend.
func (app *application) setupLocker(ctx context.Context) (userlock.Locker, error) {
	switch app.config.Lock.Backend {
	case "redis":
		client, err := redislock.Dial(ctx, app.config.Lock.RedisAddr)
		if err != nil {
			return nil, err
		}
		app.redis = client
		app.logger.Info("using redis user lock", slog.Duration("ttl", app.config.Lock.TTL))
		return redislock.New(client, app.config.Lock.TTL, app.logger), nil
	default:
		app.logger.Info("using in-process user lock")
		return userlock.NewKeyedMutex(), nil
	}
}

// defaultPreferences converts the configured schedule defaults.
func defaultPreferences(cfg config.ScheduleConfig) (domain.SchedulePreferences, error) {
	grouping, err := domain.ParseGroupingPolicy(cfg.Grouping)
	if err != nil {
		return domain.SchedulePreferences{}, fmt.Errorf("invalid default grouping: %w", err)
	}

	prefs, err := domain.NewSchedulePreferences(
		cfg.HorizonDays,
		cfg.BlocksPerWeekday,
		cfg.BlocksPerWeekend,
		cfg.BlockDurationMinutes,
		grouping,
	)
	if err != nil {
		return domain.SchedulePreferences{}, fmt.Errorf("invalid default schedule preferences: %w", err)
	}
	return prefs, nil
}

// cleanup releases external connections.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("failed to close redis client", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}
}
