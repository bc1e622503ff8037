package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyengine/internal/cache"
	"surveyengine/internal/config"
	"surveyengine/internal/metrics"
	"surveyengine/internal/repository"
	"surveyengine/internal/schema"
)

// App holds the infrastructure selected by configuration
type App struct {
	Schema    *schema.Schema
	Responses repository.ResponseRepository
	Locker    cache.Locker
	Sessions  cache.SessionCache
	Metrics   *metrics.Collector

	closers []func()
}

// New loads the schema and connects the configured backends. A schema
// that fails to load is fatal: no partial form is ever served.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	s, err := schema.LoadFile(cfg.SchemaPath)
	if err != nil {
		return nil, err
	}
	logger.Info("schema loaded", "path", cfg.SchemaPath, "blocks", len(s.Blocks()), "questions", s.QuestionCount())

	a := &App{
		Schema:  s,
		Metrics: metrics.New(),
	}

	if err := a.openStore(ctx, cfg, logger); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.openRedis(ctx, cfg, logger); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		a.Responses = repository.NewMemoryResponseRepository()

	case config.StoreSQLite:
		repo, err := repository.NewSQLiteResponseRepository(cfg.SQLitePath)
		if err != nil {
			return err
		}
		a.Responses = repo
		a.closers = append(a.closers, func() { repo.Close() })

	case config.StoreMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, func() { client.Disconnect(context.Background()) })

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			return fmt.Errorf("ping mongo: %w", err)
		}
		a.Responses = repository.NewMongoResponseRepository(client.Database(cfg.MongoDB))

	case config.StorePostgres:
		repo, err := repository.NewPostgresResponseRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.Responses = repo
		a.closers = append(a.closers, repo.Close)

	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	logger.Info("response store ready", "driver", cfg.StoreDriver)
	return nil
}

func (a *App) openRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.RedisAddr == "" {
		a.Locker = cache.NewMemoryLocker()
		a.Sessions = cache.NewMemorySessionCache()
		logger.Info("REDIS_URI not set, using in-process submit lock")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	a.closers = append(a.closers, func() { rdb.Close() })

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	a.Locker = cache.NewRedisLocker(rdb)
	a.Sessions = cache.NewSessionCache(rdb)
	logger.Info("connected to redis", "addr", cfg.RedisAddr)
	return nil
}

// Close releases backend connections in reverse order
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
