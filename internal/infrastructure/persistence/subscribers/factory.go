package subscribers

import (
	"context"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/Gerrylewin/shopguide-blog/pkg/config"
)

// NewFromConfig builds the subscriber store chain exactly once, at process
// start. Backends are probed in priority order - Turso/sqlite, then Mongo,
// then Redis - and every one whose configuration is present joins the
// chain. The local JSON file always terminates the chain so reads degrade
// rather than fail outright.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *logging.ChanneledLogger) *ChainStore {
	var backends []newsletter.SubscriberStore

	if cfg.TursoConfigured() || cfg.SQLiteConfigured() {
		store, err := NewSQLStore(cfg, logger)
		if err != nil {
			logger.Startup().Error("SQL subscriber backend unavailable", "error", err.Error())
		} else {
			backends = append(backends, store)
			logger.Startup().Info("Subscriber backend ready", "backend", store.Name())
		}
	}

	if cfg.MongoConfigured() {
		store, err := NewMongoStore(ctx, cfg.MongoURL, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Startup().Error("Mongo subscriber backend unavailable", "error", err.Error())
		} else {
			backends = append(backends, store)
			logger.Startup().Info("Subscriber backend ready", "backend", store.Name())
		}
	}

	if cfg.RedisConfigured() {
		store, err := NewRedisStore(ctx, cfg.RedisURL, logger)
		if err != nil {
			logger.Startup().Error("Redis subscriber backend unavailable", "error", err.Error())
		} else {
			backends = append(backends, store)
			logger.Startup().Info("Subscriber backend ready", "backend", store.Name())
		}
	}

	backends = append(backends, NewFileStore(cfg, logger))

	chain := NewChainStore(backends, logger)
	logger.Startup().Info("Subscriber store chain assembled", "backends", chain.Backends())
	return chain
}
