package database

import (
	"context"

	"ledger/internal/config"
	"ledger/internal/logger"
	"ledger/internal/repository"
)

// CloseFunc releases a store opened by Open.
type CloseFunc func(ctx context.Context) error

// Open connects the store selected by cfg.DBDriver. SQL backends are
// migrated before use.
func Open(ctx context.Context, cfg *config.Config) (repository.Store, CloseFunc, error) {
	if cfg.DBDriver == config.DriverMongo {
		client, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		if err := EnsureIndexes(ctx, coll); err != nil {
			logger.Get().Warnw("failed to ensure indexes", "error", err)
		}
		return repository.NewMongoStore(coll), client.Disconnect, nil
	}

	manager, err := NewManager(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := manager.RunMigrations(); err != nil {
		_ = manager.Close()
		return nil, nil, err
	}
	closeFn := func(context.Context) error { return manager.Close() }
	return repository.NewGormStore(manager.DB()), closeFn, nil
}
