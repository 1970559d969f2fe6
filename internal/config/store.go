package config

import (
	"context"
	"fmt"
	"mdstore/internal/kv"
	"time"

	"go.uber.org/zap"
)

// OpenStore builds the key-value backend named by cfg.Store.Backend.
func OpenStore(cfg *Config, logger *zap.Logger) (kv.Store, error) {
	sc := cfg.Store
	logger.Info("Opening store", zap.String("backend", sc.Backend))

	switch sc.Backend {
	case "", "memory":
		return kv.NewMemoryStore(), nil
	case "redis":
		return kv.NewRedisStore(sc.RedisURL, sc.RedisPrefix, logger)
	case "mongo":
		db, err := ConnectMongoDB(sc.Mongo, logger)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := kv.NewMongoStore(ctx, db, sc.Mongo.Collection)
		if err != nil {
			db.Client().Disconnect(context.Background())
			return nil, err
		}
		return store, nil
	case "sqlite":
		return kv.NewSQLStore(kv.DialectSQLite, sc.SQLDSN)
	case "postgres":
		return kv.NewSQLStore(kv.DialectPostgres, sc.SQLDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
}
