package storage

import (
	"context"
	"errors"

	"github.com/mmdatafocus/plant_inventory/config"
	"github.com/mmdatafocus/plant_inventory/models"
)

// Open connects the snapshot backend selected by SNAPSHOT_BACKEND. The returned
// close function releases the underlying connection.
func Open(ctx context.Context, cfg config.AppConfig) (models.SnapshotStore, func(), error) {
	logger := config.GetLogger()
	switch cfg.SnapshotBackend {
	case config.SnapshotBackendRedis:
		client := config.ConnectRedisWithRetry(ctx, cfg.RedisAddress)
		if client == nil {
			return nil, nil, errors.New("redis not available")
		}
		return NewRedisStore(client, config.GetRedisLock()), func() { _ = client.Close() }, nil

	case config.SnapshotBackendMySQL:
		db := config.ConnectDatabaseWithRetry()
		s := NewGormStore(db)
		if err := s.Migrate(ctx); err != nil {
			config.LogError(logger, "storage", "Open", "migrate snapshots table", nil, err)
			return nil, nil, err
		}
		return s, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil
	}
	logger.Warn("SNAPSHOT_BACKEND=memory; inventory is lost on restart")
	return NewMemoryStore(), func() {}, nil
}
