package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/mmdatafocus/plant_inventory/config"
	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	snapshotLockKey = "lock:snapshots"
	snapshotLockTTL = 30 * time.Second
)

// RedisStore keeps each snapshot as a JSON string under its key.
type RedisStore struct {
	client *redis.Client
	locker *redislock.Client
	logger *logrus.Logger
}

var _ models.BatchSnapshotStore = (*RedisStore)(nil)

// NewRedisStore uses locker to serialize multi-key flushes; a nil locker disables the guard.
func NewRedisStore(client *redis.Client, locker *redislock.Client) *RedisStore {
	return &RedisStore{client: client, locker: locker, logger: config.GetLogger()}
}

func (s *RedisStore) Load(ctx context.Context, key string, dest any) (bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, 0).Err()
}

// SaveAll writes all values in one MULTI/EXEC. When the lock cannot be obtained
// the write still goes ahead.
func (s *RedisStore) SaveAll(ctx context.Context, values map[string]any) error {
	encoded, err := encodeAll(values)
	if err != nil {
		return err
	}

	if lock := s.obtain(ctx); lock != nil {
		defer func() {
			_ = lock.Release(ctx)
		}()
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, b := range encoded {
			pipe.Set(ctx, k, b, 0)
		}
		return nil
	})
	return err
}

func (s *RedisStore) obtain(ctx context.Context) *redislock.Lock {
	if s.locker == nil {
		return nil
	}
	lock, err := s.locker.Obtain(ctx, snapshotLockKey, snapshotLockTTL, nil)
	if err == redislock.ErrNotObtained {
		s.logger.WithField("lock", snapshotLockKey).Warn("could not obtain snapshot lock; proceeding without lock")
		return nil
	} else if err != nil {
		config.LogError(s.logger, "RedisStore", "SaveAll", "obtain snapshot lock", snapshotLockKey, err)
		return nil
	}
	return lock
}
