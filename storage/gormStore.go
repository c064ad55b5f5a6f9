package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mmdatafocus/plant_inventory/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshot is one stored document of the snapshots table.
type Snapshot struct {
	Key       string    `gorm:"primaryKey;size:100"`
	Value     []byte    `gorm:"type:longblob;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// GormStore keeps snapshots in a MySQL table through gorm.
type GormStore struct {
	db *gorm.DB
}

var _ models.BatchSnapshotStore = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&Snapshot{})
}

func (s *GormStore) Load(ctx context.Context, key string, dest any) (bool, error) {
	var row Snapshot
	err := s.db.WithContext(ctx).Where("`key` = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(row.Value, dest); err != nil {
		return false, err
	}
	return true, nil
}

func upsert(tx *gorm.DB, key string, value []byte) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Snapshot{Key: key, Value: value}).Error
}

func (s *GormStore) Save(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return upsert(s.db.WithContext(ctx), key, b)
}

// SaveAll upserts every value inside one transaction.
func (s *GormStore) SaveAll(ctx context.Context, values map[string]any) error {
	encoded, err := encodeAll(values)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for k, b := range encoded {
			if err := upsert(tx, k, b); err != nil {
				return err
			}
		}
		return nil
	})
}
