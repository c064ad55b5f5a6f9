package models

import "context"

// Snapshot keys, one JSON document per collection.
const (
	SnapshotKeySettings      = "enviroshake_settings"
	SnapshotKeyRawMaterials  = "enviroshake_rawMaterials"
	SnapshotKeyCheckouts     = "enviroshake_rawMaterialCheckouts"
	SnapshotKeyFinishedGoods = "enviroshake_warehouseInventory"
	SnapshotKeyActivityLog   = "enviroshake_activityHistory"
)

var SnapshotKeys = []string{
	SnapshotKeySettings,
	SnapshotKeyRawMaterials,
	SnapshotKeyCheckouts,
	SnapshotKeyFinishedGoods,
	SnapshotKeyActivityLog,
}

// SnapshotStore is a key -> JSON document store. Load reports found=false for a missing key.
type SnapshotStore interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

// BatchSnapshotStore writes several documents as one unit.
type BatchSnapshotStore interface {
	SnapshotStore
	SaveAll(ctx context.Context, values map[string]any) error
}
