package storage

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/mmdatafocus/plant_inventory/models"
)

func TestMemoryStore_LoadSave(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var lots []models.RawMaterial
	found, err := s.Load(ctx, models.SnapshotKeyRawMaterials, &lots)
	if err != nil || found {
		t.Fatalf("missing key must report not found, got %v %v", found, err)
	}

	saved := []models.RawMaterial{{ID: 1, Barcode: "BAR0001PO7"}}
	if err := s.Save(ctx, models.SnapshotKeyRawMaterials, saved); err != nil {
		t.Fatalf("save: %v", err)
	}
	saved[0].Barcode = "mutated"

	found, err = s.Load(ctx, models.SnapshotKeyRawMaterials, &lots)
	if err != nil || !found {
		t.Fatalf("expected stored document, got %v %v", found, err)
	}
	if len(lots) != 1 || lots[0].Barcode != "BAR0001PO7" {
		t.Fatalf("loaded value must not alias the saved one, got %+v", lots)
	}
}

func TestMemoryStore_SaveAllIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.SaveAll(ctx, map[string]any{
		models.SnapshotKeySettings:    models.DefaultSettings(),
		models.SnapshotKeyActivityLog: math.Inf(1),
	})
	if err == nil {
		t.Fatalf("expected encode error")
	}
	if len(s.Keys()) != 0 {
		t.Fatalf("nothing may be stored when one value fails, got %v", s.Keys())
	}

	if err := s.SaveAll(ctx, map[string]any{
		models.SnapshotKeySettings:    models.DefaultSettings(),
		models.SnapshotKeyActivityLog: []models.ActivityEntry{},
	}); err != nil {
		t.Fatalf("save all: %v", err)
	}
	keys := s.Keys()
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != models.SnapshotKeyActivityLog {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestMemoryStore_LoadIntoWrongType(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Save(ctx, "k", "text"); err != nil {
		t.Fatalf("save: %v", err)
	}
	var n []int
	found, err := s.Load(ctx, "k", &n)
	if found || err == nil {
		t.Fatalf("expected decode error, got %v %v", found, err)
	}
}

func TestMemoryStore_BacksInventory(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	inv := models.NewInventory(models.WithStore(s))
	if _, err := inv.ReceiveRawMaterial(ctx, models.NewRawMaterial{PoNumber: "12", RawMaterial: "Wax", Vendor: "AWF", BagsReceived: 2}); err != nil {
		t.Fatalf("receive: %v", err)
	}

	reloaded := models.NewInventory(models.WithStore(s))
	reloaded.Load(ctx)
	if len(reloaded.RawMaterials()) != 1 || len(reloaded.Activities(models.ActivityFilter{})) != 1 {
		t.Fatalf("expected lot and entry to survive reload")
	}
}
