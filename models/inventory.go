package models

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mmdatafocus/plant_inventory/config"
	"github.com/mmdatafocus/plant_inventory/utils"
	"github.com/sirupsen/logrus"
)

// Inventory owns every collection of the plant. Each mutating operation validates,
// mutates one ledger, appends its activity entry and then saves the touched snapshots.
type Inventory struct {
	mu       sync.Mutex
	store    SnapshotStore
	notifier NotificationSink
	logger   *logrus.Logger
	now      func() time.Time

	settings Settings
	raw      *RawMaterialLedger
	goods    *FinishedGoodsLedger
	activity *ActivityLog
}

type Option func(*Inventory)

func WithStore(store SnapshotStore) Option {
	return func(inv *Inventory) { inv.store = store }
}

func WithNotifier(n NotificationSink) Option {
	return func(inv *Inventory) { inv.notifier = n }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(inv *Inventory) { inv.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(inv *Inventory) { inv.now = now }
}

func NewInventory(opts ...Option) *Inventory {
	inv := &Inventory{
		logger:   config.GetLogger(),
		now:      time.Now,
		settings: DefaultSettings(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	inv.raw = NewRawMaterialLedger(nil, nil, inv.now)
	inv.goods = NewFinishedGoodsLedger(nil, inv.now)
	inv.activity = NewActivityLog(nil, inv.now)
	return inv
}

// Load replaces in-memory state with the stored snapshots. Missing or unreadable
// documents fall back to their defaults.
func (inv *Inventory) Load(ctx context.Context) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.store == nil {
		return
	}

	settings := loadSnapshot(ctx, inv, SnapshotKeySettings, DefaultSettings)
	if settings.Recipes == nil {
		settings.Recipes = RecipeBook{}
	}
	if settings.MaterialValues == nil {
		settings.MaterialValues = map[string]MaterialConfig{}
	}
	lots := loadSnapshot[[]RawMaterial](ctx, inv, SnapshotKeyRawMaterials, nil)
	checkouts := loadSnapshot[[]RawMaterialCheckout](ctx, inv, SnapshotKeyCheckouts, nil)
	goods := loadSnapshot[[]FinishedGood](ctx, inv, SnapshotKeyFinishedGoods, nil)
	entries := loadSnapshot[[]ActivityEntry](ctx, inv, SnapshotKeyActivityLog, nil)

	inv.settings = settings
	inv.raw = NewRawMaterialLedger(lots, checkouts, inv.now)
	inv.goods = NewFinishedGoodsLedger(goods, inv.now)
	inv.activity = NewActivityLog(entries, inv.now)

	inv.logger.WithFields(logrus.Fields{
		"raw_materials":  len(lots),
		"finished_goods": len(goods),
		"activities":     len(entries),
	}).Info("inventory loaded")
}

// loadSnapshot decodes key into a fresh value seeded by def. A missing or
// unreadable document yields def() untouched.
func loadSnapshot[T any](ctx context.Context, inv *Inventory, key string, def func() T) T {
	fallback := func() T {
		var zero T
		if def != nil {
			return def()
		}
		return zero
	}
	decoded := fallback()
	found, err := inv.store.Load(ctx, key, &decoded)
	if err != nil {
		config.LogError(inv.logger, "Inventory", "Load", "load snapshot", key, err)
		return fallback()
	}
	if !found {
		return fallback()
	}
	return decoded
}

func (inv *Inventory) snapshotValue(key string) any {
	switch key {
	case SnapshotKeySettings:
		return inv.settings
	case SnapshotKeyRawMaterials:
		return inv.raw.lots
	case SnapshotKeyCheckouts:
		return inv.raw.checkouts
	case SnapshotKeyFinishedGoods:
		return inv.goods.lots
	case SnapshotKeyActivityLog:
		return inv.activity.entries
	}
	return nil
}

// persist saves the given collections plus the activity log. Failures are logged only.
func (inv *Inventory) persist(ctx context.Context, keys ...string) {
	if inv.store == nil {
		return
	}
	values := map[string]any{SnapshotKeyActivityLog: inv.activity.entries}
	for _, k := range keys {
		values[k] = inv.snapshotValue(k)
	}
	if batch, ok := inv.store.(BatchSnapshotStore); ok {
		if err := batch.SaveAll(ctx, values); err != nil {
			config.LogError(inv.logger, "Inventory", "persist", "save snapshots", keys, err)
		}
		return
	}
	for k, v := range values {
		if err := inv.store.Save(ctx, k, v); err != nil {
			config.LogError(inv.logger, "Inventory", "persist", "save snapshot", k, err)
		}
	}
}

func (inv *Inventory) record(ctx context.Context, draft NewActivity) ActivityEntry {
	if !strings.HasPrefix(draft.User, UserLeadHand) {
		draft.User = utils.UserNameOr(ctx, draft.User)
	}
	entry := inv.activity.Append(draft)
	fields := logrus.Fields{
		"activity_id": entry.ID,
		"action":      entry.Action,
		"item_id":     entry.ItemId,
		"user":        entry.User,
	}
	if cid, ok := utils.GetCorrelationIdFromContext(ctx); ok {
		fields["correlation_id"] = cid
	}
	inv.logger.WithFields(fields).Info("activity recorded")
	return entry
}

func (inv *Inventory) Settings() Settings {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.settings.Copy()
}

func (inv *Inventory) UpdateSettings(ctx context.Context, input NewSettings) (Settings, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if err := input.validate(); err != nil {
		return Settings{}, err
	}
	inv.settings = input.toSettings()
	inv.record(ctx, NewActivity{
		User:    UserAdministrator,
		Action:  ActionSettingsUpdated,
		Details: "System configuration updated",
	})
	inv.persist(ctx, SnapshotKeySettings)
	return inv.settings.Copy(), nil
}

func (inv *Inventory) RawMaterials() []RawMaterial {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.raw.Lots()
}

func (inv *Inventory) GetRawMaterial(id int) (RawMaterial, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.raw.Get(id)
}

func (inv *Inventory) FindRawMaterialByBarcode(barcode string) (RawMaterial, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.raw.FindByBarcode(barcode)
}

func (inv *Inventory) ReceiveRawMaterial(ctx context.Context, input NewRawMaterial) (RawMaterial, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	lot, draft, err := inv.raw.Receive(input, inv.settings)
	if err != nil {
		return RawMaterial{}, err
	}
	inv.record(ctx, draft)
	inv.persist(ctx, SnapshotKeyRawMaterials)
	return lot, nil
}

func (inv *Inventory) ConsumeRawMaterial(ctx context.Context, usage RawMaterialUsage) (RawMaterial, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	lot, draft, err := inv.raw.Consume(usage)
	if err != nil {
		return RawMaterial{}, err
	}
	inv.record(ctx, draft)
	inv.persist(ctx, SnapshotKeyRawMaterials)
	inv.notifyNote(ctx, usage.Notes)
	return lot, nil
}

func (inv *Inventory) notifyNote(ctx context.Context, notes string) {
	notes = strings.TrimSpace(notes)
	if notes == "" || inv.notifier == nil {
		return
	}
	recipients := append([]string(nil), inv.settings.EmailAddresses...)
	if err := inv.notifier.Notify(ctx, recipients, leadHandNoteSubject, "Note: "+notes); err != nil {
		config.LogError(inv.logger, "Inventory", "notifyNote", "notify recipients", recipients, err)
	}
}

func (inv *Inventory) OpenCheckouts() []RawMaterialCheckout {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.raw.OpenCheckouts()
}

func (inv *Inventory) CheckoutRawMaterial(ctx context.Context, input NewRawMaterialCheckout) (RawMaterialCheckout, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	checkout, draft, err := inv.raw.Checkout(input)
	if err != nil {
		return RawMaterialCheckout{}, err
	}
	inv.record(ctx, draft)
	inv.persist(ctx, SnapshotKeyCheckouts)
	return checkout, nil
}

func (inv *Inventory) CheckinRawMaterial(ctx context.Context, input RawMaterialCheckin) (RawMaterial, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	lot, draft, usage, err := inv.raw.Checkin(input)
	if err != nil {
		return RawMaterial{}, err
	}
	inv.record(ctx, draft)
	inv.persist(ctx, SnapshotKeyRawMaterials, SnapshotKeyCheckouts)
	inv.notifyNote(ctx, usage.Notes)
	return lot, nil
}

func (inv *Inventory) EditRawMaterial(ctx context.Context, id int, patch RawMaterialPatch) (RawMaterial, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	lot, draft, err := inv.raw.Edit(id, patch, inv.settings)
	if err != nil {
		return RawMaterial{}, err
	}
	if draft != nil {
		inv.record(ctx, *draft)
		inv.persist(ctx, SnapshotKeyRawMaterials)
	}
	return lot, nil
}

func (inv *Inventory) DeleteRawMaterial(ctx context.Context, id int) (RawMaterial, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	lot, draft, err := inv.raw.Delete(id)
	if err != nil {
		return RawMaterial{}, err
	}
	inv.record(ctx, draft)
	inv.persist(ctx, SnapshotKeyRawMaterials)
	return lot, nil
}

func (inv *Inventory) FinishedGoods() []FinishedGood {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.goods.Lots()
}

func (inv *Inventory) GetFinishedGood(id int) (FinishedGood, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.goods.Get(id)
}

func (inv *Inventory) ProduceFinishedGood(ctx context.Context, input NewFinishedGood) (FinishedGood, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	lot, draft, err := inv.goods.Produce(input, inv.settings)
	if err != nil {
		return FinishedGood{}, err
	}
	inv.record(ctx, draft)
	inv.persist(ctx, SnapshotKeyFinishedGoods)
	return lot, nil
}

// RecordLeadHandLog records one "Production Added" entry per bundle row and one "Lead Hand Log" entry.
func (inv *Inventory) RecordLeadHandLog(ctx context.Context, input LeadHandLog) ([]FinishedGood, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	lots, drafts, err := inv.goods.RecordProductionLog(input, inv.settings)
	if err != nil {
		return nil, err
	}
	for _, d := range drafts {
		inv.record(ctx, d)
	}
	inv.persist(ctx, SnapshotKeyFinishedGoods)
	return lots, nil
}

func (inv *Inventory) EditFinishedGood(ctx context.Context, id int, patch FinishedGoodPatch) (FinishedGood, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	lot, draft, err := inv.goods.Edit(id, patch, inv.settings)
	if err != nil {
		return FinishedGood{}, err
	}
	if draft != nil {
		inv.record(ctx, *draft)
		inv.persist(ctx, SnapshotKeyFinishedGoods)
	}
	return lot, nil
}

func (inv *Inventory) SplitFinishedGood(ctx context.Context, id int, quantity int) (FinishedGood, FinishedGood, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	original, sibling, draft, err := inv.goods.Split(id, quantity)
	if err != nil {
		return FinishedGood{}, FinishedGood{}, err
	}
	inv.record(ctx, draft)
	inv.persist(ctx, SnapshotKeyFinishedGoods)
	return original, sibling, nil
}

func (inv *Inventory) TransferFinishedGood(ctx context.Context, id int, quantity int, target Warehouse) (FinishedGood, *FinishedGood, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	moved, remainder, draft, err := inv.goods.Transfer(id, quantity, target)
	if err != nil {
		return FinishedGood{}, nil, err
	}
	inv.record(ctx, draft)
	inv.persist(ctx, SnapshotKeyFinishedGoods)
	return moved, remainder, nil
}

func (inv *Inventory) DeleteFinishedGood(ctx context.Context, id int) (FinishedGood, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	lot, draft, err := inv.goods.Delete(id)
	if err != nil {
		return FinishedGood{}, err
	}
	inv.record(ctx, draft)
	inv.persist(ctx, SnapshotKeyFinishedGoods)
	return lot, nil
}

func (inv *Inventory) Activities(filter ActivityFilter) []ActivityEntry {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.activity.Query(filter)
}

func (inv *Inventory) UpdateActivityComment(ctx context.Context, id string, comment string) (*ActivityEntry, bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	entry, ok := inv.activity.UpdateComment(id, comment)
	if !ok {
		return nil, false
	}
	inv.persist(ctx)
	return entry, true
}

// ExportActivities renders the filtered log. A failed export is logged and yields an empty result.
func (inv *Inventory) ExportActivities(filter ActivityFilter, format ExportFormat) []byte {
	inv.mu.Lock()
	entries := inv.activity.Query(filter)
	inv.mu.Unlock()

	data, err := ExportActivities(entries, format)
	if err != nil {
		config.LogError(inv.logger, "Inventory", "ExportActivities", "export activity log", format, err)
		return []byte{}
	}
	return data
}

func (inv *Inventory) Plan(req PlanRequest) (PlanResult, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return EvaluatePlan(req, inv.raw.lots, inv.settings.Recipes, inv.settings.MaterialValues)
}

// InventorySnapshot is a read-only copy of all state, used by reports.
type InventorySnapshot struct {
	Settings      Settings        `json:"settings"`
	RawMaterials  []RawMaterial   `json:"rawMaterials"`
	FinishedGoods []FinishedGood  `json:"finishedGoods"`
	Activities    []ActivityEntry `json:"activities"`
	TakenAt       time.Time       `json:"takenAt"`
}

func (inv *Inventory) Snapshot() InventorySnapshot {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return InventorySnapshot{
		Settings:      inv.settings.Copy(),
		RawMaterials:  inv.raw.Lots(),
		FinishedGoods: inv.goods.Lots(),
		Activities:    inv.activity.Entries(),
		TakenAt:       inv.now(),
	}
}
