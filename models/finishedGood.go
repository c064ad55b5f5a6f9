package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/plant_inventory/utils"
)

type FinishedGood struct {
	ID              int       `json:"id"`
	ProductId       string    `json:"productId"`
	Product         Product   `json:"product"`
	Colour          string    `json:"colour"`
	Type            LotType   `json:"type"`
	NumberOfBundles int       `json:"numberOfBundles"`
	Warehouse       Warehouse `json:"warehouse"`
	Stage           Stage     `json:"stage"`
	DateCreated     time.Time `json:"dateCreated"`
	Shift           string    `json:"shift"`
	LeadHandName    string    `json:"leadHandName"`
}

func (f FinishedGood) GetId() int {
	return f.ID
}

type NewFinishedGood struct {
	LeadHandName    string  `json:"leadHandName"`
	Product         Product `json:"product" validate:"required"`
	Colour          string  `json:"colour" validate:"required"`
	Type            LotType `json:"type" validate:"required"`
	Shift           string  `json:"shift"`
	NumberOfBundles int     `json:"numberOfBundles" validate:"gt=0"`
}

func (input *NewFinishedGood) validate(settings Settings) error {
	input.Colour = strings.TrimSpace(input.Colour)
	input.LeadHandName = strings.TrimSpace(input.LeadHandName)
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.Product.IsValid() {
		return utils.Invalidf("invalid product %q", input.Product)
	}
	if !input.Type.IsValid() {
		return utils.Invalidf("invalid type %q", input.Type)
	}
	if !settings.HasColour(input.Colour) {
		return utils.Invalidf("colour %q is not configured", input.Colour)
	}
	return nil
}

// FinishedGoodPatch carries only the fields being edited. Warehouse moves go through Transfer.
type FinishedGoodPatch struct {
	Product         *Product   `json:"product"`
	Colour          *string    `json:"colour"`
	Type            *LotType   `json:"type"`
	NumberOfBundles *int       `json:"numberOfBundles"`
	Warehouse       *Warehouse `json:"warehouse"`
	Stage           *Stage     `json:"stage"`
	Shift           *string    `json:"shift"`
	LeadHandName    *string    `json:"leadHandName"`
}

type FinishedGoodsLedger struct {
	lots      []FinishedGood
	now       func() time.Time
	randChars func() string
}

func NewFinishedGoodsLedger(lots []FinishedGood, now func() time.Time) *FinishedGoodsLedger {
	if now == nil {
		now = time.Now
	}
	return &FinishedGoodsLedger{
		lots:      append([]FinishedGood(nil), lots...),
		now:       now,
		randChars: randomUpper3,
	}
}

const productIdAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// randomUpper3 draws three base36 characters from a random UUID.
func randomUpper3() string {
	u := uuid.New()
	out := make([]byte, 3)
	for i := range out {
		out[i] = productIdAlphabet[int(u[i])%len(productIdAlphabet)]
	}
	return string(out)
}

func (l *FinishedGoodsLedger) Lots() []FinishedGood {
	return append([]FinishedGood(nil), l.lots...)
}

func (l *FinishedGoodsLedger) indexById(id int) int {
	for i := range l.lots {
		if l.lots[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *FinishedGoodsLedger) Get(id int) (FinishedGood, error) {
	i := l.indexById(id)
	if i < 0 {
		return FinishedGood{}, utils.NotFoundf("warehouse item %d", id)
	}
	return l.lots[i], nil
}

// ByProductId returns every lot of one production lineage.
func (l *FinishedGoodsLedger) ByProductId(productId string) []FinishedGood {
	var out []FinishedGood
	for _, lot := range l.lots {
		if lot.ProductId == productId {
			out = append(out, lot)
		}
	}
	return out
}

func (l *FinishedGoodsLedger) productIdTaken(productId string) bool {
	for _, lot := range l.lots {
		if lot.ProductId == productId {
			return true
		}
	}
	return false
}

// newProductId builds PID<last 6 digits of unix millis><3 random chars>, retrying until unused.
func (l *FinishedGoodsLedger) newProductId(taken map[string]bool) string {
	for {
		id := fmt.Sprintf("PID%06d%s", l.now().UnixMilli()%1000000, l.randChars())
		if !taken[id] && !l.productIdTaken(id) {
			return id
		}
	}
}

func (l *FinishedGoodsLedger) produce(input NewFinishedGood, productId string) (FinishedGood, NewActivity) {
	lot := FinishedGood{
		ID:              NextId(l.lots),
		ProductId:       productId,
		Product:         input.Product,
		Colour:          input.Colour,
		Type:            input.Type,
		NumberOfBundles: input.NumberOfBundles,
		Warehouse:       ProductionWarehouse,
		Stage:           DefaultStage,
		DateCreated:     l.now(),
		Shift:           input.Shift,
		LeadHandName:    input.LeadHandName,
	}
	l.lots = append(l.lots, lot)

	return lot, NewActivity{
		User:     UserLeadHand,
		Action:   ActionProductionAdded,
		ItemId:   lot.ProductId,
		Value:    lot.NumberOfBundles,
		NewValue: lot.NumberOfBundles,
		Details: fmt.Sprintf("Product ID: %s, %s - %s (%s), %d bundles",
			lot.ProductId, lot.Product, lot.Colour, lot.Type, lot.NumberOfBundles),
		ReferenceId: fmt.Sprint(lot.ID),
	}
}

func (l *FinishedGoodsLedger) Produce(input NewFinishedGood, settings Settings) (FinishedGood, NewActivity, error) {
	if err := input.validate(settings); err != nil {
		return FinishedGood{}, NewActivity{}, err
	}
	lot, activity := l.produce(input, l.newProductId(nil))
	return lot, activity, nil
}

func (l *FinishedGoodsLedger) Edit(id int, patch FinishedGoodPatch, settings Settings) (FinishedGood, *NewActivity, error) {
	i := l.indexById(id)
	if i < 0 {
		return FinishedGood{}, nil, utils.NotFoundf("warehouse item %d", id)
	}
	original := l.lots[i]
	updated := original
	changes := map[string]FieldChange{}

	if patch.Warehouse != nil && *patch.Warehouse != original.Warehouse {
		return FinishedGood{}, nil, utils.Invalidf("warehouse cannot be edited, use transfer")
	}
	if patch.Product != nil && *patch.Product != original.Product {
		if !patch.Product.IsValid() {
			return FinishedGood{}, nil, utils.Invalidf("invalid product %q", *patch.Product)
		}
		changes["product"] = FieldChange{From: original.Product, To: *patch.Product}
		updated.Product = *patch.Product
	}
	if patch.Colour != nil {
		v := strings.TrimSpace(*patch.Colour)
		if v != original.Colour {
			if v == "" || !settings.HasColour(v) {
				return FinishedGood{}, nil, utils.Invalidf("colour %q is not configured", v)
			}
			changes["colour"] = FieldChange{From: original.Colour, To: v}
			updated.Colour = v
		}
	}
	if patch.Type != nil && *patch.Type != original.Type {
		if !patch.Type.IsValid() {
			return FinishedGood{}, nil, utils.Invalidf("invalid type %q", *patch.Type)
		}
		changes["type"] = FieldChange{From: original.Type, To: *patch.Type}
		updated.Type = *patch.Type
	}
	if patch.NumberOfBundles != nil && *patch.NumberOfBundles != original.NumberOfBundles {
		if *patch.NumberOfBundles < 0 {
			return FinishedGood{}, nil, utils.Invalidf("numberOfBundles must not be negative")
		}
		changes["numberOfBundles"] = FieldChange{From: original.NumberOfBundles, To: *patch.NumberOfBundles}
		updated.NumberOfBundles = *patch.NumberOfBundles
	}
	if patch.Stage != nil && *patch.Stage != original.Stage {
		if !patch.Stage.IsValid() {
			return FinishedGood{}, nil, utils.Invalidf("invalid stage %q", *patch.Stage)
		}
		changes["stage"] = FieldChange{From: original.Stage, To: *patch.Stage}
		updated.Stage = *patch.Stage
	}
	if patch.Shift != nil && *patch.Shift != original.Shift {
		changes["shift"] = FieldChange{From: original.Shift, To: *patch.Shift}
		updated.Shift = *patch.Shift
	}
	if patch.LeadHandName != nil && *patch.LeadHandName != original.LeadHandName {
		changes["leadHandName"] = FieldChange{From: original.LeadHandName, To: *patch.LeadHandName}
		updated.LeadHandName = *patch.LeadHandName
	}
	if len(changes) == 0 {
		return original, nil, nil
	}

	l.lots[i] = updated
	return updated, &NewActivity{
		User:         UserWarehouseManager,
		Action:       ActionWarehouseUpdated,
		ItemId:       original.ProductId,
		FieldChanged: changedFieldNames(changes),
		Changes:      changes,
		Details:      describeChanges("Product ID: "+original.ProductId, changes),
		ReferenceId:  fmt.Sprint(original.ID),
	}, nil
}

// partition moves quantity bundles of lot i into a new sibling sharing its productId.
func (l *FinishedGoodsLedger) partition(i int, quantity int, warehouse Warehouse) (FinishedGood, FinishedGood) {
	sibling := l.lots[i]
	sibling.ID = NextId(l.lots)
	sibling.NumberOfBundles = quantity
	sibling.Warehouse = warehouse
	l.lots[i].NumberOfBundles -= quantity
	l.lots = append(l.lots, sibling)
	return l.lots[i], sibling
}

// Split returns the remaining original and the new sibling.
func (l *FinishedGoodsLedger) Split(id int, quantity int) (FinishedGood, FinishedGood, NewActivity, error) {
	i := l.indexById(id)
	if i < 0 {
		return FinishedGood{}, FinishedGood{}, NewActivity{}, utils.NotFoundf("warehouse item %d", id)
	}
	total := l.lots[i].NumberOfBundles
	if quantity <= 0 || quantity >= total {
		return FinishedGood{}, FinishedGood{}, NewActivity{}, utils.Invalidf("split quantity must be between 1 and %d", total-1)
	}

	original, sibling := l.partition(i, quantity, l.lots[i].Warehouse)
	return original, sibling, NewActivity{
		User:        UserWarehouseManager,
		Action:      ActionWarehouseSplit,
		ItemId:      original.ProductId,
		Value:       quantity,
		OldValue:    total,
		NewValue:    original.NumberOfBundles,
		Details:     fmt.Sprintf("Product ID: %s, Split %d bundles from %d total", original.ProductId, quantity, total),
		ReferenceId: fmt.Sprint(sibling.ID),
	}, nil
}

// Transfer moves quantity bundles to target. A full transfer relocates the lot in place;
// a partial one leaves the remainder behind and returns it as the second value.
func (l *FinishedGoodsLedger) Transfer(id int, quantity int, target Warehouse) (FinishedGood, *FinishedGood, NewActivity, error) {
	i := l.indexById(id)
	if i < 0 {
		return FinishedGood{}, nil, NewActivity{}, utils.NotFoundf("warehouse item %d", id)
	}
	lot := l.lots[i]
	if quantity < 1 {
		return FinishedGood{}, nil, NewActivity{}, utils.Invalidf("transfer quantity must be at least 1")
	}
	if quantity > lot.NumberOfBundles {
		return FinishedGood{}, nil, NewActivity{}, utils.Invalidf("transfer quantity %d exceeds %d available", quantity, lot.NumberOfBundles)
	}
	if !target.IsValid() {
		return FinishedGood{}, nil, NewActivity{}, utils.Invalidf("invalid warehouse %q", target)
	}
	if target == lot.Warehouse {
		return FinishedGood{}, nil, NewActivity{}, utils.Invalidf("transfers cannot be made within the same warehouse")
	}

	activity := NewActivity{
		User:         UserWarehouseManager,
		Action:       ActionWarehouseTransfer,
		ItemId:       lot.ProductId,
		FieldChanged: "warehouse",
		Value:        quantity,
		OldValue:     lot.Warehouse,
		NewValue:     target,
		Details: fmt.Sprintf("Product ID: %s, Transferred %d bundles from %s to %s",
			lot.ProductId, quantity, lot.Warehouse, target),
	}

	if quantity == lot.NumberOfBundles {
		l.lots[i].Warehouse = target
		activity.ReferenceId = fmt.Sprint(lot.ID)
		return l.lots[i], nil, activity, nil
	}

	remainder, moved := l.partition(i, quantity, target)
	activity.ReferenceId = fmt.Sprint(moved.ID)
	return moved, &remainder, activity, nil
}

func (l *FinishedGoodsLedger) Delete(id int) (FinishedGood, NewActivity, error) {
	i := l.indexById(id)
	if i < 0 {
		return FinishedGood{}, NewActivity{}, utils.NotFoundf("warehouse item %d", id)
	}
	lot := l.lots[i]
	l.lots = append(l.lots[:i:i], l.lots[i+1:]...)

	return lot, NewActivity{
		User:     UserWarehouseManager,
		Action:   ActionWarehouseDeleted,
		ItemId:   lot.ProductId,
		OldValue: lot.NumberOfBundles,
		Details: fmt.Sprintf("Product ID: %s, %s - %s (%s), %d bundles",
			lot.ProductId, lot.Product, lot.Colour, lot.Type, lot.NumberOfBundles),
		ReferenceId: fmt.Sprint(lot.ID),
	}, nil
}
