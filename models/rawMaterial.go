package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mmdatafocus/plant_inventory/utils"
	"github.com/shopspring/decimal"
)

type RawMaterial struct {
	ID             int             `json:"id"`
	Barcode        string          `json:"barcode"`
	PoNumber       string          `json:"poNumber"`
	RawMaterial    string          `json:"rawMaterial"`
	Vendor         string          `json:"vendor"`
	BagsReceived   int             `json:"bagsReceived"`
	StartingWeight decimal.Decimal `json:"startingWeight"`
	CurrentWeight  decimal.Decimal `json:"currentWeight"`
	BagsAvailable  int             `json:"bagsAvailable"`
	DateReceived   time.Time       `json:"dateReceived"`
	DateCreated    time.Time       `json:"dateCreated"`
	LastUsed       *time.Time      `json:"lastUsed"`
}

func (r RawMaterial) GetId() int {
	return r.ID
}

type NewRawMaterial struct {
	PoNumber       string          `json:"poNumber" validate:"required"`
	RawMaterial    string          `json:"rawMaterial" validate:"required"`
	Vendor         string          `json:"vendor" validate:"required"`
	BagsReceived   int             `json:"bagsReceived" validate:"gt=0"`
	StartingWeight decimal.Decimal `json:"startingWeight"`
	DateReceived   *time.Time      `json:"dateReceived"`
}

func (input *NewRawMaterial) validate(settings Settings) error {
	input.PoNumber = strings.TrimSpace(input.PoNumber)
	input.RawMaterial = strings.TrimSpace(input.RawMaterial)
	input.Vendor = strings.TrimSpace(input.Vendor)
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.StartingWeight.IsNegative() {
		return utils.Invalidf("startingWeight must not be negative")
	}
	if !settings.HasRawMaterial(input.RawMaterial) {
		return utils.Invalidf("raw material %q is not configured", input.RawMaterial)
	}
	return nil
}

type RawMaterialUsage struct {
	Barcode           string          `json:"barcode" validate:"required"`
	LeadHandName      string          `json:"leadHandName"`
	WeightIn          decimal.Decimal `json:"weightIn"`
	WeightOut         decimal.Decimal `json:"weightOut"`
	EstimatedSpillage decimal.Decimal `json:"estimatedSpillage"`
	FinishedBag       bool            `json:"finishedBag"`
	Notes             string          `json:"notes"`
	Date              *time.Time      `json:"date"`
}

// weightUsed is weightIn - weightOut - spillage; it must not be negative.
func (input *RawMaterialUsage) weightUsed() (decimal.Decimal, error) {
	input.Barcode = strings.TrimSpace(input.Barcode)
	if err := utils.ValidateStruct(input); err != nil {
		return decimal.Zero, err
	}
	if input.WeightIn.IsNegative() || input.WeightOut.IsNegative() || input.EstimatedSpillage.IsNegative() {
		return decimal.Zero, utils.Invalidf("weights must not be negative")
	}
	used := input.WeightIn.Sub(input.WeightOut).Sub(input.EstimatedSpillage)
	if used.IsNegative() {
		return decimal.Zero, utils.Invalidf("weight out plus spillage exceeds weight in")
	}
	return used, nil
}

// RawMaterialPatch carries only the fields being edited. Barcode and startingWeight are fixed.
type RawMaterialPatch struct {
	PoNumber      *string          `json:"poNumber"`
	RawMaterial   *string          `json:"rawMaterial"`
	Vendor        *string          `json:"vendor"`
	BagsReceived  *int             `json:"bagsReceived"`
	BagsAvailable *int             `json:"bagsAvailable"`
	CurrentWeight *decimal.Decimal `json:"currentWeight"`
	DateReceived  *time.Time       `json:"dateReceived"`
}

type RawMaterialLedger struct {
	lots      []RawMaterial
	checkouts []RawMaterialCheckout
	now       func() time.Time
}

func NewRawMaterialLedger(lots []RawMaterial, checkouts []RawMaterialCheckout, now func() time.Time) *RawMaterialLedger {
	if now == nil {
		now = time.Now
	}
	return &RawMaterialLedger{
		lots:      append([]RawMaterial(nil), lots...),
		checkouts: append([]RawMaterialCheckout(nil), checkouts...),
		now:       now,
	}
}

func (l *RawMaterialLedger) Lots() []RawMaterial {
	return append([]RawMaterial(nil), l.lots...)
}

func (l *RawMaterialLedger) indexById(id int) int {
	for i := range l.lots {
		if l.lots[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *RawMaterialLedger) indexByBarcode(barcode string) int {
	for i := range l.lots {
		if l.lots[i].Barcode == barcode {
			return i
		}
	}
	return -1
}

func (l *RawMaterialLedger) Get(id int) (RawMaterial, error) {
	i := l.indexById(id)
	if i < 0 {
		return RawMaterial{}, utils.NotFoundf("raw material %d", id)
	}
	return l.lots[i], nil
}

func (l *RawMaterialLedger) FindByBarcode(barcode string) (RawMaterial, error) {
	i := l.indexByBarcode(strings.TrimSpace(barcode))
	if i < 0 {
		return RawMaterial{}, utils.NotFoundf("barcode %s", barcode)
	}
	return l.lots[i], nil
}

// barcodeAt builds BAR<last 4 digits of unix millis>PO<poNumber>.
func barcodeAt(t time.Time, poNumber string) string {
	return fmt.Sprintf("BAR%04dPO%s", t.UnixMilli()%10000, poNumber)
}

func (l *RawMaterialLedger) uniqueBarcode(at time.Time, poNumber string) (string, error) {
	for i := 0; i < 10000; i++ {
		code := barcodeAt(at.Add(time.Duration(i)*time.Millisecond), poNumber)
		if l.indexByBarcode(code) < 0 {
			return code, nil
		}
	}
	return "", utils.Invalidf("no free barcode left for PO %s", poNumber)
}

func (l *RawMaterialLedger) Receive(input NewRawMaterial, settings Settings) (RawMaterial, NewActivity, error) {
	if err := input.validate(settings); err != nil {
		return RawMaterial{}, NewActivity{}, err
	}
	now := l.now()
	barcode, err := l.uniqueBarcode(now, input.PoNumber)
	if err != nil {
		return RawMaterial{}, NewActivity{}, err
	}
	received := now
	if input.DateReceived != nil && !input.DateReceived.IsZero() {
		received = *input.DateReceived
	}

	lot := RawMaterial{
		ID:             NextId(l.lots),
		Barcode:        barcode,
		PoNumber:       input.PoNumber,
		RawMaterial:    input.RawMaterial,
		Vendor:         input.Vendor,
		BagsReceived:   input.BagsReceived,
		StartingWeight: input.StartingWeight,
		CurrentWeight:  input.StartingWeight,
		BagsAvailable:  input.BagsReceived,
		DateReceived:   received,
		DateCreated:    now,
	}
	l.lots = append(l.lots, lot)

	return lot, NewActivity{
		User:     UserPurchasingManager,
		Action:   ActionRawMaterialReceived,
		ItemId:   lot.Barcode,
		Value:    lot.StartingWeight,
		NewValue: lot.CurrentWeight,
		Details: fmt.Sprintf("PO: %s, %s, %d bags, %s lbs",
			lot.PoNumber, lot.RawMaterial, lot.BagsReceived, lot.StartingWeight.String()),
		ReferenceId: lot.PoNumber,
	}, nil
}

// Consume deducts a usage from the lot. Usage beyond the remaining weight clamps to zero.
func (l *RawMaterialLedger) Consume(input RawMaterialUsage) (RawMaterial, NewActivity, error) {
	used, err := input.weightUsed()
	if err != nil {
		return RawMaterial{}, NewActivity{}, err
	}
	i := l.indexByBarcode(input.Barcode)
	if i < 0 {
		return RawMaterial{}, NewActivity{}, utils.NotFoundf("barcode %s", input.Barcode)
	}

	usedAt := l.now()
	if input.Date != nil && !input.Date.IsZero() {
		usedAt = *input.Date
	}
	lot := &l.lots[i]
	before := lot.CurrentWeight
	lot.CurrentWeight = decimal.Max(decimal.Zero, before.Sub(used))
	if input.FinishedBag && lot.BagsAvailable > 0 {
		lot.BagsAvailable--
	}
	lot.LastUsed = &usedAt

	finished := "No"
	if input.FinishedBag {
		finished = "Yes"
	}
	notes := strings.TrimSpace(input.Notes)
	details := fmt.Sprintf("Barcode: %s, Used: %s lbs, Spillage: %s lbs, Finished Bag: %s",
		lot.Barcode, used.StringFixed(1), input.EstimatedSpillage.String(), finished)
	if notes != "" {
		details += ", Notes: " + notes
	}

	return *lot, NewActivity{
		User:         leadHandUser(input.LeadHandName),
		Action:       ActionMaterialUsed,
		ItemId:       lot.Barcode,
		FieldChanged: "currentWeight",
		Value:        used,
		OldValue:     before,
		NewValue:     lot.CurrentWeight,
		Details:      details,
		ReferenceId:  lot.PoNumber,
		FormData: map[string]any{
			"weightIn":          input.WeightIn,
			"weightOut":         input.WeightOut,
			"estimatedSpillage": input.EstimatedSpillage,
			"finishedBag":       finished,
			"notes":             notes,
		},
	}, nil
}

// Edit applies patch to lot id. A patch that changes nothing returns a nil activity.
func (l *RawMaterialLedger) Edit(id int, patch RawMaterialPatch, settings Settings) (RawMaterial, *NewActivity, error) {
	i := l.indexById(id)
	if i < 0 {
		return RawMaterial{}, nil, utils.NotFoundf("raw material %d", id)
	}
	original := l.lots[i]
	updated := original
	changes := map[string]FieldChange{}

	if patch.PoNumber != nil {
		v := strings.TrimSpace(*patch.PoNumber)
		if v == "" {
			return RawMaterial{}, nil, utils.Invalidf("poNumber must not be empty")
		}
		if v != original.PoNumber {
			changes["poNumber"] = FieldChange{From: original.PoNumber, To: v}
			updated.PoNumber = v
		}
	}
	if patch.RawMaterial != nil {
		v := strings.TrimSpace(*patch.RawMaterial)
		if v == "" || !settings.HasRawMaterial(v) {
			return RawMaterial{}, nil, utils.Invalidf("raw material %q is not configured", v)
		}
		if v != original.RawMaterial {
			changes["rawMaterial"] = FieldChange{From: original.RawMaterial, To: v}
			updated.RawMaterial = v
		}
	}
	if patch.Vendor != nil {
		v := strings.TrimSpace(*patch.Vendor)
		if v == "" {
			return RawMaterial{}, nil, utils.Invalidf("vendor must not be empty")
		}
		if v != original.Vendor {
			changes["vendor"] = FieldChange{From: original.Vendor, To: v}
			updated.Vendor = v
		}
	}
	if patch.BagsReceived != nil && *patch.BagsReceived != original.BagsReceived {
		changes["bagsReceived"] = FieldChange{From: original.BagsReceived, To: *patch.BagsReceived}
		updated.BagsReceived = *patch.BagsReceived
	}
	if patch.BagsAvailable != nil && *patch.BagsAvailable != original.BagsAvailable {
		changes["bagsAvailable"] = FieldChange{From: original.BagsAvailable, To: *patch.BagsAvailable}
		updated.BagsAvailable = *patch.BagsAvailable
	}
	if patch.CurrentWeight != nil && !patch.CurrentWeight.Equal(original.CurrentWeight) {
		changes["currentWeight"] = FieldChange{From: original.CurrentWeight, To: *patch.CurrentWeight}
		updated.CurrentWeight = *patch.CurrentWeight
	}
	if patch.DateReceived != nil && !patch.DateReceived.Equal(original.DateReceived) {
		changes["dateReceived"] = FieldChange{From: original.DateReceived, To: *patch.DateReceived}
		updated.DateReceived = *patch.DateReceived
	}

	if updated.BagsReceived < 0 {
		return RawMaterial{}, nil, utils.Invalidf("bagsReceived must not be negative")
	}
	if updated.BagsAvailable < 0 || updated.BagsAvailable > updated.BagsReceived {
		return RawMaterial{}, nil, utils.Invalidf("bagsAvailable must be between 0 and %d", updated.BagsReceived)
	}
	if updated.CurrentWeight.IsNegative() || updated.CurrentWeight.GreaterThan(updated.StartingWeight) {
		return RawMaterial{}, nil, utils.Invalidf("currentWeight must be between 0 and %s", updated.StartingWeight.String())
	}
	if len(changes) == 0 {
		return original, nil, nil
	}

	l.lots[i] = updated
	itemId := "Barcode: " + original.Barcode
	return updated, &NewActivity{
		User:         UserInventoryManager,
		Action:       ActionRawMaterialUpdated,
		ItemId:       original.Barcode,
		FieldChanged: changedFieldNames(changes),
		Changes:      changes,
		Details:      describeChanges(itemId, changes),
		ReferenceId:  updated.PoNumber,
	}, nil
}

func (l *RawMaterialLedger) Delete(id int) (RawMaterial, NewActivity, error) {
	i := l.indexById(id)
	if i < 0 {
		return RawMaterial{}, NewActivity{}, utils.NotFoundf("raw material %d", id)
	}
	lot := l.lots[i]
	l.lots = append(l.lots[:i:i], l.lots[i+1:]...)

	return lot, NewActivity{
		User:        UserInventoryManager,
		Action:      ActionRawMaterialDeleted,
		ItemId:      lot.Barcode,
		OldValue:    lot.CurrentWeight,
		Details:     fmt.Sprintf("Barcode: %s, %s, PO: %s", lot.Barcode, lot.RawMaterial, lot.PoNumber),
		ReferenceId: lot.PoNumber,
	}, nil
}

// StockByMaterial sums currentWeight per raw material name.
func StockByMaterial(lots []RawMaterial) map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{}
	for _, lot := range lots {
		totals[lot.RawMaterial] = totals[lot.RawMaterial].Add(lot.CurrentWeight)
	}
	return totals
}

func changedFieldNames(changes map[string]FieldChange) string {
	names := make([]string, 0, len(changes))
	for k := range changes {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// describeChanges renders `<item> - field: "from" -> "to", ...` in field order.
func describeChanges(itemId string, changes map[string]FieldChange) string {
	names := make([]string, 0, len(changes))
	for k := range changes {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, k := range names {
		c := changes[k]
		parts = append(parts, fmt.Sprintf("%s: %q -> %q", k, cellText(c.From), cellText(c.To)))
	}
	return itemId + " - " + strings.Join(parts, ", ")
}
