package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmdatafocus/plant_inventory/utils"
	"github.com/shopspring/decimal"
)

// RawMaterialCheckout is the open half of a two-step usage: the bag was weighed
// on the way to the line and will be weighed again on return.
type RawMaterialCheckout struct {
	ID           int             `json:"id"`
	Barcode      string          `json:"barcode"`
	LeadHandName string          `json:"leadHandName"`
	WeightIn     decimal.Decimal `json:"weightIn"`
	CheckedOutAt time.Time       `json:"checkedOutAt"`
	ClosedAt     *time.Time      `json:"closedAt"`
}

func (c RawMaterialCheckout) GetId() int {
	return c.ID
}

func (c RawMaterialCheckout) IsOpen() bool {
	return c.ClosedAt == nil
}

type NewRawMaterialCheckout struct {
	Barcode      string          `json:"barcode" validate:"required"`
	LeadHandName string          `json:"leadHandName" validate:"required"`
	WeightIn     decimal.Decimal `json:"weightIn"`
}

type RawMaterialCheckin struct {
	CheckoutId        int             `json:"checkoutId" validate:"gt=0"`
	WeightOut         decimal.Decimal `json:"weightOut"`
	EstimatedSpillage decimal.Decimal `json:"estimatedSpillage"`
	FinishedBag       bool            `json:"finishedBag"`
	Notes             string          `json:"notes"`
}

func (l *RawMaterialLedger) Checkouts() []RawMaterialCheckout {
	return append([]RawMaterialCheckout(nil), l.checkouts...)
}

func (l *RawMaterialLedger) OpenCheckouts() []RawMaterialCheckout {
	var open []RawMaterialCheckout
	for _, c := range l.checkouts {
		if c.IsOpen() {
			open = append(open, c)
		}
	}
	return open
}

func (l *RawMaterialLedger) Checkout(input NewRawMaterialCheckout) (RawMaterialCheckout, NewActivity, error) {
	input.Barcode = strings.TrimSpace(input.Barcode)
	input.LeadHandName = strings.TrimSpace(input.LeadHandName)
	if err := utils.ValidateStruct(input); err != nil {
		return RawMaterialCheckout{}, NewActivity{}, err
	}
	if input.WeightIn.IsNegative() {
		return RawMaterialCheckout{}, NewActivity{}, utils.Invalidf("weightIn must not be negative")
	}
	lot, err := l.FindByBarcode(input.Barcode)
	if err != nil {
		return RawMaterialCheckout{}, NewActivity{}, err
	}

	checkout := RawMaterialCheckout{
		ID:           NextId(l.checkouts),
		Barcode:      lot.Barcode,
		LeadHandName: input.LeadHandName,
		WeightIn:     input.WeightIn,
		CheckedOutAt: l.now(),
	}
	l.checkouts = append(l.checkouts, checkout)

	return checkout, NewActivity{
		User:         leadHandUser(input.LeadHandName),
		Action:       ActionInitialWeight,
		ItemId:       lot.Barcode,
		FieldChanged: "weightIn",
		Value:        input.WeightIn,
		Details:      fmt.Sprintf("Barcode: %s, Initial Weight: %s lbs", lot.Barcode, input.WeightIn.String()),
		ReferenceId:  fmt.Sprint(checkout.ID),
	}, nil
}

// Checkin closes an open checkout and consumes the difference from the lot.
func (l *RawMaterialLedger) Checkin(input RawMaterialCheckin) (RawMaterial, NewActivity, RawMaterialUsage, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return RawMaterial{}, NewActivity{}, RawMaterialUsage{}, err
	}
	idx := -1
	for i := range l.checkouts {
		if l.checkouts[i].ID == input.CheckoutId {
			idx = i
			break
		}
	}
	if idx < 0 {
		return RawMaterial{}, NewActivity{}, RawMaterialUsage{}, utils.NotFoundf("checkout %d", input.CheckoutId)
	}
	if !l.checkouts[idx].IsOpen() {
		return RawMaterial{}, NewActivity{}, RawMaterialUsage{}, utils.Invalidf("checkout %d is already closed", input.CheckoutId)
	}

	checkout := l.checkouts[idx]
	usage := RawMaterialUsage{
		Barcode:           checkout.Barcode,
		LeadHandName:      checkout.LeadHandName,
		WeightIn:          checkout.WeightIn,
		WeightOut:         input.WeightOut,
		EstimatedSpillage: input.EstimatedSpillage,
		FinishedBag:       input.FinishedBag,
		Notes:             input.Notes,
	}
	lot, activity, err := l.Consume(usage)
	if err != nil {
		return RawMaterial{}, NewActivity{}, RawMaterialUsage{}, err
	}
	closedAt := l.now()
	l.checkouts[idx].ClosedAt = &closedAt
	activity.FormData["checkoutId"] = checkout.ID
	return lot, activity, usage, nil
}
