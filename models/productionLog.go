package models

import (
	"encoding/json"
	"strings"

	"github.com/mmdatafocus/plant_inventory/utils"
)

type BatchRow struct {
	Colour      string `json:"colour"`
	BatchesMade int    `json:"batchesMade"`
}

// LeadHandLog is the end-of-shift production sheet.
type LeadHandLog struct {
	LeadHandName    string            `json:"leadHandName" validate:"required"`
	Shift           string            `json:"shift"`
	Line1Production int               `json:"line1Production" validate:"gte=0"`
	Line1Scrap      int               `json:"line1Scrap" validate:"gte=0"`
	Line2Production int               `json:"line2Production" validate:"gte=0"`
	Line2Scrap      int               `json:"line2Scrap" validate:"gte=0"`
	Bundles         []NewFinishedGood `json:"bundles"`
	Batches         []BatchRow        `json:"batches"`
	BinLevels       map[string]any    `json:"binLevels"`
	Disposal        map[string]any    `json:"disposal"`
	AverageWeight   map[string]any    `json:"averageTileWeight"`
	Downtime        map[string]any    `json:"downtime"`
}

// bundleRows drops blank rows and fills the sheet-level lead hand and shift.
func (input *LeadHandLog) bundleRows() []NewFinishedGood {
	rows := make([]NewFinishedGood, 0, len(input.Bundles))
	for _, b := range input.Bundles {
		if strings.TrimSpace(string(b.Product)) == "" {
			continue
		}
		b.LeadHandName = input.LeadHandName
		b.Shift = input.Shift
		rows = append(rows, b)
	}
	return rows
}

func (input *LeadHandLog) validate(settings Settings) ([]NewFinishedGood, error) {
	input.LeadHandName = strings.TrimSpace(input.LeadHandName)
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	rows := input.bundleRows()
	for i := range rows {
		if err := rows[i].validate(settings); err != nil {
			return nil, utils.Invalidf("bundle row %d: %s", i+1, strings.TrimPrefix(err.Error(), utils.ErrorValidation.Error()+": "))
		}
	}
	for i, b := range input.Batches {
		if b.BatchesMade < 0 {
			return nil, utils.Invalidf("batch row %d: batchesMade must not be negative", i+1)
		}
	}
	return rows, nil
}

func jsonString(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// formData flattens the sheet; nested sections are stored as JSON strings.
func (input LeadHandLog) formData() map[string]any {
	bundles := input.Bundles
	if bundles == nil {
		bundles = []NewFinishedGood{}
	}
	batches := input.Batches
	if batches == nil {
		batches = []BatchRow{}
	}
	return map[string]any{
		"leadHandName":      input.LeadHandName,
		"shift":             input.Shift,
		"line1Production":   input.Line1Production,
		"line1Scrap":        input.Line1Scrap,
		"line2Production":   input.Line2Production,
		"line2Scrap":        input.Line2Scrap,
		"bundles":           jsonString(bundles),
		"batches":           jsonString(batches),
		"binLevels":         jsonString(input.BinLevels),
		"disposal":          jsonString(input.Disposal),
		"averageTileWeight": jsonString(input.AverageWeight),
		"downtime":          jsonString(input.Downtime),
	}
}

// RecordProductionLog produces one lot per bundle row and returns their audit drafts
// followed by the sheet's own "Lead Hand Log" draft. Every row is checked first.
func (l *FinishedGoodsLedger) RecordProductionLog(input LeadHandLog, settings Settings) ([]FinishedGood, []NewActivity, error) {
	rows, err := input.validate(settings)
	if err != nil {
		return nil, nil, err
	}

	lots := make([]FinishedGood, 0, len(rows))
	activities := make([]NewActivity, 0, len(rows)+1)
	taken := map[string]bool{}
	for _, row := range rows {
		productId := l.newProductId(taken)
		taken[productId] = true
		lot, activity := l.produce(row, productId)
		lots = append(lots, lot)
		activities = append(activities, activity)
	}

	activities = append(activities, NewActivity{
		User:     leadHandUser(input.LeadHandName),
		Action:   ActionLeadHandLog,
		Value:    len(lots),
		Details:  "Lead hand log submitted",
		FormData: input.formData(),
	})
	return lots, activities, nil
}
