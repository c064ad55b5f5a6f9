package models

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mmdatafocus/plant_inventory/utils"
)

func sampleLeadHandLog() LeadHandLog {
	return LeadHandLog{
		LeadHandName:    "Sam",
		Shift:           "Second",
		Line1Production: 420,
		Line1Scrap:      12,
		Line2Production: 380,
		Line2Scrap:      9,
		Bundles: []NewFinishedGood{
			{Product: ProductEnviroshake, Colour: "Cedar Blend", Type: LotTypeBundle, NumberOfBundles: 30},
			{Product: "", Colour: "", Type: "", NumberOfBundles: 0},
			{Product: ProductEnviroslate, Colour: "Storm Grey", Type: LotTypeCap2_3, NumberOfBundles: 8},
		},
		Batches:   []BatchRow{{Colour: "Cedar Blend", BatchesMade: 4}, {Colour: "Storm Grey", BatchesMade: 2}},
		BinLevels: map[string]any{"pp": 40, "pe": 10},
		Downtime:  map[string]any{"line1Type": "Scheduled", "line1Minutes": "15"},
	}
}

func TestRecordLeadHandLog_ProducesRowsAndLogsSheet(t *testing.T) {
	inv := newTestInventory()
	lots, err := inv.RecordLeadHandLog(context.Background(), sampleLeadHandLog())
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(lots) != 2 {
		t.Fatalf("blank rows are skipped, expected 2 lots, got %d", len(lots))
	}
	if lots[0].ProductId == lots[1].ProductId {
		t.Fatalf("each row gets its own product id")
	}
	if lots[1].Shift != "Second" || lots[1].LeadHandName != "Sam" {
		t.Fatalf("sheet shift and lead hand must be copied: %+v", lots[1])
	}

	entries := inv.Activities(ActivityFilter{})
	if len(entries) != 3 {
		t.Fatalf("expected 2 production entries and 1 sheet entry, got %d", len(entries))
	}
	sheet := entries[0]
	if sheet.Action != ActionLeadHandLog || sheet.User != "Lead Hand - Sam" {
		t.Fatalf("unexpected sheet entry %+v", sheet)
	}
	if sheet.FormData["line1Production"] != 420 {
		t.Fatalf("form data must hold the sheet, got %#v", sheet.FormData)
	}
	var batches []BatchRow
	if err := json.Unmarshal([]byte(sheet.FormData["batches"].(string)), &batches); err != nil || len(batches) != 2 {
		t.Fatalf("batches must be stored as a JSON string: %v", err)
	}
}

func TestRecordLeadHandLog_InvalidRowRejectsWholeSheet(t *testing.T) {
	inv := newTestInventory()
	input := sampleLeadHandLog()
	input.Bundles[2].Colour = "Neon"

	_, err := inv.RecordLeadHandLog(context.Background(), input)
	if !errors.Is(err, utils.ErrorValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(inv.FinishedGoods()) != 0 || len(inv.Activities(ActivityFilter{})) != 0 {
		t.Fatalf("rejected sheet must not produce anything")
	}

	input = sampleLeadHandLog()
	input.LeadHandName = " "
	if _, err := inv.RecordLeadHandLog(context.Background(), input); !errors.Is(err, utils.ErrorValidation) {
		t.Fatalf("missing lead hand expected validation error, got %v", err)
	}
}
