package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func seededLog() *ActivityLog {
	log := NewActivityLog(nil, steppingClock(testEpoch, time.Hour))
	log.Append(NewActivity{User: UserPurchasingManager, Action: ActionRawMaterialReceived, ItemId: "BAR0001PO1"})
	log.Append(NewActivity{User: "Lead Hand - Ana", Action: ActionMaterialUsed, ItemId: "BAR0001PO1", Comment: "Second bag was wet"})
	log.Append(NewActivity{User: UserPurchasingManager, Action: ActionRawMaterialReceived, ItemId: "BAR0002PO2"})
	log.Append(NewActivity{User: UserWarehouseManager, Action: ActionWarehouseSplit, ItemId: "PID000001AAA", FieldChanged: "numberOfBundles"})
	return log
}

func TestActivityLog_AppendIsMostRecentFirst(t *testing.T) {
	log := seededLog()
	entries := log.Entries()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if !entries[i-1].Timestamp.After(entries[i].Timestamp) {
			t.Fatalf("entries not most-recent-first at %d", i)
		}
		if entries[i-1].ID <= entries[i].ID {
			t.Fatalf("ids must sort by insertion: %s <= %s", entries[i-1].ID, entries[i].ID)
		}
	}
	if entries[0].Action != ActionWarehouseSplit {
		t.Fatalf("latest entry expected first, got %s", entries[0].Action)
	}
}

func TestActivityLog_QueryFiltersCombineWithAnd(t *testing.T) {
	log := seededLog()
	start := testEpoch.Add(90 * time.Minute)
	end := testEpoch.Add(3 * time.Hour)

	got := log.Query(ActivityFilter{Action: ActionRawMaterialReceived, Start: &start, End: &end})
	if len(got) != 1 || got[0].ItemId != "BAR0002PO2" {
		t.Fatalf("expected only the second receipt, got %+v", got)
	}

	inclusive := testEpoch
	got = log.Query(ActivityFilter{Start: &inclusive, End: &inclusive})
	if len(got) != 1 || got[0].ItemId != "BAR0001PO1" {
		t.Fatalf("range bounds must be inclusive, got %+v", got)
	}

	got = log.Query(ActivityFilter{ItemId: "BAR0001PO1", User: "Lead Hand - Ana"})
	if len(got) != 1 || got[0].Action != ActionMaterialUsed {
		t.Fatalf("item+user filter mismatch: %+v", got)
	}

	if got = log.Query(ActivityFilter{Search: "WET"}); len(got) != 1 {
		t.Fatalf("search must match comments case-insensitively, got %d", len(got))
	}
	if got = log.Query(ActivityFilter{Search: "bundles"}); len(got) != 1 {
		t.Fatalf("search must match fieldChanged, got %d", len(got))
	}
	if got = log.Query(ActivityFilter{Search: "po2"}); len(got) != 1 {
		t.Fatalf("search must match item id, got %d", len(got))
	}
	if got = log.Query(ActivityFilter{Search: "wet", Action: ActionRawMaterialReceived}); len(got) != 0 {
		t.Fatalf("search and action must intersect, got %d", len(got))
	}
	if got = log.Query(ActivityFilter{}); len(got) != 4 {
		t.Fatalf("empty filter must return everything, got %d", len(got))
	}
}

func TestActivityLog_UpdateCommentIsIdempotent(t *testing.T) {
	log := seededLog()
	target := log.Entries()[2]

	first, ok := log.UpdateComment(target.ID, "checked by QA")
	if !ok {
		t.Fatalf("expected entry to be found")
	}
	second, ok := log.UpdateComment(target.ID, "checked by QA")
	if !ok {
		t.Fatalf("expected entry to be found")
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("repeated update must yield the same record:\n%s\n%s", a, b)
	}
	if first.Action != target.Action || first.ItemId != target.ItemId || !first.Timestamp.Equal(target.Timestamp) || first.Details != target.Details {
		t.Fatalf("only comment may change: %+v vs %+v", first, target)
	}

	missing, ok := log.UpdateComment("does-not-exist", "x")
	if ok || missing != nil {
		t.Fatalf("missing id must return nil, false")
	}
	if log.Len() != 4 {
		t.Fatalf("update must not add entries")
	}
}

func TestExportActivities_CSVQuotesEveryField(t *testing.T) {
	entries := []ActivityEntry{{
		ID:        "id-1",
		Timestamp: testEpoch,
		User:      "Lead Hand - Ana",
		Action:    ActionMaterialUsed,
		ItemId:    "BAR0001PO1",
		Value:     dec("12.5"),
		Comment:   `said "ok", then left`,
		FormData:  map[string]any{"notes": "x"},
	}}
	data, err := ExportActivities(entries, ExportFormatCSV)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "id,timestamp,user,action,itemId,fieldChanged,value,oldValue,newValue,comment,referenceId,formData" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	want := `"id-1","2026-03-02T08:00:00Z","Lead Hand - Ana","Material Used","BAR0001PO1","","12.5","","","said ""ok"", then left","","{""notes"":""x""}"`
	if lines[1] != want {
		t.Fatalf("unexpected row\n got: %s\nwant: %s", lines[1], want)
	}
}

func TestExportActivities_JSONAndXLSX(t *testing.T) {
	log := seededLog()

	data, err := ExportActivities(log.Entries(), ExportFormatJSON)
	if err != nil {
		t.Fatalf("json export: %v", err)
	}
	var decoded []ActivityEntry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json export not parseable: %v", err)
	}
	if len(decoded) != 4 || !strings.Contains(string(data), "\n  {") {
		t.Fatalf("expected pretty printed array of 4 entries")
	}

	empty, err := ExportActivities(nil, ExportFormatJSON)
	if err != nil || string(empty) != "[]" {
		t.Fatalf("empty export expected [], got %q (%v)", empty, err)
	}

	xlsx, err := ExportActivities(log.Entries(), ExportFormatXLSX)
	if err != nil {
		t.Fatalf("xlsx export: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(xlsx))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	header, _ := f.GetCellValue("Sheet1", "L1")
	if header != "formData" {
		t.Fatalf("expected formData in L1, got %q", header)
	}
	action, _ := f.GetCellValue("Sheet1", "D2")
	if action != ActionWarehouseSplit {
		t.Fatalf("expected latest action in D2, got %q", action)
	}

	if _, err := ExportActivities(nil, "pdf"); err == nil {
		t.Fatalf("unknown format must fail")
	}
}

func TestParseExportFormat(t *testing.T) {
	cases := map[string]ExportFormat{"": ExportFormatCSV, "CSV": ExportFormatCSV, "json": ExportFormatJSON, " xlsx ": ExportFormatXLSX}
	for in, want := range cases {
		got, err := ParseExportFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseExportFormat(%q) expected %s, got %s (%v)", in, want, got, err)
		}
	}
	if _, err := ParseExportFormat("pdf"); err == nil {
		t.Fatalf("pdf must be rejected")
	}
}

func TestActivityLog_ReturnedEntriesDoNotAliasMaps(t *testing.T) {
	log := NewActivityLog(nil, steppingClock(testEpoch, time.Hour))
	log.Append(NewActivity{
		User:     UserWarehouseManager,
		Action:   ActionProductionAdded,
		ItemId:   "PID000001AAA",
		Changes:  map[string]FieldChange{"stage": {From: "Available", To: "Released"}},
		FormData: map[string]any{"shift": "Day"},
	})

	for _, entries := range [][]ActivityEntry{log.Entries(), log.Query(ActivityFilter{}), log.Recent(1)} {
		entries[0].Changes["stage"] = FieldChange{From: "x", To: "y"}
		entries[0].FormData["shift"] = "Night"
	}
	updated, ok := log.UpdateComment(log.Entries()[0].ID, "checked")
	if !ok {
		t.Fatalf("expected entry to exist")
	}
	updated.FormData["shift"] = "Night"

	stored := log.Entries()[0]
	if stored.Changes["stage"].To != "Released" {
		t.Fatalf("changes were rewritten through a returned copy: %+v", stored.Changes)
	}
	if stored.FormData["shift"] != "Day" {
		t.Fatalf("form data was rewritten through a returned copy: %+v", stored.FormData)
	}
}
