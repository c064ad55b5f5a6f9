package reports

import (
	"encoding/json"
	"sort"

	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/utils"
	"github.com/shopspring/decimal"
)

type DailyProductionRow struct {
	Date            string `json:"date"`
	Sheets          int    `json:"sheets"`
	BatchesMade     int64  `json:"batchesMade"`
	Bundles         int64  `json:"bundles"`
	Line1Production int64  `json:"line1Production"`
	Line1Scrap      int64  `json:"line1Scrap"`
	Line2Production int64  `json:"line2Production"`
	Line2Scrap      int64  `json:"line2Scrap"`
}

func (r *DailyProductionRow) add(o DailyProductionRow) {
	r.Sheets += o.Sheets
	r.BatchesMade += o.BatchesMade
	r.Bundles += o.Bundles
	r.Line1Production += o.Line1Production
	r.Line1Scrap += o.Line1Scrap
	r.Line2Production += o.Line2Production
	r.Line2Scrap += o.Line2Scrap
}

type ProductionSummaryResponse struct {
	Month string               `json:"month"`
	Days  []DailyProductionRow `json:"days"`
	Total DailyProductionRow   `json:"total"`
}

func formInt(form map[string]any, key string) int64 {
	d, ok := utils.DecimalFromAny(form[key])
	if !ok {
		return 0
	}
	return d.IntPart()
}

// sumRows adds field over the rows of a form section stored as a JSON string.
func sumRows(form map[string]any, key string, field string) int64 {
	var rows []map[string]any
	switch v := form[key].(type) {
	case string:
		if v == "" || json.Unmarshal([]byte(v), &rows) != nil {
			return 0
		}
	case []any:
		for _, r := range v {
			if m, ok := r.(map[string]any); ok {
				rows = append(rows, m)
			}
		}
	default:
		return 0
	}
	total := decimal.Zero
	for _, row := range rows {
		if d, ok := utils.DecimalFromAny(row[field]); ok {
			total = total.Add(d)
		}
	}
	return total.IntPart()
}

func sheetRow(e models.ActivityEntry) DailyProductionRow {
	form := e.FormData
	return DailyProductionRow{
		Sheets:          1,
		BatchesMade:     sumRows(form, "batches", "batchesMade"),
		Bundles:         sumRows(form, "bundles", "numberOfBundles"),
		Line1Production: formInt(form, "line1Production"),
		Line1Scrap:      formInt(form, "line1Scrap"),
		Line2Production: formInt(form, "line2Production"),
		Line2Scrap:      formInt(form, "line2Scrap"),
	}
}

// GetProductionSummary groups this month's lead hand sheets by day.
func GetProductionSummary(snap models.InventorySnapshot) *ProductionSummaryResponse {
	start, end := utils.MonthRange(snap.TakenAt)
	byDay := map[string]*DailyProductionRow{}
	for _, e := range snap.Activities {
		ts := e.Timestamp.In(start.Location())
		if e.Action != models.ActionLeadHandLog || !inRange(ts, start, end) {
			continue
		}
		day := ts.Format("2006-01-02")
		row, ok := byDay[day]
		if !ok {
			row = &DailyProductionRow{Date: day}
			byDay[day] = row
		}
		row.add(sheetRow(e))
	}

	resp := &ProductionSummaryResponse{
		Month: start.Format("2006-01"),
		Days:  make([]DailyProductionRow, 0, len(byDay)),
	}
	for _, row := range byDay {
		resp.Days = append(resp.Days, *row)
		resp.Total.add(*row)
	}
	sort.Slice(resp.Days, func(i, j int) bool { return resp.Days[i].Date < resp.Days[j].Date })
	return resp
}
