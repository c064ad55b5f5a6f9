package reports

import (
	"time"

	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/utils"
	"github.com/shopspring/decimal"
)

type MonthlyMaterialResponse struct {
	Month          string          `json:"month"`
	ReceivedWeight decimal.Decimal `json:"receivedWeight"`
	LotsReceived   int             `json:"lotsReceived"`
	ConsumedWeight decimal.Decimal `json:"consumedWeight"`
	UsageCount     int             `json:"usageCount"`
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// entryWeightDelta is oldValue − newValue of a usage entry, zero when either is unreadable.
func entryWeightDelta(e models.ActivityEntry) decimal.Decimal {
	before, ok := utils.DecimalFromAny(e.OldValue)
	if !ok {
		return decimal.Zero
	}
	after, ok := utils.DecimalFromAny(e.NewValue)
	if !ok {
		return decimal.Zero
	}
	return before.Sub(after)
}

// GetThisMonth summarises receiving and usage in the month of snap.TakenAt.
func GetThisMonth(snap models.InventorySnapshot) *MonthlyMaterialResponse {
	start, end := utils.MonthRange(snap.TakenAt)
	resp := &MonthlyMaterialResponse{
		Month:          start.Format("2006-01"),
		ReceivedWeight: decimal.Zero,
		ConsumedWeight: decimal.Zero,
	}
	for _, lot := range snap.RawMaterials {
		if inRange(lot.DateReceived.In(start.Location()), start, end) {
			resp.ReceivedWeight = resp.ReceivedWeight.Add(lot.StartingWeight)
			resp.LotsReceived++
		}
	}
	for _, e := range snap.Activities {
		if e.Action != models.ActionMaterialUsed || !inRange(e.Timestamp.In(start.Location()), start, end) {
			continue
		}
		resp.ConsumedWeight = resp.ConsumedWeight.Add(entryWeightDelta(e))
		resp.UsageCount++
	}
	return resp
}
