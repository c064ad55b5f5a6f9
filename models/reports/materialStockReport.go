package reports

import (
	"sort"

	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/utils"
	"github.com/shopspring/decimal"
)

type MaterialStockResponse struct {
	RawMaterial string           `json:"rawMaterial"`
	Vendor      string           `json:"vendor"`
	TotalWeight decimal.Decimal  `json:"totalWeight"`
	MinQuantity decimal.Decimal  `json:"minQuantity"`
	DaysOfCover *decimal.Decimal `json:"daysOfCover"`
	LowStock    bool             `json:"lowStock"`
}

// daysOfCover is total / (usagePerBatch × avgBatchesPerDay); nil when no usage is configured.
func daysOfCover(total decimal.Decimal, mc models.MaterialConfig) *decimal.Decimal {
	perDay := mc.UsagePerBatch.Mul(mc.AvgBatchesPerDay)
	if !perDay.IsPositive() {
		return nil
	}
	days := total.Div(perDay).Round(1)
	return &days
}

// GetMaterialStock lists every configured or stocked material with its total
// against the configured minimum. Low stock rows come first.
func GetMaterialStock(snap models.InventorySnapshot) []MaterialStockResponse {
	totals := models.StockByMaterial(snap.RawMaterials)

	names := append([]string{}, snap.Settings.RawMaterials...)
	for name := range totals {
		if !utils.Contains(names, name) {
			names = append(names, name)
		}
	}

	rows := make([]MaterialStockResponse, 0, len(names))
	for _, name := range names {
		mc := snap.Settings.MaterialValues[name]
		total := totals[name]
		rows = append(rows, MaterialStockResponse{
			RawMaterial: name,
			Vendor:      mc.Vendor,
			TotalWeight: total,
			MinQuantity: mc.MinQuantity,
			DaysOfCover: daysOfCover(total, mc),
			LowStock:    mc.MinQuantity.IsPositive() && total.LessThan(mc.MinQuantity),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].LowStock != rows[j].LowStock {
			return rows[i].LowStock
		}
		return rows[i].RawMaterial < rows[j].RawMaterial
	})
	return rows
}
