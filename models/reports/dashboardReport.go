package reports

import (
	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/shopspring/decimal"
)

const recentActivityCount = 5

const (
	LotStatusLowStock = "Low Stock"
	LotStatusMedium   = "Medium"
	LotStatusGood     = "Good"
)

var mediumStockLevel = decimal.NewFromFloat(0.5)

type LotStockResponse struct {
	ID            int             `json:"id"`
	Barcode       string          `json:"barcode"`
	RawMaterial   string          `json:"rawMaterial"`
	CurrentWeight decimal.Decimal `json:"currentWeight"`
	Percentage    decimal.Decimal `json:"percentage"`
	Status        string          `json:"status"`
}

type DashboardResponse struct {
	TotalRawWeight       decimal.Decimal        `json:"totalRawWeight"`
	TotalFinishedBundles int                    `json:"totalFinishedBundles"`
	ActiveLots           int                    `json:"activeLots"`
	LowStockLots         []LotStockResponse     `json:"lowStockLots"`
	RecentActivity       []models.ActivityEntry `json:"recentActivity"`
}

// LotStatus grades a lot by its remaining share of the starting weight.
func LotStatus(lot models.RawMaterial, lowStockLevel decimal.Decimal) (string, decimal.Decimal) {
	if !lot.StartingWeight.IsPositive() {
		return LotStatusGood, decimal.NewFromInt(1)
	}
	pct := lot.CurrentWeight.Div(lot.StartingWeight)
	switch {
	case pct.LessThan(lowStockLevel):
		return LotStatusLowStock, pct
	case pct.LessThan(mediumStockLevel):
		return LotStatusMedium, pct
	}
	return LotStatusGood, pct
}

func GetDashboard(snap models.InventorySnapshot) *DashboardResponse {
	resp := &DashboardResponse{
		TotalRawWeight: decimal.Zero,
		LowStockLots:   []LotStockResponse{},
	}
	level := snap.Settings.LowStockAlertLevel
	for _, lot := range snap.RawMaterials {
		resp.TotalRawWeight = resp.TotalRawWeight.Add(lot.CurrentWeight)
		if lot.CurrentWeight.IsPositive() {
			resp.ActiveLots++
		}
		status, pct := LotStatus(lot, level)
		if status != LotStatusLowStock {
			continue
		}
		resp.LowStockLots = append(resp.LowStockLots, LotStockResponse{
			ID:            lot.ID,
			Barcode:       lot.Barcode,
			RawMaterial:   lot.RawMaterial,
			CurrentWeight: lot.CurrentWeight,
			Percentage:    pct.Mul(decimal.NewFromInt(100)).Round(1),
			Status:        status,
		})
	}
	for _, g := range snap.FinishedGoods {
		resp.TotalFinishedBundles += g.NumberOfBundles
	}

	recent := snap.Activities
	if len(recent) > recentActivityCount {
		recent = recent[:recentActivityCount]
	}
	resp.RecentActivity = append([]models.ActivityEntry{}, recent...)
	return resp
}
