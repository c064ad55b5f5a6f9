package reports

import (
	"sort"
	"strings"

	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/utils"
)

type WarehouseFilter struct {
	Warehouse models.Warehouse `form:"warehouse" json:"warehouse"`
	Stage     models.Stage     `form:"stage" json:"stage"`
}

func (f WarehouseFilter) validate() error {
	if f.Warehouse != "" && !f.Warehouse.IsValid() {
		return utils.Invalidf("invalid warehouse %q", f.Warehouse)
	}
	if f.Stage != "" && !f.Stage.IsValid() {
		return utils.Invalidf("invalid stage %q", f.Stage)
	}
	return nil
}

func (f WarehouseFilter) matches(g models.FinishedGood) bool {
	if f.Warehouse != "" && g.Warehouse != f.Warehouse {
		return false
	}
	if f.Stage != "" && g.Stage != f.Stage {
		return false
	}
	return true
}

type WarehouseTotalResponse struct {
	Label   string `json:"label"`
	Bundles int    `json:"bundles"`
	Lots    int    `json:"lots"`
}

type WarehouseSummaryResponse struct {
	Warehouse models.Warehouse         `json:"warehouse,omitempty"`
	Stage     models.Stage             `json:"stage,omitempty"`
	Totals    []WarehouseTotalResponse `json:"totals"`
	Lots      []models.FinishedGood    `json:"lots"`
}

// summaryLabel is "<product> Bundles" or "<product> Caps".
func summaryLabel(g models.FinishedGood) string {
	if g.Type.IsCap() {
		return string(g.Product) + " Caps"
	}
	return string(g.Product) + " Bundles"
}

// GetWarehouseSummary totals the filtered lots per product and bundle/cap family.
// Every product appears in both families even when empty.
func GetWarehouseSummary(goods []models.FinishedGood, filter WarehouseFilter) (*WarehouseSummaryResponse, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	index := map[string]int{}
	resp := &WarehouseSummaryResponse{
		Warehouse: filter.Warehouse,
		Stage:     filter.Stage,
		Lots:      []models.FinishedGood{},
	}
	for _, p := range models.AllProducts {
		for _, suffix := range []string{" Bundles", " Caps"} {
			index[string(p)+suffix] = len(resp.Totals)
			resp.Totals = append(resp.Totals, WarehouseTotalResponse{Label: string(p) + suffix})
		}
	}
	for _, g := range goods {
		if !filter.matches(g) {
			continue
		}
		resp.Lots = append(resp.Lots, g)
		label := summaryLabel(g)
		i, ok := index[label]
		if !ok {
			index[label] = len(resp.Totals)
			resp.Totals = append(resp.Totals, WarehouseTotalResponse{Label: label})
			i = index[label]
		}
		resp.Totals[i].Bundles += g.NumberOfBundles
		resp.Totals[i].Lots++
	}
	return resp, nil
}

type QCStageResponse struct {
	Stage   models.Stage          `json:"stage"`
	Bundles int                   `json:"bundles"`
	Lots    []models.FinishedGood `json:"lots"`
}

// GetQCCheckpoint groups lots sitting in quality control stages.
func GetQCCheckpoint(goods []models.FinishedGood) []QCStageResponse {
	rows := make([]QCStageResponse, len(models.QCStages))
	pos := map[models.Stage]int{}
	for i, s := range models.QCStages {
		rows[i] = QCStageResponse{Stage: s, Lots: []models.FinishedGood{}}
		pos[s] = i
	}
	for _, g := range goods {
		i, ok := pos[g.Stage]
		if !ok {
			continue
		}
		rows[i].Bundles += g.NumberOfBundles
		rows[i].Lots = append(rows[i].Lots, g)
	}
	for i := range rows {
		sort.SliceStable(rows[i].Lots, func(a, b int) bool {
			return strings.Compare(rows[i].Lots[a].ProductId, rows[i].Lots[b].ProductId) < 0
		})
	}
	return rows
}
