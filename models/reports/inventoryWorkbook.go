package reports

import (
	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/xuri/excelize/v2"
)

const (
	rawMaterialSheet  = "Raw Materials"
	finishedGoodSheet = "Finished Goods"
)

var rawMaterialHeadings = []string{
	"Barcode", "PO Number", "Raw Material", "Vendor", "Bags Received", "Bags Available",
	"Starting Weight", "Current Weight", "Status", "Date Received",
}

var finishedGoodHeadings = []string{
	"Product ID", "Product", "Colour", "Type", "Bundles", "Warehouse", "Stage", "Shift", "Lead Hand", "Date Created",
}

func writeSheet(f *excelize.File, sheet string, headings []string, rows [][]any) error {
	for c, h := range headings {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExportInventoryWorkbook writes raw material and finished goods lots to one xlsx workbook.
func ExportInventoryWorkbook(snap models.InventorySnapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rawMaterialSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(finishedGoodSheet); err != nil {
		return nil, err
	}

	level := snap.Settings.LowStockAlertLevel
	raw := make([][]any, 0, len(snap.RawMaterials))
	for _, lot := range snap.RawMaterials {
		status, _ := LotStatus(lot, level)
		raw = append(raw, []any{
			lot.Barcode, lot.PoNumber, lot.RawMaterial, lot.Vendor, lot.BagsReceived, lot.BagsAvailable,
			lot.StartingWeight.InexactFloat64(), lot.CurrentWeight.InexactFloat64(), status,
			lot.DateReceived.Format("2006-01-02"),
		})
	}
	if err := writeSheet(f, rawMaterialSheet, rawMaterialHeadings, raw); err != nil {
		return nil, err
	}

	goods := make([][]any, 0, len(snap.FinishedGoods))
	for _, g := range snap.FinishedGoods {
		goods = append(goods, []any{
			g.ProductId, string(g.Product), g.Colour, string(g.Type), g.NumberOfBundles,
			string(g.Warehouse), string(g.Stage), g.Shift, g.LeadHandName, g.DateCreated.Format("2006-01-02"),
		})
	}
	if err := writeSheet(f, finishedGoodSheet, finishedGoodHeadings, goods); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
