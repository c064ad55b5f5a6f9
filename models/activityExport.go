package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mmdatafocus/plant_inventory/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatJSON, ExportFormatXLSX:
		return f, nil
	}
	return "", utils.Invalidf("unsupported export format %q", s)
}

// ActivityExportColumns is the fixed column order of csv and xlsx exports.
var ActivityExportColumns = []string{
	"id", "timestamp", "user", "action", "itemId", "fieldChanged",
	"value", "oldValue", "newValue", "comment", "referenceId", "formData",
}

func ExportActivities(entries []ActivityEntry, format ExportFormat) ([]byte, error) {
	if entries == nil {
		entries = []ActivityEntry{}
	}
	switch format {
	case ExportFormatJSON:
		return utils.MarshalToPrettyJSON(entries)
	case ExportFormatCSV:
		return exportActivitiesCSV(entries)
	case ExportFormatXLSX:
		return exportActivitiesXLSX(entries)
	}
	return nil, utils.Invalidf("unsupported export format %q", format)
}

func activityRow(e ActivityEntry) ([]string, error) {
	formData := ""
	if len(e.FormData) > 0 {
		b, err := json.Marshal(e.FormData)
		if err != nil {
			return nil, fmt.Errorf("activity %s: form data: %w", e.ID, err)
		}
		formData = string(b)
	}
	return []string{
		e.ID,
		e.Timestamp.Format(time.RFC3339),
		e.User,
		e.Action,
		e.ItemId,
		e.FieldChanged,
		cellText(e.Value),
		cellText(e.OldValue),
		cellText(e.NewValue),
		e.Comment,
		e.ReferenceId,
		formData,
	}, nil
}

// cellText renders scalar values as text and anything structured as JSON.
func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case decimal.Decimal:
		return t.String()
	case time.Time:
		return t.Format(time.RFC3339)
	case bool, int, int64, float64:
		return fmt.Sprint(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// csvQuote always quotes and doubles inner quotes.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func exportActivitiesCSV(entries []ActivityEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(ActivityExportColumns, ","))
	for _, e := range entries {
		row, err := activityRow(e)
		if err != nil {
			return nil, err
		}
		for i := range row {
			row[i] = csvQuote(row[i])
		}
		buf.WriteByte('\n')
		buf.WriteString(strings.Join(row, ","))
	}
	return buf.Bytes(), nil
}

func exportActivitiesXLSX(entries []ActivityEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for i, h := range ActivityExportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}
	for r, e := range entries {
		row, err := activityRow(e)
		if err != nil {
			return nil, err
		}
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
