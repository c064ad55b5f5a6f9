package reports

import (
	"strings"
	"time"

	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/utils"
)

type ReportCategory string

const (
	CategoryAll         ReportCategory = "All"
	CategoryReceiving   ReportCategory = "Receiving"
	CategoryUsing       ReportCategory = "Using"
	CategoryLeadHandLog ReportCategory = "Lead Hand Log"
)

// categoryActions maps a report category to the audit action it lists.
// Lead Hand Log reports list the per-row production entries.
var categoryActions = map[ReportCategory]string{
	CategoryReceiving:   models.ActionRawMaterialReceived,
	CategoryUsing:       models.ActionMaterialUsed,
	CategoryLeadHandLog: models.ActionProductionAdded,
}

func ParseReportCategory(s string) (ReportCategory, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(CategoryAll)) {
		return CategoryAll, nil
	}
	for c := range categoryActions {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", utils.Invalidf("unknown report category %q", s)
}

type ActivityReportRequest struct {
	Category string    `form:"category" json:"category"`
	From     time.Time `form:"from" json:"from" time_format:"2006-01-02" validate:"required"`
	To       time.Time `form:"to" json:"to" time_format:"2006-01-02" validate:"required"`
}

// Filter turns the dated request into a log filter covering whole days.
func (r ActivityReportRequest) Filter() (models.ActivityFilter, error) {
	if err := utils.ValidateStruct(r); err != nil {
		return models.ActivityFilter{}, err
	}
	category, err := ParseReportCategory(r.Category)
	if err != nil {
		return models.ActivityFilter{}, err
	}
	start, _ := utils.DayRange(r.From)
	_, end := utils.DayRange(r.To)
	if end.Before(start) {
		return models.ActivityFilter{}, utils.Invalidf("from must not be after to")
	}
	return models.ActivityFilter{
		Start:  &start,
		End:    &end,
		Action: categoryActions[category],
	}, nil
}
