package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/models/reports"
	"github.com/mmdatafocus/plant_inventory/utils"
)

func (h *Handler) Dashboard(c *gin.Context) {
	_, span := h.startSpan(c, "Dashboard")
	defer span.End()

	c.JSON(http.StatusOK, reports.GetDashboard(h.inv.Snapshot()))
}

func (h *Handler) MaterialStock(c *gin.Context) {
	_, span := h.startSpan(c, "MaterialStock")
	defer span.End()

	c.JSON(http.StatusOK, reports.GetMaterialStock(h.inv.Snapshot()))
}

func (h *Handler) ThisMonth(c *gin.Context) {
	_, span := h.startSpan(c, "ThisMonth")
	defer span.End()

	c.JSON(http.StatusOK, reports.GetThisMonth(h.inv.Snapshot()))
}

func (h *Handler) ProductionSummary(c *gin.Context) {
	_, span := h.startSpan(c, "ProductionSummary")
	defer span.End()

	c.JSON(http.StatusOK, reports.GetProductionSummary(h.inv.Snapshot()))
}

func (h *Handler) WarehouseSummary(c *gin.Context) {
	_, span := h.startSpan(c, "WarehouseSummary")
	defer span.End()

	var filter reports.WarehouseFilter
	if err := bindQuery(c, &filter); err != nil {
		h.fail(c, span, err)
		return
	}
	summary, err := reports.GetWarehouseSummary(h.inv.FinishedGoods(), filter)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) QCCheckpoint(c *gin.Context) {
	_, span := h.startSpan(c, "QCCheckpoint")
	defer span.End()

	c.JSON(http.StatusOK, reports.GetQCCheckpoint(h.inv.FinishedGoods()))
}

// ActivityReport lists one category over whole days; ?format= turns it into a download.
func (h *Handler) ActivityReport(c *gin.Context) {
	_, span := h.startSpan(c, "ActivityReport")
	defer span.End()

	var req reports.ActivityReportRequest
	if err := bindQuery(c, &req); err != nil {
		h.fail(c, span, err)
		return
	}
	filter, err := req.Filter()
	if err != nil {
		h.fail(c, span, err)
		return
	}
	if c.Query("format") == "" {
		c.JSON(http.StatusOK, h.inv.Activities(filter))
		return
	}
	format, err := models.ParseExportFormat(c.Query("format"))
	if err != nil {
		h.fail(c, span, err)
		return
	}
	writeExport(c, "activity-report", format, h.inv.ExportActivities(filter, format))
}

func (h *Handler) InventoryWorkbook(c *gin.Context) {
	_, span := h.startSpan(c, "InventoryWorkbook")
	defer span.End()

	data, err := reports.ExportInventoryWorkbook(h.inv.Snapshot())
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=inventory.xlsx")
	c.Data(http.StatusOK, utils.ExportContentType("xlsx"), data)
}
