package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/utils"
)

type commentRequest struct {
	Comment string `json:"comment"`
}

func (h *Handler) ListActivities(c *gin.Context) {
	_, span := h.startSpan(c, "ListActivities")
	defer span.End()

	var filter models.ActivityFilter
	if err := bindQuery(c, &filter); err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, h.inv.Activities(filter))
}

func (h *Handler) UpdateActivityComment(c *gin.Context) {
	ctx, span := h.startSpan(c, "UpdateActivityComment")
	defer span.End()

	var req commentRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, span, err)
		return
	}
	entry, ok := h.inv.UpdateActivityComment(ctx, c.Param("id"), req.Comment)
	if !ok {
		h.fail(c, span, utils.NotFoundf("activity %s", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, entry)
}

func writeExport(c *gin.Context, name string, format models.ExportFormat, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", name, format))
	c.Data(http.StatusOK, utils.ExportContentType(string(format)), data)
}

func (h *Handler) ExportActivities(c *gin.Context) {
	_, span := h.startSpan(c, "ExportActivities")
	defer span.End()

	format, err := models.ParseExportFormat(c.Query("format"))
	if err != nil {
		h.fail(c, span, err)
		return
	}
	var filter models.ActivityFilter
	if err := bindQuery(c, &filter); err != nil {
		h.fail(c, span, err)
		return
	}
	writeExport(c, "activity-log", format, h.inv.ExportActivities(filter, format))
}
