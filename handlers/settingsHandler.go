package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/plant_inventory/models"
)

func (h *Handler) GetSettings(c *gin.Context) {
	_, span := h.startSpan(c, "GetSettings")
	defer span.End()

	c.JSON(http.StatusOK, h.inv.Settings())
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	ctx, span := h.startSpan(c, "UpdateSettings")
	defer span.End()

	var input models.NewSettings
	if err := bindJSON(c, &input); err != nil {
		h.fail(c, span, err)
		return
	}
	settings, err := h.inv.UpdateSettings(ctx, input)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) Plan(c *gin.Context) {
	_, span := h.startSpan(c, "Plan")
	defer span.End()

	var req models.PlanRequest
	if err := bindQuery(c, &req); err != nil {
		h.fail(c, span, err)
		return
	}
	result, err := h.inv.Plan(req)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
