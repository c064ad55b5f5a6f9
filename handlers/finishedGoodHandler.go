package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/models/reports"
	"go.opentelemetry.io/otel/attribute"
)

type splitRequest struct {
	Quantity int `json:"quantity"`
}

type transferRequest struct {
	Quantity  int              `json:"quantity"`
	Warehouse models.Warehouse `json:"warehouse"`
}

type transferResponse struct {
	Moved     models.FinishedGood  `json:"moved"`
	Remainder *models.FinishedGood `json:"remainder"`
}

type splitResponse struct {
	Original models.FinishedGood `json:"original"`
	Sibling  models.FinishedGood `json:"sibling"`
}

// ListFinishedGoods accepts the same warehouse and stage filters as the warehouse report.
func (h *Handler) ListFinishedGoods(c *gin.Context) {
	_, span := h.startSpan(c, "ListFinishedGoods")
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
	c.JSON(http.StatusOK, summary.Lots)
}

func (h *Handler) GetFinishedGood(c *gin.Context) {
	_, span := h.startSpan(c, "GetFinishedGood")
	defer span.End()

	id, err := paramId(c)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	lot, err := h.inv.GetFinishedGood(id)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

func (h *Handler) ProduceFinishedGood(c *gin.Context) {
	ctx, span := h.startSpan(c, "ProduceFinishedGood")
	defer span.End()

	var input models.NewFinishedGood
	if err := bindJSON(c, &input); err != nil {
		h.fail(c, span, err)
		return
	}
	lot, err := h.inv.ProduceFinishedGood(ctx, input)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	span.SetAttributes(attribute.String("product_id", lot.ProductId))
	c.JSON(http.StatusCreated, lot)
}

func (h *Handler) RecordLeadHandLog(c *gin.Context) {
	ctx, span := h.startSpan(c, "RecordLeadHandLog")
	defer span.End()

	var input models.LeadHandLog
	if err := bindJSON(c, &input); err != nil {
		h.fail(c, span, err)
		return
	}
	lots, err := h.inv.RecordLeadHandLog(ctx, input)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	span.SetAttributes(attribute.Int("lots", len(lots)))
	c.JSON(http.StatusCreated, lots)
}

func (h *Handler) EditFinishedGood(c *gin.Context) {
	ctx, span := h.startSpan(c, "EditFinishedGood")
	defer span.End()

	id, err := paramId(c)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	var patch models.FinishedGoodPatch
	if err := bindJSON(c, &patch); err != nil {
		h.fail(c, span, err)
		return
	}
	lot, err := h.inv.EditFinishedGood(ctx, id, patch)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

func (h *Handler) SplitFinishedGood(c *gin.Context) {
	ctx, span := h.startSpan(c, "SplitFinishedGood")
	defer span.End()

	id, err := paramId(c)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	var req splitRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, span, err)
		return
	}
	original, sibling, err := h.inv.SplitFinishedGood(ctx, id, req.Quantity)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, splitResponse{Original: original, Sibling: sibling})
}

func (h *Handler) TransferFinishedGood(c *gin.Context) {
	ctx, span := h.startSpan(c, "TransferFinishedGood")
	defer span.End()

	id, err := paramId(c)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	var req transferRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, span, err)
		return
	}
	span.SetAttributes(attribute.String("warehouse", string(req.Warehouse)), attribute.Int("quantity", req.Quantity))
	moved, remainder, err := h.inv.TransferFinishedGood(ctx, id, req.Quantity, req.Warehouse)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, transferResponse{Moved: moved, Remainder: remainder})
}

func (h *Handler) DeleteFinishedGood(c *gin.Context) {
	ctx, span := h.startSpan(c, "DeleteFinishedGood")
	defer span.End()

	id, err := paramId(c)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	lot, err := h.inv.DeleteFinishedGood(ctx, id)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}
