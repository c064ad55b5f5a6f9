package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/utils"
	"go.opentelemetry.io/otel/attribute"
)

// Weights typed at the scale terminal arrive as "1,200 lbs" as often as 1200.

type receiveRequest struct {
	PoNumber       string            `json:"poNumber"`
	RawMaterial    string            `json:"rawMaterial"`
	Vendor         string            `json:"vendor"`
	BagsReceived   int               `json:"bagsReceived"`
	StartingWeight utils.FlexDecimal `json:"startingWeight"`
	DateReceived   *time.Time        `json:"dateReceived"`
}

type usageRequest struct {
	Barcode           string            `json:"barcode"`
	LeadHandName      string            `json:"leadHandName"`
	WeightIn          utils.FlexDecimal `json:"weightIn"`
	WeightOut         utils.FlexDecimal `json:"weightOut"`
	EstimatedSpillage utils.FlexDecimal `json:"estimatedSpillage"`
	FinishedBag       bool              `json:"finishedBag"`
	Notes             string            `json:"notes"`
	Date              *time.Time        `json:"date"`
}

type checkoutRequest struct {
	Barcode      string            `json:"barcode"`
	LeadHandName string            `json:"leadHandName"`
	WeightIn     utils.FlexDecimal `json:"weightIn"`
}

type checkinRequest struct {
	WeightOut         utils.FlexDecimal `json:"weightOut"`
	EstimatedSpillage utils.FlexDecimal `json:"estimatedSpillage"`
	FinishedBag       bool              `json:"finishedBag"`
	Notes             string            `json:"notes"`
}

func (h *Handler) ListRawMaterials(c *gin.Context) {
	_, span := h.startSpan(c, "ListRawMaterials")
	defer span.End()

	lots := h.inv.RawMaterials()
	if q := strings.TrimSpace(c.Query("rawMaterial")); q != "" {
		filtered := lots[:0]
		for _, lot := range lots {
			if lot.RawMaterial == q {
				filtered = append(filtered, lot)
			}
		}
		lots = filtered
	}
	if lots == nil {
		lots = []models.RawMaterial{}
	}
	c.JSON(http.StatusOK, lots)
}

func (h *Handler) GetRawMaterial(c *gin.Context) {
	_, span := h.startSpan(c, "GetRawMaterial")
	defer span.End()

	id, err := paramId(c)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	lot, err := h.inv.GetRawMaterial(id)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

func (h *Handler) FindRawMaterialByBarcode(c *gin.Context) {
	_, span := h.startSpan(c, "FindRawMaterialByBarcode")
	defer span.End()
	span.SetAttributes(attribute.String("barcode", c.Param("barcode")))

	lot, err := h.inv.FindRawMaterialByBarcode(c.Param("barcode"))
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

func (h *Handler) ReceiveRawMaterial(c *gin.Context) {
	ctx, span := h.startSpan(c, "ReceiveRawMaterial")
	defer span.End()

	var req receiveRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, span, err)
		return
	}
	lot, err := h.inv.ReceiveRawMaterial(ctx, models.NewRawMaterial{
		PoNumber:       req.PoNumber,
		RawMaterial:    req.RawMaterial,
		Vendor:         req.Vendor,
		BagsReceived:   req.BagsReceived,
		StartingWeight: req.StartingWeight.Decimal,
		DateReceived:   req.DateReceived,
	})
	if err != nil {
		h.fail(c, span, err)
		return
	}
	span.SetAttributes(attribute.String("barcode", lot.Barcode))
	c.JSON(http.StatusCreated, lot)
}

func (h *Handler) ConsumeRawMaterial(c *gin.Context) {
	ctx, span := h.startSpan(c, "ConsumeRawMaterial")
	defer span.End()

	var req usageRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, span, err)
		return
	}
	span.SetAttributes(attribute.String("barcode", req.Barcode))
	lot, err := h.inv.ConsumeRawMaterial(ctx, models.RawMaterialUsage{
		Barcode:           req.Barcode,
		LeadHandName:      req.LeadHandName,
		WeightIn:          req.WeightIn.Decimal,
		WeightOut:         req.WeightOut.Decimal,
		EstimatedSpillage: req.EstimatedSpillage.Decimal,
		FinishedBag:       req.FinishedBag,
		Notes:             req.Notes,
		Date:              req.Date,
	})
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

func (h *Handler) ListOpenCheckouts(c *gin.Context) {
	_, span := h.startSpan(c, "ListOpenCheckouts")
	defer span.End()

	open := h.inv.OpenCheckouts()
	if open == nil {
		open = []models.RawMaterialCheckout{}
	}
	c.JSON(http.StatusOK, open)
}

func (h *Handler) CheckoutRawMaterial(c *gin.Context) {
	ctx, span := h.startSpan(c, "CheckoutRawMaterial")
	defer span.End()

	var req checkoutRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, span, err)
		return
	}
	checkout, err := h.inv.CheckoutRawMaterial(ctx, models.NewRawMaterialCheckout{
		Barcode:      req.Barcode,
		LeadHandName: req.LeadHandName,
		WeightIn:     req.WeightIn.Decimal,
	})
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusCreated, checkout)
}

func (h *Handler) CheckinRawMaterial(c *gin.Context) {
	ctx, span := h.startSpan(c, "CheckinRawMaterial")
	defer span.End()

	id, err := paramId(c)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	var req checkinRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, span, err)
		return
	}
	lot, err := h.inv.CheckinRawMaterial(ctx, models.RawMaterialCheckin{
		CheckoutId:        id,
		WeightOut:         req.WeightOut.Decimal,
		EstimatedSpillage: req.EstimatedSpillage.Decimal,
		FinishedBag:       req.FinishedBag,
		Notes:             req.Notes,
	})
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

func (h *Handler) EditRawMaterial(c *gin.Context) {
	ctx, span := h.startSpan(c, "EditRawMaterial")
	defer span.End()

	id, err := paramId(c)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	var patch models.RawMaterialPatch
	if err := bindJSON(c, &patch); err != nil {
		h.fail(c, span, err)
		return
	}
	lot, err := h.inv.EditRawMaterial(ctx, id, patch)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

func (h *Handler) DeleteRawMaterial(c *gin.Context) {
	ctx, span := h.startSpan(c, "DeleteRawMaterial")
	defer span.End()

	id, err := paramId(c)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	lot, err := h.inv.DeleteRawMaterial(ctx, id)
	if err != nil {
		h.fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}
