package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/plant_inventory/config"
	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("plant-inventory")

type Handler struct {
	inv    *models.Inventory
	logger *logrus.Logger
}

func New(inv *models.Inventory, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &Handler{inv: inv, logger: logger}
}

// Register mounts every route under r.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")

	api.GET("/settings", h.GetSettings)
	api.PUT("/settings", h.UpdateSettings)

	api.GET("/raw-materials", h.ListRawMaterials)
	api.POST("/raw-materials", h.ReceiveRawMaterial)
	api.GET("/raw-materials/:id", h.GetRawMaterial)
	api.PATCH("/raw-materials/:id", h.EditRawMaterial)
	api.DELETE("/raw-materials/:id", h.DeleteRawMaterial)
	api.GET("/barcodes/:barcode", h.FindRawMaterialByBarcode)
	api.POST("/usage", h.ConsumeRawMaterial)
	api.GET("/checkouts", h.ListOpenCheckouts)
	api.POST("/checkouts", h.CheckoutRawMaterial)
	api.POST("/checkouts/:id/checkin", h.CheckinRawMaterial)

	api.GET("/finished-goods", h.ListFinishedGoods)
	api.POST("/finished-goods", h.ProduceFinishedGood)
	api.GET("/finished-goods/:id", h.GetFinishedGood)
	api.PATCH("/finished-goods/:id", h.EditFinishedGood)
	api.DELETE("/finished-goods/:id", h.DeleteFinishedGood)
	api.POST("/finished-goods/:id/split", h.SplitFinishedGood)
	api.POST("/finished-goods/:id/transfer", h.TransferFinishedGood)
	api.POST("/lead-hand-logs", h.RecordLeadHandLog)

	api.GET("/activities", h.ListActivities)
	api.GET("/activities/export", h.ExportActivities)
	api.PUT("/activities/:id/comment", h.UpdateActivityComment)

	api.GET("/plan", h.Plan)

	reports := api.Group("/reports")
	reports.GET("/dashboard", h.Dashboard)
	reports.GET("/material-stock", h.MaterialStock)
	reports.GET("/this-month", h.ThisMonth)
	reports.GET("/production", h.ProductionSummary)
	reports.GET("/warehouse", h.WarehouseSummary)
	reports.GET("/qc", h.QCCheckpoint)
	reports.GET("/activity", h.ActivityReport)
	reports.GET("/inventory.xlsx", h.InventoryWorkbook)
}

func (h *Handler) startSpan(c *gin.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(c.Request.Context(), "handlers."+name)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, utils.ErrorConfiguration):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(c *gin.Context, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func bindJSON(c *gin.Context, dest any) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return utils.Invalidf("invalid request body: %s", err.Error())
	}
	return nil
}

func bindQuery(c *gin.Context, dest any) error {
	if err := c.ShouldBindQuery(dest); err != nil {
		return utils.Invalidf("invalid query: %s", err.Error())
	}
	return nil
}

func paramId(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, utils.Invalidf("invalid id %q", c.Param("id"))
	}
	return id, nil
}
