package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/plant_inventory/middlewares"
	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func newTestServer(t *testing.T) (*gin.Engine, *models.Inventory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	current := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		current = current.Add(time.Second)
		return current
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	inv := models.NewInventory(models.WithClock(clock), models.WithLogger(logger))

	r := gin.New()
	r.Use(middlewares.SessionMiddleware())
	New(inv, logger).Register(r)
	return r, inv
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestRawMaterialRoutes(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(r, http.MethodPost, "/api/raw-materials", map[string]any{
		"poNumber":       "4471",
		"rawMaterial":    "PP White",
		"vendor":         "EFS Plastics",
		"bagsReceived":   2,
		"startingWeight": "2,000 lbs",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("receive: expected 201, got %d %s", w.Code, w.Body.String())
	}
	var lot models.RawMaterial
	decode(t, w, &lot)
	if !strings.HasSuffix(lot.Barcode, "PO4471") || !lot.CurrentWeight.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("unexpected lot %+v", lot)
	}

	if w := do(r, http.MethodGet, "/api/barcodes/"+lot.Barcode, nil); w.Code != http.StatusOK {
		t.Fatalf("barcode lookup: expected 200, got %d", w.Code)
	}

	w = do(r, http.MethodPost, "/api/usage", map[string]any{
		"barcode":      lot.Barcode,
		"leadHandName": "Ana",
		"weightIn":     "1,000",
		"weightOut":    250,
		"finishedBag":  true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("usage: expected 200, got %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &lot)
	if !lot.CurrentWeight.Equal(decimal.NewFromInt(1250)) || lot.BagsAvailable != 1 {
		t.Fatalf("unexpected lot after usage %+v", lot)
	}

	cases := []struct {
		method string
		path   string
		body   any
		want   int
	}{
		{http.MethodGet, "/api/raw-materials/99", nil, http.StatusNotFound},
		{http.MethodGet, "/api/raw-materials/abc", nil, http.StatusBadRequest},
		{http.MethodGet, "/api/barcodes/NOPE", nil, http.StatusNotFound},
		{http.MethodPost, "/api/raw-materials", map[string]any{"poNumber": "1"}, http.StatusBadRequest},
		{http.MethodPost, "/api/usage", map[string]any{"barcode": lot.Barcode, "weightIn": 1, "weightOut": 5}, http.StatusBadRequest},
		{http.MethodPatch, "/api/raw-materials/1", map[string]any{"currentWeight": 99999}, http.StatusBadRequest},
		{http.MethodDelete, "/api/raw-materials/1", nil, http.StatusOK},
		{http.MethodDelete, "/api/raw-materials/1", nil, http.StatusNotFound},
	}
	for _, c := range cases {
		if w := do(r, c.method, c.path, c.body); w.Code != c.want {
			t.Fatalf("%s %s: expected %d, got %d %s", c.method, c.path, c.want, w.Code, w.Body.String())
		}
	}
}

func TestCheckoutRoutes(t *testing.T) {
	r, inv := newTestServer(t)
	w := do(r, http.MethodPost, "/api/raw-materials", map[string]any{
		"poNumber": "9", "rawMaterial": "Wax", "vendor": "AWF", "bagsReceived": 1, "startingWeight": 500,
	})
	var lot models.RawMaterial
	decode(t, w, &lot)

	w = do(r, http.MethodPost, "/api/checkouts", map[string]any{"barcode": lot.Barcode, "leadHandName": "Ana", "weightIn": "55 lbs"})
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d %s", w.Code, w.Body.String())
	}
	var checkout models.RawMaterialCheckout
	decode(t, w, &checkout)

	w = do(r, http.MethodPost, "/api/checkouts/1/checkin", map[string]any{"weightOut": "5"})
	if w.Code != http.StatusOK {
		t.Fatalf("checkin: expected 200, got %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &lot)
	if !lot.CurrentWeight.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("expected 450 left, got %s", lot.CurrentWeight)
	}
	if len(inv.OpenCheckouts()) != 0 {
		t.Fatalf("checkout should be closed")
	}
	if w := do(r, http.MethodPost, "/api/checkouts/1/checkin", map[string]any{}); w.Code != http.StatusBadRequest {
		t.Fatalf("closed checkout: expected 400, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/checkouts/7/checkin", map[string]any{}); w.Code != http.StatusNotFound {
		t.Fatalf("unknown checkout: expected 404, got %d", w.Code)
	}
}

func TestFinishedGoodRoutes(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(r, http.MethodPost, "/api/finished-goods", map[string]any{
		"leadHandName": "Sam", "product": "Enviroshake", "colour": "Cedar Blend", "type": "Bundle", "numberOfBundles": 30,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("produce: expected 201, got %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/finished-goods/1/split", map[string]any{"quantity": 10})
	var split splitResponse
	decode(t, w, &split)
	if split.Original.NumberOfBundles != 20 || split.Sibling.NumberOfBundles != 10 || split.Sibling.ProductId != split.Original.ProductId {
		t.Fatalf("unexpected split %+v", split)
	}

	w = do(r, http.MethodPost, "/api/finished-goods/2/transfer", map[string]any{"quantity": 10, "warehouse": "BC"})
	var transfer transferResponse
	decode(t, w, &transfer)
	if transfer.Moved.Warehouse != models.WarehouseBC || transfer.Remainder != nil {
		t.Fatalf("full transfer moves in place, got %+v", transfer)
	}

	w = do(r, http.MethodGet, "/api/finished-goods?warehouse=BC", nil)
	var lots []models.FinishedGood
	decode(t, w, &lots)
	if len(lots) != 1 || lots[0].ID != 2 {
		t.Fatalf("expected only lot 2 in BC, got %+v", lots)
	}

	cases := []struct {
		method string
		path   string
		body   any
		want   int
	}{
		{http.MethodPost, "/api/finished-goods/1/split", map[string]any{"quantity": 20}, http.StatusBadRequest},
		{http.MethodPost, "/api/finished-goods/1/transfer", map[string]any{"quantity": 1, "warehouse": "Dresden"}, http.StatusBadRequest},
		{http.MethodPost, "/api/finished-goods/9/transfer", map[string]any{"quantity": 1, "warehouse": "BC"}, http.StatusNotFound},
		{http.MethodPatch, "/api/finished-goods/1", map[string]any{"warehouse": "Buffalo"}, http.StatusBadRequest},
		{http.MethodPatch, "/api/finished-goods/1", map[string]any{"stage": "Quarantine"}, http.StatusOK},
		{http.MethodGet, "/api/finished-goods?warehouse=Toronto", nil, http.StatusBadRequest},
		{http.MethodDelete, "/api/finished-goods/2", nil, http.StatusOK},
		{http.MethodGet, "/api/finished-goods/2", nil, http.StatusNotFound},
	}
	for _, c := range cases {
		if w := do(r, c.method, c.path, c.body); w.Code != c.want {
			t.Fatalf("%s %s: expected %d, got %d %s", c.method, c.path, c.want, w.Code, w.Body.String())
		}
	}

	w = do(r, http.MethodGet, "/api/reports/qc", nil)
	var qc []struct {
		Stage   models.Stage `json:"stage"`
		Bundles int          `json:"bundles"`
	}
	decode(t, w, &qc)
	for _, row := range qc {
		if row.Stage == models.StageQuarantine && row.Bundles != 20 {
			t.Fatalf("expected 20 bundles in quarantine, got %d", row.Bundles)
		}
	}
}

func TestPlanRoute(t *testing.T) {
	r, _ := newTestServer(t)

	if w := do(r, http.MethodGet, "/api/plan?colour=Charcoal&product=Enviroshake&type=Bundle&units=13", nil); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing recipe: expected 422, got %d %s", w.Code, w.Body.String())
	}

	settings := models.DefaultSettings()
	settings.Recipes = models.RecipeBook{"Charcoal": {{RawMaterial: "PP White", Weight: decimal.NewFromInt(26)}}}
	if w := do(r, http.MethodPut, "/api/settings", settings); w.Code != http.StatusOK {
		t.Fatalf("settings: expected 200, got %d %s", w.Code, w.Body.String())
	}
	do(r, http.MethodPost, "/api/raw-materials", map[string]any{
		"poNumber": "1", "rawMaterial": "PP White", "vendor": "EFS Plastics", "bagsReceived": 1, "startingWeight": 130,
	})

	w := do(r, http.MethodGet, "/api/plan?colour=Charcoal&product=Enviroshake&type=Bundle&units=13", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("plan: expected 200, got %d %s", w.Code, w.Body.String())
	}
	var plan models.PlanResult
	decode(t, w, &plan)
	if plan.MaxBatches != 10 || plan.MaxUnits != 130 {
		t.Fatalf("unexpected plan %+v", plan)
	}
	// all stock is committed to the ten batches, so the extra 13 units need 13 lbs
	if len(plan.Shortfalls) != 1 || !plan.Shortfalls[0].Weight.Equal(decimal.NewFromInt(13)) {
		t.Fatalf("unexpected shortfalls %+v", plan.Shortfalls)
	}

	if w := do(r, http.MethodGet, "/api/plan?colour=Charcoal&product=Plank&type=Bundle", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad product: expected 400, got %d", w.Code)
	}
}

func TestActivityRoutes(t *testing.T) {
	r, inv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/raw-materials", strings.NewReader(
		`{"poNumber":"31","rawMaterial":"Wax","vendor":"AWF","bagsReceived":1,"startingWeight":"40 lbs"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middlewares.OperatorHeader, "pat@plant")
	r.ServeHTTP(httptest.NewRecorder(), req)

	w := do(r, http.MethodGet, "/api/activities?user=pat@plant", nil)
	var entries []models.ActivityEntry
	decode(t, w, &entries)
	if len(entries) != 1 || entries[0].Action != models.ActionRawMaterialReceived {
		t.Fatalf("expected the receiving entry under the operator, got %+v", entries)
	}

	w = do(r, http.MethodPut, "/api/activities/"+entries[0].ID+"/comment", map[string]any{"comment": "checked"})
	if w.Code != http.StatusOK {
		t.Fatalf("comment: expected 200, got %d", w.Code)
	}
	if inv.Activities(models.ActivityFilter{})[0].Comment != "checked" {
		t.Fatalf("comment was not stored")
	}
	if w := do(r, http.MethodPut, "/api/activities/missing/comment", map[string]any{"comment": "x"}); w.Code != http.StatusNotFound {
		t.Fatalf("missing entry: expected 404, got %d", w.Code)
	}

	w = do(r, http.MethodGet, "/api/activities/export?format=csv", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("csv export: got %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(w.Body.String(), strings.Join(models.ActivityExportColumns, ",")+"\n") {
		t.Fatalf("unexpected csv %q", w.Body.String())
	}
	if w := do(r, http.MethodGet, "/api/activities/export?format=pdf", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown format: expected 400, got %d", w.Code)
	}
}

func TestReportRoutes(t *testing.T) {
	r, _ := newTestServer(t)
	do(r, http.MethodPost, "/api/raw-materials", map[string]any{
		"poNumber": "1", "rawMaterial": "Wax", "vendor": "AWF", "bagsReceived": 1, "startingWeight": 10,
	})

	for _, path := range []string{
		"/api/reports/dashboard",
		"/api/reports/material-stock",
		"/api/reports/this-month",
		"/api/reports/production",
		"/api/reports/warehouse?stage=Available",
		"/api/reports/activity?category=Receiving&from=2026-03-01&to=2026-03-31",
	} {
		if w := do(r, http.MethodGet, path, nil); w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d %s", path, w.Code, w.Body.String())
		}
	}

	w := do(r, http.MethodGet, "/api/reports/activity?category=Receiving&from=2026-03-01&to=2026-03-31", nil)
	var entries []models.ActivityEntry
	decode(t, w, &entries)
	if len(entries) != 1 {
		t.Fatalf("expected the receiving entry, got %d", len(entries))
	}

	if w := do(r, http.MethodGet, "/api/reports/activity?category=Receiving", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("missing dates: expected 400, got %d", w.Code)
	}
	w = do(r, http.MethodGet, "/api/reports/activity?from=2026-03-01&to=2026-03-31&format=json", nil)
	if w.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("json download: got %q", w.Header().Get("Content-Type"))
	}

	w = do(r, http.MethodGet, "/api/reports/inventory.xlsx", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Header().Get("Content-Disposition"), "inventory.xlsx") {
		t.Fatalf("workbook: got %d %v", w.Code, w.Header())
	}
}
