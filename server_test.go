package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/plant_inventory/config"
	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/storage"
	"github.com/sirupsen/logrus"
)

func testRouter(cfg config.AppConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	inv := models.NewInventory(models.WithStore(storage.NewMemoryStore()), models.WithLogger(logger))
	return newRouter(cfg, inv, logger)
}

func TestRouter_HealthAndNotFound(t *testing.T) {
	r := testRouter(config.AppConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("healthz: expected 204, got %d", w.Code)
	}
	if w.Header().Get("x-correlation-id") == "" {
		t.Fatalf("expected a correlation id on every response")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route: expected 404, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("settings: expected 200, got %d", w.Code)
	}
}

func TestRouter_CorsByEnvironment(t *testing.T) {
	cases := []struct {
		cfg    config.AppConfig
		origin string
		want   string
	}{
		{config.AppConfig{}, "http://anywhere.test", "*"},
		{config.AppConfig{Env: "production", CorsAllowedOrigins: []string{"https://plant.example.com"}}, "https://plant.example.com", "https://plant.example.com"},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
		req.Header.Set("Origin", c.origin)
		w := httptest.NewRecorder()
		testRouter(c.cfg).ServeHTTP(w, req)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != c.want {
			t.Fatalf("%+v: expected allow origin %q, got %q", c.cfg, c.want, got)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	req.Header.Set("Origin", "https://evil.test")
	w := httptest.NewRecorder()
	testRouter(config.AppConfig{Env: "production", CorsAllowedOrigins: []string{"https://plant.example.com"}}).ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("unlisted origin in production: expected 403, got %d", w.Code)
	}
}
