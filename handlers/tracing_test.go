package handlers

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type spanRecorder struct {
	noop.TracerProvider
	mu    sync.Mutex
	names []string
}

func (p *spanRecorder) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return recordingTracer{p: p}
}

func (p *spanRecorder) started() map[string]bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := map[string]bool{}
	for _, n := range p.names {
		out[n] = true
	}
	return out
}

type recordingTracer struct {
	noop.Tracer
	p *spanRecorder
}

func (t recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	t.p.mu.Lock()
	t.p.names = append(t.p.names, name)
	t.p.mu.Unlock()
	return t.Tracer.Start(ctx, name, opts...)
}

var (
	installRecorder sync.Once
	recorder        = &spanRecorder{}
)

func TestEveryReadRouteOpensASpan(t *testing.T) {
	installRecorder.Do(func() { otel.SetTracerProvider(recorder) })
	r, _ := newTestServer(t)

	routes := map[string]string{
		"/api/settings":               "handlers.GetSettings",
		"/api/raw-materials":          "handlers.ListRawMaterials",
		"/api/checkouts":              "handlers.ListOpenCheckouts",
		"/api/finished-goods":         "handlers.ListFinishedGoods",
		"/api/activities":             "handlers.ListActivities",
		"/api/reports/dashboard":      "handlers.Dashboard",
		"/api/reports/material-stock": "handlers.MaterialStock",
		"/api/reports/this-month":     "handlers.ThisMonth",
		"/api/reports/production":     "handlers.ProductionSummary",
		"/api/reports/qc":             "handlers.QCCheckpoint",
	}
	for path := range routes {
		if w := do(r, http.MethodGet, path, nil); w.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, w.Code)
		}
	}

	started := recorder.started()
	for path, span := range routes {
		if !started[span] {
			t.Fatalf("GET %s did not start span %s", path, span)
		}
	}
}
