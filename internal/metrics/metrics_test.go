package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/nodedesign/pkg/history"
	"github.com/matzehuels/nodedesign/pkg/layout"
	"github.com/matzehuels/nodedesign/pkg/node"
	"github.com/matzehuels/nodedesign/pkg/observability"
)

func TestLayoutAndHistoryMetrics(t *testing.T) {
	c := New()
	c.Install()
	defer observability.Reset()

	nodes := []*node.Node{
		{ID: 1, Pos: node.Vec2{10, 0}, Size: node.Vec2{50, 20}},
		{ID: 2, Pos: node.Vec2{40, 50}, Size: node.Vec2{50, 20}},
	}
	logger := log.New(io.Discard)
	e := layout.NewEngine(node.StaticSelection(nodes), history.New(0, nil, logger), layout.DefaultConfig(), logger)

	e.Align(layout.OpAlignLeft)
	e.Undo()
	e.Undo()
	e.Distribute(node.AxisX)

	if got := testutil.ToFloat64(c.layouts.WithLabelValues(string(layout.OpAlignLeft), "ok")); got != 1 {
		t.Errorf("align-left ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.history.WithLabelValues("undo", string(layout.OpAlignLeft), "ok")); got != 1 {
		t.Errorf("undo ok = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.layoutDuration); got == 0 {
		t.Error("layout duration not observed")
	}
}

func TestHTTPMetrics(t *testing.T) {
	c := New()
	ctx := context.Background()
	c.OnRequest(ctx, http.MethodGet, "/health")
	if got := testutil.ToFloat64(c.inFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	c.OnResponse(ctx, http.MethodGet, "/health", http.StatusOK, 3*time.Millisecond)
	if got := testutil.ToFloat64(c.inFlight); got != 0 {
		t.Errorf("in flight after response = %v, want 0", got)
	}
	if got := testutil.ToFloat64(c.requests.WithLabelValues("GET", "/health", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestCounters(t *testing.T) {
	c := New()
	c.OnEvict("align-left")
	c.OnRefreshError(errors.New("canvas gone"))
	c.OnRedo("tree-view", errors.New("boom"))

	if got := testutil.ToFloat64(c.evictions); got != 1 {
		t.Errorf("evictions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.refreshErrors); got != 1 {
		t.Errorf("refresh errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.history.WithLabelValues("redo", "tree-view", "rejected")); got != 1 {
		t.Errorf("rejected redo = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	c := New()
	c.OnLayoutComplete("smart-align", 4, time.Millisecond, true)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `nodedesign_layouts_total{op="smart-align",outcome="ok"} 1`) {
		t.Errorf("metrics body missing layouts_total:\n%s", body)
	}
}
