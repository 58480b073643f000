package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestBinaryChecker(t *testing.T) {
	// /bin/sh exists on every platform these tests run on.
	if res := NewBinaryChecker("sh").Check(context.Background()); res.Status != StatusHealthy {
		t.Errorf("sh check = %v (%s)", res.Status, res.Message)
	}

	res := NewBinaryChecker("talosctl-definitely-not-installed").Check(context.Background())
	if res.Status != StatusUnhealthy {
		t.Errorf("missing binary check = %v, want unhealthy", res.Status)
	}
	if res.Error == nil {
		t.Error("missing binary check has no error")
	}
}

func TestTalosconfigChecker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talosconfig")
	if err := os.WriteFile(path, []byte("context: test\n"), 0o600); err != nil {
		t.Fatalf("write talosconfig: %v", err)
	}

	if res := NewTalosconfigChecker(path).Check(context.Background()); res.Status != StatusHealthy {
		t.Errorf("existing file check = %v (%s)", res.Status, res.Message)
	}
	if res := NewTalosconfigChecker("").Check(context.Background()); res.Status != StatusDegraded {
		t.Errorf("empty path check = %v, want degraded", res.Status)
	}
	if res := NewTalosconfigChecker(filepath.Join(dir, "missing")).Check(context.Background()); res.Status != StatusUnhealthy {
		t.Errorf("missing file check = %v, want unhealthy", res.Status)
	}
	if res := NewTalosconfigChecker(dir).Check(context.Background()); res.Status != StatusUnhealthy {
		t.Errorf("directory check = %v, want unhealthy", res.Status)
	}
}

func TestOverallStatus(t *testing.T) {
	if got := OverallStatus(nil); got != StatusHealthy {
		t.Errorf("empty results = %v, want healthy", got)
	}

	results := map[string]Result{
		"a": Healthy("ok"),
		"b": Degraded("meh"),
	}
	if got := OverallStatus(results); got != StatusDegraded {
		t.Errorf("OverallStatus = %v, want degraded", got)
	}

	results["c"] = Unhealthy("broken", nil)
	if got := OverallStatus(results); got != StatusUnhealthy {
		t.Errorf("OverallStatus = %v, want unhealthy", got)
	}
}

func TestHandler(t *testing.T) {
	agg := NewAggregator(
		NewCheckerFunc("ok", func(context.Context) Result { return Healthy("fine") }),
	)

	rec := httptest.NewRecorder()
	Handler(agg)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var body response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("body status = %q, want healthy", body.Status)
	}
	if body.Checks["ok"].Message != "fine" {
		t.Errorf("check message = %q", body.Checks["ok"].Message)
	}
}

func TestHandler_Unhealthy(t *testing.T) {
	agg := NewAggregator(
		NewCheckerFunc("broken", func(context.Context) Result {
			return Unhealthy("talosctl missing", os.ErrNotExist)
		}),
	)

	rec := httptest.NewRecorder()
	Handler(agg)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestAdminMux_Routes(t *testing.T) {
	mux := AdminMux(NewAggregator())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/healthz status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/metrics status = %d, want 200", rec.Code)
	}
}
