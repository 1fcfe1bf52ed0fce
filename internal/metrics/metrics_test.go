package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zapcore"
)

func TestObserveCacheLookup(t *testing.T) {
	m := New()
	m.ObserveCacheLookup("branding", "hit")
	m.ObserveCacheLookup("branding", "hit")
	m.ObserveCacheLookup("facade", "miss")

	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("branding", "hit")); got != 2 {
		t.Fatalf("branding hit want 2 got %v", got)
	}
	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("facade", "miss")); got != 1 {
		t.Fatalf("facade miss want 1 got %v", got)
	}
}

func TestObserveHTTPRequestUnmatchedRoute(t *testing.T) {
	m := New()
	m.ObserveHTTPRequest("", http.MethodGet, http.StatusNotFound, 10*time.Millisecond)
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Fatalf("unmatched counter want 1 got %v", got)
	}
}

func TestLogHookCountsLevels(t *testing.T) {
	m := New()
	hook := m.LogHook()
	_ = hook(zapcore.Entry{Level: zapcore.WarnLevel})
	_ = hook(zapcore.Entry{Level: zapcore.WarnLevel})
	_ = hook(zapcore.Entry{Level: zapcore.ErrorLevel})
	if got := testutil.ToFloat64(m.logStatements.WithLabelValues("warn")); got != 2 {
		t.Fatalf("warn statements want 2 got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	if err := m.RegisterBackendProbe("redis", func() bool { return true }); err != nil {
		t.Fatalf("register probe failed: %v", err)
	}
	if err := m.RegisterBackendProbe("mysql", func() bool { return false }); err != nil {
		t.Fatalf("register probe failed: %v", err)
	}
	m.ObserveInvalidation("deleted")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status want 200 got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{
		`shm_admin_backend_up{backend="redis"} 1`,
		`shm_admin_backend_up{backend="mysql"} 0`,
		`shm_admin_cache_invalidations_total{outcome="deleted"} 1`,
	} {
		if !strings.Contains(body, name) {
			t.Fatalf("metrics output should contain %q", name)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveCacheLookup("branding", "hit")
	m.ObserveHTTPRequest("/x", "GET", 200, time.Millisecond)
	if err := m.RegisterBackendProbe("mysql", func() bool { return false }); err != nil {
		t.Fatalf("nil register should not fail: %v", err)
	}
	if err := m.LogHook()(zapcore.Entry{}); err != nil {
		t.Fatalf("nil hook should not fail: %v", err)
	}
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("nil metrics handler want 404 got %d", rec.Code)
	}
}
