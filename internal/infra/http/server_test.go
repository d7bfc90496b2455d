package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, _ := io.ReadAll(rec.Result().Body)
	return rec.Code, string(body)
}

func TestHealth(t *testing.T) {
	h := Handler(nil, nil)
	if code, body := get(t, h, "/health"); code != http.StatusOK || body != "OK" {
		t.Fatalf("health = %d %q", code, body)
	}
	if code, _ := get(t, h, "/metrics"); code != http.StatusNotFound {
		t.Fatalf("metrics must be off, got %d", code)
	}
}

func TestReady(t *testing.T) {
	down := Handler(nil, func(context.Context) error { return errors.New("db down") })
	if code, _ := get(t, down, "/health/ready"); code != http.StatusServiceUnavailable {
		t.Fatalf("ready = %d", code)
	}
	up := Handler(nil, func(context.Context) error { return nil })
	if code, _ := get(t, up, "/health/ready"); code != http.StatusOK {
		t.Fatalf("ready = %d", code)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "probe_total", Help: "probe"})
	reg.MustRegister(c)
	c.Inc()

	code, body := get(t, Handler(reg, nil), "/metrics")
	if code != http.StatusOK || !strings.Contains(body, "probe_total 1") {
		t.Fatalf("metrics = %d\n%s", code, body)
	}
}
