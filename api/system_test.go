package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/garnizeh/jobhunt/api"
)

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

func TestSystemHandlers(t *testing.T) {
	h := api.NewSystemHandler(nil)

	// HealthHandler
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.HealthHandler(w, req)
	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health: expected 200 got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("health: expected json content-type, got %q", ct)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"status":"ok"`) {
		t.Fatalf("health: unexpected body %s", string(b))
	}

	// VersionHandler
	vh := h.VersionHandler("1.2.3", "2026-01-01T00:00:00Z")
	w2 := httptest.NewRecorder()
	vh(w2, httptest.NewRequest(http.MethodGet, "/version", nil))
	if w2.Code != http.StatusOK {
		t.Fatalf("version: expected 200 got %d", w2.Code)
	}
	b2 := w2.Body.String()
	if !strings.Contains(b2, `"version":"1.2.3"`) || !strings.Contains(b2, `"buildTime":"2026-01-01T00:00:00Z"`) {
		t.Fatalf("version: unexpected body %s", b2)
	}
}

func TestHealthHandler_Store(t *testing.T) {
	cases := []struct {
		name       string
		store      api.Pinger
		wantStatus int
		wantBody   string
	}{
		{"Up", pinger{}, http.StatusOK, `"store":"ok"`},
		{"Down", pinger{err: errors.New("no reachable servers")}, http.StatusServiceUnavailable, `"status":"degraded"`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			api.NewSystemHandler(c.store).HealthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			if w.Code != c.wantStatus || !strings.Contains(w.Body.String(), c.wantBody) {
				t.Fatalf("want %d %s, got %d %s", c.wantStatus, c.wantBody, w.Code, w.Body.String())
			}
		})
	}
}

func TestRootEndpoints(t *testing.T) {
	e := newTestEnv(t, nil)
	for _, path := range []string{"/health", "/version", "/metrics"} {
		res, body := e.do(httptest.NewRequest(http.MethodGet, path, nil))
		if res.StatusCode != http.StatusOK {
			t.Fatalf("%s: want 200 got %d body=%s", path, res.StatusCode, body)
		}
	}

	// the metrics middleware has seen the requests above
	_, body := e.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(body, `jobhunt_http_requests_total{method="GET",route="/health",status="200"}`) {
		t.Fatalf("request counter missing from exposition")
	}
}
