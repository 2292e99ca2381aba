package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestHealth_ReportsStoreAndApplicationCount(t *testing.T) {
	e := echo.New()
	count := 3
	h := NewHandler("sqlite", func() int { return count })
	at := time.Date(2025, 12, 15, 10, 30, 0, 123, time.UTC)
	h.now = func() time.Time { return at }

	get := func() healthResp {
		t.Helper()
		rec := httptest.NewRecorder()
		if err := h.Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			t.Fatalf("expected Content-Type application/json, got %q", ct)
		}
		var body healthResp
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
		}
		return body
	}

	body := get()
	if body.Status != "ok" || body.Store != "sqlite" || body.Applications != 3 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Time != "2025-12-15T10:30:00.000000123Z" {
		t.Fatalf("time = %q, want RFC3339Nano UTC", body.Time)
	}

	// the count is read on every request
	count = 4
	if body := get(); body.Applications != 4 {
		t.Fatalf("applications = %d, want 4", body.Applications)
	}
}

func TestHealth_WithoutCounter(t *testing.T) {
	rec := httptest.NewRecorder()
	h := NewHandler("redis", nil)
	if err := h.Health(echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body healthResp
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Store != "redis" || body.Applications != 0 {
		t.Fatalf("unexpected body: %+v", body)
	}
}
