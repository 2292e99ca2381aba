package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(Idempotency(rdb, ttl, zap.NewNop()))
	e.POST("/wizard/calculate", handler)
	e.POST("/wizard/submit", handler)
	e.GET("/wizard", handler) // non-mutating bypass
	return e
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func validHeaders() map[string]string {
	return map[string]string{
		HeaderRequestID: uuid.NewString(),
		HeaderRequestAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// countingHandler answers with a new sequence number on every real call.
func countingHandler(n *int32) echo.HandlerFunc {
	return func(c echo.Context) error {
		v := atomic.AddInt32(n, 1)
		return c.JSON(http.StatusOK, map[string]int32{"call": v})
	}
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var n int32
	e := setupEcho(rdb, 30*time.Second, countingHandler(&n))
	if rec := doReq(t, e, http.MethodGet, "/wizard", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_ValidationFailures(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var n int32
	e := setupEcho(rdb, 30*time.Second, countingHandler(&n))

	tests := []struct {
		name string
		hdr  map[string]string
	}{
		{"missing request id", map[string]string{HeaderRequestAt: time.Now().UTC().Format(time.RFC3339)}},
		{"invalid request id", map[string]string{HeaderRequestID: "NOT-VALID", HeaderRequestAt: time.Now().UTC().Format(time.RFC3339)}},
		{"missing request at", map[string]string{HeaderRequestID: uuid.NewString()}},
		{"invalid request at", map[string]string{HeaderRequestID: uuid.NewString(), HeaderRequestAt: "not-a-time"}},
		{"request at too old", map[string]string{HeaderRequestID: uuid.NewString(), HeaderRequestAt: time.Now().UTC().Add(-maxClockSkew - time.Minute).Format(time.RFC3339)}},
		{"request at in the future", map[string]string{HeaderRequestID: uuid.NewString(), HeaderRequestAt: time.Now().UTC().Add(maxClockSkew + time.Minute).Format(time.RFC3339)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doReq(t, e, http.MethodPost, "/wizard/calculate", nil, tt.hdr)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d", rec.Code)
			}
		})
	}
	if n != 0 {
		t.Fatalf("handler must not run on rejected requests, ran %d times", n)
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var n int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n))
	h := validHeaders()

	rec1 := doReq(t, e, http.MethodPost, "/wizard/calculate", nil, h)
	if rec1.Code != http.StatusOK {
		t.Fatalf("first request => want 200, got %d, body: %s", rec1.Code, rec1.Body.String())
	}
	rec2 := doReq(t, e, http.MethodPost, "/wizard/calculate", nil, h)
	if rec2.Code != http.StatusOK {
		t.Fatalf("replay => want 200, got %d", rec2.Code)
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if n != 1 {
		t.Fatalf("handler should run once, ran %d times", n)
	}

	// same request id on another route is a different operation
	rec3 := doReq(t, e, http.MethodPost, "/wizard/submit", nil, h)
	if rec3.Code != http.StatusOK || n != 2 {
		t.Fatalf("other route => want fresh call, got %d (calls=%d)", rec3.Code, n)
	}
}

func Test_ErrorResponsesAreReplayedToo(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var n int32
	e := setupEcho(rdb, time.Minute, func(c echo.Context) error {
		atomic.AddInt32(&n, 1)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to calculate loan offer. Please try again."})
	})
	h := validHeaders()

	for i := 0; i < 2; i++ {
		if rec := doReq(t, e, http.MethodPost, "/wizard/calculate", nil, h); rec.Code != http.StatusBadGateway {
			t.Fatalf("attempt %d: want 502, got %d", i, rec.Code)
		}
	}
	if n != 1 {
		t.Fatalf("handler should run once, ran %d times", n)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var n int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n))
	h := validHeaders()

	key := buildKey(http.MethodPost, "/wizard/calculate", h[HeaderRequestID])
	entry := idempEntry{
		InProgress:  true,
		BodySHA256:  bodyHash([]byte{}),
		RequestID:   h[HeaderRequestID],
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   time.Now().UTC(),
	}
	if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/wizard/calculate", nil, h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
	if n != 0 {
		t.Fatalf("handler must not run while in progress")
	}
}

func Test_Conflict_When_SameReqID_DifferentBody(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var n int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n))
	h := validHeaders()

	if rec := doReq(t, e, http.MethodPost, "/wizard/submit", bytes.NewReader([]byte(`{"x":1}`)), h); rec.Code != http.StatusOK {
		t.Fatalf("first => want 200, got %d", rec.Code)
	}
	rec := doReq(t, e, http.MethodPost, "/wizard/submit", bytes.NewReader([]byte(`{"x":2}`)), h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same reqID => want 409, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	// closed address → SetNX error
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()
	var n int32
	e := setupEcho(rdb, time.Minute, countingHandler(&n))

	rec := doReq(t, e, http.MethodPost, "/wizard/calculate", nil, validHeaders())
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
	if n != 0 {
		t.Fatalf("handler must not run without the store")
	}
}
