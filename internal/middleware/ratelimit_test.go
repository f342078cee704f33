package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wanderlust/wanderlust/internal/cache"
	"github.com/wanderlust/wanderlust/internal/render"
	"github.com/wanderlust/wanderlust/internal/testutil"
)

type failingLimiter struct{}

func (failingLimiter) CheckIPRateLimit(ctx context.Context, scope, ip string, ratePerMinute, burst int) (*cache.RateLimitResult, error) {
	return nil, errors.New("redis unavailable")
}

func newRateLimited(limiter IPRateLimiter, enabled bool) http.Handler {
	return RateLimitIP(RateLimitConfig{
		Logger:            testutil.DiscardLogger(),
		Limiter:           limiter,
		Responder:         render.NewResponder(nil, nil),
		Enabled:           enabled,
		Scope:             "login",
		RequestsPerMinute: 10,
		Burst:             2,
	})(okHandler)
}

func TestRateLimitIP_DeniesAfterBudget(t *testing.T) {
	t.Parallel()

	handler := newRateLimited(&testutil.StaticRateLimiter{Allow: 2}, true)

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.7:51234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)

		if rec.Code == http.StatusTooManyRequests && rec.Header().Get("Retry-After") != "30" {
			t.Errorf("Retry-After = %q, want 30", rec.Header().Get("Retry-After"))
		}
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i, codes[i], want[i])
		}
	}

	// Another client has its own bucket.
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "198.51.100.1:4000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rec.Code)
	}
}

func TestRateLimitIP_FailsOpen(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newRateLimited(failingLimiter{}, true).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when limiter fails", rec.Code)
	}
}

func TestRateLimitIP_Disabled(t *testing.T) {
	t.Parallel()

	handler := newRateLimited(&testutil.StaticRateLimiter{Allow: 0}, false)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when disabled", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"203.0.113.7:51234", "203.0.113.7"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"203.0.113.7", "203.0.113.7"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remoteAddr
		if got := clientIP(req); got != tt.want {
			t.Errorf("clientIP(%q) = %q, want %q", tt.remoteAddr, got, tt.want)
		}
	}
}
