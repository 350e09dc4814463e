package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	// 5 requests per minute, burst of 5
	l := NewLimiter(5, time.Minute, 5)
	defer l.Close()

	for i := range 5 {
		result := l.Allow("k")
		if !result.Allowed {
			t.Errorf("request %d should be allowed", i+1)
		}
		if result.Limit != 5 {
			t.Errorf("expected Limit=5, got %d", result.Limit)
		}
	}
	result := l.Allow("k")
	if result.Allowed {
		t.Error("6th request should be rate limited")
	}
	if result.RetryAfter < time.Second {
		t.Errorf("expected RetryAfter >= 1s, got %v", result.RetryAfter)
	}
	if !l.Allow("other").Allowed {
		t.Error("other key should have its own bucket")
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	l := NewLimiter(60, time.Minute, 10)
	defer l.Close()
	now := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(time.Minute)
	l.cleanup()
	if l.Len() != 1 {
		t.Fatalf("recent bucket removed")
	}
	now = now.Add(time.Hour)
	l.cleanup()
	if l.Len() != 0 {
		t.Errorf("stale bucket kept")
	}
	l.Close()
	l.Close()
}

func TestConfig_Match(t *testing.T) {
	cfg := NewConfig(DefaultLimits())
	defer cfg.Close()

	tests := []struct {
		method   string
		path     string
		wantTier string
	}{
		{"GET", "/api/health", ""},
		{"GET", "/api/events", ""},
		{"GET", "/index.html", ""},
		{"OPTIONS", "/api/admin/artworks", ""},
		{"POST", "/api/admin/login", "login"},
		{"GET", "/api/artworks", "read"},
		{"POST", "/api/admin/artworks", "write"},
		{"PUT", "/api/preferences/theme", "write"},
		{"DELETE", "/api/admin/videos/1", "write"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			tier := cfg.Match(tt.method, tt.path)
			switch {
			case tt.wantTier == "" && tier != nil:
				t.Errorf("expected nil tier, got %s", tier.Name)
			case tt.wantTier != "" && tier == nil:
				t.Errorf("expected tier %s, got nil", tt.wantTier)
			case tier != nil && tier.Name != tt.wantTier:
				t.Errorf("expected tier %s, got %s", tt.wantTier, tier.Name)
			}
		})
	}
}

func TestConfig_Unlimited(t *testing.T) {
	cfg := NewConfig(Limits{})
	defer cfg.Close()
	if tier := cfg.Match("GET", "/api/artworks"); tier != nil {
		t.Errorf("zero limit should disable the tier, got %s", tier.Name)
	}
}

func TestWriteHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	WriteHeaders(w, Result{Allowed: false, Limit: 60, ResetAt: time.Unix(1706012345, 0), RetryAfter: 30 * time.Second})
	for k, want := range map[string]string{
		"X-RateLimit-Limit":     "60",
		"X-RateLimit-Remaining": "0",
		"X-RateLimit-Reset":     "1706012345",
		"Retry-After":           "30",
	} {
		if got := w.Header().Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	cfg := NewConfig(Limits{LoginPerMin: 6})
	defer cfg.Close()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := Middleware(cfg, func(w http.ResponseWriter, r *http.Request, res Result) {
		w.WriteHeader(http.StatusTooManyRequests)
	})(next)

	do := func(remote string) int {
		req := httptest.NewRequest("POST", "/api/admin/login", http.NoBody)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}
	// Burst is 1 for 6/min.
	if code := do("10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("first request = %d", code)
	}
	if code := do("10.0.0.1:5678"); code != http.StatusTooManyRequests {
		t.Errorf("second request = %d, want 429", code)
	}
	if code := do("10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("other client = %d, want 200", code)
	}

	req := httptest.NewRequest("GET", "/api/artworks", http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Header().Get("X-RateLimit-Limit") != "" {
		t.Errorf("unlimited tier: code %d, headers %v", w.Code, w.Header())
	}
}
