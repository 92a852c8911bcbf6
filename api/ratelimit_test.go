package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimitAllowsWithinBurst(t *testing.T) {
	rl := NewIPRateLimiter(rate.Limit(1), 3)
	handler := RateLimit(rl, okHandler)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/search", nil)
		req.RemoteAddr = "192.168.1.10:50000"
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d within burst should pass, got %d", i+1, rec.Code)
		}
	}
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	rl := NewIPRateLimiter(rate.Limit(0.001), 1)
	handler := RateLimit(rl, okHandler)

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.RemoteAddr = "192.168.1.10:50000"

	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header on 429")
	}
}

func TestRateLimitSeparatesClients(t *testing.T) {
	rl := NewIPRateLimiter(rate.Limit(0.001), 1)
	handler := RateLimit(rl, okHandler)

	first := httptest.NewRequest(http.MethodGet, "/search", nil)
	first.RemoteAddr = "192.168.1.10:50000"
	rec := httptest.NewRecorder()
	handler(rec, first)
	rec = httptest.NewRecorder()
	handler(rec, first)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("first client should be limited, got %d", rec.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/search", nil)
	second.RemoteAddr = "192.168.1.11:50000"
	rec = httptest.NewRecorder()
	handler(rec, second)
	if rec.Code != http.StatusOK {
		t.Fatalf("second client has its own bucket, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := map[string]struct {
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		"remote addr": {
			remoteAddr: "10.0.0.5:34567",
			want:       "10.0.0.5",
		},
		"x-forwarded-for single": {
			remoteAddr: "127.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9"},
			want:       "203.0.113.9",
		},
		"x-forwarded-for chain takes first": {
			remoteAddr: "127.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"},
			want:       "203.0.113.9",
		},
		"x-real-ip": {
			remoteAddr: "127.0.0.1:80",
			headers:    map[string]string{"X-Real-IP": "198.51.100.4"},
			want:       "198.51.100.4",
		},
	}

	for name, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tc.remoteAddr
		for k, v := range tc.headers {
			req.Header.Set(k, v)
		}
		if got := clientIP(req); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", name, tc.want, got)
		}
	}
}
