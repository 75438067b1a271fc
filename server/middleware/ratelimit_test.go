package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doRequest := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// First three requests pass, the fourth is rejected
	for i := 0; i < 3; i++ {
		if code := doRequest("10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, code, http.StatusOK)
		}
	}
	if code := doRequest("10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", code, http.StatusTooManyRequests)
	}

	// A different IP has its own window
	if code := doRequest("10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("second IP status = %d, want %d", code, http.StatusOK)
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.allow("10.0.0.1:1234") {
		t.Fatal("first request must be allowed")
	}
	if rl.allow("10.0.0.1:1234") {
		t.Fatal("second request within window must be rejected")
	}

	time.Sleep(20 * time.Millisecond)
	if !rl.allow("10.0.0.1:1234") {
		t.Error("request after window expiry must be allowed")
	}
}
