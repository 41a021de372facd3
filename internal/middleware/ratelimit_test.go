package middleware

import (
	"testing"
	"time"
)

func TestInMemoryRateLimiter_Limit(t *testing.T) {
	l := NewInMemoryRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("a") {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow("a") {
		t.Fatalf("expected 4th request to be rejected")
	}
	// Independent keys.
	if !l.Allow("b") {
		t.Fatalf("other key should be unaffected")
	}
}

func TestInMemoryRateLimiter_WindowExpiry(t *testing.T) {
	l := NewInMemoryRateLimiter(1, 30*time.Millisecond)
	if !l.Allow("a") {
		t.Fatalf("first request should be allowed")
	}
	if l.Allow("a") {
		t.Fatalf("second immediate request should be rejected")
	}
	time.Sleep(50 * time.Millisecond)
	if !l.Allow("a") {
		t.Fatalf("request after window should be allowed")
	}
}
