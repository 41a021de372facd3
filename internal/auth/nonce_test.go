package auth

import (
	"testing"
	"time"
)

func TestNonceStore_IssueConsume(t *testing.T) {
	s := NewNonceStore(time.Minute)
	addr := "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

	nonce := s.Issue(addr)
	if nonce == "" {
		t.Fatalf("expected non-empty nonce")
	}
	got, ok := s.Consume(addr)
	if !ok || got != nonce {
		t.Fatalf("Consume = %q, %v; want %q, true", got, ok, nonce)
	}
	// Single use.
	if _, ok := s.Consume(addr); ok {
		t.Fatalf("expected second consume to fail")
	}
}

func TestNonceStore_Expiry(t *testing.T) {
	s := NewNonceStore(time.Minute)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }

	addr := "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	s.Issue(addr)
	now = now.Add(2 * time.Minute)
	if _, ok := s.Consume(addr); ok {
		t.Fatalf("expected expired nonce to be rejected")
	}
}

func TestNonceStore_ReissueReplaces(t *testing.T) {
	s := NewNonceStore(time.Minute)
	addr := "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	first := s.Issue(addr)
	second := s.Issue(addr)
	if first == second {
		t.Fatalf("expected a fresh nonce on reissue")
	}
	got, ok := s.Consume(addr)
	if !ok || got != second {
		t.Fatalf("expected latest nonce, got %q ok=%v", got, ok)
	}
}
