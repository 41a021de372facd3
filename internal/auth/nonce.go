package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// NonceStore hands out single-use SIWE nonces per address. A nonce is
// consumed (or expires) exactly once; reuse fails.
type NonceStore struct {
	mu      sync.Mutex
	nonces  map[string]nonceEntry
	ttl     time.Duration
	now     func() time.Time
}

type nonceEntry struct {
	nonce   string
	expires time.Time
}

func NewNonceStore(ttl time.Duration) *NonceStore {
	return &NonceStore{
		nonces: make(map[string]nonceEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a fresh nonce for the address, replacing any outstanding one.
func (s *NonceStore) Issue(address string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	nonce := uuid.NewString()
	s.nonces[NormalizeAddress(address)] = nonceEntry{
		nonce:   nonce,
		expires: s.now().Add(s.ttl),
	}
	return nonce
}

// Consume removes and returns the outstanding nonce for the address.
func (s *NonceStore) Consume(address string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := NormalizeAddress(address)
	entry, ok := s.nonces[key]
	if !ok {
		return "", false
	}
	delete(s.nonces, key)
	if s.now().After(entry.expires) {
		return "", false
	}
	return entry.nonce, true
}

func (s *NonceStore) pruneLocked() {
	now := s.now()
	for key, entry := range s.nonces {
		if now.After(entry.expires) {
			delete(s.nonces, key)
		}
	}
}
