package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const DefaultStateTTL = 10 * time.Minute

// StateStore holds OAuth state values between the authorize redirect and
// the callback. Each value can be consumed once.
type StateStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewStateStore(ttl time.Duration) *StateStore {
	return &StateStore{cache: cache.New(ttl, 2*ttl)}
}

func (s *StateStore) Issue() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	state := hex.EncodeToString(buf)
	s.cache.SetDefault(state, struct{}{})
	return state, nil
}

// Consume reports whether state was issued and not yet used or expired.
func (s *StateStore) Consume(state string) bool {
	if state == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache.Get(state); !ok {
		return false
	}
	s.cache.Delete(state)
	return true
}
