package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// stateStore tracks outstanding OAuth state nonces so the callback can
// verify that an authorization response belongs to a flow this process
// started. Entries expire after a TTL and are reaped opportunistically.
type stateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

func newStateStore(ttl time.Duration) *stateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &stateStore{
		states: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue registers and returns a fresh state nonce.
func (s *stateStore) Issue() string {
	state := uuid.NewString()

	s.mu.Lock()
	s.gcLocked(s.now())
	s.states[state] = s.now().Add(s.ttl)
	s.mu.Unlock()

	return state
}

// Consume verifies the state and removes it. Each state is single-use.
func (s *stateStore) Consume(state string) bool {
	if state == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expires, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return s.now().Before(expires)
}

func (s *stateStore) gcLocked(now time.Time) {
	for state, expires := range s.states {
		if now.After(expires) {
			delete(s.states, state)
		}
	}
}
