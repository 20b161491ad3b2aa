// internal/loan/session/lock.go
package session

import "sync"

// LockManager serializes message processing per session id, so two
// concurrent messages for the same conversation cannot interleave their
// read-modify-write cycles against the store.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewLockManager() *LockManager {
	return &LockManager{locks: map[string]*sessionLock{}}
}

// Lock blocks until the caller owns the session and returns the unlock
// function. Lock entries are reference counted and removed when idle, so
// the map does not grow with dead sessions.
func (m *LockManager) Lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}
