package interview

import "sync"

// sessionLocks serializes operations per session id. Turn submission and
// finalization are read-modify-write cycles over the stored conversation, so
// two of them must never interleave for the same session. Different sessions
// are fully independent.
type sessionLocks struct {
	mu sync.Map // session id -> *sync.Mutex
}

func (l *sessionLocks) acquire(sessionID string) *sync.Mutex {
	lock, _ := l.mu.LoadOrStore(sessionID, &sync.Mutex{})
	m := lock.(*sync.Mutex)
	m.Lock()
	return m
}

// forget drops a session's lock entry so the map does not grow forever.
// Only called once the session is finalized: a latecomer racing on the old
// mutex (or on a freshly created one) loads the session, sees it finalized,
// and is rejected without writing anything.
func (l *sessionLocks) forget(sessionID string) {
	l.mu.Delete(sessionID)
}
