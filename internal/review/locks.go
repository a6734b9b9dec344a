package review

import "sync"

// assistLocks serializes mutating operations per assist so two review
// rounds for the same essay never interleave in-process. Cross-process
// races are caught by the store's state token instead.
type assistLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAssistLocks() *assistLocks {
	return &assistLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *assistLocks) lock(id string) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
