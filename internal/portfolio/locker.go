package portfolio

import "sync"

// locker hands out one mutex per portfolio id
type locker struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newLocker() *locker {
	return &locker{locks: make(map[int64]*sync.Mutex)}
}

// Lock blocks until the portfolio is free and returns the matching unlock
func (l *locker) Lock(id int64) func() {
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
