package services

import "sync"

// userLockMap hands out one mutex per user so that a user's wallet-touching
// requests are serialised in-process. Cross-process races are closed by the
// conditional balance update and the unique selection index; the lock keeps
// a single instance from interleaving a user's own batch items.
type userLockMap struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newUserLockMap() *userLockMap {
	return &userLockMap{m: make(map[string]*sync.Mutex)}
}

// forKey returns the mutex for the given key (creates if absent)
func (l *userLockMap) forKey(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if m, ok := l.m[key]; ok {
		return m
	}
	m := &sync.Mutex{}
	l.m[key] = m
	return m
}
