package services

import "sync"

// ipLocks hands out one mutex per client IP. Entries are reference counted and
// dropped when the last holder unlocks, so the map only holds IPs in flight.
type ipLocks struct {
	mu    sync.Mutex
	locks map[string]*ipLock
}

type ipLock struct {
	mu   sync.Mutex
	refs int
}

func newIPLocks() *ipLocks {
	return &ipLocks{locks: make(map[string]*ipLock)}
}

// Lock blocks until the caller holds the lock for ip and returns the matching unlock func
func (l *ipLocks) Lock(ip string) func() {
	l.mu.Lock()
	entry, ok := l.locks[ip]
	if !ok {
		entry = &ipLock{}
		l.locks[ip] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, ip)
		}
		l.mu.Unlock()
	}
}

func (l *ipLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
