package tracker

import "sync"

// inflight is the per-account guard that keeps two cycles from mutating the
// same account at once. Busy accounts are skipped, never waited on.
// It also remembers the cursor of each account's last commit so a cycle
// holding a copy loaded before that commit can tell its copy is stale.
type inflight struct {
	mu        sync.Mutex
	keys      map[string]struct{}
	committed map[string]string
}

func newInflight() *inflight {
	return &inflight{keys: make(map[string]struct{}), committed: make(map[string]string)}
}

func (g *inflight) tryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.keys[key]; busy {
		return false
	}
	g.keys[key] = struct{}{}
	return true
}

func (g *inflight) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
}

// commit records the cursor persisted for key.
func (g *inflight) commit(key, cursor string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.committed[key] = cursor
}

// stale reports whether a cycle in this process committed key past cursor.
func (g *inflight) stale(key, cursor string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	last, ok := g.committed[key]
	return ok && last != cursor
}
