package workers

import (
	"context"
	"sync"
)

type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

// SearchCoordinator keeps at most one running search per session; starting a
// new one cancels the previous
type SearchCoordinator struct {
	mu      sync.Mutex
	seq     uint64
	running map[string]inflight
}

func NewSearchCoordinator() *SearchCoordinator {
	return &SearchCoordinator{running: make(map[string]inflight)}
}

// Begin returns a context for a new search of sessionID. done must be called
// once the search returns.
func (c *SearchCoordinator) Begin(ctx context.Context, sessionID string) (context.Context, func()) {
	searchCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if prev, ok := c.running[sessionID]; ok {
		prev.cancel()
	}
	c.seq++
	seq := c.seq
	c.running[sessionID] = inflight{seq: seq, cancel: cancel}
	c.mu.Unlock()

	done := func() {
		c.mu.Lock()
		if cur, ok := c.running[sessionID]; ok && cur.seq == seq {
			delete(c.running, sessionID)
		}
		c.mu.Unlock()
		cancel()
	}
	return searchCtx, done
}

// Cancel stops the running search of sessionID, if any
func (c *SearchCoordinator) Cancel(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.running[sessionID]; ok {
		cur.cancel()
		delete(c.running, sessionID)
	}
}

func (c *SearchCoordinator) Running() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.running)
}
