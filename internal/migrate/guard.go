package migrate

import "sync"

// txnGuard is a single-slot registry enforcing at most one open transaction
// per workspace. It is owned by the Workspace rather than living in package
// state, so independent workspaces (and their tests) never interfere.
type txnGuard struct {
	mu     sync.Mutex
	active *Transaction
}

func (g *txnGuard) acquire(t *Transaction) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active != nil {
		return ErrExistingTransaction
	}
	g.active = t
	return nil
}

func (g *txnGuard) release(t *Transaction) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active == t {
		g.active = nil
	}
}
