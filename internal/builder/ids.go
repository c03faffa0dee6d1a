package builder

import (
	"sync"

	"github.com/google/uuid"
)

// idAllocator mints client-side ids for tree nodes created before the first
// successful save. Every minted id is remembered so the session can tell a
// local, unsaved id from a server-assigned one. Wall-clock-derived ids are
// deliberately not used; rapid sequential adds must never collide.
type idAllocator struct {
	mu     sync.Mutex
	minted map[uuid.UUID]struct{}
}

func newIDAllocator() *idAllocator {
	return &idAllocator{minted: make(map[uuid.UUID]struct{})}
}

func (a *idAllocator) next() uuid.UUID {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := uuid.New()
	a.minted[id] = struct{}{}
	return id
}

func (a *idAllocator) isLocal(id uuid.UUID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.minted[id]
	return ok
}

// forgetAll drops the local-id record, typically after the server has adopted
// (or replaced) every node in the tree.
func (a *idAllocator) forgetAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.minted = make(map[uuid.UUID]struct{})
}
