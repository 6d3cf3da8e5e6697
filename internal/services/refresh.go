package services

import "sync/atomic"

// RefreshCoordinator hands out generation tokens to recomputation passes.
// New data arriving while a pass is in flight starts a newer generation;
// the older pass still finishes, but its results are discarded instead of
// racing the newer write. There is no true parallel mutation to lock
// against, only completion-order ambiguity, and the token resolves that.
type RefreshCoordinator struct {
	current atomic.Uint64
}

// Begin starts a new generation and returns its token.
func (r *RefreshCoordinator) Begin() uint64 {
	return r.current.Add(1)
}

// Current returns the newest generation token handed out.
func (r *RefreshCoordinator) Current() uint64 {
	return r.current.Load()
}

// Commit reports whether a pass holding token is still the newest and may
// publish its results.
func (r *RefreshCoordinator) Commit(token uint64) bool {
	return token == r.current.Load()
}
