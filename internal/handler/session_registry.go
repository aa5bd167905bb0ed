package handler

import (
	"context"
	"sync"

	"github.com/avetra/workstation-allocation/internal/allocation"
	"github.com/avetra/workstation-allocation/internal/repository"
)

// SessionRegistry keeps one live allocation session per request.
// Sessions are created lazily on first use and rebuilt from the
// pending holds in storage, so a server restart or browser reload
// resumes where the planner left off.  The registry is process-local;
// running multiple instances would need sticky routing.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[uint64]*allocation.Session

	store    allocation.Store
	approver allocation.Approver
	requests *repository.RequestRepo
}

// NewSessionRegistry wires a registry over the shared store and
// approver.
func NewSessionRegistry(store allocation.Store, approver allocation.Approver, requests *repository.RequestRepo) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[uint64]*allocation.Session),
		store:    store,
		approver: approver,
		requests: requests,
	}
}

// Get returns the live session for a request, creating and resuming
// it from storage on first access.  requestor is recorded on newly
// created holds only.
func (r *SessionRegistry) Get(ctx context.Context, requestID uint64, requestor string) (*allocation.Session, error) {
	r.mu.Lock()
	if sess, ok := r.sessions[requestID]; ok {
		r.mu.Unlock()
		return sess, nil
	}
	r.mu.Unlock()

	req, err := r.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	sess := allocation.NewSession(r.store, r.approver, req, requestor)
	if err := sess.Resume(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another goroutine may have resumed the same request meanwhile
	if existing, ok := r.sessions[requestID]; ok {
		return existing, nil
	}
	r.sessions[requestID] = sess
	return sess, nil
}

// Drop forgets the live session of a request.  Used after finalize so
// a later lookup sees the terminal state from storage.
func (r *SessionRegistry) Drop(requestID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, requestID)
}
