package repository

import (
	"context"
	"errors"

	"github.com/avetra/workstation-allocation/internal/allocation"
	"github.com/avetra/workstation-allocation/internal/model"
)

// SessionStore adapts the repositories to the storage interface the
// allocation session works against.  It exists so the session package
// stays free of SQL concerns and can be tested with an in-memory
// fake.
type SessionStore struct {
	labs     *LabRepo
	holds    *SeatHoldRepo
	allocs   *DivisionAllocationRepo
	requests *RequestRepo
}

// NewSessionStore wires the repositories into one allocation store.
func NewSessionStore(labs *LabRepo, holds *SeatHoldRepo, allocs *DivisionAllocationRepo, requests *RequestRepo) *SessionStore {
	return &SessionStore{labs: labs, holds: holds, allocs: allocs, requests: requests}
}

var _ allocation.Store = (*SessionStore)(nil)

func (s *SessionStore) Lab(ctx context.Context, id uint64) (model.Lab, error) {
	return s.labs.GetByID(ctx, id)
}

func (s *SessionStore) SeatHolds(ctx context.Context) ([]model.SeatHold, error) {
	return s.holds.ListActive(ctx)
}

func (s *SessionStore) DivisionAllocations(ctx context.Context) ([]model.DivisionAllocation, error) {
	return s.allocs.ListAll(ctx)
}

func (s *SessionStore) CreateSeatHolds(ctx context.Context, rows []model.SeatHold) error {
	return s.holds.CreateMultiple(ctx, rows)
}

func (s *SessionStore) UpdatePendingHold(ctx context.Context, requestID, labID uint64, oldPosition, newPosition int, assetID *int) error {
	err := s.holds.UpdatePending(ctx, requestID, labID, oldPosition, newPosition, assetID)
	if errors.Is(err, ErrHoldNotFound) {
		return allocation.ErrHoldNotFound
	}
	return err
}

func (s *SessionStore) DeletePendingHolds(ctx context.Context, requestID, labID uint64, positions []int) error {
	return s.holds.DeletePending(ctx, requestID, labID, positions)
}

func (s *SessionStore) UpdateRequestStatus(ctx context.Context, requestID uint64, status string) error {
	return s.requests.UpdateStatus(ctx, requestID, status)
}
