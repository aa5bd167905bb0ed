package allocation

import (
	"context"
	"errors"

	"github.com/avetra/workstation-allocation/internal/model"
)

// ErrHoldNotFound is returned by Store.UpdatePendingHold when no
// pending row matches the given request, lab and position.  The
// session falls back to creating a fresh row.
var ErrHoldNotFound = errors.New("seat hold not found")

// Store is the storage collaborator of the allocation session.  Reads
// return full collections; every filter and aggregation happens in
// this package.  There is no transaction spanning the calls of one
// logical save — a failure between two calls leaves partial state,
// which is an accepted limitation of the design.
type Store interface {
	// Lab returns one lab by ID.
	Lab(ctx context.Context, id uint64) (model.Lab, error)
	// SeatHolds returns every seat hold in the system, any request,
	// any status.
	SeatHolds(ctx context.Context) ([]model.SeatHold, error)
	// DivisionAllocations returns every committed division allocation.
	DivisionAllocations(ctx context.Context) ([]model.DivisionAllocation, error)
	// CreateSeatHolds inserts new hold rows.
	CreateSeatHolds(ctx context.Context, holds []model.SeatHold) error
	// UpdatePendingHold moves a pending hold of a request within a lab
	// from one position to another, updating the derived asset ID.
	// Returns ErrHoldNotFound when no matching pending row exists.
	UpdatePendingHold(ctx context.Context, requestID, labID uint64, oldPosition, newPosition int, assetID *int) error
	// DeletePendingHolds removes the pending rows of a request in a lab
	// at the given positions.
	DeletePendingHolds(ctx context.Context, requestID, labID uint64, positions []int) error
	// UpdateRequestStatus persists a request status transition.
	UpdateRequestStatus(ctx context.Context, requestID uint64, status string) error
}

// Approver is the external final-approval collaborator.  Finalize
// hands it the complete list of saved allocations; it is responsible
// for transitioning every hold to approved and updating the division
// allocation aggregates.
type Approver interface {
	Approve(ctx context.Context, req model.Request, allocations []SavedAllocation) error
}
