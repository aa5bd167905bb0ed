// Package approval implements the final-approval step of the
// allocation workflow: pending seat holds become committed division
// allocations in a single database transaction, and an event is
// published for downstream consumers.
package approval

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/avetra/workstation-allocation/internal/allocation"
	"github.com/avetra/workstation-allocation/internal/model"
	"github.com/avetra/workstation-allocation/internal/queue"
	"github.com/avetra/workstation-allocation/internal/rangecodec"
	"github.com/avetra/workstation-allocation/internal/repository"
)

// PublishFunc emits an allocation lifecycle event.  Nil-able;
// approval still succeeds when no broker is configured.
type PublishFunc func(ctx context.Context, evt queue.AllocationFinalizedEvent) error

// Approver commits a finalized request.  All database writes happen
// in one transaction; the event publish happens after commit and is
// non-fatal.
type Approver struct {
	db        *sql.DB
	holds     *repository.SeatHoldRepo
	allocs    *repository.DivisionAllocationRepo
	requests  *repository.RequestRepo
	publish   PublishFunc
}

// NewApprover wires an Approver.  publish may be nil.
func NewApprover(db *sql.DB, holds *repository.SeatHoldRepo, allocs *repository.DivisionAllocationRepo, requests *repository.RequestRepo, publish PublishFunc) *Approver {
	return &Approver{db: db, holds: holds, allocs: allocs, requests: requests, publish: publish}
}

var _ allocation.Approver = (*Approver)(nil)

// Approve transitions every pending hold of the request to APPROVED,
// writes one committed division allocation per lab and marks the
// request approved.  Rolls back on any failure.
func (a *Approver) Approve(ctx context.Context, req model.Request, allocations []allocation.SavedAllocation) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := a.holds.ApproveByRequestTx(ctx, tx, req.ID); err != nil {
		return err
	}
	for _, sa := range allocations {
		var rangeText *string
		if len(sa.AssetIDs) > 0 {
			rt := rangecodec.Format(sa.AssetIDs)
			rangeText = &rt
		}
		if err := a.allocs.CreateTx(ctx, tx, sa.LabID, sa.Division, len(sa.Positions), rangeText); err != nil {
			return err
		}
	}
	if err := a.requests.UpdateStatusTx(ctx, tx, req.ID, model.RequestApproved); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	if a.publish != nil {
		evt := queue.AllocationFinalizedEvent{
			RequestID:   req.ID,
			Division:    req.Division,
			Required:    req.Required,
			Requestor:   req.Requestor,
			FinalizedAt: time.Now().UTC(),
		}
		for _, sa := range allocations {
			evt.Labs = append(evt.Labs, queue.FinalizedLab{
				LabID:    sa.LabID,
				LabName:  sa.LabName,
				Seats:    len(sa.Positions),
				AssetIDs: sa.AssetIDs,
			})
		}
		if err := a.publish(ctx, evt); err != nil {
			// the allocation is committed; losing the event only
			// affects downstream reporting
			log.Printf("approval: publish finalized event failed: %v", err)
		}
	}
	return nil
}
