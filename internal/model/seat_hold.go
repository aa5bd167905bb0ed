package model

import "time"

// SeatHold lifecycle statuses.  A pending hold reserves a seat while a
// request is being assembled; approval happens in the external
// final-approval step.  Rejected rows are kept for audit only and
// never block a seat.
const (
	HoldPending  = "PENDING"  // seat reserved, request not yet finalized
	HoldApproved = "APPROVED" // seat committed by the approval workflow
	HoldRejected = "REJECTED" // hold cancelled; seat is free again
)

// SeatHold is a single-seat reservation tied to one request, one lab
// and one seat position (1..N positional index, distinct from the
// Asset ID).  The system must never allow two pending-or-approved
// holds to share (lab, position) across different requests.  This
// struct corresponds to a row in the `seat_holds` table.
//
// Fields:
//  ID        – primary key identifier.
//  RequestID – request this hold belongs to.
//  LabID     – lab the seat is located in.
//  Position  – 1-indexed slot number within the lab.
//  Status    – one of HoldPending, HoldApproved, HoldRejected.
//  AssetID   – identifier derived from the lab's range once known;
//              nil when the lab carries no range.
//  Division  – division the seat is being reserved for.
//  Requestor – login of the planner who created the hold.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type SeatHold struct {
	ID        uint64    // seat_holds.id
	RequestID uint64    // seat_holds.request_id
	LabID     uint64    // seat_holds.lab_id
	Position  int       // seat_holds.position
	Status    string    // seat_holds.status
	AssetID   *int      // seat_holds.asset_id (nullable)
	Division  string    // seat_holds.division
	Requestor string    // seat_holds.requestor
	CreatedAt time.Time // seat_holds.created_at
	UpdatedAt time.Time // seat_holds.updated_at
}

// Active reports whether the hold still occupies its seat, i.e. the
// status is pending or approved.
func (h SeatHold) Active() bool {
	return h.Status == HoldPending || h.Status == HoldApproved
}
