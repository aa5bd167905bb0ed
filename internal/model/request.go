package model

import "time"

// Request statuses.  A request starts pending, becomes partially
// allocated when its first hold is saved, and ends approved once the
// full quantity is finalized or rejected when all holds are deleted.
const (
	RequestPending            = "PENDING"
	RequestPartiallyAllocated = "PARTIALLY_ALLOCATED"
	RequestApproved           = "APPROVED"
	RequestRejected           = "REJECTED"
)

// Request is the unit of demand: a division needs a number of
// workstations.  It owns zero or more SeatHolds accumulated over the
// lifetime of an allocation session.  This struct corresponds to a
// row in the `requests` table.
//
// Fields:
//  ID        – primary key identifier.
//  Division  – division requesting the seats.
//  Required  – number of workstations requested.
//  Status    – one of the Request* constants above.
//  Requestor – login of the planner who raised the request.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Request struct {
	ID        uint64    // requests.id
	Division  string    // requests.division
	Required  int       // requests.required_count
	Status    string    // requests.status
	Requestor string    // requests.requestor
	CreatedAt time.Time // requests.created_at
	UpdatedAt time.Time // requests.updated_at
}
