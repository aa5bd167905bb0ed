package model

import "time"

// DivisionAllocation is a committed record stating that a division
// occupies a number of seats inside a lab, optionally with an explicit
// identifier range assigned.  Several allocations may reference the
// same lab (one per division).  These rows are mutated only by the
// approval workflow; the allocation core reads them to resolve seat
// states and to compute remaining capacity.  This struct corresponds
// to a row in the `division_allocations` table.
//
// Fields:
//  ID           – primary key identifier.
//  LabID        – lab the seats are located in.
//  Division     – name of the occupying division.
//  InUse        – number of seats the division occupies in this lab.
//  AssetIDRange – optional explicit identifier subset/range assigned
//                 to this allocation; nil for count-only (legacy/bulk)
//                 allocations that predate per-seat tracking.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type DivisionAllocation struct {
	ID           uint64    // division_allocations.id
	LabID        uint64    // division_allocations.lab_id
	Division     string    // division_allocations.division
	InUse        int       // division_allocations.in_use
	AssetIDRange *string   // division_allocations.asset_id_range (nullable)
	CreatedAt    time.Time // division_allocations.created_at
	UpdatedAt    time.Time // division_allocations.updated_at
}

// RangeText returns the allocation's identifier range string or ""
// when the allocation is count-only.
func (a DivisionAllocation) RangeText() string {
	if a.AssetIDRange == nil {
		return ""
	}
	return *a.AssetIDRange
}
