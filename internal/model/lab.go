package model

import "time"

// Lab represents a physical room with a fixed number of workstation
// seats.  A lab may carry a contiguous numeric Asset-ID range (for
// example "100-130") that labels its seat positions 1..N; the mapping
// is identifier(position) = range.start + position - 1.  Labs are
// created and edited by administrators outside the allocation core and
// are read-only to it.  This struct corresponds to a row in the `labs`
// table.
//
// Fields:
//  ID                – primary key identifier.
//  FloorID           – floor this lab is located on.
//  Name              – lab name unique per floor.
//  TotalWorkstations – fixed seat count of the room.
//  AssetIDRange      – optional contiguous identifier range string
//                      ("start-end"); nil when the lab has no range
//                      configured.  Nothing enforces that the range
//                      length matches TotalWorkstations.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Lab struct {
	ID                uint64    // labs.id
	FloorID           uint64    // labs.floor_id
	Name              string    // labs.name
	TotalWorkstations int       // labs.total_workstations
	AssetIDRange      *string   // labs.asset_id_range (nullable)
	CreatedAt         time.Time // labs.created_at
	UpdatedAt         time.Time // labs.updated_at
}

// RangeText returns the lab's Asset-ID range string or "" when the
// lab has no range configured.
func (l Lab) RangeText() string {
	if l.AssetIDRange == nil {
		return ""
	}
	return *l.AssetIDRange
}
