package model

import "time"

// Floor represents a single floor inside an office.  Labs are grouped
// by floor, and the allocation UI filters labs office → floor → lab.
// This struct corresponds to a row in the `floors` table.
//
// Fields:
//  ID        – primary key identifier.
//  OfficeID  – office this floor belongs to.
//  Name      – floor label unique per office (e.g. "F-5").
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Floor struct {
	ID        uint64    // floors.id
	OfficeID  uint64    // floors.office_id
	Name      string    // floors.name
	CreatedAt time.Time // floors.created_at
	UpdatedAt time.Time // floors.updated_at
}
