package model

import "time"

// Division represents an organizational unit that seats are assigned
// to.  Divisions are maintained outside the allocation core; the core
// only reads their names for labeling and color assignment.  This
// struct corresponds to a row in the `divisions` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique division name (e.g. "Payments").
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Division struct {
	ID        uint64    // divisions.id
	Name      string    // divisions.name
	CreatedAt time.Time // divisions.created_at
	UpdatedAt time.Time // divisions.updated_at
}
