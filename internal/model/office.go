package model

import "time"

// Office represents a physical office location that contains one or
// more floors.  Offices are maintained by administrators and are
// read-only to the allocation core.  This struct corresponds to a row
// in the `offices` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique office name (e.g. "HQ North").
//  City      – city the office is located in.
//  CreatedAt – timestamp when the office was created.
//  UpdatedAt – timestamp of last update.
type Office struct {
	ID        uint64    // offices.id
	Name      string    // offices.name
	City      string    // offices.city
	CreatedAt time.Time // offices.created_at
	UpdatedAt time.Time // offices.updated_at
}
