// Package allocation implements the seat-grid allocation core: the
// seat state resolver, the capacity and conflict validator, the
// per-request allocation session and the grid presentation.  All
// validation runs against in-memory snapshots fetched immediately
// before each mutating step; nothing in this package talks to the
// network directly.
package allocation

import (
	"fmt"

	"github.com/avetra/workstation-allocation/internal/model"
)

// SeatStatus is the resolved lifecycle state of a single seat.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE" // free for selection
	SeatPending   SeatStatus = "PENDING"   // held by a pending request
	SeatBooked    SeatStatus = "BOOKED"    // committed to a division
)

// SeatState is the resolver's verdict for one seat position.
//
// AssetID is the identifier derived from the lab's Asset-ID range and
// is nil when the position falls outside the configured block.  Label
// is always set: the identifier when one exists, a synthetic
// "WS-<position>" otherwise.
type SeatState struct {
	Position int
	Status   SeatStatus
	Division string // owning division for pending/booked seats
	Color    string // stable division color for booked seats
	AssetID  *int
	Label    string
}

// Snapshot is the context bundle the resolver and validator operate
// on: every seat hold and division allocation visible in the system,
// plus the positions currently excluded from "locked" consideration
// because they belong to a hold actively being edited.  Exclusions let
// the editor treat its own prior seats as free for re-selection.
type Snapshot struct {
	Holds          []model.SeatHold
	Allocations    []model.DivisionAllocation
	EditExclusions map[int]bool
}

func (s Snapshot) excluded(pos int) bool {
	return s.EditExclusions != nil && s.EditExclusions[pos]
}

// holdsForLab filters the snapshot's holds down to one lab.
func (s Snapshot) holdsForLab(labID uint64) []model.SeatHold {
	var out []model.SeatHold
	for _, h := range s.Holds {
		if h.LabID == labID {
			out = append(out, h)
		}
	}
	return out
}

// allocationsForLab filters the snapshot's allocations down to one lab.
func (s Snapshot) allocationsForLab(labID uint64) []model.DivisionAllocation {
	var out []model.DivisionAllocation
	for _, a := range s.Allocations {
		if a.LabID == labID {
			out = append(out, a)
		}
	}
	return out
}

// syntheticLabel is the display fallback for seats without a derived
// identifier (lab has no range, or the range is shorter than the lab).
func syntheticLabel(position int) string {
	return fmt.Sprintf("WS-%d", position)
}
