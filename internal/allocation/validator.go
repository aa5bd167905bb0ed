package allocation

import (
	"fmt"
	"strings"

	"github.com/avetra/workstation-allocation/internal/model"
	"github.com/avetra/workstation-allocation/internal/rangecodec"
)

// Conflict state labels reported to the user alongside the owning
// division of a colliding identifier.
const (
	ConflictApproved = "Approved"
	ConflictPending  = "Pending/Reserved"
)

// maxReportedConflicts caps how many concrete collisions a rejection
// lists; the rest collapse into a remainder count.
const maxReportedConflicts = 3

// CapacityError rejects a save that exceeds the lab's remaining
// capacity.  All four numbers are surfaced so the user sees exactly
// why the request does not fit.
type CapacityError struct {
	Lab       string
	Capacity  int // remaining free seats
	InUse     int // seats held by committed division allocations
	Pending   int // seats held by pending holds of other requests
	Requested int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("lab %s has %d seat(s) left (%d in use, %d pending), cannot allocate %d",
		e.Lab, e.Capacity, e.InUse, e.Pending, e.Requested)
}

// DemandError rejects a save that exceeds the request's remaining
// demand.
type DemandError struct {
	Required  int
	Allocated int
	Requested int
}

func (e *DemandError) Error() string {
	return fmt.Sprintf("request needs %d more seat(s), cannot allocate %d",
		e.Required-e.Allocated, e.Requested)
}

// ConfigError blocks a save because the lab's configuration is
// incomplete; the user must fix it in administration, the save is
// refused rather than worked around.
type ConfigError struct {
	Lab    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("lab %s is not fully configured: %s", e.Lab, e.Reason)
}

// SeatConflict is one colliding identifier with its owner.
type SeatConflict struct {
	AssetID  int
	Division string
	State    string // ConflictApproved or ConflictPending
}

func (c SeatConflict) String() string {
	return fmt.Sprintf("%d — %s (%s)", c.AssetID, c.Division, c.State)
}

// ConflictError rejects a save whose derived identifiers collide with
// identifiers already consumed in the lab.  At most
// maxReportedConflicts collisions are listed; More counts the rest.
type ConflictError struct {
	Conflicts []SeatConflict
	More      int
}

func (e *ConflictError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = c.String()
	}
	msg := "asset ID(s) already taken: " + strings.Join(parts, ", ")
	if e.More > 0 {
		msg += fmt.Sprintf(" and %d more", e.More)
	}
	return msg
}

// ValidationContext carries everything the validator needs beyond the
// lab and the proposed positions: the full snapshot, the owning
// request with its running totals, and the count of seats this
// session has already saved in the lab.
type ValidationContext struct {
	Snapshot       Snapshot
	Request        model.Request
	TotalAllocated int // seats already allocated across the whole session
	SavedInLab     int // seats already saved in this session for this lab
}

// Validate checks a proposed set of seat positions for one division in
// one lab against remaining capacity, remaining demand and identifier
// collisions with every existing hold and allocation.  It returns nil
// to accept, or one of CapacityError, DemandError, ConfigError,
// ConflictError to reject.  Validation is advisory-then-enforced: it
// must run immediately before every persistence step, against a
// freshly read snapshot.
func Validate(lab model.Lab, positions []int, vctx ValidationContext) error {
	if len(positions) == 0 {
		return &ConfigError{Lab: lab.Name, Reason: "no seats selected"}
	}

	// 1. Remaining capacity: total minus committed usage, minus pending
	// holds of other requests, minus what this session already saved.
	inUse := 0
	for _, a := range vctx.Snapshot.allocationsForLab(lab.ID) {
		inUse += a.InUse
	}
	pendingOthers := 0
	for _, h := range vctx.Snapshot.holdsForLab(lab.ID) {
		if h.Status == model.HoldPending && h.RequestID != vctx.Request.ID {
			pendingOthers++
		}
	}
	capacity := lab.TotalWorkstations - inUse - pendingOthers - vctx.SavedInLab
	if len(positions) > capacity {
		return &CapacityError{
			Lab:       lab.Name,
			Capacity:  capacity,
			InUse:     inUse,
			Pending:   pendingOthers,
			Requested: len(positions),
		}
	}

	// 2. Remaining demand across the whole request.
	if remaining := vctx.Request.Required - vctx.TotalAllocated; len(positions) > remaining {
		return &DemandError{
			Required:  vctx.Request.Required,
			Allocated: vctx.TotalAllocated,
			Requested: len(positions),
		}
	}

	// 3. Identifier derivation.  Identifiers are never typed in by the
	// user; they come from the lab's range.  A lab with no range, or a
	// range that cannot be expanded, is a configuration fault and the
	// save is refused, not worked around.
	rangeText := lab.RangeText()
	if rangeText == "" {
		return &ConfigError{Lab: lab.Name, Reason: "no asset ID range configured"}
	}
	seq := rangecodec.SeatIdentifiers(rangeText, lab.TotalWorkstations)
	if len(seq) == 0 {
		return &ConfigError{Lab: lab.Name, Reason: "asset ID range is unreadable"}
	}
	requested := make(map[int]bool, len(positions))
	for _, pos := range positions {
		if pos >= 1 && pos <= len(seq) {
			requested[seq[pos-1]] = true
		}
	}

	// 4. Collisions against identifiers consumed by committed division
	// allocations and approved holds, and by pending holds of other
	// requests.  The current request's own prior pending holds never
	// conflict with their own re-save.
	var conflicts []SeatConflict
	seenID := make(map[int]bool)
	add := func(id int, division, state string) {
		if requested[id] && !seenID[id] {
			seenID[id] = true
			conflicts = append(conflicts, SeatConflict{AssetID: id, Division: division, State: state})
		}
	}
	for _, a := range vctx.Snapshot.allocationsForLab(lab.ID) {
		for _, id := range rangecodec.Parse(a.RangeText()).IDs {
			add(id, a.Division, ConflictApproved)
		}
	}
	for _, h := range vctx.Snapshot.holdsForLab(lab.ID) {
		if h.AssetID == nil || h.RequestID == vctx.Request.ID {
			continue
		}
		switch h.Status {
		case model.HoldApproved:
			add(*h.AssetID, h.Division, ConflictApproved)
		case model.HoldPending:
			add(*h.AssetID, h.Division, ConflictPending)
		}
	}
	if len(conflicts) > 0 {
		more := 0
		if len(conflicts) > maxReportedConflicts {
			more = len(conflicts) - maxReportedConflicts
			conflicts = conflicts[:maxReportedConflicts]
		}
		return &ConflictError{Conflicts: conflicts, More: more}
	}
	return nil
}
