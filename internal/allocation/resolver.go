package allocation

import (
	"sort"

	"github.com/avetra/workstation-allocation/internal/model"
	"github.com/avetra/workstation-allocation/internal/rangecodec"
)

// palette is the fixed cyclic set of division colors.  Assignment
// order is first-seen, so a division keeps its color for as long as
// its holds or allocations are visible.
var palette = []string{
	"#2563eb", // blue
	"#16a34a", // green
	"#9333ea", // purple
	"#ea580c", // orange
	"#0d9488", // teal
	"#db2777", // pink
	"#ca8a04", // yellow
	"#4b5563", // slate
}

// divisionColors builds the stable division → color map for one lab.
// Divisions appearing with committed seats (approved holds, then
// allocation records) are enumerated first, then divisions appearing
// only in pending holds, each taking the next unused palette color in
// first-seen order.
func divisionColors(lab model.Lab, snap Snapshot) map[string]string {
	colors := make(map[string]string)
	next := 0
	assign := func(div string) {
		if div == "" {
			return
		}
		if _, ok := colors[div]; ok {
			return
		}
		colors[div] = palette[next%len(palette)]
		next++
	}

	holds := snap.holdsForLab(lab.ID)
	sort.SliceStable(holds, func(i, j int) bool { return holds[i].Position < holds[j].Position })
	for _, h := range holds {
		if h.Status == model.HoldApproved {
			assign(h.Division)
		}
	}
	for _, a := range snap.allocationsForLab(lab.ID) {
		assign(a.Division)
	}
	for _, h := range holds {
		if h.Status == model.HoldPending {
			assign(h.Division)
		}
	}
	return colors
}

// ResolveLab computes the state of every seat position 1..N of a lab
// by applying a fixed precedence order over the snapshot's data
// sources:
//
//  1. positions excluded for an in-progress edit are available;
//  2. a pending hold marks the seat pending for its division;
//  3. a division allocation with an explicit identifier range that
//     maps to the position marks the seat booked — this source is
//     authoritative and wins over an approved hold on the same seat;
//  4. an approved hold marks the seat booked;
//  5. count-only allocations fill their remaining seats sequentially
//     into the lowest positions not claimed above;
//  6. anything left is available, labeled with the derived identifier
//     when the lab's range covers the position.
//
// Positional seat holds are authoritative wherever present; count-only
// allocation records are a fallback used only to visualize legacy bulk
// allocations that predate per-seat tracking.
func ResolveLab(lab model.Lab, snap Snapshot) []SeatState {
	total := lab.TotalWorkstations
	states := make([]SeatState, total)
	colors := divisionColors(lab, snap)
	rangeText := lab.RangeText()

	pendingAt := make(map[int]model.SeatHold)
	approvedAt := make(map[int]model.SeatHold)
	for _, h := range snap.holdsForLab(lab.ID) {
		switch h.Status {
		case model.HoldPending:
			if _, dup := pendingAt[h.Position]; !dup {
				pendingAt[h.Position] = h
			}
		case model.HoldApproved:
			if _, dup := approvedAt[h.Position]; !dup {
				approvedAt[h.Position] = h
			}
		}
	}

	// Positions claimed by identifier-bearing allocations, resolved
	// through the lab's own range index.
	allocAt := make(map[int]model.DivisionAllocation)
	for _, a := range snap.allocationsForLab(lab.ID) {
		if a.RangeText() == "" {
			continue
		}
		for _, id := range rangecodec.Parse(a.RangeText()).IDs {
			if pos, ok := rangecodec.PositionOf(rangeText, total, id); ok {
				if _, dup := allocAt[pos]; !dup {
					allocAt[pos] = a
				}
			}
		}
	}

	claimed := make(map[int]bool)
	bookedByDivision := make(map[string]int)

	for pos := 1; pos <= total; pos++ {
		st := SeatState{Position: pos, Status: SeatAvailable, Label: syntheticLabel(pos)}
		if id, ok := rangecodec.IdentifierAt(rangeText, pos); ok {
			v := id
			st.AssetID = &v
			st.Label = rangecodec.Format([]int{id})
		}

		if snap.excluded(pos) {
			claimed[pos] = true // editor owns it; not fillable below
		} else if h, ok := pendingAt[pos]; ok {
			st.Status = SeatPending
			st.Division = h.Division
			claimed[pos] = true
		} else if a, ok := allocAt[pos]; ok {
			st.Status = SeatBooked
			st.Division = a.Division
			st.Color = colors[a.Division]
			claimed[pos] = true
			bookedByDivision[a.Division]++
		} else if h, ok := approvedAt[pos]; ok {
			st.Status = SeatBooked
			st.Division = h.Division
			st.Color = colors[h.Division]
			claimed[pos] = true
			bookedByDivision[h.Division]++
		}
		states[pos-1] = st
	}

	// Count-only allocations: fill each division's remaining seats into
	// the lowest unclaimed positions.
	for _, a := range snap.allocationsForLab(lab.ID) {
		if a.RangeText() != "" {
			continue
		}
		remaining := a.InUse - bookedByDivision[a.Division]
		for pos := 1; pos <= total && remaining > 0; pos++ {
			if claimed[pos] {
				continue
			}
			st := &states[pos-1]
			st.Status = SeatBooked
			st.Division = a.Division
			st.Color = colors[a.Division]
			claimed[pos] = true
			bookedByDivision[a.Division]++
			remaining--
		}
	}

	return states
}

// Resolve returns the state of a single seat position.  It delegates
// to ResolveLab because the count-only fallback fill depends on the
// whole grid.
func Resolve(lab model.Lab, position int, snap Snapshot) SeatState {
	states := ResolveLab(lab, snap)
	if position < 1 || position > len(states) {
		return SeatState{Position: position, Status: SeatAvailable, Label: syntheticLabel(position)}
	}
	return states[position-1]
}
