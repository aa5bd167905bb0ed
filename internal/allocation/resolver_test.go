package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetra/workstation-allocation/internal/model"
)

func TestResolveLabEmpty(t *testing.T) {
	lab := testLab(1, 10, "100-109")
	states := ResolveLab(lab, Snapshot{})

	require.Len(t, states, 10)
	for i, st := range states {
		assert.Equal(t, i+1, st.Position)
		assert.Equal(t, SeatAvailable, st.Status)
		require.NotNil(t, st.AssetID)
		assert.Equal(t, 100+i, *st.AssetID)
	}
}

func TestResolveLabSyntheticLabelBeyondRange(t *testing.T) {
	// Range covers only 5 of 8 seats; the rest fall back to a
	// synthetic per-seat label instead of erroring.
	lab := testLab(1, 8, "100-104")
	states := ResolveLab(lab, Snapshot{})

	require.NotNil(t, states[4].AssetID)
	assert.Equal(t, "104", states[4].Label)
	assert.Nil(t, states[5].AssetID)
	assert.Equal(t, "WS-6", states[5].Label)
}

func TestResolvePendingBeatsEverything(t *testing.T) {
	lab := testLab(1, 10, "100-109")
	snap := Snapshot{
		Holds: []model.SeatHold{
			testHold(7, 1, 3, model.HoldPending, "Payments", 102),
			testHold(8, 1, 3, model.HoldApproved, "Risk", 102),
		},
	}
	st := Resolve(lab, 3, snap)
	assert.Equal(t, SeatPending, st.Status)
	assert.Equal(t, "Payments", st.Division)
}

func TestResolveEditExclusionFreesOwnSeat(t *testing.T) {
	lab := testLab(1, 10, "100-109")
	snap := Snapshot{
		Holds: []model.SeatHold{
			testHold(7, 1, 3, model.HoldPending, "Payments", 102),
		},
		EditExclusions: map[int]bool{3: true},
	}
	st := Resolve(lab, 3, snap)
	assert.Equal(t, SeatAvailable, st.Status)
	assert.Empty(t, st.Division)
}

func TestResolveApprovedHold(t *testing.T) {
	lab := testLab(1, 10, "100-109")
	snap := Snapshot{
		Holds: []model.SeatHold{
			testHold(7, 1, 5, model.HoldApproved, "Risk", 104),
		},
	}
	st := Resolve(lab, 5, snap)
	assert.Equal(t, SeatBooked, st.Status)
	assert.Equal(t, "Risk", st.Division)
	assert.NotEmpty(t, st.Color)
}

func TestResolveIdentifierAllocationWinsOverApprovedHold(t *testing.T) {
	// An identifier-bearing division allocation is authoritative for
	// the positions its range maps to, even over an approved hold.
	lab := testLab(1, 10, "100-109")
	snap := Snapshot{
		Holds: []model.SeatHold{
			testHold(7, 1, 4, model.HoldApproved, "Risk", 103),
		},
		Allocations: []model.DivisionAllocation{
			testAlloc(1, "Payments", 2, "103-104"),
		},
	}
	st := Resolve(lab, 4, snap) // identifier 103
	assert.Equal(t, SeatBooked, st.Status)
	assert.Equal(t, "Payments", st.Division)

	st = Resolve(lab, 5, snap) // identifier 104
	assert.Equal(t, "Payments", st.Division)
}

func TestResolveCountOnlyFillsLowestFreePositions(t *testing.T) {
	lab := testLab(1, 10, "100-109")
	snap := Snapshot{
		Holds: []model.SeatHold{
			testHold(7, 1, 1, model.HoldPending, "Risk", 100),
			testHold(7, 1, 2, model.HoldPending, "Risk", 101),
		},
		Allocations: []model.DivisionAllocation{
			testAlloc(1, "Platform", 3, ""), // count-only, no identifiers
		},
	}
	states := ResolveLab(lab, snap)

	// Positions 1-2 are pending; the legacy bulk allocation lands on
	// the lowest free seats 3, 4, 5.
	for _, pos := range []int{3, 4, 5} {
		assert.Equal(t, SeatBooked, states[pos-1].Status, "position %d", pos)
		assert.Equal(t, "Platform", states[pos-1].Division)
	}
	assert.Equal(t, SeatAvailable, states[5].Status)
}

func TestResolveCountOnlyRemainingDiscountsApprovedSeats(t *testing.T) {
	// Approved per-seat holds of the same division consume the
	// aggregate count; only the remainder is filled sequentially.
	lab := testLab(1, 10, "100-109")
	snap := Snapshot{
		Holds: []model.SeatHold{
			testHold(7, 1, 6, model.HoldApproved, "Platform", 105),
		},
		Allocations: []model.DivisionAllocation{
			testAlloc(1, "Platform", 3, ""),
		},
	}
	states := ResolveLab(lab, snap)

	booked := 0
	for _, st := range states {
		if st.Status == SeatBooked {
			booked++
			assert.Equal(t, "Platform", st.Division)
		}
	}
	assert.Equal(t, 3, booked)
	// The fill starts at the lowest free positions 1 and 2.
	assert.Equal(t, SeatBooked, states[0].Status)
	assert.Equal(t, SeatBooked, states[1].Status)
	assert.Equal(t, SeatBooked, states[5].Status)
}

func TestDivisionColorsStable(t *testing.T) {
	lab := testLab(1, 10, "100-109")
	snap := Snapshot{
		Holds: []model.SeatHold{
			testHold(7, 1, 1, model.HoldPending, "Pending Only", 100),
			testHold(8, 1, 2, model.HoldApproved, "Committed", 101),
		},
		Allocations: []model.DivisionAllocation{
			testAlloc(1, "Bulk", 1, ""),
		},
	}
	colors := divisionColors(lab, snap)

	// Committed divisions are enumerated first and therefore take the
	// first palette entries; a pending-only division comes after.
	assert.Equal(t, palette[0], colors["Committed"])
	assert.Equal(t, palette[1], colors["Bulk"])
	assert.Equal(t, palette[2], colors["Pending Only"])

	// Re-running the pass yields identical assignments.
	assert.Equal(t, colors, divisionColors(lab, snap))
}
