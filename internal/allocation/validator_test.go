package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetra/workstation-allocation/internal/model"
)

func vctxFor(req model.Request, snap Snapshot) ValidationContext {
	return ValidationContext{Snapshot: snap, Request: req}
}

func TestValidateAccept(t *testing.T) {
	lab := testLab(1, 10, "100-109")
	req := model.Request{ID: 1, Division: "Payments", Required: 5}
	err := Validate(lab, []int{1, 2, 3}, vctxFor(req, Snapshot{}))
	assert.NoError(t, err)
}

func TestValidateCapacity(t *testing.T) {
	lab := testLab(1, 10, "100-109")
	req := model.Request{ID: 1, Division: "Payments", Required: 20}
	snap := Snapshot{
		Holds: []model.SeatHold{
			testHold(2, 1, 1, model.HoldPending, "Risk", 100),
			testHold(2, 1, 2, model.HoldPending, "Risk", 101),
		},
		Allocations: []model.DivisionAllocation{
			testAlloc(1, "Platform", 6, ""),
		},
	}
	// 10 total - 6 in use - 2 pending elsewhere = 2 free.
	err := Validate(lab, []int{5, 6, 7}, vctxFor(req, snap))

	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Capacity)
	assert.Equal(t, 6, capErr.InUse)
	assert.Equal(t, 2, capErr.Pending)
	assert.Equal(t, 3, capErr.Requested)
}

func TestValidateCapacityIgnoresOwnPendingHolds(t *testing.T) {
	lab := testLab(1, 10, "100-109")
	req := model.Request{ID: 1, Division: "Payments", Required: 10}
	snap := Snapshot{
		Holds: []model.SeatHold{
			testHold(1, 1, 1, model.HoldPending, "Payments", 100),
			testHold(1, 1, 2, model.HoldPending, "Payments", 101),
		},
	}
	// The session accounts for its own saved seats via SavedInLab, not
	// via the pending count.
	vctx := vctxFor(req, snap)
	vctx.SavedInLab = 2
	vctx.TotalAllocated = 2
	err := Validate(lab, []int{3, 4, 5, 6, 7, 8, 9, 10}, vctx)
	assert.NoError(t, err)
}

func TestValidateDemand(t *testing.T) {
	lab := testLab(1, 10, "100-109")
	req := model.Request{ID: 1, Division: "Payments", Required: 4}
	vctx := vctxFor(req, Snapshot{})
	vctx.TotalAllocated = 3
	err := Validate(lab, []int{1, 2}, vctx)

	var demErr *DemandError
	require.ErrorAs(t, err, &demErr)
	assert.Equal(t, 4, demErr.Required)
	assert.Equal(t, 3, demErr.Allocated)
	assert.Equal(t, 2, demErr.Requested)
}

func TestValidateConfigFaults(t *testing.T) {
	req := model.Request{ID: 1, Division: "Payments", Required: 5}

	var cfgErr *ConfigError
	err := Validate(testLab(1, 10, ""), []int{1}, vctxFor(req, Snapshot{}))
	require.ErrorAs(t, err, &cfgErr)

	err = Validate(testLab(1, 10, "not a range"), []int{1}, vctxFor(req, Snapshot{}))
	require.ErrorAs(t, err, &cfgErr)

	err = Validate(testLab(1, 10, "100-109"), nil, vctxFor(req, Snapshot{}))
	require.ErrorAs(t, err, &cfgErr)
}

func TestValidateConflicts(t *testing.T) {
	lab := testLab(1, 10, "100-109")
	req := model.Request{ID: 1, Division: "Payments", Required: 10}
	snap := Snapshot{
		Holds: []model.SeatHold{
			testHold(2, 1, 1, model.HoldPending, "Risk", 100),
		},
		Allocations: []model.DivisionAllocation{
			testAlloc(1, "Platform", 1, "101-101"),
		},
	}
	err := Validate(lab, []int{1, 2}, vctxFor(req, snap))

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Len(t, conflictErr.Conflicts, 2)
	assert.Zero(t, conflictErr.More)

	byID := map[int]SeatConflict{}
	for _, c := range conflictErr.Conflicts {
		byID[c.AssetID] = c
	}
	assert.Equal(t, SeatConflict{AssetID: 100, Division: "Risk", State: ConflictPending}, byID[100])
	assert.Equal(t, SeatConflict{AssetID: 101, Division: "Platform", State: ConflictApproved}, byID[101])
	assert.Contains(t, conflictErr.Error(), "(Pending/Reserved)")
	assert.Contains(t, conflictErr.Error(), "(Approved)")
}

func TestValidateConflictTruncation(t *testing.T) {
	lab := testLab(1, 10, "100-109")
	req := model.Request{ID: 1, Division: "Payments", Required: 10}
	snap := Snapshot{
		Allocations: []model.DivisionAllocation{
			testAlloc(1, "Platform", 5, "100-104"),
		},
	}
	err := Validate(lab, []int{1, 2, 3, 4, 5}, vctxFor(req, snap))

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Len(t, conflictErr.Conflicts, 3)
	assert.Equal(t, 2, conflictErr.More)
	assert.Contains(t, conflictErr.Error(), "and 2 more")
}

func TestValidateOwnHoldsNeverConflict(t *testing.T) {
	lab := testLab(1, 10, "100-109")
	req := model.Request{ID: 1, Division: "Payments", Required: 10}
	snap := Snapshot{
		Holds: []model.SeatHold{
			testHold(1, 1, 1, model.HoldPending, "Payments", 100),
			testHold(1, 1, 2, model.HoldPending, "Payments", 101),
		},
	}
	vctx := vctxFor(req, snap)
	vctx.SavedInLab = 2
	vctx.TotalAllocated = 2
	// Re-saving the same identifiers for the same request must pass.
	err := Validate(lab, []int{1, 2}, vctx)
	assert.NoError(t, err)
}
