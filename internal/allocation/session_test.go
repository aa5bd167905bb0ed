package allocation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetra/workstation-allocation/internal/model"
)

// fakeStore is an in-memory Store for session tests.  It mimics the
// backend's behavior including row identity for pending-hold updates.
type fakeStore struct {
	labs     map[uint64]model.Lab
	holds    []model.SeatHold
	allocs   []model.DivisionAllocation
	requests map[uint64]model.Request
	nextID   uint64
}

func newFakeStore(labs ...model.Lab) *fakeStore {
	fs := &fakeStore{
		labs:     map[uint64]model.Lab{},
		requests: map[uint64]model.Request{},
	}
	for _, lab := range labs {
		fs.labs[lab.ID] = lab
	}
	return fs
}

func (f *fakeStore) Lab(_ context.Context, id uint64) (model.Lab, error) {
	lab, ok := f.labs[id]
	if !ok {
		return model.Lab{}, fmt.Errorf("lab %d not found", id)
	}
	return lab, nil
}

func (f *fakeStore) SeatHolds(context.Context) ([]model.SeatHold, error) {
	return append([]model.SeatHold(nil), f.holds...), nil
}

func (f *fakeStore) DivisionAllocations(context.Context) ([]model.DivisionAllocation, error) {
	return append([]model.DivisionAllocation(nil), f.allocs...), nil
}

func (f *fakeStore) CreateSeatHolds(_ context.Context, holds []model.SeatHold) error {
	for _, h := range holds {
		f.nextID++
		h.ID = f.nextID
		f.holds = append(f.holds, h)
	}
	return nil
}

func (f *fakeStore) UpdatePendingHold(_ context.Context, requestID, labID uint64, oldPos, newPos int, assetID *int) error {
	for i := range f.holds {
		h := &f.holds[i]
		if h.RequestID == requestID && h.LabID == labID && h.Position == oldPos && h.Status == model.HoldPending {
			h.Position = newPos
			h.AssetID = assetID
			return nil
		}
	}
	return ErrHoldNotFound
}

func (f *fakeStore) DeletePendingHolds(_ context.Context, requestID, labID uint64, positions []int) error {
	drop := make(map[int]bool, len(positions))
	for _, pos := range positions {
		drop[pos] = true
	}
	kept := f.holds[:0]
	for _, h := range f.holds {
		if h.RequestID == requestID && h.LabID == labID && h.Status == model.HoldPending && drop[h.Position] {
			continue
		}
		kept = append(kept, h)
	}
	f.holds = kept
	return nil
}

func (f *fakeStore) UpdateRequestStatus(_ context.Context, requestID uint64, status string) error {
	req := f.requests[requestID]
	req.Status = status
	f.requests[requestID] = req
	return nil
}

func (f *fakeStore) activeHolds(labID uint64) []model.SeatHold {
	var out []model.SeatHold
	for _, h := range f.holds {
		if h.LabID == labID && h.Active() {
			out = append(out, h)
		}
	}
	return out
}

// fakeApprover applies the approval workflow against the fake store.
type fakeApprover struct {
	store  *fakeStore
	called int
}

func (a *fakeApprover) Approve(_ context.Context, req model.Request, allocations []SavedAllocation) error {
	a.called++
	for i := range a.store.holds {
		h := &a.store.holds[i]
		if h.RequestID == req.ID && h.Status == model.HoldPending {
			h.Status = model.HoldApproved
		}
	}
	for _, sa := range allocations {
		a.store.allocs = append(a.store.allocs, model.DivisionAllocation{
			LabID:    sa.LabID,
			Division: sa.Division,
			InUse:    len(sa.Positions),
		})
	}
	req.Status = model.RequestApproved
	a.store.requests[req.ID] = req
	return nil
}

func newTestSession(fs *fakeStore, id uint64, division string, required int) *Session {
	req := model.Request{ID: id, Division: division, Required: required, Status: model.RequestPending}
	fs.requests[id] = req
	return NewSession(fs, &fakeApprover{store: fs}, req, division+"@example.com")
}

func selectPositions(t *testing.T, s *Session, labID uint64, positions ...int) {
	t.Helper()
	for _, pos := range positions {
		require.NoError(t, s.Toggle(context.Background(), labID, pos))
	}
}

// Scenario: lab with 10 seats and range 100-109, request for 3 seats.
// Selecting and saving positions 1-3 yields three pending holds with
// identifiers 100-102 and moves the request to partially allocated.
func TestSessionSave(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore(testLab(1, 10, "100-109"))
	s := newTestSession(fs, 1, "Payments", 3)

	selectPositions(t, s, 1, 1, 2, 3)
	sa, err := s.Save(ctx)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, sa.Positions)
	assert.Equal(t, []int{100, 101, 102}, sa.AssetIDs)
	assert.Equal(t, 3, s.TotalAllocated())
	assert.Equal(t, model.RequestPartiallyAllocated, s.Request().Status)
	assert.Equal(t, model.RequestPartiallyAllocated, fs.requests[1].Status)

	holds := fs.activeHolds(1)
	require.Len(t, holds, 3)
	for i, h := range holds {
		assert.Equal(t, model.HoldPending, h.Status)
		assert.Equal(t, i+1, h.Position)
		require.NotNil(t, h.AssetID)
		assert.Equal(t, 100+i, *h.AssetID)
		assert.Equal(t, "Payments", h.Division)
	}

	// The selection is consumed by the save.
	labID, sel := s.Selection()
	assert.Zero(t, labID)
	assert.Empty(t, sel)
}

// Scenario: a second request cannot grab a seat the first request has
// pending.
func TestSessionSeatContention(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore(testLab(1, 10, "100-109"))
	r1 := newTestSession(fs, 1, "Payments", 3)
	selectPositions(t, r1, 1, 1, 2, 3)
	_, err := r1.Save(ctx)
	require.NoError(t, err)

	r2 := newTestSession(fs, 2, "Risk", 1)
	err = r2.Toggle(ctx, 1, 2)

	var unavailable *SeatUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 2, unavailable.Position)
	assert.Equal(t, "Payments", unavailable.Division)
}

// Scenario: deleting the saved allocation frees its seats and reverts
// the request to pending.
func TestSessionDelete(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore(testLab(1, 10, "100-109"))
	r1 := newTestSession(fs, 1, "Payments", 3)
	selectPositions(t, r1, 1, 1, 2, 3)
	_, err := r1.Save(ctx)
	require.NoError(t, err)

	require.NoError(t, r1.Delete(ctx, 1))

	assert.Empty(t, fs.activeHolds(1))
	assert.Zero(t, r1.TotalAllocated())
	assert.Empty(t, r1.Saved())
	assert.Equal(t, model.RequestPending, fs.requests[1].Status)

	// Position 2 is selectable by another request again.
	r2 := newTestSession(fs, 2, "Risk", 1)
	assert.NoError(t, r2.Toggle(ctx, 1, 2))
}

// Scenario: batch-select "100-102, 105" while 100-102 are pending for
// another request accepts only 105 (position 6).
func TestSessionBatchSelect(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore(testLab(1, 10, "100-109"))
	r1 := newTestSession(fs, 1, "Payments", 3)
	selectPositions(t, r1, 1, 1, 2, 3)
	_, err := r1.Save(ctx)
	require.NoError(t, err)

	r2 := newTestSession(fs, 2, "Risk", 4)
	res, err := r2.BatchSelect(ctx, 1, "100-102, 105")
	require.NoError(t, err)

	assert.Equal(t, []int{105}, res.Accepted)
	assert.ElementsMatch(t, []int{100, 101, 102}, res.Unavailable)
	assert.Empty(t, res.Invalid)

	labID, sel := r2.Selection()
	assert.Equal(t, uint64(1), labID)
	assert.Equal(t, []int{6}, sel)
}

func TestSessionBatchSelectReportsInvalidTokens(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore(testLab(1, 10, "100-109"))
	s := newTestSession(fs, 1, "Payments", 5)

	res, err := s.BatchSelect(ctx, 1, "100, banana, 500")
	require.NoError(t, err)

	assert.Equal(t, []int{100}, res.Accepted)
	// "banana" never parses; 500 parses but maps to no seat.
	assert.ElementsMatch(t, []string{"banana", "500"}, res.Invalid)
}

// Saving a second non-overlapping selection in the same lab merges
// into one allocation whose position list is the union.
func TestSessionSaveMerges(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore(testLab(1, 10, "100-109"))
	s := newTestSession(fs, 1, "Payments", 6)

	selectPositions(t, s, 1, 1, 2)
	_, err := s.Save(ctx)
	require.NoError(t, err)

	selectPositions(t, s, 1, 4, 5)
	sa, err := s.Save(ctx)
	require.NoError(t, err)

	saved := s.Saved()
	require.Len(t, saved, 1)
	assert.Equal(t, []int{1, 2, 4, 5}, sa.Positions)
	assert.Equal(t, []int{100, 101, 103, 104}, sa.AssetIDs)
	assert.Equal(t, 4, s.TotalAllocated())
	assert.Len(t, fs.activeHolds(1), 4)
}

// Saving while editing replaces the allocation with exactly the new
// selection and updates hold rows in place.
func TestSessionSaveReplacesWhileEditing(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore(testLab(1, 10, "100-109"))
	s := newTestSession(fs, 1, "Payments", 3)

	selectPositions(t, s, 1, 1, 2, 3)
	_, err := s.Save(ctx)
	require.NoError(t, err)

	rowID := map[int]uint64{}
	for _, h := range fs.activeHolds(1) {
		rowID[h.Position] = h.ID
	}

	require.NoError(t, s.Edit(1))
	// Swap seat 3 for seat 4.
	require.NoError(t, s.Toggle(ctx, 1, 3))
	require.NoError(t, s.Toggle(ctx, 1, 4))

	sa, err := s.Save(ctx)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 4}, sa.Positions)
	assert.Equal(t, []int{100, 101, 103}, sa.AssetIDs)
	assert.Equal(t, 3, s.TotalAllocated())

	holds := fs.activeHolds(1)
	require.Len(t, holds, 3)
	for _, h := range holds {
		switch h.Position {
		case 1, 2:
			assert.Equal(t, rowID[h.Position], h.ID, "row identity preserved")
		case 4:
			// The row that held seat 3 was moved, not recreated.
			assert.Equal(t, rowID[3], h.ID)
			require.NotNil(t, h.AssetID)
			assert.Equal(t, 103, *h.AssetID)
		default:
			t.Fatalf("unexpected hold at position %d", h.Position)
		}
	}
}

// Edit followed immediately by Cancel restores the exact pre-edit
// state: saved list, counter, and untouched storage.
func TestSessionEditCancelIsUndo(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore(testLab(1, 10, "100-109"))
	s := newTestSession(fs, 1, "Payments", 3)

	selectPositions(t, s, 1, 1, 2, 3)
	_, err := s.Save(ctx)
	require.NoError(t, err)

	before := s.Saved()
	beforeTotal := s.TotalAllocated()
	holdsBefore := fs.activeHolds(1)

	require.NoError(t, s.Edit(1))
	// Mid-edit the allocation is out of the list and the counter drops,
	// but the hold rows keep the seats reserved.
	assert.Empty(t, s.Saved())
	assert.Zero(t, s.TotalAllocated())
	assert.Len(t, fs.activeHolds(1), 3)

	s.Cancel()

	assert.Equal(t, before, s.Saved())
	assert.Equal(t, beforeTotal, s.TotalAllocated())
	assert.Equal(t, holdsBefore, fs.activeHolds(1))
	_, editing := s.Editing()
	assert.False(t, editing)
}

func TestSessionEditKeepsSeatsReservedAgainstOthers(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore(testLab(1, 10, "100-109"))
	s := newTestSession(fs, 1, "Payments", 3)
	selectPositions(t, s, 1, 1, 2, 3)
	_, err := s.Save(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Edit(1))

	// The editing request sees its own seats as free...
	require.NoError(t, s.Toggle(ctx, 1, 2)) // deselect
	require.NoError(t, s.Toggle(ctx, 1, 2)) // reselect

	// ...but another request still cannot take them.
	r2 := newTestSession(fs, 2, "Risk", 1)
	var unavailable *SeatUnavailableError
	require.ErrorAs(t, r2.Toggle(ctx, 1, 2), &unavailable)
}

func TestSessionFilterChangeClearsSelection(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore(testLab(1, 10, "100-109"), testLab(2, 5, "200-204"))
	s := newTestSession(fs, 1, "Payments", 3)

	selectPositions(t, s, 1, 1, 2)
	assert.ErrorIs(t, s.Toggle(ctx, 2, 1), ErrSelectionSpansLabs)

	s.FilterChanged()
	_, sel := s.Selection()
	assert.Empty(t, sel)
	assert.NoError(t, s.Toggle(ctx, 2, 1))
}

func TestSessionFinalize(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore(testLab(1, 10, "100-109"))
	approver := &fakeApprover{store: fs}
	req := model.Request{ID: 1, Division: "Payments", Required: 3, Status: model.RequestPending}
	fs.requests[1] = req
	s := NewSession(fs, approver, req, "payments@example.com")

	selectPositions(t, s, 1, 1, 2)
	_, err := s.Save(ctx)
	require.NoError(t, err)

	// Two of three seats allocated: finalize refuses with the shortfall.
	var shortfall *ShortfallError
	require.ErrorAs(t, s.Finalize(ctx), &shortfall)
	assert.Equal(t, 3, shortfall.Required)
	assert.Equal(t, 2, shortfall.Allocated)

	selectPositions(t, s, 1, 3)
	// An unsaved selection also blocks finalize.
	assert.ErrorIs(t, s.Finalize(ctx), ErrSelectionActive)
	_, err = s.Save(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Finalize(ctx))
	assert.Equal(t, 1, approver.called)
	assert.Equal(t, model.RequestApproved, s.Request().Status)
	assert.Equal(t, model.RequestApproved, fs.requests[1].Status)
	for _, h := range fs.activeHolds(1) {
		assert.Equal(t, model.HoldApproved, h.Status)
	}

	// The session is terminal.
	assert.ErrorIs(t, s.Toggle(ctx, 1, 5), ErrFinalized)
	_, err = s.Save(ctx)
	assert.ErrorIs(t, err, ErrFinalized)
}

// Capacity and no-double-hold invariants across a sequence of saves on
// one lab by multiple requests.
func TestSessionInvariantsAcrossRequests(t *testing.T) {
	ctx := context.Background()
	lab := testLab(1, 4, "100-103")
	fs := newFakeStore(lab)
	fs.allocs = append(fs.allocs, testAlloc(1, "Legacy", 1, "")) // one seat already in use

	r1 := newTestSession(fs, 1, "Payments", 2)
	// Position 1 belongs to the legacy fill; the planner picks 2 and 3.
	selectPositions(t, r1, 1, 2, 3)
	_, err := r1.Save(ctx)
	require.NoError(t, err)

	// Only 4-1-2 = 1 seat remains for the second request.
	r2 := newTestSession(fs, 2, "Risk", 2)
	selectPositions(t, r2, 1, 4)
	_, err = r2.Save(ctx)
	require.NoError(t, err)

	inUse := 0
	for _, a := range fs.allocs {
		inUse += a.InUse
	}
	active := fs.activeHolds(1)
	assert.LessOrEqual(t, len(active)+inUse, lab.TotalWorkstations)

	seen := map[int]bool{}
	for _, h := range active {
		assert.False(t, seen[h.Position], "double hold at position %d", h.Position)
		seen[h.Position] = true
	}
}

func TestSessionResume(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore(testLab(1, 10, "100-109"))
	s := newTestSession(fs, 1, "Payments", 4)
	selectPositions(t, s, 1, 1, 2, 3)
	_, err := s.Save(ctx)
	require.NoError(t, err)

	// A fresh session over the same request picks the holds back up.
	req := fs.requests[1]
	resumed := NewSession(fs, &fakeApprover{store: fs}, req, "payments@example.com")
	require.NoError(t, resumed.Resume(ctx))

	saved := resumed.Saved()
	require.Len(t, saved, 1)
	assert.Equal(t, []int{1, 2, 3}, saved[0].Positions)
	assert.Equal(t, []int{100, 101, 102}, saved[0].AssetIDs)
	assert.Equal(t, 3, resumed.TotalAllocated())
}
