package allocation

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/avetra/workstation-allocation/internal/model"
	"github.com/avetra/workstation-allocation/internal/rangecodec"
)

// SavedAllocation is the session-level grouping of one division's
// holds within one lab for one request: the persisted-pending seats a
// planner has saved so far.
type SavedAllocation struct {
	LabID     uint64
	LabName   string
	Division  string
	Positions []int
	AssetIDs  []int
}

// editState remembers the pre-edit allocation so Cancel can undo an
// Edit without touching storage.
type editState struct {
	original SavedAllocation
	index    int // slot in the saved list for re-insertion
}

// Session is the per-request allocation workflow.  It accumulates seat
// selections across labs, persists each accepted selection as
// provisional pending holds, allows edit and delete of saved
// allocations, and finally promotes the full set to a committed
// allocation.
//
// A session is single-user: one planner drives it through UI events.
// The mutex only guards against overlapping HTTP callbacks; there is
// no cross-session locking.  Conflicts between sessions are caught by
// re-validating against a fresh snapshot immediately before each save
// — first successful save wins a seat.
type Session struct {
	mu       sync.Mutex
	store    Store
	approver Approver

	request   model.Request
	requestor string

	saved          []SavedAllocation
	totalAllocated int

	// active selection; positions belong to exactly one lab
	selLabID  uint64
	selection []int

	editing   *editState
	finalized bool
}

// NewSession creates a session for a request.  Call Resume afterwards
// to pick up pending holds persisted by an earlier session.
func NewSession(store Store, approver Approver, req model.Request, requestor string) *Session {
	return &Session{
		store:     store,
		approver:  approver,
		request:   req,
		requestor: requestor,
		finalized: req.Status == model.RequestApproved,
	}
}

// Resume rebuilds the saved-allocations list from the request's
// pending holds in storage, grouped by lab.  It makes sessions
// survive a browser reload: the holds kept the seats reserved, the
// in-memory list just has to catch up.
func (s *Session) Resume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	holds, err := s.store.SeatHolds(ctx)
	if err != nil {
		return err
	}
	byLab := make(map[uint64]*SavedAllocation)
	var order []uint64
	for _, h := range holds {
		if h.RequestID != s.request.ID || h.Status != model.HoldPending {
			continue
		}
		sa, ok := byLab[h.LabID]
		if !ok {
			lab, err := s.store.Lab(ctx, h.LabID)
			if err != nil {
				return err
			}
			sa = &SavedAllocation{LabID: h.LabID, LabName: lab.Name, Division: s.request.Division}
			byLab[h.LabID] = sa
			order = append(order, h.LabID)
		}
		sa.Positions = append(sa.Positions, h.Position)
		if h.AssetID != nil {
			sa.AssetIDs = append(sa.AssetIDs, *h.AssetID)
		}
	}
	s.saved = s.saved[:0]
	s.totalAllocated = 0
	for _, labID := range order {
		sa := byLab[labID]
		sort.Ints(sa.Positions)
		sort.Ints(sa.AssetIDs)
		s.saved = append(s.saved, *sa)
		s.totalAllocated += len(sa.Positions)
	}
	return nil
}

// snapshot reads the full hold and allocation collections and attaches
// the edit exclusions for the given lab.
func (s *Session) snapshot(ctx context.Context, labID uint64) (Snapshot, error) {
	holds, err := s.store.SeatHolds(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	allocs, err := s.store.DivisionAllocations(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Holds: holds, Allocations: allocs}
	if s.editing != nil && s.editing.original.LabID == labID {
		snap.EditExclusions = make(map[int]bool, len(s.editing.original.Positions))
		for _, pos := range s.editing.original.Positions {
			snap.EditExclusions[pos] = true
		}
	}
	return snap, nil
}

// Toggle flips a seat in or out of the active selection.  Clicking a
// pending or booked seat is rejected with a SeatUnavailableError; the
// grid never makes those selectable.
func (s *Session) Toggle(ctx context.Context, labID uint64, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrFinalized
	}
	if s.selLabID != 0 && s.selLabID != labID {
		return ErrSelectionSpansLabs
	}
	for i, pos := range s.selection {
		if pos == position {
			s.selection = append(s.selection[:i], s.selection[i+1:]...)
			if len(s.selection) == 0 && s.editing == nil {
				s.selLabID = 0
			}
			return nil
		}
	}

	lab, err := s.store.Lab(ctx, labID)
	if err != nil {
		return err
	}
	snap, err := s.snapshot(ctx, labID)
	if err != nil {
		return err
	}
	st := Resolve(lab, position, snap)
	if st.Status != SeatAvailable {
		return &SeatUnavailableError{Position: position, Division: st.Division, Status: st.Status}
	}
	s.selLabID = labID
	s.selection = append(s.selection, position)
	return nil
}

// BatchResult reports the outcome of a multi-identifier text input:
// identifiers accepted into the selection, identifiers that map to
// unavailable seats, and tokens or identifiers that could not be
// mapped at all.
type BatchResult struct {
	Accepted    []int
	Unavailable []int
	Invalid     []string
}

// BatchSelect parses free-form Asset-ID text ("100-102, 105") and adds
// every available matching seat to the selection.  Unavailable and
// invalid identifiers are reported separately; the call itself only
// fails on storage errors or a cross-lab selection.
func (s *Session) BatchSelect(ctx context.Context, labID uint64, text string) (BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res BatchResult
	if s.finalized {
		return res, ErrFinalized
	}
	if s.selLabID != 0 && s.selLabID != labID {
		return res, ErrSelectionSpansLabs
	}

	lab, err := s.store.Lab(ctx, labID)
	if err != nil {
		return res, err
	}
	snap, err := s.snapshot(ctx, labID)
	if err != nil {
		return res, err
	}
	states := ResolveLab(lab, snap)
	selected := make(map[int]bool, len(s.selection))
	for _, pos := range s.selection {
		selected[pos] = true
	}

	parsed := rangecodec.Parse(text)
	res.Invalid = append(res.Invalid, parsed.Skipped...)
	for _, id := range parsed.IDs {
		pos, ok := rangecodec.PositionOf(lab.RangeText(), lab.TotalWorkstations, id)
		if !ok {
			res.Invalid = append(res.Invalid, rangecodec.Format([]int{id}))
			continue
		}
		if selected[pos] {
			res.Accepted = append(res.Accepted, id) // already in the selection
			continue
		}
		if states[pos-1].Status != SeatAvailable {
			res.Unavailable = append(res.Unavailable, id)
			continue
		}
		selected[pos] = true
		s.selLabID = labID
		s.selection = append(s.selection, pos)
		res.Accepted = append(res.Accepted, id)
	}
	return res, nil
}

// FilterChanged invalidates the active selection when the office,
// floor or lab filter changes, preventing cross-lab mixups.  An
// in-progress edit is cancelled (pure undo) first.
func (s *Session) FilterChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Cancel aborts the current selection.  During an edit it re-inserts
// the original allocation unchanged and restores the counter — a pure
// undo, since Edit never touched storage.  During plain selecting it
// simply clears the in-memory selection.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Session) cancelLocked() {
	if s.editing != nil {
		idx := s.editing.index
		if idx > len(s.saved) {
			idx = len(s.saved)
		}
		s.saved = append(s.saved[:idx], append([]SavedAllocation{s.editing.original}, s.saved[idx:]...)...)
		s.totalAllocated += len(s.editing.original.Positions)
		s.editing = nil
	}
	s.selection = nil
	s.selLabID = 0
}

// Edit lifts a saved allocation out of the saved list and into the
// active selection so its seats render as selected rather than
// locked.  The underlying pending hold rows are left untouched,
// keeping the seats reserved against other requests while the planner
// rearranges them.
func (s *Session) Edit(labID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrFinalized
	}
	if s.editing != nil {
		return ErrAlreadyEditing
	}
	if len(s.selection) > 0 {
		return ErrSelectionActive
	}
	for i, sa := range s.saved {
		if sa.LabID == labID {
			s.editing = &editState{original: sa, index: i}
			s.saved = append(s.saved[:i], s.saved[i+1:]...)
			s.totalAllocated -= len(sa.Positions)
			s.selLabID = labID
			s.selection = append([]int(nil), sa.Positions...)
			return nil
		}
	}
	return ErrAllocationNotFound
}

// Save validates the active selection against a fresh snapshot and
// persists it as pending holds.  Depending on session state it merges
// into an existing saved allocation for the same lab, replaces the
// allocation being edited, or creates a new one.  On the first saved
// allocation the request moves from pending to partially allocated.
//
// Completed storage calls are not rolled back when a later call in the
// same save fails; the error is surfaced and the in-memory state stays
// where it was before the save.
func (s *Session) Save(ctx context.Context) (SavedAllocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return SavedAllocation{}, ErrFinalized
	}
	if len(s.selection) == 0 {
		return SavedAllocation{}, ErrNoSelection
	}

	lab, err := s.store.Lab(ctx, s.selLabID)
	if err != nil {
		return SavedAllocation{}, err
	}
	snap, err := s.snapshot(ctx, lab.ID)
	if err != nil {
		return SavedAllocation{}, err
	}

	savedInLab := 0
	for _, sa := range s.saved {
		if sa.LabID == lab.ID {
			savedInLab += len(sa.Positions)
		}
	}
	vctx := ValidationContext{
		Snapshot:       snap,
		Request:        s.request,
		TotalAllocated: s.totalAllocated,
		SavedInLab:     savedInLab,
	}
	positions := append([]int(nil), s.selection...)
	sort.Ints(positions)
	if err := Validate(lab, positions, vctx); err != nil {
		return SavedAllocation{}, err
	}

	// Identifiers are derived from the lab's range, never entered.
	seq := rangecodec.SeatIdentifiers(lab.RangeText(), lab.TotalWorkstations)
	assetIDs := make([]int, len(positions))
	for i, pos := range positions {
		assetIDs[i] = seq[pos-1]
	}

	var result SavedAllocation
	switch {
	case s.editing != nil && s.editing.original.LabID == lab.ID:
		result, err = s.saveReplace(ctx, lab, positions, assetIDs)
	default:
		if i := s.savedIndex(lab.ID); i >= 0 && s.editing == nil {
			result, err = s.saveMerge(ctx, lab, i, positions, assetIDs)
		} else {
			result, err = s.saveCreate(ctx, lab, positions, assetIDs)
		}
	}
	if err != nil {
		return SavedAllocation{}, err
	}

	s.totalAllocated += len(positions)
	s.selection = nil
	s.selLabID = 0

	if s.request.Status == model.RequestPending {
		if err := s.store.UpdateRequestStatus(ctx, s.request.ID, model.RequestPartiallyAllocated); err != nil {
			return result, err
		}
		s.request.Status = model.RequestPartiallyAllocated
	}
	return result, nil
}

func (s *Session) savedIndex(labID uint64) int {
	for i, sa := range s.saved {
		if sa.LabID == labID {
			return i
		}
	}
	return -1
}

// saveCreate persists a brand-new allocation for this lab.
func (s *Session) saveCreate(ctx context.Context, lab model.Lab, positions, assetIDs []int) (SavedAllocation, error) {
	if err := s.store.CreateSeatHolds(ctx, s.holdRows(lab, positions, assetIDs)); err != nil {
		return SavedAllocation{}, err
	}
	sa := SavedAllocation{
		LabID:     lab.ID,
		LabName:   lab.Name,
		Division:  s.request.Division,
		Positions: positions,
		AssetIDs:  assetIDs,
	}
	s.saved = append(s.saved, sa)
	return sa, nil
}

// saveMerge appends the selection to an existing saved allocation for
// the same lab.  Pending rows for any re-saved position are deleted
// first so the save stays idempotent, then rows for the selected
// positions are created.
func (s *Session) saveMerge(ctx context.Context, lab model.Lab, idx int, positions, assetIDs []int) (SavedAllocation, error) {
	existing := &s.saved[idx]
	have := make(map[int]bool, len(existing.Positions))
	for _, pos := range existing.Positions {
		have[pos] = true
	}
	var resaved []int
	for _, pos := range positions {
		if have[pos] {
			resaved = append(resaved, pos)
		}
	}
	if len(resaved) > 0 {
		if err := s.store.DeletePendingHolds(ctx, s.request.ID, lab.ID, resaved); err != nil {
			return SavedAllocation{}, err
		}
	}
	if err := s.store.CreateSeatHolds(ctx, s.holdRows(lab, positions, assetIDs)); err != nil {
		return SavedAllocation{}, err
	}
	for i, pos := range positions {
		if !have[pos] {
			existing.Positions = append(existing.Positions, pos)
			existing.AssetIDs = append(existing.AssetIDs, assetIDs[i])
		}
	}
	sort.Ints(existing.Positions)
	sort.Ints(existing.AssetIDs)
	return *existing, nil
}

// saveReplace overwrites the allocation being edited with exactly the
// new selection.  Existing pending rows are updated in place, matched
// by request, lab, old position and pending status, to preserve row
// identity; rows are created or deleted only where the seat counts
// differ or a matching row has gone missing.
func (s *Session) saveReplace(ctx context.Context, lab model.Lab, positions, assetIDs []int) (SavedAllocation, error) {
	old := s.editing.original
	n := len(old.Positions)
	if len(positions) < n {
		n = len(positions)
	}
	for i := 0; i < n; i++ {
		id := assetIDs[i]
		err := s.store.UpdatePendingHold(ctx, s.request.ID, lab.ID, old.Positions[i], positions[i], &id)
		if errors.Is(err, ErrHoldNotFound) {
			err = s.store.CreateSeatHolds(ctx, s.holdRows(lab, positions[i:i+1], assetIDs[i:i+1]))
		}
		if err != nil {
			return SavedAllocation{}, err
		}
	}
	if len(positions) > n {
		if err := s.store.CreateSeatHolds(ctx, s.holdRows(lab, positions[n:], assetIDs[n:])); err != nil {
			return SavedAllocation{}, err
		}
	}
	if len(old.Positions) > n {
		if err := s.store.DeletePendingHolds(ctx, s.request.ID, lab.ID, old.Positions[n:]); err != nil {
			return SavedAllocation{}, err
		}
	}

	sa := SavedAllocation{
		LabID:     lab.ID,
		LabName:   lab.Name,
		Division:  s.request.Division,
		Positions: positions,
		AssetIDs:  assetIDs,
	}
	idx := s.editing.index
	if idx > len(s.saved) {
		idx = len(s.saved)
	}
	s.saved = append(s.saved[:idx], append([]SavedAllocation{sa}, s.saved[idx:]...)...)
	s.editing = nil
	return sa, nil
}

// holdRows builds pending hold rows for the given positions.
func (s *Session) holdRows(lab model.Lab, positions, assetIDs []int) []model.SeatHold {
	rows := make([]model.SeatHold, len(positions))
	for i, pos := range positions {
		id := assetIDs[i]
		rows[i] = model.SeatHold{
			RequestID: s.request.ID,
			LabID:     lab.ID,
			Position:  pos,
			Status:    model.HoldPending,
			AssetID:   &id,
			Division:  s.request.Division,
			Requestor: s.requestor,
		}
	}
	return rows
}

// Delete removes a saved allocation entirely: its pending hold rows
// are deleted, the seats become free for other requests, and the
// request reverts to pending when its last allocation goes.
func (s *Session) Delete(ctx context.Context, labID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrFinalized
	}
	i := s.savedIndex(labID)
	if i < 0 {
		return ErrAllocationNotFound
	}
	sa := s.saved[i]
	if err := s.store.DeletePendingHolds(ctx, s.request.ID, labID, sa.Positions); err != nil {
		return err
	}
	s.saved = append(s.saved[:i], s.saved[i+1:]...)
	s.totalAllocated -= len(sa.Positions)

	if len(s.saved) == 0 && s.editing == nil && s.request.Status != model.RequestPending {
		if err := s.store.UpdateRequestStatus(ctx, s.request.ID, model.RequestPending); err != nil {
			return err
		}
		s.request.Status = model.RequestPending
	}
	return nil
}

// Finalize promotes the full set of saved allocations to a committed
// allocation via the approval collaborator.  It refuses with a
// descriptive shortfall while the requested quantity is not met, while
// an unsaved selection exists, or when nothing has been saved.
func (s *Session) Finalize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrFinalized
	}
	if len(s.selection) > 0 || s.editing != nil {
		return ErrSelectionActive
	}
	if s.totalAllocated < s.request.Required || len(s.saved) == 0 {
		return &ShortfallError{Required: s.request.Required, Allocated: s.totalAllocated}
	}
	if err := s.approver.Approve(ctx, s.request, append([]SavedAllocation(nil), s.saved...)); err != nil {
		return err
	}
	s.request.Status = model.RequestApproved
	s.finalized = true
	return nil
}

// Request returns the session's request with its current status.
func (s *Session) Request() model.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.request
}

// Saved returns a copy of the saved allocations in save order.
func (s *Session) Saved() []SavedAllocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SavedAllocation, len(s.saved))
	for i, sa := range s.saved {
		out[i] = sa
		out[i].Positions = append([]int(nil), sa.Positions...)
		out[i].AssetIDs = append([]int(nil), sa.AssetIDs...)
	}
	return out
}

// TotalAllocated returns the running count of saved seats.
func (s *Session) TotalAllocated() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalAllocated
}

// Selection returns the lab and positions of the active selection.
func (s *Session) Selection() (labID uint64, positions []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selLabID, append([]int(nil), s.selection...)
}

// Editing reports whether an edit is in progress and for which lab.
func (s *Session) Editing() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return 0, false
	}
	return s.editing.original.LabID, true
}

// Overlay returns the selection and edit exclusions relevant when
// rendering the given lab's grid for this session.
func (s *Session) Overlay(labID uint64) (selection []int, exclusions map[int]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selLabID == labID {
		selection = append([]int(nil), s.selection...)
	}
	if s.editing != nil && s.editing.original.LabID == labID {
		exclusions = make(map[int]bool, len(s.editing.original.Positions))
		for _, pos := range s.editing.original.Positions {
			exclusions[pos] = true
		}
	}
	return selection, exclusions
}
