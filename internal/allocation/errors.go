package allocation

import (
	"errors"
	"fmt"
)

// Sentinel errors for invalid session transitions.  Handlers translate
// these into 4xx responses.
var (
	ErrFinalized          = errors.New("request already finalized")
	ErrNoSelection        = errors.New("no seats selected")
	ErrSelectionActive    = errors.New("an unsaved selection is active")
	ErrAlreadyEditing     = errors.New("another allocation is being edited")
	ErrAllocationNotFound = errors.New("no saved allocation for this lab")
	ErrSelectionSpansLabs = errors.New("selection is limited to one lab at a time")
)

// SeatUnavailableError rejects a click or batch entry on a seat that
// is pending or booked.
type SeatUnavailableError struct {
	Position int
	Division string
	Status   SeatStatus
}

func (e *SeatUnavailableError) Error() string {
	if e.Division != "" {
		return fmt.Sprintf("seat %d is %s (%s)", e.Position, e.Status, e.Division)
	}
	return fmt.Sprintf("seat %d is %s", e.Position, e.Status)
}

// ShortfallError refuses finalization while the request is short of
// its required quantity.
type ShortfallError struct {
	Required  int
	Allocated int
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("request needs %d seat(s), only %d allocated so far (%d missing)",
		e.Required, e.Allocated, e.Required-e.Allocated)
}
