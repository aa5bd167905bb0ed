package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avetra/workstation-allocation/internal/allocation"
	"github.com/avetra/workstation-allocation/internal/repository"
)

func TestSessionErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"request missing", repository.ErrRequestNotFound, http.StatusNotFound},
		{"allocation missing", allocation.ErrAllocationNotFound, http.StatusNotFound},
		{"already finalized", allocation.ErrFinalized, http.StatusConflict},
		{"nothing selected", allocation.ErrNoSelection, http.StatusConflict},
		{"unsaved selection", allocation.ErrSelectionActive, http.StatusConflict},
		{"cross-lab selection", allocation.ErrSelectionSpansLabs, http.StatusConflict},
		{"seat taken", &allocation.SeatUnavailableError{Position: 3, Status: allocation.SeatPending}, http.StatusConflict},
		{"short of quota", &allocation.ShortfallError{Required: 5, Allocated: 3}, http.StatusConflict},
		{"lab full", &allocation.CapacityError{Lab: "Lab A", Requested: 4}, http.StatusUnprocessableEntity},
		{"over demand", &allocation.DemandError{Required: 2, Allocated: 2, Requested: 1}, http.StatusUnprocessableEntity},
		{"lab unconfigured", &allocation.ConfigError{Lab: "Lab B", Reason: "no asset ID range configured"}, http.StatusUnprocessableEntity},
		{"identifier clash", &allocation.ConflictError{}, http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sessionErrorStatus(tc.err))
		})
	}
}
