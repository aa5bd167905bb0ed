package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetra/workstation-allocation/internal/model"
)

func TestRenderGrid(t *testing.T) {
	lab := testLab(1, 4, "100-103")
	snap := Snapshot{
		Holds: []model.SeatHold{
			testHold(7, 1, 2, model.HoldPending, "Payments", 101),
			testHold(8, 1, 3, model.HoldApproved, "Risk", 102),
		},
	}
	cells := RenderGrid(ResolveLab(lab, snap), []int{1})
	require.Len(t, cells, 4)

	assert.Equal(t, CellSelected, cells[0].Status)
	assert.Equal(t, ColorSelected, cells[0].Color)
	assert.True(t, cells[0].Selectable)

	assert.Equal(t, CellPending, cells[1].Status)
	assert.Equal(t, ColorHeld, cells[1].Color)
	assert.Equal(t, "Payments (Pending)", cells[1].Tooltip)
	assert.False(t, cells[1].Selectable)

	assert.Equal(t, CellBooked, cells[2].Status)
	assert.NotEmpty(t, cells[2].Color)
	assert.Equal(t, "Risk", cells[2].Tooltip)
	assert.False(t, cells[2].Selectable)

	assert.Equal(t, CellAvailable, cells[3].Status)
	assert.Equal(t, ColorNeutral, cells[3].Color)
	assert.True(t, cells[3].Selectable)
}

func TestRenderGridSelectionNeverOverridesHeldSeats(t *testing.T) {
	// A stale selection entry on a pending seat must not repaint it.
	lab := testLab(1, 2, "100-101")
	snap := Snapshot{
		Holds: []model.SeatHold{
			testHold(7, 1, 1, model.HoldPending, "Payments", 100),
		},
	}
	cells := RenderGrid(ResolveLab(lab, snap), []int{1, 2})

	assert.Equal(t, CellPending, cells[0].Status)
	assert.Equal(t, ColorHeld, cells[0].Color)
	assert.Equal(t, CellSelected, cells[1].Status)
}
