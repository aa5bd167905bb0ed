package allocation

// Visual constants for grid cells.  Pending seats share one "held"
// color regardless of owning division: contention is visible across
// divisions without revealing more than the division name, which only
// appears in the tooltip.
const (
	ColorNeutral  = "#e5e7eb" // available
	ColorHeld     = "#f59e0b" // pending, any division
	ColorSelected = "#3b82f6" // part of the active selection
)

// CellStatus is the visual state of a grid cell.  It extends
// SeatStatus with SELECTED, which exists only in presentation.
type CellStatus string

const (
	CellAvailable CellStatus = "AVAILABLE"
	CellSelected  CellStatus = "SELECTED"
	CellPending   CellStatus = "PENDING"
	CellBooked    CellStatus = "BOOKED"
)

// Cell is one renderable seat of the grid.
type Cell struct {
	Position   int        `json:"position"`
	Label      string     `json:"label"`
	Status     CellStatus `json:"status"`
	Color      string     `json:"color"`
	Tooltip    string     `json:"tooltip,omitempty"`
	Selectable bool       `json:"selectable"`
}

// RenderGrid maps resolved seat states to renderable cells.  Selection
// visually overrides available seats only; pending and booked seats
// are never selectable and keep their colors even when a stale
// selection still lists them.
func RenderGrid(states []SeatState, selection []int) []Cell {
	selected := make(map[int]bool, len(selection))
	for _, pos := range selection {
		selected[pos] = true
	}
	cells := make([]Cell, len(states))
	for i, st := range states {
		cell := Cell{Position: st.Position, Label: st.Label}
		switch st.Status {
		case SeatPending:
			cell.Status = CellPending
			cell.Color = ColorHeld
			cell.Tooltip = st.Division + " (Pending)"
		case SeatBooked:
			cell.Status = CellBooked
			cell.Color = st.Color
			cell.Tooltip = st.Division
		default:
			if selected[st.Position] {
				cell.Status = CellSelected
				cell.Color = ColorSelected
			} else {
				cell.Status = CellAvailable
				cell.Color = ColorNeutral
			}
			cell.Selectable = true
		}
		cells[i] = cell
	}
	return cells
}
