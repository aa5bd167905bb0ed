package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avetra/workstation-allocation/internal/model"
	"github.com/avetra/workstation-allocation/internal/repository"
)

// BrowseHandler serves the office -> floor -> lab drill-down used to
// pick a lab before allocating.  All three listings are read-only and
// sit behind the response cache.
type BrowseHandler struct {
	Offices   *repository.OfficeRepo
	Floors    *repository.FloorRepo
	Labs      *repository.LabRepo
	Divisions *repository.DivisionRepo
}

func NewBrowseHandler(o *repository.OfficeRepo, f *repository.FloorRepo, l *repository.LabRepo, d *repository.DivisionRepo) *BrowseHandler {
	return &BrowseHandler{Offices: o, Floors: f, Labs: l, Divisions: d}
}

type officePart struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type floorPart struct {
	ID       uint64 `json:"id"`
	OfficeID uint64 `json:"office_id"`
	Name     string `json:"name"`
}

type labPart struct {
	ID                uint64  `json:"id"`
	FloorID           uint64  `json:"floor_id"`
	Name              string  `json:"name"`
	TotalWorkstations int     `json:"total_workstations"`
	AssetIDRange      *string `json:"asset_id_range,omitempty"`
}

func labToPart(l model.Lab) labPart {
	return labPart{
		ID:                l.ID,
		FloorID:           l.FloorID,
		Name:              l.Name,
		TotalWorkstations: l.TotalWorkstations,
		AssetIDRange:      l.AssetIDRange,
	}
}

// ListDivisions returns every division, for the request form.
func (h *BrowseHandler) ListDivisions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	divisions, err := h.Divisions.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list divisions failed"})
	}
	out := make([]echo.Map, 0, len(divisions))
	for _, d := range divisions {
		out = append(out, echo.Map{"id": d.ID, "name": d.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"divisions": out})
}

// ListOffices returns every office.
func (h *BrowseHandler) ListOffices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	offices, err := h.Offices.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list offices failed"})
	}
	out := make([]officePart, 0, len(offices))
	for _, o := range offices {
		out = append(out, officePart{ID: o.ID, Name: o.Name, City: o.City})
	}
	return c.JSON(http.StatusOK, echo.Map{"offices": out})
}

// ListFloors returns the floors of one office.
func (h *BrowseHandler) ListFloors(c echo.Context) error {
	officeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid office id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Offices.GetByID(ctx, officeID); err != nil {
		if errors.Is(err, repository.ErrOfficeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "office not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list floors failed"})
	}
	floors, err := h.Floors.ListByOffice(ctx, officeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list floors failed"})
	}
	out := make([]floorPart, 0, len(floors))
	for _, f := range floors {
		out = append(out, floorPart{ID: f.ID, OfficeID: f.OfficeID, Name: f.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"floors": out})
}

// ListLabs returns the labs of one floor.
func (h *BrowseHandler) ListLabs(c echo.Context) error {
	floorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid floor id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Floors.GetByID(ctx, floorID); err != nil {
		if errors.Is(err, repository.ErrFloorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "floor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list labs failed"})
	}
	labs, err := h.Labs.ListByFloor(ctx, floorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list labs failed"})
	}
	out := make([]labPart, 0, len(labs))
	for _, l := range labs {
		out = append(out, labToPart(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"labs": out})
}
