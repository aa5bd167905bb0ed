package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avetra/workstation-allocation/internal/allocation"
	"github.com/avetra/workstation-allocation/internal/repository"
)

// GridHandler renders the seat grid of a lab.  Without a request_id
// query parameter the grid shows committed and pending seats only;
// with one, the caller's live session overlays its selection and edit
// exclusions.  Grid responses are never cached.
type GridHandler struct {
	Store    allocation.Store
	Sessions *SessionRegistry
}

func NewGridHandler(store allocation.Store, sessions *SessionRegistry) *GridHandler {
	return &GridHandler{Store: store, Sessions: sessions}
}

// Grid serves GET /v1/labs/:id/grid.
func (h *GridHandler) Grid(c echo.Context) error {
	labID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lab, err := h.Store.Lab(ctx, labID)
	if err != nil {
		if errors.Is(err, repository.ErrLabNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lab failed"})
	}

	holds, err := h.Store.SeatHolds(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load holds failed"})
	}
	allocs, err := h.Store.DivisionAllocations(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load allocations failed"})
	}
	snap := allocation.Snapshot{Holds: holds, Allocations: allocs}

	var selection []int
	if rid := c.QueryParam("request_id"); rid != "" {
		requestID, err := strconv.ParseUint(rid, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
		}
		sess, err := h.Sessions.Get(ctx, requestID, requestorFrom(c))
		if err != nil {
			if errors.Is(err, repository.ErrRequestNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load session failed"})
		}
		sel, exclusions := sess.Overlay(labID)
		selection = sel
		snap.EditExclusions = exclusions
	}

	states := allocation.ResolveLab(lab, snap)
	cells := allocation.RenderGrid(states, selection)

	return c.JSON(http.StatusOK, echo.Map{
		"lab": echo.Map{
			"id":                 lab.ID,
			"name":               lab.Name,
			"total_workstations": lab.TotalWorkstations,
			"asset_id_range":     lab.AssetIDRange,
		},
		"cells": cells,
	})
}
