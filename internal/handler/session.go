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

// SessionHandler exposes the allocation session of a request over
// HTTP.  Every endpoint loads (or resumes) the request's live session
// through the registry and translates the session's typed errors into
// status codes the UI can act on.
type SessionHandler struct {
	Sessions *SessionRegistry
}

func NewSessionHandler(sessions *SessionRegistry) *SessionHandler {
	return &SessionHandler{Sessions: sessions}
}

type selectReq struct {
	LabID    uint64 `json:"lab_id"`
	Position int    `json:"position"`
}

type batchSelectReq struct {
	LabID uint64 `json:"lab_id"`
	Text  string `json:"text"`
}

type editReq struct {
	LabID uint64 `json:"lab_id"`
}

type savedAllocationPart struct {
	LabID    uint64 `json:"lab_id"`
	LabName  string `json:"lab_name"`
	Division string `json:"division"`
	Seats    int    `json:"seats"`
	AssetIDs []int  `json:"asset_ids,omitempty"`
}

func savedToPart(sa allocation.SavedAllocation) savedAllocationPart {
	return savedAllocationPart{
		LabID:    sa.LabID,
		LabName:  sa.LabName,
		Division: sa.Division,
		Seats:    len(sa.Positions),
		AssetIDs: sa.AssetIDs,
	}
}

// sessionErrorStatus maps session and validation errors to HTTP
// status codes: 404 for missing targets, 409 for state conflicts and
// contended seats, 422 for capacity/demand/configuration refusals.
func sessionErrorStatus(err error) int {
	var seatErr *allocation.SeatUnavailableError
	var capErr *allocation.CapacityError
	var demErr *allocation.DemandError
	var cfgErr *allocation.ConfigError
	var conErr *allocation.ConflictError
	var shortErr *allocation.ShortfallError
	switch {
	case errors.Is(err, repository.ErrRequestNotFound),
		errors.Is(err, allocation.ErrAllocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, allocation.ErrFinalized),
		errors.Is(err, allocation.ErrNoSelection),
		errors.Is(err, allocation.ErrSelectionActive),
		errors.Is(err, allocation.ErrAlreadyEditing),
		errors.Is(err, allocation.ErrSelectionSpansLabs):
		return http.StatusConflict
	case errors.As(err, &seatErr), errors.As(err, &shortErr):
		return http.StatusConflict
	case errors.As(err, &capErr), errors.As(err, &demErr),
		errors.As(err, &cfgErr), errors.As(err, &conErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *SessionHandler) session(ctx context.Context, c echo.Context) (*allocation.Session, error) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request id")
	}
	sess, err := h.Sessions.Get(ctx, requestID, requestorFrom(c))
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "request not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "load session failed")
	}
	return sess, nil
}

// Summary serves GET /v1/requests/:id/session.
func (h *SessionHandler) Summary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.session(ctx, c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.summaryPayload(sess))
}

func (h *SessionHandler) summaryPayload(sess *allocation.Session) echo.Map {
	req := sess.Request()
	saved := sess.Saved()
	parts := make([]savedAllocationPart, 0, len(saved))
	for _, sa := range saved {
		parts = append(parts, savedToPart(sa))
	}
	selLab, selection := sess.Selection()
	editLab, editing := sess.Editing()
	payload := echo.Map{
		"request":         requestToPart(req),
		"allocations":     parts,
		"total_allocated": sess.TotalAllocated(),
		"remaining":       req.Required - sess.TotalAllocated(),
	}
	if len(selection) > 0 {
		payload["selection"] = echo.Map{"lab_id": selLab, "positions": selection}
	}
	if editing {
		payload["editing_lab_id"] = editLab
	}
	return payload
}

// Select serves POST /v1/requests/:id/session/select, toggling one
// seat in or out of the selection.
func (h *SessionHandler) Select(c echo.Context) error {
	var req selectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.LabID == 0 || req.Position < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lab_id and position required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.session(ctx, c)
	if err != nil {
		return err
	}
	if err := sess.Toggle(ctx, req.LabID, req.Position); err != nil {
		return c.JSON(sessionErrorStatus(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, h.summaryPayload(sess))
}

// BatchSelect serves POST /v1/requests/:id/session/batch-select,
// selecting seats by free-form Asset-ID text.
func (h *SessionHandler) BatchSelect(c echo.Context) error {
	var req batchSelectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.LabID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lab_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.session(ctx, c)
	if err != nil {
		return err
	}
	res, err := sess.BatchSelect(ctx, req.LabID, req.Text)
	if err != nil {
		return c.JSON(sessionErrorStatus(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"accepted":    res.Accepted,
		"unavailable": res.Unavailable,
		"invalid":     res.Invalid,
	})
}

// Filter serves POST /v1/requests/:id/session/filter, clearing the
// selection when the office/floor/lab filter changes.
func (h *SessionHandler) Filter(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.session(ctx, c)
	if err != nil {
		return err
	}
	sess.FilterChanged()
	return c.JSON(http.StatusOK, h.summaryPayload(sess))
}

// Save serves POST /v1/requests/:id/session/save, persisting the
// active selection as pending holds.
func (h *SessionHandler) Save(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	sess, err := h.session(ctx, c)
	if err != nil {
		return err
	}
	sa, err := sess.Save(ctx)
	if err != nil {
		return c.JSON(sessionErrorStatus(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"saved":   savedToPart(sa),
		"summary": h.summaryPayload(sess),
	})
}

// Edit serves POST /v1/requests/:id/session/edit, reopening a saved
// allocation for re-selection.
func (h *SessionHandler) Edit(c echo.Context) error {
	var req editReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.LabID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lab_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.session(ctx, c)
	if err != nil {
		return err
	}
	if err := sess.Edit(req.LabID); err != nil {
		return c.JSON(sessionErrorStatus(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, h.summaryPayload(sess))
}

// Cancel serves POST /v1/requests/:id/session/cancel, discarding the
// selection (a pure undo while editing).
func (h *SessionHandler) Cancel(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.session(ctx, c)
	if err != nil {
		return err
	}
	sess.Cancel()
	return c.JSON(http.StatusOK, h.summaryPayload(sess))
}

// Delete serves DELETE /v1/requests/:id/session/allocations/:labID,
// removing a saved allocation and freeing its seats.
func (h *SessionHandler) Delete(c echo.Context) error {
	labID, err := strconv.ParseUint(c.Param("labID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	sess, err := h.session(ctx, c)
	if err != nil {
		return err
	}
	if err := sess.Delete(ctx, labID); err != nil {
		return c.JSON(sessionErrorStatus(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, h.summaryPayload(sess))
}

// Finalize serves POST /v1/requests/:id/session/finalize, submitting
// the fully allocated request for approval.
func (h *SessionHandler) Finalize(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	sess, err := h.session(ctx, c)
	if err != nil {
		return err
	}
	if err := sess.Finalize(ctx); err != nil {
		return c.JSON(sessionErrorStatus(err), echo.Map{"error": err.Error()})
	}
	req := sess.Request()
	h.Sessions.Drop(req.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"request":         requestToPart(req),
		"total_allocated": sess.TotalAllocated(),
	})
}
