package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avetra/workstation-allocation/internal/model"
	"github.com/avetra/workstation-allocation/internal/repository"
)

// RequestHandler serves the workstation-request CRUD surface.
type RequestHandler struct {
	Requests *repository.RequestRepo
}

func NewRequestHandler(r *repository.RequestRepo) *RequestHandler {
	return &RequestHandler{Requests: r}
}

type createRequestReq struct {
	Division string `json:"division"`
	Required int    `json:"required"`
}

type requestPart struct {
	ID        uint64 `json:"id"`
	Division  string `json:"division"`
	Required  int    `json:"required"`
	Status    string `json:"status"`
	Requestor string `json:"requestor"`
}

func requestToPart(r model.Request) requestPart {
	return requestPart{ID: r.ID, Division: r.Division, Required: r.Required, Status: r.Status, Requestor: r.Requestor}
}

// requestorFrom pulls the authenticated email out of the JWT claims.
func requestorFrom(c echo.Context) string {
	if s, ok := c.Get("email").(string); ok && s != "" {
		return s
	}
	return "unknown"
}

// Create registers a new pending request for a division.
func (h *RequestHandler) Create(c echo.Context) error {
	var req createRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Division = strings.TrimSpace(req.Division)
	if req.Division == "" || req.Required < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "division and positive required count needed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Requests.Create(ctx, req.Division, req.Required, requestorFrom(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}
	created, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}
	return c.JSON(http.StatusCreated, requestToPart(created))
}

// List returns every request, newest first.
func (h *RequestHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reqs, err := h.Requests.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list requests failed"})
	}
	out := make([]requestPart, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, requestToPart(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": out})
}

// Get returns one request by ID.
func (h *RequestHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	req, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get request failed"})
	}
	return c.JSON(http.StatusOK, requestToPart(req))
}
