package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"vehicleloan/internal/domain/loan"
	"vehicleloan/internal/usecase/query"
	"vehicleloan/internal/usecase/review"
	"vehicleloan/internal/usecase/workflow"
)

type ApplicationHandler struct {
	view   *query.View
	eng    *workflow.Engine
	review *review.Usecase
}

func NewApplicationHandler(view *query.View, eng *workflow.Engine, rev *review.Usecase) *ApplicationHandler {
	return &ApplicationHandler{view: view, eng: eng, review: rev}
}

type listResp struct {
	Applications []loan.Application `json:"applications"`
	Count        int                `json:"count"`
	Sample       bool               `json:"sample"`
}

// List filters the dashboard collection by ?q= and ?status= (default all).
func (h *ApplicationHandler) List(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = query.StatusAll
	}
	apps := h.view.Search(c.QueryParam("q"), status)
	return c.JSON(http.StatusOK, listResp{Applications: apps, Count: len(apps), Sample: h.view.Sample()})
}

func (h *ApplicationHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.view.Stats())
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	app, ok := h.view.Find(c.Param("id"))
	if !ok {
		return writeError(c, loan.ErrNotFound)
	}
	return c.JSON(http.StatusOK, app)
}

// Edit seeds the wizard draft from the application.
func (h *ApplicationHandler) Edit(c echo.Context) error {
	if err := h.eng.Edit(c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.eng.State())
}

type statusReq struct {
	Status string `json:"status" validate:"required,oneof='Under Review' Approved Rejected"`
}

func (h *ApplicationHandler) SetStatus(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing id path param"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.review.Transition(c.Request().Context(), review.TransitionInput{
		ApplicationID: id,
		To:            loan.Status(req.Status),
	})
	if errors.Is(err, review.ErrNotPersisted) {
		// the service keeps serving the applied change
		c.Logger().Warn(err)
		return c.JSON(http.StatusOK, dto)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type sampleReq struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// Sample toggles display of the demo applications.
func (h *ApplicationHandler) Sample(c echo.Context) error {
	var req sampleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	h.view.SetSample(*req.Enabled)
	return c.JSON(http.StatusOK, map[string]bool{"enabled": h.view.Sample()})
}
