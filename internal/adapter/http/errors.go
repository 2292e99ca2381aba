package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"vehicleloan/internal/domain/loan"
	"vehicleloan/internal/usecase/workflow"
)

// Map domain errors → HTTP codes
func writeError(c echo.Context, err error) error {
	var (
		callErr *workflow.CallError
		stepErr *workflow.StepError
	)
	switch {
	case errors.As(err, &stepErr):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: fieldErrorsOf(stepErr.Fields),
		})
	case errors.As(err, &callErr):
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: callErr.Message})
	case errors.Is(err, workflow.ErrBusy),
		errors.Is(err, workflow.ErrWrongStage),
		errors.Is(err, workflow.ErrNoOffer),
		errors.Is(err, loan.ErrInvalidTransition),
		errors.Is(err, loan.ErrAlreadyResolved):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loan.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
