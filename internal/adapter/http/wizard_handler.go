package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"vehicleloan/internal/domain/loan"
	"vehicleloan/internal/usecase/workflow"
)

type WizardHandler struct{ eng *workflow.Engine }

func NewWizardHandler(eng *workflow.Engine) *WizardHandler { return &WizardHandler{eng: eng} }

func (h *WizardHandler) State(c echo.Context) error {
	return c.JSON(http.StatusOK, h.eng.State())
}

// section binds the body into a draft section and stores it with set.
func section[T any](h *WizardHandler, c echo.Context, set func(T) error) error {
	var in T
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := set(in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.eng.State())
}

func (h *WizardHandler) PutCustomer(c echo.Context) error {
	return section[loan.Customer](h, c, h.eng.SetCustomer)
}

func (h *WizardHandler) PutVehicle(c echo.Context) error {
	return section[loan.Vehicle](h, c, h.eng.SetVehicle)
}

func (h *WizardHandler) PutFinancial(c echo.Context) error {
	return section[loan.Financial](h, c, h.eng.SetFinancial)
}

func (h *WizardHandler) PutPreferences(c echo.Context) error {
	return section[loan.LoanPreferences](h, c, h.eng.SetPreferences)
}

// Advance answers 422 with the step's field errors when the gate fails.
func (h *WizardHandler) Advance(c echo.Context) error {
	errs, err := h.eng.Advance()
	if err != nil {
		return writeError(c, err)
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: fieldErrorsOf(errs),
		})
	}
	return c.JSON(http.StatusOK, h.eng.State())
}

func (h *WizardHandler) Retreat(c echo.Context) error {
	if err := h.eng.Retreat(); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.eng.State())
}

func (h *WizardHandler) Reset(c echo.Context) error {
	if err := h.eng.ResetDraft(); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.eng.State())
}

func (h *WizardHandler) Calculate(c echo.Context) error {
	app, err := h.eng.Calculate(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, app)
}

func (h *WizardHandler) Submit(c echo.Context) error {
	app, err := h.eng.Submit(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, app)
}

type navigateReq struct {
	Screen string `json:"screen" validate:"required,oneof=dashboard detail"`
	ID     string `json:"id" validate:"required_if=Screen detail"`
}

// Navigate switches between the dashboard and an application's detail view.
func (h *WizardHandler) Navigate(c echo.Context) error {
	var req navigateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	if workflow.Screen(req.Screen) == workflow.ScreenDetail {
		if err := h.eng.OpenDetail(req.ID); err != nil {
			return writeError(c, err)
		}
	} else {
		h.eng.OpenDashboard()
	}
	return c.JSON(http.StatusOK, h.eng.State())
}
