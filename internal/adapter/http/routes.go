package http

import (
	"github.com/labstack/echo/v4"
)

// Routes mounts the API. idem guards the two collaborator calls.
func Routes(e *echo.Echo, h *Handler, w *WizardHandler, a *ApplicationHandler, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	wz := e.Group("/wizard")
	wz.GET("", w.State)
	wz.PUT("/customer", w.PutCustomer)
	wz.PUT("/vehicle", w.PutVehicle)
	wz.PUT("/financial", w.PutFinancial)
	wz.PUT("/preferences", w.PutPreferences)
	wz.POST("/advance", w.Advance)
	wz.POST("/retreat", w.Retreat)
	wz.POST("/reset", w.Reset)
	wz.POST("/calculate", w.Calculate, idem)
	wz.POST("/submit", w.Submit, idem)
	e.POST("/navigate", w.Navigate)

	e.GET("/applications", a.List)
	e.GET("/applications/stats", a.Stats)
	e.GET("/applications/:id", a.Get)
	e.POST("/applications/:id/edit", a.Edit)
	e.POST("/applications/:id/status", a.SetStatus)
	e.POST("/dashboard/sample", a.Sample)
}
