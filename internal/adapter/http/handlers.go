package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler serves the liveness check. It reports which store backs the
// registry and how many applications it holds.
type Handler struct {
	storeDriver  string
	applications func() int
	now          func() time.Time
}

func NewHandler(storeDriver string, applications func() int) *Handler {
	return &Handler{
		storeDriver:  storeDriver,
		applications: applications,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

type healthResp struct {
	Status       string `json:"status"`
	Store        string `json:"store"`
	Applications int    `json:"applications"`
	Time         string `json:"time"`
}

func (h *Handler) Health(c echo.Context) error {
	resp := healthResp{Status: "ok", Store: h.storeDriver, Time: h.now().Format(time.RFC3339Nano)}
	if h.applications != nil {
		resp.Applications = h.applications()
	}
	return c.JSON(http.StatusOK, resp)
}
