package sidebar

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/navigation", h.GetNavigation)
	api.POST("/navigation/events", h.ApplyEvent)
}

type navigationResponse struct {
	Items []Item `json:"items"`
	State State  `json:"state"`
}

// GetNavigation returns the menu for ?path= and the initial state for ?width=.
// A missing or invalid width is treated as desktop.
func (h *Handler) GetNavigation(c echo.Context) error {
	width, err := strconv.Atoi(c.QueryParam("width"))
	if err != nil {
		width = MobileBreakpoint
	}
	path := c.QueryParam("path")
	if path == "" {
		path = "/"
	}
	return c.JSON(http.StatusOK, navigationResponse{Items: Items(path), State: New(width)})
}

type eventRequest struct {
	State State  `json:"state"`
	Event string `json:"event"`
	Width int    `json:"width"`
}

// ApplyEvent runs one event against the posted state and returns the result.
func (h *Handler) ApplyEvent(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la solicitud inválido")
	}
	s := req.State
	if !s.Apply(req.Event, req.Width) {
		return echo.NewHTTPError(http.StatusBadRequest, "evento desconocido: "+req.Event)
	}
	return c.JSON(http.StatusOK, s)
}
