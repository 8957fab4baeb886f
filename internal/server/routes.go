package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the relay's HTTP surface: the websocket endpoint,
// the out-of-band health probe, and a fixed plain-text 404 for everything
// else.
func (s *Server) RegisterRoutes() {
	s.E.GET("/ws", s.gateway.Handler())

	s.E.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":    "ok",
			"service":   "schoolsync-relay",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	s.E.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}
		if code == http.StatusNotFound {
			_ = c.String(http.StatusNotFound, "Not Found")
			return
		}
		_ = c.String(code, http.StatusText(code))
	}
}
