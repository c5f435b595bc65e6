// Package status serves the liveness probe for the Tissaia backend.
package status

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// EnvKey is the environment variable gating the probe. Note: only its
// presence is checked, the value is never compared against the caller. Kept
// for compatibility with the deployed behavior; see DESIGN.md.
const EnvKey = "GOOGLE_API_KEY"

// Response is the liveness payload.
type Response struct {
	Status             string `json:"status"`
	Backend            string `json:"backend"`
	ReactVersionTarget string `json:"react_version_target"`
}

// Handlers provides the status endpoint.
type Handlers struct {
	log zerolog.Logger
}

// NewHandlers creates status handlers.
func NewHandlers(log zerolog.Logger) *Handlers {
	if os.Getenv(EnvKey) == "" {
		log.Warn().Str("env", EnvKey).Msg("api key not set, status endpoint will report 500")
	}
	return &Handlers{log: log}
}

// RegisterRoutes registers the status route.
func (h *Handlers) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/status", h.GetStatus)
}

// GetStatus answers the liveness probe.
// GET /api/status
func (h *Handlers) GetStatus(c echo.Context) error {
	if os.Getenv(EnvKey) == "" {
		return c.String(http.StatusInternalServerError, "Missing Configuration")
	}

	return c.JSON(http.StatusOK, Response{
		Status:             "Alive",
		Backend:            "Go Serverless",
		ReactVersionTarget: "19.2.1",
	})
}
