// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/formcgi/server/internal/storage"
	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	store   storage.Store
}

// NewHealthHandler creates a health handler that also reports on the
// upload directory of store.
func NewHealthHandler(version string, store storage.Store) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		store:   store,
	}
}

// HandleHealth returns server health status. The upload directory is created
// on first upload, so a missing directory is still healthy.
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	uploadDir := map[string]interface{}{"path": h.store.Dir()}

	exists, err := h.store.DirExists()
	if err != nil {
		c.Logger().Errorf("health check: %v", err)
		uploadDir["error"] = err.Error()
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unavailable",
			"version":   h.version,
			"uploadDir": uploadDir,
		})
	}
	uploadDir["exists"] = exists

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"uploadDir": uploadDir,
	})
}
