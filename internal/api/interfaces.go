// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// UploadHandler handles the file upload endpoint
type UploadHandler interface {
	HandleFileUpload(c echo.Context) error
}

// EchoHandler handles the form echo endpoint
type EchoHandler interface {
	HandleFormEcho(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}
