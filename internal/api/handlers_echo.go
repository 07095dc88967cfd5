// handlers_echo.go - Form echo handler
package api

import (
	"net/http"

	"github.com/formcgi/server/internal/formecho"
	"github.com/formcgi/server/internal/models"
	"github.com/formcgi/server/internal/web"
	"github.com/labstack/echo/v4"
)

// EchoHandlerImpl implements the EchoHandler interface
type EchoHandlerImpl struct {
	policy models.DuplicatePolicy
}

// NewEchoHandler creates an echo handler that resolves repeated field names
// with policy.
func NewEchoHandler(policy models.DuplicatePolicy) EchoHandler {
	return &EchoHandlerImpl{policy: policy}
}

// HandleFormEcho lists the submitted fields back to the client
func (h *EchoHandlerImpl) HandleFormEcho(c echo.Context) error {
	fields, err := formecho.Parse(c.Request(), h.policy)
	if err != nil {
		return NewBadRequestError("invalid form data", err)
	}

	page := formecho.Render(requestEnv(c), fields)
	return respondPage(c, http.StatusOK, web.PageEcho, page)
}
