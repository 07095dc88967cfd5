package formecho

import (
	"github.com/formcgi/server/internal/models"
)

// Heading is the status line of every echo page.
const Heading = "Query data: "

// Render builds the echo page for fields. It is a pure function: the page
// lists each field once, in order. Escaping happens when the page is written.
func Render(env models.RequestEnv, fields *models.FormFields) *models.ResponsePage {
	page := &models.ResponsePage{
		Title:         env.Method,
		StatusMessage: Heading,
		Fields:        []models.FormField{},
	}
	if fields != nil {
		page.Fields = fields.Fields()
	}
	return page
}
