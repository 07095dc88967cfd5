// respond.go - Response encoding shared by all page handlers
package api

import (
	"mime"
	"strings"

	"github.com/formcgi/server/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// MIMEApplicationMsgpack is the media type of msgpack responses.
const MIMEApplicationMsgpack = "application/msgpack"

type format int

const (
	formatHTML format = iota
	formatJSON
	formatMsgpack
)

// negotiate picks the response format from the Accept header. HTML is the
// default; the first explicitly listed JSON or msgpack type wins.
func negotiate(c echo.Context) format {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	for _, item := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(item))
		if err != nil {
			continue
		}
		switch mediaType {
		case echo.MIMETextHTML:
			return formatHTML
		case echo.MIMEApplicationJSON:
			return formatJSON
		case MIMEApplicationMsgpack, "application/x-msgpack":
			return formatMsgpack
		}
	}
	return formatHTML
}

// respondPage writes page as HTML through the named template, or as JSON or
// msgpack when the client asked for it.
func respondPage(c echo.Context, status int, template string, page *models.ResponsePage) error {
	switch negotiate(c) {
	case formatJSON:
		return c.JSON(status, page)
	case formatMsgpack:
		return sendMsgpack(c, status, page)
	default:
		return c.Render(status, template, page)
	}
}

func sendMsgpack(c echo.Context, status int, v interface{}) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(status, MIMEApplicationMsgpack, data)
}

// requestEnv collects what a CGI script would read from its environment.
func requestEnv(c echo.Context) models.RequestEnv {
	return models.RequestEnv{Method: c.Request().Method}
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
