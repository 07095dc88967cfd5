package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		accept      string
		wantStatus  int
		wantBody    string
		wantDetails string
	}{
		{
			name:       "bad request page",
			err:        NewBadRequestError("invalid file name", errors.New("bad")),
			wantStatus: http.StatusBadRequest,
			wantBody:   "<h2>invalid file name</h2>",
		},
		{
			name:        "bad request json keeps details",
			err:         NewBadRequestError("invalid file name", errors.New("bad")),
			accept:      echo.MIMEApplicationJSON,
			wantStatus:  http.StatusBadRequest,
			wantDetails: "bad",
		},
		{
			name:       "wrapped internal error",
			err:        errors.Join(NewInternalError("failed", errors.New("secret path"))),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "<title>Internal Server Error</title>",
		},
		{
			name:       "echo http error",
			err:        echo.NewHTTPError(http.StatusNotFound, "not found: /x"),
			wantStatus: http.StatusNotFound,
			wantBody:   "<h2>not found: /x</h2>",
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "<h2>An unexpected error occurred</h2>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.accept != "" {
				req.Header.Set(echo.HeaderAccept, tt.accept)
			}
			c, rec := newTestContext(t, req)

			ErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			assert.NotContains(t, rec.Body.String(), "secret path")
			assert.NotContains(t, rec.Body.String(), "boom")

			if tt.accept == echo.MIMEApplicationJSON {
				var apiErr APIError
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
				assert.Equal(t, tt.wantDetails, apiErr.Details)
			}
		})
	}
}

func TestErrorHandler_DoesNotMutateSharedError(t *testing.T) {
	shared := NewInternalError("failed", errors.New("cause"))
	c, _ := newTestContext(t, httptest.NewRequest(http.MethodGet, "/", nil))

	ErrorHandler(shared, c)

	assert.Equal(t, "cause", shared.Details)
}

func TestNegotiate(t *testing.T) {
	for accept, want := range map[string]format{
		"":                                  formatHTML,
		"text/html,application/xhtml+xml":   formatHTML,
		"application/json":                  formatJSON,
		"application/msgpack":               formatMsgpack,
		"application/x-msgpack;q=0.9":       formatMsgpack,
		"*/*":                               formatHTML,
		"text/plain, application/json":      formatJSON,
		"text/html;q=0.5, application/json": formatHTML,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAccept, accept)
		c, _ := newTestContext(t, req)
		assert.Equal(t, want, negotiate(c), accept)
	}
}
