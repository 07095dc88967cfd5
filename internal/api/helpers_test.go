package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/formcgi/server/internal/config"
	"github.com/formcgi/server/internal/storage"
	"github.com/formcgi/server/internal/web"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// newTestConfig returns a config rooted in a fresh temporary document root.
func newTestConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Server.DocumentRoot = t.TempDir()
	cfg.Advanced.EnableRequestLogging = false
	return cfg
}

// newTestServer wires routes exactly as the server binary does.
func newTestServer(t *testing.T, deps *Dependencies) *echo.Echo {
	t.Helper()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	SetupMiddleware(e, deps.Config)
	RegisterRoutes(e, NewHandlers(deps))
	web.RegisterStaticRoutes(e, deps.Config.GetDocumentRoot())
	return e
}

// newTestContext creates a bare echo context with the page renderer installed.
func newTestContext(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// multipartUpload builds a POST carrying content under field with filename.
func multipartUpload(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/cgi-bin/fileupload", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func uploadDir(cfg *config.AppConfig) string {
	return filepath.Join(cfg.GetDocumentRoot(), "upload")
}

func localStore(cfg *config.AppConfig) storage.Store {
	return storage.NewLocalStore(cfg.GetUploadDir())
}
