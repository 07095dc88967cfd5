package web

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/formcgi/server/internal/models"
	"github.com/labstack/echo/v4"
)

// RegisterStaticRoutes serves files below docRoot for every unmatched GET.
// The API routes should be registered before calling this function. When the
// document root has no index.html the built-in form page is served at "/".
func RegisterStaticRoutes(e *echo.Echo, docRoot string) {
	root := os.DirFS(docRoot)
	fileServer := http.FileServer(http.FS(root))

	e.GET("/*", func(c echo.Context) error {
		requestPath := path.Clean("/" + c.Request().URL.Path)
		name := strings.TrimPrefix(requestPath, "/")
		if name == "" {
			name = "."
		}

		stat, err := fs.Stat(root, name)
		if err != nil {
			if name == "." {
				return serveIndexPage(c)
			}
			return echo.NewHTTPError(http.StatusNotFound, "not found: "+requestPath)
		}

		if stat.IsDir() {
			if _, err := fs.Stat(root, path.Join(name, "index.html")); err != nil {
				if name == "." {
					return serveIndexPage(c)
				}
				return echo.NewHTTPError(http.StatusNotFound, "not found: "+requestPath)
			}
		}

		fileServer.ServeHTTP(c.Response(), c.Request())
		return nil
	})
}

// serveIndexPage renders the built-in page linking both endpoints.
func serveIndexPage(c echo.Context) error {
	return c.Render(http.StatusOK, PageIndex, &models.ResponsePage{Title: "formcgi"})
}
