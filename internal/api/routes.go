// routes.go - Route registration helpers
package api

import (
	"net/http"
	"strings"

	"github.com/formcgi/server/internal/config"
	"github.com/formcgi/server/internal/storage"
	"github.com/formcgi/server/internal/upload"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Config  *config.AppConfig
	Store   storage.Store // defaults to a LocalStore on the configured upload directory
	Version string
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Upload UploadHandler
	Echo   EchoHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	cfg := deps.Config

	store := deps.Store
	if store == nil {
		var opts []storage.Option
		if cfg.Upload.CreateParents {
			opts = append(opts, storage.WithParents())
		}
		store = storage.NewLocalStore(cfg.GetUploadDir(), opts...)
	}

	uploader := upload.NewHandler(store, upload.Options{
		ExposePublicPath: cfg.Upload.ExposePublicPath,
		PublicPath:       cfg.GetPublicPath(),
	})

	return &Handlers{
		Health: NewHealthHandler(deps.Version, store),
		Upload: NewUploadHandler(uploader),
		Echo:   NewEchoHandler(cfg.GetDuplicatePolicy()),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/health", handlers.Health.HandleHealth)

	cgi := e.Group("/cgi-bin")
	cgi.POST("/fileupload", handlers.Upload.HandleFileUpload)
	// Without this the static catch-all answers GET with 404.
	cgi.GET("/fileupload", allowOnly(http.MethodPost))
	cgi.GET("/testcgi", handlers.Echo.HandleFormEcho)
	cgi.POST("/testcgi", handlers.Echo.HandleFormEcho)
}

func allowOnly(methods ...string) echo.HandlerFunc {
	allow := strings.Join(methods, ", ")
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderAllow, allow)
		return echo.ErrMethodNotAllowed
	}
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, cfg *config.AppConfig) {
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return uuid.New().String()
		},
	}))

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			return c.Request().URL.Path == "/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	if cfg.Server.EnableCompression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Skipper: func(c echo.Context) bool {
				return c.Request().Method != http.MethodGet ||
					strings.HasPrefix(c.Request().URL.Path, cfg.GetPublicPath())
			},
		}))
	}
}
