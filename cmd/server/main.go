package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/formcgi/server/internal/api"
	"github.com/formcgi/server/internal/config"
	"github.com/formcgi/server/internal/web"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// options holds command line overrides. Zero values leave the config file alone.
type options struct {
	configPath  string
	port        int
	docRoot     string
	closeLog    bool
	showVersion bool
}

func parseFlags(args []string) (*options, error) {
	opts := &options{port: -1}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	for _, name := range []string{"i", "config"} {
		fs.StringVar(&opts.configPath, name, "", "Specify config file (.config/.xml or .yaml/.yml).")
	}
	for _, name := range []string{"p", "port"} {
		fs.IntVar(&opts.port, name, -1, "The port of the server.")
	}
	for _, name := range []string{"r", "doc_root"} {
		fs.StringVar(&opts.docRoot, name, "", "The root directory of resources.")
	}
	for _, name := range []string{"c", "close_log"} {
		fs.BoolVar(&opts.closeLog, name, false, "Disable request logging.")
	}
	for _, name := range []string{"v", "version"} {
		fs.BoolVar(&opts.showVersion, name, false, "Print the version number and exit.")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

// applyFlags lets command line values win over the config file.
func applyFlags(cfg *config.AppConfig, opts *options) error {
	if opts.port >= 0 {
		cfg.Server.Port = opts.port
	}
	if opts.docRoot != "" {
		abs, err := filepath.Abs(opts.docRoot)
		if err != nil {
			return fmt.Errorf("resolving document root: %w", err)
		}
		cfg.Server.DocumentRoot = abs
	}
	if opts.closeLog {
		cfg.Advanced.EnableRequestLogging = false
	}
	return cfg.Validate()
}

func logLevel(name string) log.Lvl {
	switch strings.ToLower(name) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	if opts.showVersion {
		fmt.Println(Version)
		return
	}

	configPath := opts.configPath
	if configPath == "" {
		// Default to a config file next to the executable
		exePath, err := os.Executable()
		if err != nil {
			fmt.Printf("Failed to get executable path: %v\n", err)
			os.Exit(1)
		}
		configPath = filepath.Join(filepath.Dir(exePath), "formcgi.config")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := applyFlags(cfg, opts); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		fmt.Printf("Failed to load page templates: %v\n", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Logger.SetLevel(logLevel(cfg.Advanced.LogLevel))

	api.SetupMiddleware(e, cfg)
	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Config:  cfg,
		Version: Version,
	}))

	// Static files last so the CGI routes take precedence
	web.RegisterStaticRoutes(e, cfg.GetDocumentRoot())

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	publicPath := "(not exposed)"
	if cfg.Upload.ExposePublicPath {
		publicPath = cfg.GetPublicPath()
	}

	fmt.Printf("\n")
	fmt.Printf("formcgi server %s (built %s)\n", Version, BuildTime)
	fmt.Printf("  Config:      %s\n", configPath)
	fmt.Printf("  Listen:      http://%s\n", cfg.GetServerAddr())
	fmt.Printf("  Doc root:    %s\n", cfg.GetDocumentRoot())
	fmt.Printf("  Upload dir:  %s\n", cfg.GetUploadDir())
	fmt.Printf("  Public path: %s\n", publicPath)
	fmt.Printf("\n")

	e.Logger.Fatal(e.StartServer(s))
}
