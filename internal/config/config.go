// Package config provides file-based configuration with environment overrides.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/formcgi/server/internal/models"
	"gopkg.in/yaml.v3"
)

// AppConfig represents the root configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"FormCGI" yaml:"-"`

	// Server configuration
	Server ServerConfig `xml:"Server" yaml:"server"`

	// Upload configuration
	Upload UploadConfig `xml:"Upload" yaml:"upload"`

	// Form echo configuration
	Forms FormsConfig `xml:"Forms" yaml:"forms"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced" yaml:"advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port              int    `xml:"Port" yaml:"port"`
	BindAddress       string `xml:"BindAddress" yaml:"bindAddress"`
	DocumentRoot      string `xml:"DocumentRoot" yaml:"documentRoot"`
	ReadTimeout       int    `xml:"ReadTimeoutSeconds" yaml:"readTimeoutSeconds"`
	WriteTimeout      int    `xml:"WriteTimeoutSeconds" yaml:"writeTimeoutSeconds"`
	IdleTimeout       int    `xml:"IdleTimeoutSeconds" yaml:"idleTimeoutSeconds"`
	EnableCompression bool   `xml:"EnableCompression" yaml:"enableCompression"`
}

// UploadConfig contains upload storage settings
type UploadConfig struct {
	// PublicPath is the URL path uploads are served under, relative to the
	// document root.
	PublicPath string `xml:"PublicPath" yaml:"publicPath"`
	// ExposePublicPath adds the stored file's public path to the status page.
	ExposePublicPath bool `xml:"ExposePublicPath" yaml:"exposePublicPath"`
	// Directory overrides the target directory. Empty means DocumentRoot+PublicPath.
	Directory string `xml:"Directory,omitempty" yaml:"directory,omitempty"`
	// CreateParents creates missing parents of the target directory.
	CreateParents bool `xml:"CreateParents" yaml:"createParents"`
}

// FormsConfig contains form echo settings
type FormsConfig struct {
	DuplicatePolicy string `xml:"DuplicatePolicy" yaml:"duplicatePolicy"`
}

// AdvancedConfig contains logging options
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel" yaml:"logLevel"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging" yaml:"enableRequestLogging"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8089,
			BindAddress:  "0.0.0.0",
			DocumentRoot: "./resources",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
		},
		Upload: UploadConfig{
			PublicPath:       "/upload/",
			ExposePublicPath: true,
		},
		Forms: FormsConfig{
			DuplicatePolicy: string(models.DuplicateLastWins),
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig loads configuration from an XML or YAML file, picked by
// extension. A missing file is created with the defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if isYAML(configPath) {
			err = yaml.Unmarshal(data, config)
		} else {
			err = xml.Unmarshal(data, config)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvironmentOverrides()
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves the configuration in the format implied by the file extension
func (c *AppConfig) Save(configPath string) error {
	var content []byte
	if isYAML(configPath) {
		output, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		content = append([]byte("# formcgi configuration\n# This file is auto-generated on first run\n\n"), output...)
	} else {
		output, err := xml.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		header := []byte(xml.Header + "\n<!-- formcgi configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
		content = append(header, output...)
	}

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks value ranges
func (c *AppConfig) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.DocumentRoot == "" {
		return fmt.Errorf("document root must be set")
	}
	if _, err := models.ParseDuplicatePolicy(c.Forms.DuplicatePolicy); err != nil {
		return fmt.Errorf("forms: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if docRoot := os.Getenv("DOCUMENT_ROOT"); docRoot != "" {
		c.Server.DocumentRoot = docRoot
	}

	if uploadDir := os.Getenv("UPLOAD_DIR"); uploadDir != "" {
		c.Upload.Directory = uploadDir
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Server.DocumentRoot != "" && !filepath.IsAbs(c.Server.DocumentRoot) {
		c.Server.DocumentRoot = filepath.Join(configDir, c.Server.DocumentRoot)
	}
	if c.Upload.Directory != "" && !filepath.IsAbs(c.Upload.Directory) {
		c.Upload.Directory = filepath.Join(configDir, c.Upload.Directory)
	}
}

// GetDocumentRoot returns the directory static files are served from
func (c *AppConfig) GetDocumentRoot() string {
	return c.Server.DocumentRoot
}

// GetUploadDir returns the directory uploads are written into
func (c *AppConfig) GetUploadDir() string {
	if c.Upload.Directory != "" {
		return c.Upload.Directory
	}
	rel := strings.Trim(c.Upload.PublicPath, "/")
	return filepath.Join(c.Server.DocumentRoot, filepath.FromSlash(rel))
}

// GetPublicPath returns the URL prefix of the upload directory
func (c *AppConfig) GetPublicPath() string {
	p := "/" + strings.Trim(c.Upload.PublicPath, "/")
	if p != "/" {
		p += "/"
	}
	return p
}

// GetDuplicatePolicy returns the validated duplicate field policy
func (c *AppConfig) GetDuplicatePolicy() models.DuplicatePolicy {
	p, err := models.ParseDuplicatePolicy(c.Forms.DuplicatePolicy)
	if err != nil {
		return models.DuplicateLastWins
	}
	return p
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
