package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-md2html/internal/dateutil"
	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/pipeline"
	"github.com/alnah/go-md2html/internal/version"
	"github.com/alnah/go-md2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength     = 2048 // Browser limit
	MaxPathLength    = 4096
	MaxVersionLength = 50 // "2.3.0", "2024.10-rc1"
	MaxAddrLength    = 255
	MaxEngineLength  = 20
)

// Defaults mirroring the documentation bot this tool replaces.
const (
	DefaultOutputDir    = "temp_output"
	DefaultVersionLog   = "Logs/versao.txt"
	DefaultImageBaseURL = "https://raw.githubusercontent.com/MirandaDev00/Bot_Documentacao_Eorbis/main/Bot_/img_doc/"
	DefaultServerAddr   = "127.0.0.1:8080"
	DefaultPDFTimeout   = "30s"
)

// AppName names the user config directory (~/.config/go-md2html).
const AppName = "go-md2html"

// Config holds all configuration for document generation.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Version  VersionConfig  `yaml:"version"`
	Branding BrandingConfig `yaml:"branding"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Banner   BannerConfig   `yaml:"banner"`
	PDF      PDFConfig      `yaml:"pdf"`
	Server   ServerConfig   `yaml:"server"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Used when no input argument is given
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"`
}

// VersionConfig defines how the documented version is resolved.
type VersionConfig struct {
	URL      string `yaml:"url"`      // Status page holding div.softgray
	Timeout  string `yaml:"timeout"`  // Go duration, e.g. "5s"
	Fallback string `yaml:"fallback"` // Used when the page is unreachable
	LogFile  string `yaml:"logFile"`  // Last fetched version; empty disables
	Fixed    string `yaml:"fixed"`    // Skips the fetch entirely when set
}

// BrandingConfig defines the logos injected in header and footer.
// Empty values use the built-in project logos.
type BrandingConfig struct {
	PrimaryLogo   string `yaml:"primaryLogo"`
	SecondaryLogo string `yaml:"secondaryLogo"`
}

// MarkdownConfig selects and tunes the Markdown engine.
type MarkdownConfig struct {
	Engine       string `yaml:"engine"`  // "goldmark" or "gomarkdown"
	RawHTML      bool   `yaml:"rawHTML"` // Pass raw HTML through bluemonday
	ImageBaseURL string `yaml:"imageBaseURL"`
}

// BannerConfig defines the version banner.
type BannerConfig struct {
	DateFormat string `yaml:"dateFormat"` // dateutil tokens or preset
}

// PDFConfig defines optional PDF export.
type PDFConfig struct {
	Enabled bool   `yaml:"enabled"`
	Timeout string `yaml:"timeout"`
}

// ServerConfig defines the preview server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Validate checks field lengths, engine names, durations and date formats.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"version.url", c.Version.URL, MaxURLLength},
		{"version.fallback", c.Version.Fallback, MaxVersionLength},
		{"version.fixed", c.Version.Fixed, MaxVersionLength},
		{"version.logFile", c.Version.LogFile, MaxPathLength},
		{"branding.primaryLogo", c.Branding.PrimaryLogo, MaxURLLength},
		{"branding.secondaryLogo", c.Branding.SecondaryLogo, MaxURLLength},
		{"markdown.engine", c.Markdown.Engine, MaxEngineLength},
		{"markdown.imageBaseURL", c.Markdown.ImageBaseURL, MaxURLLength},
		{"banner.dateFormat", c.Banner.DateFormat, dateutil.MaxDateFormatLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Version.URL != "" && !fileutil.IsURL(c.Version.URL) {
		return fmt.Errorf("%w: version.url must start with http:// or https://, got %q", ErrInvalidValue, c.Version.URL)
	}
	if _, err := parseDuration("version.timeout", c.Version.Timeout); err != nil {
		return err
	}
	if _, err := parseDuration("pdf.timeout", c.PDF.Timeout); err != nil {
		return err
	}

	if c.Markdown.Engine != "" && !slices.Contains(pipeline.Engines, c.Markdown.Engine) {
		return fmt.Errorf("%w: markdown.engine %q (must be one of %s)", ErrInvalidValue, c.Markdown.Engine, strings.Join(pipeline.Engines, ", "))
	}

	if c.Banner.DateFormat != "" {
		if err := dateutil.Validate(c.Banner.DateFormat); err != nil {
			return fmt.Errorf("banner.dateFormat: %w", err)
		}
	}

	return nil
}

// VersionTimeout returns version.timeout, or the fetcher default when unset.
func (c *Config) VersionTimeout() time.Duration {
	d, err := parseDuration("version.timeout", c.Version.Timeout)
	if err != nil || d == 0 {
		return version.DefaultTimeout
	}
	return d
}

// PDFTimeout returns pdf.timeout, or zero when unset.
func (c *Config) PDFTimeout() time.Duration {
	d, _ := parseDuration("pdf.timeout", c.PDF.Timeout)
	return d
}

// parseDuration parses an optional positive duration. Empty yields zero.
func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a duration (e.g. 5s, 1m)", ErrInvalidValue, field, value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, field, value)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{DefaultDir: DefaultOutputDir},
		Version: VersionConfig{
			URL:      version.DefaultURL,
			Timeout:  version.DefaultTimeout.String(),
			Fallback: version.DefaultFallback,
			LogFile:  DefaultVersionLog,
		},
		Markdown: MarkdownConfig{
			Engine:       pipeline.EngineGoldmark,
			ImageBaseURL: DefaultImageBaseURL,
		},
		Banner: BannerConfig{DateFormat: dateutil.DefaultDateFormat},
		PDF:    PDFConfig{Timeout: DefaultPDFTimeout},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// DefaultYAML renders DefaultConfig as a YAML document for init-config.
func DefaultYAML() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# go-md2html configuration\n# Precedence: flags > MD2HTML_* environment > this file > defaults\n")
	if err := yamlutil.Encode(&buf, DefaultConfig()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator or a YAML extension, it's treated
// as a file path. Otherwise, it's searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	if err := yamlutil.Decode(f, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func isFilePath(s string) bool {
	if strings.ContainsAny(s, "/\\") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

// SearchPaths lists the candidate files for a config name, in lookup order:
// current directory first, then the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
