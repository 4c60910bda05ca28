package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-md2html/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // MD2HTML_CONFIG: config file path
	Timeout    time.Duration // MD2HTML_TIMEOUT: PDF generation timeout
	DocVersion string        // MD2HTML_DOC_VERSION: banner version, skips the fetch
	NoFetch    bool          // MD2HTML_NO_FETCH: never query the status page

	// Tier 2 - I/O
	InputDir  string // MD2HTML_INPUT_DIR: default input directory
	OutputDir string // MD2HTML_OUTPUT_DIR: default output directory
	Workers   int    // MD2HTML_WORKERS: parallel workers
	Addr      string // MD2HTML_ADDR: preview server address

	// Tier 3 - Rendering
	VersionURL    string // MD2HTML_VERSION_URL: status page URL
	Engine        string // MD2HTML_ENGINE: goldmark, gomarkdown
	ImageBaseURL  string // MD2HTML_IMAGE_BASE_URL: base for ![[image]] embeds
	PrimaryLogo   string // MD2HTML_PRIMARY_LOGO: header logo
	SecondaryLogo string // MD2HTML_SECONDARY_LOGO: footer logo
	DateFormat    string // MD2HTML_DATE_FORMAT: banner date format
}

// knownEnvVars lists valid MD2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"MD2HTML_CONFIG":      true,
	"MD2HTML_TIMEOUT":     true,
	"MD2HTML_DOC_VERSION": true,
	"MD2HTML_NO_FETCH":    true,
	// Tier 2 - I/O
	"MD2HTML_INPUT_DIR":  true,
	"MD2HTML_OUTPUT_DIR": true,
	"MD2HTML_WORKERS":    true,
	"MD2HTML_ADDR":       true,
	// Tier 3 - Rendering
	"MD2HTML_VERSION_URL":    true,
	"MD2HTML_ENGINE":         true,
	"MD2HTML_IMAGE_BASE_URL": true,
	"MD2HTML_PRIMARY_LOGO":   true,
	"MD2HTML_SECONDARY_LOGO": true,
	"MD2HTML_DATE_FORMAT":    true,
	// Diagnostics (doctor)
	"MD2HTML_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized MD2HTML_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("MD2HTML_CONFIG"),
		DocVersion: os.Getenv("MD2HTML_DOC_VERSION"),
		// Tier 2
		InputDir:  os.Getenv("MD2HTML_INPUT_DIR"),
		OutputDir: os.Getenv("MD2HTML_OUTPUT_DIR"),
		Addr:      os.Getenv("MD2HTML_ADDR"),
		// Tier 3
		VersionURL:    os.Getenv("MD2HTML_VERSION_URL"),
		Engine:        os.Getenv("MD2HTML_ENGINE"),
		ImageBaseURL:  os.Getenv("MD2HTML_IMAGE_BASE_URL"),
		PrimaryLogo:   os.Getenv("MD2HTML_PRIMARY_LOGO"),
		SecondaryLogo: os.Getenv("MD2HTML_SECONDARY_LOGO"),
		DateFormat:    os.Getenv("MD2HTML_DATE_FORMAT"),
	}

	// Parse duration for timeout
	if timeout := os.Getenv("MD2HTML_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	// Parse int for workers
	if workers := os.Getenv("MD2HTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	// Parse bool for no-fetch ("1", "true", ...)
	if noFetch := os.Getenv("MD2HTML_NO_FETCH"); noFetch != "" {
		if b, err := strconv.ParseBool(noFetch); err == nil {
			cfg.NoFetch = b
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2HTML_* variables.
// Helps catch typos like MD2HTML_ENGNE instead of MD2HTML_ENGINE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MD2HTML_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the file, so the order is:
// CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeRenderFlags and friends)
// Timeout, workers and no-fetch have no config field and are
// resolved against their flags directly.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1 - Version
	if env.DocVersion != "" {
		cfg.Version.Fixed = env.DocVersion
	}

	// Tier 2 - I/O
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}

	// Tier 3 - Rendering
	if env.VersionURL != "" {
		cfg.Version.URL = env.VersionURL
	}
	if env.Engine != "" {
		cfg.Markdown.Engine = env.Engine
	}
	if env.ImageBaseURL != "" {
		cfg.Markdown.ImageBaseURL = env.ImageBaseURL
	}
	if env.PrimaryLogo != "" {
		cfg.Branding.PrimaryLogo = env.PrimaryLogo
	}
	if env.SecondaryLogo != "" {
		cfg.Branding.SecondaryLogo = env.SecondaryLogo
	}
	if env.DateFormat != "" {
		cfg.Banner.DateFormat = env.DateFormat
	}
}
