package md2html

import (
	"time"

	"github.com/alnah/go-md2html/internal/pipeline"
)

// Default timeout for PDF rendering.
const defaultTimeout = 30 * time.Second

// converterConfig holds converter settings applied by options.
type converterConfig struct {
	timeout      time.Duration
	engine       string
	rawHTML      bool
	imageBaseURL string
	now          func() time.Time
	dateFormat   string
}

// Option configures a Converter.
type Option func(*Converter)

// WithTimeout sets the PDF rendering timeout. Panics if d <= 0.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2html: timeout must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithEngine selects the Markdown engine ("goldmark" or "gomarkdown").
func WithEngine(name string) Option {
	return func(c *Converter) {
		c.cfg.engine = name
	}
}

// WithRawHTML lets raw HTML in Markdown through, sanitized with bluemonday.
func WithRawHTML(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.rawHTML = enabled
	}
}

// WithImageBaseURL sets the base URL prepended to Obsidian ![[image]] embeds.
func WithImageBaseURL(base string) Option {
	return func(c *Converter) {
		c.cfg.imageBaseURL = base
	}
}

// WithClock sets the time source for the banner date.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.cfg.now = now
	}
}

// WithDateFormat sets the banner date format (dateutil tokens or preset).
func WithDateFormat(format string) Option {
	return func(c *Converter) {
		c.cfg.dateFormat = format
	}
}

// withPDFConverter injects a PDF backend (tests).
func withPDFConverter(p pdfConverter) Option {
	return func(c *Converter) {
		c.pdfConverter = p
	}
}

// withHTMLConverter injects a Markdown engine (tests).
func withHTMLConverter(h pipeline.HTMLConverter) Option {
	return func(c *Converter) {
		c.htmlConverter = h
	}
}
