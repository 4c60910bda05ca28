package md2html

import (
	"context"
	"fmt"

	"github.com/alnah/go-md2html/internal/pipeline"
)

// Converter orchestrates the Markdown-to-HTML pipeline: preprocessing,
// Markdown rendering, optional sanitizing, restyling and optional PDF export.
// Create with NewConverter(), use Convert() for conversion, and Close() when done.
//
// HTML conversion is safe for concurrent use. PDF rendering shares one
// browser per converter; use ConverterPool for parallel PDF batches.
type Converter struct {
	cfg           converterConfig
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	sanitizer     pipeline.Sanitizer
	restyler      pipeline.HTMLRestyler
	pdfConverter  pdfConverter
}

// NewConverter creates a Converter with default configuration.
// Returns an error for an unknown engine or an invalid date format.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout: defaultTimeout,
			engine:  pipeline.EngineGoldmark,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.preprocessor = pipeline.NewCommonMarkPreprocessor(c.cfg.imageBaseURL)

	if c.htmlConverter == nil {
		hc, err := pipeline.NewHTMLConverter(c.cfg.engine, c.cfg.rawHTML)
		if err != nil {
			return nil, err
		}
		c.htmlConverter = hc
	}

	if c.cfg.rawHTML {
		c.sanitizer = pipeline.NewBluemondaySanitizer()
	}

	restyler, err := pipeline.NewRestyler(
		pipeline.WithClock(c.cfg.now),
		pipeline.WithDateFormat(c.cfg.dateFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing restyler: %w", err)
	}
	c.restyler = restyler

	// Browser launch is deferred to the first PDF request
	if c.pdfConverter == nil {
		c.pdfConverter = newBrowserConverter(c.cfg.timeout)
	}

	return c, nil
}

// Convert runs the pipeline and returns the restyled HTML, plus a PDF when
// input.PDF is set. The context is used for cancellation and timeout.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	mdContent := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	htmlContent, err := c.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	if c.sanitizer != nil {
		htmlContent = c.sanitizer.Sanitize(htmlContent)
	}

	// Completes the ==text== feature started in preprocessing
	htmlContent = pipeline.ConvertMarkPlaceholders(htmlContent)

	// Chrome loads the page from a temp file, so local images need absolute URLs
	if input.PDF && input.SourceDir != "" {
		htmlContent, err = pipeline.RewriteRelativePaths(htmlContent, input.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("rewriting relative paths: %w", err)
		}
	}

	branding := input.Branding.withDefaults()
	version := input.Version
	if version == "" {
		version = DefaultVersion
	}

	htmlContent = c.restyler.Restyle(htmlContent, pipeline.RestyleData{
		Version:       version,
		PrimaryLogo:   branding.PrimaryLogo,
		SecondaryLogo: branding.SecondaryLogo,
	})

	res := &ConvertResult{HTML: []byte(htmlContent)}
	if !input.PDF {
		return res, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	res.PDF = pdfBytes
	return res, nil
}

// Close releases resources (headless Chrome browser, if one was started).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// defaultRestyler uses the real clock and the DD/MM/YYYY banner format.
var defaultRestyler = mustRestyler()

func mustRestyler() *pipeline.Restyler {
	r, err := pipeline.NewRestyler()
	if err != nil {
		panic(err)
	}
	return r
}

// Restyle normalizes rendered HTML into the branded document using the
// current date and the given logos. It never fails.
func Restyle(rawHTML, version, primaryLogo, secondaryLogo string) string {
	return defaultRestyler.Restyle(rawHTML, pipeline.RestyleData{
		Version:       version,
		PrimaryLogo:   primaryLogo,
		SecondaryLogo: secondaryLogo,
	})
}
