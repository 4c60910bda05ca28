package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown engine names.
const (
	EngineGoldmark   = "goldmark"
	EngineGomarkdown = "gomarkdown"
)

// Engines lists the accepted engine names.
var Engines = []string{EngineGoldmark, EngineGomarkdown}

var (
	// ErrHTMLConversion indicates HTML conversion failed.
	ErrHTMLConversion = errors.New("HTML conversion failed")

	// ErrUnknownEngine indicates an unsupported Markdown engine name.
	ErrUnknownEngine = errors.New("unknown markdown engine")
)

// HTMLConverter abstracts Markdown to HTML conversion.
// Implementations return a body fragment; document structure is added later.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// Compile-time interface checks
var (
	_ HTMLConverter = (*GoldmarkConverter)(nil)
	_ HTMLConverter = (*GomarkdownConverter)(nil)
)

// NewHTMLConverter returns the converter registered under engine.
// An empty engine selects goldmark.
func NewHTMLConverter(engine string, rawHTML bool) (HTMLConverter, error) {
	switch engine {
	case "", EngineGoldmark:
		return NewGoldmarkConverter(rawHTML), nil
	case EngineGomarkdown:
		return NewGomarkdownConverter(rawHTML), nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %s, %s)", ErrUnknownEngine, engine, EngineGoldmark, EngineGomarkdown)
	}
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions,
// emoji shortcodes and syntax highlighting. Raw HTML in the source is
// omitted unless rawHTML is set.
func NewGoldmarkConverter(rawHTML bool) *GoldmarkConverter {
	rendererOpts := []goldmark.Option{}
	if rawHTML {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	md := goldmark.New(append([]goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			emoji.Emoji,        // :warning: shortcodes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // Obsidian renders single newlines as breaks
			html.WithXHTML(),
		),
	}, rendererOpts...)...)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// GomarkdownConverter converts Markdown to HTML using gomarkdown.
// A parser is single-use, so one is built per call.
type GomarkdownConverter struct {
	extensions mdparser.Extensions
	flags      mdhtml.Flags
}

// NewGomarkdownConverter creates a GomarkdownConverter with common
// extensions and automatic heading IDs.
func NewGomarkdownConverter(rawHTML bool) *GomarkdownConverter {
	flags := mdhtml.CommonFlags
	if !rawHTML {
		flags |= mdhtml.SkipHTML
	}
	return &GomarkdownConverter{
		extensions: mdparser.CommonExtensions | mdparser.AutoHeadingIDs | mdparser.NoEmptyLineBeforeBlock | mdparser.HardLineBreak,
		flags:      flags,
	}
}

// ToHTML converts Markdown content to an HTML fragment.
func (c *GomarkdownConverter) ToHTML(ctx context.Context, content string) (out string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("%w: %v", ErrHTMLConversion, r)
		}
	}()

	p := mdparser.NewWithExtensions(c.extensions)
	doc := p.Parse([]byte(content))
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: c.flags})

	return string(markdown.Render(doc, renderer)), nil
}
