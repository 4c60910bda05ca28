package pipeline

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters so they
// pass through both Markdown engines unchanged. ConvertMarkPlaceholders
// turns them into <mark> tags after HTML generation.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Highlight syntax ==text==
	highlightPattern = regexp.MustCompile(`==(.*?)==`)

	// Obsidian embed syntax ![[name]] or ![[name|alias]]
	embedPattern = regexp.MustCompile(`!\[\[([^\[\]\n|]+)(?:\|[^\[\]\n]*)?\]\]`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// Compile-time interface check.
var _ MarkdownPreprocessor = (*CommonMarkPreprocessor)(nil)

// CommonMarkPreprocessor applies transformations before Markdown conversion.
type CommonMarkPreprocessor struct {
	imageBaseURL string
}

// NewCommonMarkPreprocessor creates a preprocessor that resolves Obsidian
// image embeds against imageBaseURL. An empty base leaves embed targets relative.
func NewCommonMarkPreprocessor(imageBaseURL string) *CommonMarkPreprocessor {
	return &CommonMarkPreprocessor{imageBaseURL: imageBaseURL}
}

// PreprocessMarkdown applies all transformations to prepare Markdown for conversion.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = p.rewriteEmbeds(content)
	content = convertHighlights(content)
	content = compressBlankLines(content)
	return content
}

// rewriteEmbeds turns ![[name]] into a standard Markdown image whose alt
// text is the embed name and whose target is the escaped name under the base URL.
func (p *CommonMarkPreprocessor) rewriteEmbeds(content string) string {
	return embedPattern.ReplaceAllStringFunc(content, func(match string) string {
		sub := embedPattern.FindStringSubmatch(match)
		name := strings.TrimSpace(sub[1])
		if name == "" {
			return match
		}
		return "![" + name + "](" + p.imageBaseURL + escapePath(name) + ")"
	})
}

// escapePath percent-encodes each path segment, keeping the separators.
func escapePath(name string) string {
	segments := strings.Split(name, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

func convertHighlights(content string) string {
	return highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
