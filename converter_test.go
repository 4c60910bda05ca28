package md2html

// Notes:
// - Tests Converter.Convert with mocked engine and PDF backend to isolate the
//   pipeline from headless Chrome
// - The real goldmark engine is used where the output of Markdown rendering
//   matters (raw HTML, embeds, highlights)
// - A fixed clock keeps the banner date deterministic

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockHTMLConverter struct {
	called bool
	input  string
	output string
	err    error
}

func (m *mockHTMLConverter) ToHTML(ctx context.Context, content string) (string, error) {
	m.called = true
	m.input = content
	if m.err != nil {
		return "", m.err
	}
	if m.output != "" {
		return m.output, nil
	}
	return "<p>" + content + "</p>", nil
}

type mockPDFConverter struct {
	called    bool
	closed    bool
	inputHTML string
	output    []byte
	err       error
}

func (m *mockPDFConverter) ToPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	m.called = true
	m.inputHTML = htmlContent
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockPDFConverter) Close() error {
	m.closed = true
	return nil
}

var fixedClock = func() time.Time {
	return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
}

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock), withPDFConverter(&mockPDFConverter{})}, opts...)
	conv, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = conv.Close() })
	return conv
}

func parseResult(t *testing.T, result *ConvertResult) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(result.HTML)))
	if err != nil {
		t.Fatalf("parsing result HTML: %v", err)
	}
	return doc
}

// ---------------------------------------------------------------------------
// TestNewConverter
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "defaults"},
		{name: "gomarkdown engine", opts: []Option{WithEngine("gomarkdown")}},
		{name: "unknown engine", opts: []Option{WithEngine("pandoc")}, wantErr: ErrUnknownEngine},
		{name: "date preset", opts: []Option{WithDateFormat("iso")}},
		{name: "invalid date format", opts: []Option{WithDateFormat("[DD")}, wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv, err := NewConverter(append(tt.opts, withPDFConverter(&mockPDFConverter{}))...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewConverter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewConverter() unexpected error: %v", err)
			}
			_ = conv.Close()
		})
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) should panic")
		}
	}()
	WithTimeout(0)
}

// ---------------------------------------------------------------------------
// TestConvert_Success - Successful Conversion Pipeline
// ---------------------------------------------------------------------------

func TestConvert_Success(t *testing.T) {
	t.Parallel()

	htmlConv := &mockHTMLConverter{output: "<h1>Manual</h1><p>OBS: backup first.</p>"}
	pdfConv := &mockPDFConverter{}
	conv := newTestConverter(t, withHTMLConverter(htmlConv), withPDFConverter(pdfConv))

	result, err := conv.Convert(context.Background(), Input{
		Markdown: "# Manual",
		Version:  "2.3.0",
	})
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if !htmlConv.called {
		t.Error("htmlConverter was not called")
	}
	if pdfConv.called {
		t.Error("pdfConverter should not be called without Input.PDF")
	}
	if result.PDF != nil {
		t.Errorf("result.PDF = %q, want nil", result.PDF)
	}

	html := string(result.HTML)
	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Errorf("result should start with a doctype, got %.40q", html)
	}

	doc := parseResult(t, result)
	if got := doc.Find("body > div").First().Find("p").Text(); got != "Versão: 2.3.0 | Última atualização: 05/03/2024" {
		t.Errorf("banner = %q", got)
	}
	if _, ok := doc.Find("h1").Attr("style"); !ok {
		t.Error("h1 should be styled")
	}
	if got := doc.Find("hr").Length(); got != 2 {
		t.Errorf("hr count = %d, want 2 around the callout", got)
	}
	if got := doc.Find("footer").Length(); got != 1 {
		t.Errorf("footer count = %d, want 1", got)
	}
}

func TestConvert_Defaults(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withHTMLConverter(&mockHTMLConverter{}))

	result, err := conv.Convert(context.Background(), Input{Markdown: "text"})
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	doc := parseResult(t, result)
	if got := doc.Find("body > div").First().Find("p").Text(); !strings.HasPrefix(got, "Versão: "+DefaultVersion+" |") {
		t.Errorf("banner = %q, want default version %q", got, DefaultVersion)
	}
	if src, _ := doc.Find("body > div").First().Find("img").Attr("src"); src != DefaultPrimaryLogo {
		t.Errorf("header logo = %q, want %q", src, DefaultPrimaryLogo)
	}
	if src, _ := doc.Find("footer img").Attr("src"); src != DefaultSecondaryLogo {
		t.Errorf("footer logo = %q, want %q", src, DefaultSecondaryLogo)
	}
}

func TestConvert_PartialBranding(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withHTMLConverter(&mockHTMLConverter{}))

	result, err := conv.Convert(context.Background(), Input{
		Markdown: "text",
		Branding: &Branding{PrimaryLogo: "assets/logo.png"},
	})
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	doc := parseResult(t, result)
	if src, _ := doc.Find("body > div").First().Find("img").Attr("src"); src != "assets/logo.png" {
		t.Errorf("header logo = %q, want assets/logo.png", src)
	}
	if src, _ := doc.Find("footer img").Attr("src"); src != DefaultSecondaryLogo {
		t.Errorf("footer logo = %q, want default", src)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Errors
// ---------------------------------------------------------------------------

// Empty files still become a branded page with banner and footer.
func TestConvert_EmptyMarkdown(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t)

	for _, md := range []string{"", "\n\n  \n"} {
		result, err := conv.Convert(context.Background(), Input{Markdown: md, Version: "2.3.0"})
		if err != nil {
			t.Fatalf("Convert(%q) unexpected error: %v", md, err)
		}
		if !strings.HasPrefix(string(result.HTML), "<!DOCTYPE html>") {
			t.Errorf("Convert(%q) should start with a doctype, got %.40q", md, result.HTML)
		}
		doc := parseResult(t, result)
		if got := doc.Find("body > div").First().Find("p").Text(); !strings.Contains(got, "Versão: 2.3.0") {
			t.Errorf("Convert(%q) banner = %q", md, got)
		}
		if got := doc.Find("body > footer").Length(); got != 1 {
			t.Errorf("Convert(%q) footer count = %d, want 1", md, got)
		}
	}
}

func TestConvert_HTMLConverterError(t *testing.T) {
	t.Parallel()

	htmlErr := errors.New("engine failed")
	conv := newTestConverter(t, withHTMLConverter(&mockHTMLConverter{err: htmlErr}))

	_, err := conv.Convert(context.Background(), Input{Markdown: "# Hello"})
	if !errors.Is(err, htmlErr) {
		t.Errorf("Convert() error should wrap %v, got %v", htmlErr, err)
	}
}

func TestConvert_CancelledContext(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conv.Convert(ctx, Input{Markdown: "# Hello"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_PDF
// ---------------------------------------------------------------------------

func TestConvert_PDF(t *testing.T) {
	t.Parallel()

	pdfConv := &mockPDFConverter{output: []byte("%PDF-1.4 test")}
	conv := newTestConverter(t,
		withHTMLConverter(&mockHTMLConverter{output: `<p><img src="img/shot.png" alt="shot"></p>`}),
		withPDFConverter(pdfConv),
	)

	result, err := conv.Convert(context.Background(), Input{
		Markdown:  "![shot](img/shot.png)",
		SourceDir: "/docs/manual",
		PDF:       true,
	})
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if string(result.PDF) != "%PDF-1.4 test" {
		t.Errorf("result.PDF = %q, want %q", result.PDF, "%PDF-1.4 test")
	}
	if pdfConv.inputHTML != string(result.HTML) {
		t.Error("pdfConverter should receive the restyled HTML")
	}
	if !strings.Contains(pdfConv.inputHTML, `src="file:///docs/manual/img/shot.png"`) {
		t.Errorf("local image should be absolute for Chrome, got:\n%s", pdfConv.inputHTML)
	}
}

func TestConvert_HTMLKeepsRelativePaths(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t,
		withHTMLConverter(&mockHTMLConverter{output: `<p><img src="img/shot.png" alt="shot"></p>`}),
	)

	result, err := conv.Convert(context.Background(), Input{
		Markdown:  "![shot](img/shot.png)",
		SourceDir: "/docs/manual",
	})
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}
	if !strings.Contains(string(result.HTML), `src="img/shot.png"`) {
		t.Errorf("HTML output should keep relative paths, got:\n%s", result.HTML)
	}
}

func TestConvert_PDFConverterError(t *testing.T) {
	t.Parallel()

	pdfErr := errors.New("chrome failed")
	conv := newTestConverter(t,
		withHTMLConverter(&mockHTMLConverter{}),
		withPDFConverter(&mockPDFConverter{err: pdfErr}),
	)

	_, err := conv.Convert(context.Background(), Input{Markdown: "# Hello", PDF: true})
	if !errors.Is(err, pdfErr) {
		t.Errorf("Convert() error should wrap %v, got %v", pdfErr, err)
	}
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	pdfConv := &mockPDFConverter{}
	conv, err := NewConverter(withPDFConverter(pdfConv))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	if err := conv.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !pdfConv.closed {
		t.Error("Close() should close the PDF backend")
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Goldmark - Real engine through the full pipeline
// ---------------------------------------------------------------------------

func TestConvert_Goldmark(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		opts         []Option
		markdown     string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "highlight becomes mark",
			markdown:     "Use ==caution== here",
			wantContains: []string{"<mark>caution</mark>"},
		},
		{
			name:         "obsidian embed uses image base",
			opts:         []Option{WithImageBaseURL("https://cdn.example.com/img/")},
			markdown:     "![[tela inicial.png]]",
			wantContains: []string{`src="https://cdn.example.com/img/tela%20inicial.png"`},
		},
		{
			name:         "raw html dropped by default",
			markdown:     "before\n\n<div class=\"note\">inline</div>\n\nafter",
			wantExcludes: []string{`<div class="note">`},
		},
		{
			name:         "raw html sanitized when enabled",
			opts:         []Option{WithRawHTML(true)},
			markdown:     "<div class=\"note\">inline</div>\n\n<script>alert(1)</script>\n\ntext",
			wantContains: []string{`<div class="note">inline</div>`},
			wantExcludes: []string{"<script>", "alert(1)"},
		},
		{
			name:         "gomarkdown engine",
			opts:         []Option{WithEngine("gomarkdown")},
			markdown:     "## Setup\n\nOBS: check the cable.",
			wantContains: []string{"<h2", "font-size:18pt", "<hr/>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := newTestConverter(t, tt.opts...)
			result, err := conv.Convert(context.Background(), Input{Markdown: tt.markdown})
			if err != nil {
				t.Fatalf("Convert() unexpected error: %v", err)
			}

			html := string(result.HTML)
			for _, want := range tt.wantContains {
				if !strings.Contains(html, want) {
					t.Errorf("output should contain %q\ngot:\n%s", want, html)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(html, exclude) {
					t.Errorf("output should not contain %q\ngot:\n%s", exclude, html)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRestyle - Package-level entry point
// ---------------------------------------------------------------------------

func TestRestyle(t *testing.T) {
	t.Parallel()

	got := Restyle("<p>Olá</p>", "4.2", "a.png", "b.png")

	if !strings.HasPrefix(got, "<!DOCTYPE html>") {
		t.Errorf("Restyle() should produce a full document, got %.40q", got)
	}
	for _, want := range []string{`src="a.png"`, `src="b.png"`, "Versão: 4.2 | Última atualização: ", "<p>Olá</p>"} {
		if !strings.Contains(got, want) {
			t.Errorf("Restyle() missing %q\ngot:\n%s", want, got)
		}
	}
}
