package md2html

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/hints"
	"github.com/alnah/go-md2html/internal/process"
)

// pdfConverter turns a restyled HTML document into PDF bytes.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string) ([]byte, error)
	Close() error
}

// printer prints the page at pageURL. Tests swap in a fake so no browser runs.
type printer interface {
	Print(ctx context.Context, pageURL string) ([]byte, error)
	Close() error
}

var (
	_ pdfConverter = (*browserConverter)(nil)
	_ printer      = (*chrome)(nil)
)

// pageSetup is a paper size and uniform margin, in inches.
type pageSetup struct {
	width, height, margin float64
}

// a4 is the only layout. The branded banner and footer live in the page
// body, so Chrome's own header and footer stay off.
var a4 = pageSetup{width: 8.27, height: 11.69, margin: 0.4}

// printOptions keeps backgrounds so callout borders and rules survive.
func (p pageSetup) printOptions() *proto.PagePrintToPDF {
	m := p.margin
	w, h := p.width, p.height
	return &proto.PagePrintToPDF{
		PaperWidth:      &w,
		PaperHeight:     &h,
		MarginTop:       &m,
		MarginBottom:    &m,
		MarginLeft:      &m,
		MarginRight:     &m,
		PrintBackground: true,
	}
}

// chrome is a headless Chrome started on first use and shared by every
// Print call until Close. Rod downloads Chromium when none is installed.
type chrome struct {
	timeout time.Duration

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newChrome(timeout time.Duration) *chrome {
	return &chrome{timeout: timeout}
}

// noSandbox reports whether Chrome must run without its sandbox, which
// fails inside containers and most CI runners.
func noSandbox() bool {
	return os.Getenv("ROD_NO_SANDBOX") == "1" ||
		os.Getenv("ROD_BROWSER_BIN") != "" ||
		hints.InCI()
}

func (c *chrome) connect() (*rod.Browser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil {
		return c.browser, nil
	}

	l := launcher.New().Headless(true)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if noSandbox() {
		l = l.NoSandbox(true)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		stop(l)
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	c.launcher, c.browser = l, b
	return b, nil
}

// Print loads pageURL, waits for remote logos and images, then prints A4.
func (c *chrome) Print(ctx context.Context, pageURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := c.connect()
	if err != nil {
		return nil, err
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	p := page.Context(ctx)
	if c.timeout > 0 {
		p = p.Timeout(c.timeout)
	}
	if err := p.WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	stream, err := p.PDF(a4.printOptions())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: reading stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// Close shuts the browser and kills the Chrome process tree. Safe to call
// when Chrome was never started.
func (c *chrome) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.browser != nil {
		err = c.browser.Close()
		c.browser = nil
	}
	if c.launcher != nil {
		stop(c.launcher)
		c.launcher = nil
	}
	return err
}

// stop kills Chrome together with the renderer and GPU helpers it forked.
func stop(l *launcher.Launcher) {
	process.KillTree(l.PID())
	l.Kill()
}

// browserConverter writes each document to a temp file and prints it, so
// file:// references rewritten by the pipeline resolve.
type browserConverter struct {
	printer printer
}

func newBrowserConverter(timeout time.Duration) *browserConverter {
	return &browserConverter{printer: newChrome(timeout)}
}

func (c *browserConverter) ToPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	path, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.printer.Print(ctx, localPageURL(path))
}

func (c *browserConverter) Close() error {
	if c.printer == nil {
		return nil
	}
	return c.printer.Close()
}

// localPageURL returns the file:// URL Chrome needs for an absolute path.
func localPageURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
