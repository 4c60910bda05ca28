package main

import (
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2html/internal/config"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds flags that change how a document is rendered.
// Shared by convert and serve.
type renderFlags struct {
	engine        string
	rawHTML       bool
	imageBaseURL  string
	primaryLogo   string
	secondaryLogo string
	dateFormat    string
}

// versionFlags holds flags for resolving the banner version.
type versionFlags struct {
	docVersion string
	url        string
	timeout    time.Duration
	noFetch    bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	render  renderFlags
	version versionFlags
	output  string
	workers int
	timeout time.Duration
	pdf     bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common  commonFlags
	render  renderFlags
	version versionFlags
	addr    string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug diagnostics")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.engine, "engine", "", "markdown engine: goldmark, gomarkdown")
	fs.BoolVar(&f.rawHTML, "raw-html", false, "keep raw HTML from markdown (sanitized)")
	fs.StringVar(&f.imageBaseURL, "image-base-url", "", "base URL for ![[image]] embeds")
	fs.StringVar(&f.primaryLogo, "primary-logo", "", "header logo URL or path")
	fs.StringVar(&f.secondaryLogo, "secondary-logo", "", "footer logo URL or path")
	fs.StringVar(&f.dateFormat, "date-format", "", "banner date format (e.g. DD/MM/YYYY, iso)")
}

// addVersionFlags adds version resolution flags to a FlagSet.
func addVersionFlags(fs *flag.FlagSet, f *versionFlags) {
	fs.StringVar(&f.docVersion, "doc-version", "", "banner version (skips the status page)")
	fs.StringVar(&f.url, "version-url", "", "status page holding the version")
	fs.DurationVar(&f.timeout, "version-timeout", 0, "status page timeout (e.g. 5s)")
	fs.BoolVar(&f.noFetch, "no-fetch", false, "never query the status page, use the fallback")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printConvertUsage(os.Stderr) }

	f := &convertFlags{}

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addVersionFlags(fs, &f.version)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "PDF generation timeout (e.g. 30s, 2m)")
	fs.BoolVar(&f.pdf, "pdf", false, "also write a PDF next to each HTML file")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string) (*serveFlags, []string, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printServeUsage(os.Stderr) }

	f := &serveFlags{}

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addVersionFlags(fs, &f.version)

	fs.StringVar(&f.addr, "addr", "", "listen address (default "+config.DefaultServerAddr+")")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
