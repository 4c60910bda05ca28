// Package md2html converts Markdown documentation into branded, print-ready
// HTML, with optional PDF export through headless Chrome.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := md2html.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, md2html.Input{
//	    Markdown: "# Manual\n\nOBS: back up before upgrading.",
//	    Version:  "2.3.0",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("manual.html", result.HTML, 0644)
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Markdown preprocessing (line normalization, ![[image]] embeds, ==highlight==)
//  2. Markdown to HTML via goldmark (default) or gomarkdown
//  3. Optional bluemonday sanitizing when raw HTML is allowed
//  4. Restyling: HTML skeleton, header logo and version banner, inline
//     heading, callout, image and emphasis styles, footer logo
//  5. Optional PDF rendering via headless Chrome (go-rod)
//
// Restyle is also available on its own for HTML produced elsewhere:
//
//	page := md2html.Restyle(rawHTML, "2.3.0", primaryLogo, secondaryLogo)
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := md2html.NewConverter(
//	    md2html.WithEngine("gomarkdown"),
//	    md2html.WithImageBaseURL("https://cdn.example.com/img/"),
//	    md2html.WithDateFormat("iso"),
//	)
//
// # Parallel Processing
//
// For batch conversion with PDF export, use ConverterPool so each worker
// owns a browser:
//
//	pool := md2html.NewConverterPool(4, nil)
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # Browser Requirements
//
// Only PDF export needs Chrome/Chromium. The go-rod library downloads a
// managed Chromium on first use (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package md2html
