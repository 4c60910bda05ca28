package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/fileutil"
)

var (
	ErrNoInput       = errors.New("no input specified")
	ErrNoMarkdown    = errors.New("no markdown files found")
	ErrReadMarkdown  = errors.New("failed to read markdown file")
	ErrWriteOutput   = errors.New("failed to write output file")
	ErrConverterInit = errors.New("failed to initialize converter")
)

// CLIConverter is the part of md2html.Converter the command uses.
type CLIConverter interface {
	Convert(ctx context.Context, input md2html.Input) (*md2html.ConvertResult, error)
}

var _ CLIConverter = (*md2html.Converter)(nil)

// Pool hands out converters. Acquire blocks while all are in use.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
}

// poolAdapter exposes md2html.ConverterPool as a Pool.
type poolAdapter struct {
	pool *md2html.ConverterPool
}

var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire() (CLIConverter, error) {
	conv, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics when c was not handed out by Acquire.
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*md2html.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int { return a.pool.Size() }

// conversionParams is what every file of a run shares.
type conversionParams struct {
	version  string
	branding *md2html.Branding
	pdf      bool
}

// ConversionResult is the outcome for one source file.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	PDFPath    string
	Err        error
	Duration   time.Duration
}

// convertBatch converts files with at most pool.Size() in flight. Results
// keep the order of files; one failure never stops the rest.
func convertBatch(ctx context.Context, pool Pool, files []sourceFile, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]ConversionResult, len(files))
	var g errgroup.Group
	g.SetLimit(max(1, pool.Size()))
	for i, f := range files {
		g.Go(func() error {
			results[i] = convertPooled(ctx, pool, f, params)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func convertPooled(ctx context.Context, pool Pool, f sourceFile, params *conversionParams) ConversionResult {
	if err := ctx.Err(); err != nil {
		return ConversionResult{InputPath: f.InputPath, Err: err}
	}
	conv, err := pool.Acquire()
	if err != nil {
		return ConversionResult{InputPath: f.InputPath, Err: fmt.Errorf("%w: %w", ErrConverterInit, err)}
	}
	defer pool.Release(conv)
	return convertFile(ctx, conv, f, params)
}

// convertFile reads one source, converts it and writes the outputs.
func convertFile(ctx context.Context, conv CLIConverter, f sourceFile, params *conversionParams) (res ConversionResult) {
	start := time.Now()
	res = ConversionResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	defer func() { res.Duration = time.Since(start) }()

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		return res
	}

	// Relative screenshots resolve against the source's own directory.
	sourceDir := filepath.Dir(f.InputPath)
	if abs, err := filepath.Abs(sourceDir); err == nil {
		sourceDir = abs
	}

	out, err := conv.Convert(ctx, md2html.Input{
		Markdown:  string(content),
		SourceDir: sourceDir,
		Version:   params.version,
		Branding:  params.branding,
		PDF:       params.pdf,
	})
	if err != nil {
		res.Err = err
		return res
	}

	if err := fileutil.WriteFile(f.OutputPath, out.HTML); err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		return res
	}
	if !params.pdf {
		return res
	}
	if err := fileutil.WriteFile(f.pdfPath(), out.PDF); err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		return res
	}
	res.PDFPath = f.pdfPath()
	return res
}

// ResultSummary tallies a run.
type ResultSummary struct {
	Succeeded int
	Failed    int
	FirstErr  error
}

func countResults(results []ConversionResult) ResultSummary {
	var s ResultSummary
	for _, r := range results {
		if r.Err == nil {
			s.Succeeded++
			continue
		}
		s.Failed++
		if s.FirstErr == nil {
			s.FirstErr = r.Err
		}
	}
	return s
}

// printResultsWithWriter reports each file: failures on stderr always,
// created files on stdout unless quiet.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) ResultSummary {
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
		case quiet:
		case verbose:
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
		if r.Err == nil && !quiet && r.PDFPath != "" {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.PDFPath)
		}
	}

	summary := countResults(results)
	if !quiet && len(results) > 0 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}
	return summary
}
