package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/fileutil"
)

var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// sourceFile pairs a Markdown input with its HTML destination.
type sourceFile struct {
	InputPath  string
	OutputPath string
}

// pdfPath is the PDF destination, beside the HTML one.
func (f sourceFile) pdfPath() string {
	return strings.TrimSuffix(f.OutputPath, filepath.Ext(f.OutputPath)) + ".pdf"
}

// outputLayout decides where converted pages go.
//
// With no outDir, pages land next to their source. Otherwise a walked
// directory is mirrored under outDir. A single input with an outDir
// ending in .html writes exactly that file.
type outputLayout struct {
	root   string // walked directory; empty for a single file
	outDir string
}

func (l outputLayout) target(src string) string {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".html"

	switch {
	case l.outDir == "":
		return filepath.Join(filepath.Dir(src), name)
	case l.root == "" && strings.HasSuffix(l.outDir, ".html"):
		return l.outDir
	case l.root != "":
		if rel, err := filepath.Rel(l.root, filepath.Dir(src)); err == nil {
			return filepath.Join(l.outDir, rel, name)
		}
	}
	return filepath.Join(l.outDir, name)
}

// discoverFiles lists the Markdown files under inputPath in lexical order.
// Dot directories such as .git or .obsidian are not entered.
func discoverFiles(inputPath, outDir string) ([]sourceFile, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		layout := outputLayout{outDir: outDir}
		return []sourceFile{{InputPath: inputPath, OutputPath: layout.target(inputPath)}}, nil
	}

	layout := outputLayout{root: inputPath, outDir: outDir}
	var files []sourceFile
	walk := func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return fmt.Errorf("scanning %s: %w", path, err)
		case d.IsDir() && path != inputPath && strings.HasPrefix(d.Name(), "."):
			return filepath.SkipDir
		case d.IsDir() || !fileutil.IsMarkdown(path):
			return nil
		}
		files = append(files, sourceFile{InputPath: path, OutputPath: layout.target(path)})
		return nil
	}
	if err := filepath.WalkDir(inputPath, walk); err != nil {
		return nil, err
	}
	return files, nil
}

func validateMarkdownExtension(path string) error {
	if fileutil.IsMarkdown(path) {
		return nil
	}
	return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
}

// validateWorkers accepts 0 (auto) up to md2html.MaxPoolSize.
func validateWorkers(n int) error {
	if n < 0 || n > md2html.MaxPoolSize {
		return fmt.Errorf("%w: %d (want 0 to %d)", ErrInvalidWorkerCount, n, md2html.MaxPoolSize)
	}
	return nil
}
