package main

// Notes:
// - discoverFiles: we test single files, recursive directories, hidden
//   directory skipping and non-markdown filtering.
// - outputLayout: we test next-to-source, explicit .html, and mirrored
//   relative directories.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	md2html "github.com/alnah/go-md2html"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte("# x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestDiscoverFiles
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	t.Run("directory is walked recursively", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		out := t.TempDir()
		touch(t, filepath.Join(in, "manual.md"))
		touch(t, filepath.Join(in, "guias", "faq.markdown"))
		touch(t, filepath.Join(in, "guias", "shot.png"))
		touch(t, filepath.Join(in, ".obsidian", "workspace.md"))

		files, err := discoverFiles(in, out)
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}

		got := make([]string, 0, len(files))
		for _, f := range files {
			got = append(got, f.OutputPath)
		}
		want := []string{
			filepath.Join(out, "guias", "faq.html"),
			filepath.Join(out, "manual.html"),
		}
		if len(got) != len(want) {
			t.Fatalf("outputs = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("output[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("single file", func(t *testing.T) {
		t.Parallel()

		in := filepath.Join(t.TempDir(), "doc.md")
		touch(t, in)

		files, err := discoverFiles(in, "")
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		if len(files) != 1 || files[0].OutputPath != filepath.Join(filepath.Dir(in), "doc.html") {
			t.Errorf("files = %+v", files)
		}
	})

	t.Run("non-markdown file rejected", func(t *testing.T) {
		t.Parallel()

		in := filepath.Join(t.TempDir(), "notes.txt")
		touch(t, in)

		if _, err := discoverFiles(in, ""); !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("error = %v, want %v", err, ErrInvalidExtension)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(t.TempDir(), "none"), "")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestOutputLayout
// ---------------------------------------------------------------------------

func TestOutputLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                string
		input, outDir, root string
		want                string
	}{
		{"next to source", "docs/a.md", "", "", "docs/a.html"},
		{"markdown extension", "docs/a.markdown", "", "", "docs/a.html"},
		{"into directory", "docs/a.md", "out", "", "out/a.html"},
		{"explicit html file", "docs/a.md", "out/manual.html", "", "out/manual.html"},
		{"mirrors relative dir", "docs/guias/a.md", "out", "docs", "out/guias/a.html"},
		{"file at walk root", "docs/a.md", "out", "docs", "out/a.html"},
		{"html suffix ignored for batches", "docs/a.md", "site.html", "docs", "site.html/a.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := outputLayout{root: filepath.FromSlash(tt.root), outDir: filepath.FromSlash(tt.outDir)}
			if got := l.target(filepath.FromSlash(tt.input)); got != filepath.FromSlash(tt.want) {
				t.Errorf("%+v.target(%q) = %q, want %q", l, tt.input, got, tt.want)
			}
		})
	}
}

func TestSourceFile_PDFPath(t *testing.T) {
	t.Parallel()

	f := sourceFile{OutputPath: filepath.FromSlash("out/manual.html")}
	if got := f.pdfPath(); got != filepath.FromSlash("out/manual.pdf") {
		t.Errorf("pdfPath() = %q, want out/manual.pdf", got)
	}
}

// ---------------------------------------------------------------------------
// TestValidateWorkers
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{1, false},
		{md2html.MaxPoolSize, false},
		{md2html.MaxPoolSize + 1, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want %v", tt.n, err, ErrInvalidWorkerCount)
		}
	}
}

func TestValidateMarkdownExtension(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"a.md", "b.markdown"} {
		if err := validateMarkdownExtension(path); err != nil {
			t.Errorf("validateMarkdownExtension(%q) = %v, want nil", path, err)
		}
	}
	if err := validateMarkdownExtension("c.txt"); !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("validateMarkdownExtension(c.txt) = %v, want %v", err, ErrInvalidExtension)
	}
}
