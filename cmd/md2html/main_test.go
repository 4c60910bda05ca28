package main

// Notes:
// - run: we test dispatch and exit codes through the public command surface.
//   Commands that would reach the status page always pass --no-fetch or a
//   fixed version.
// - main() itself (maxprocs, os.Exit) is not tested.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRun - Dispatch and semantic exit codes
// ---------------------------------------------------------------------------

func TestRun(t *testing.T) {
	t.Parallel()

	docs := t.TempDir()
	if err := os.WriteFile(filepath.Join(docs, "a.md"), []byte("# A"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantInStdout []string
		wantInStderr []string
	}{
		{
			name:         "no args shows usage",
			args:         nil,
			wantCode:     ExitUsage,
			wantInStderr: []string{"Usage: md2html"},
		},
		{
			name:         "unknown command",
			args:         []string{"badcmd"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"Unknown command: badcmd"},
		},
		{
			name:         "help",
			args:         []string{"help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: md2html", "Commands:"},
		},
		{
			name:         "--help alias",
			args:         []string{"--help", "serve"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: md2html serve"},
		},
		{
			name:         "version",
			args:         []string{"--version", "-c", writeConfig(t, "version:\n  logFile: \"\"\n")},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"md2html " + Version},
		},
		{
			name:         "convert unknown flag",
			args:         []string{"convert", "--bogus"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"error:", "invalid usage"},
		},
		{
			name:     "convert missing file",
			args:     []string{"convert", "nonexistent.md", "--no-fetch"},
			wantCode: ExitIO,
		},
		{
			name:         "convert unknown engine shows hint",
			args:         []string{"convert", docs, "--engine", "pandoc", "--no-fetch"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"markdown.engine"},
		},
		{
			name:         "convert succeeds",
			args:         []string{"convert", docs, "-o", t.TempDir(), "--doc-version", "1.2.3"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"1 succeeded, 0 failed"},
		},
		{
			name:     "serve unknown flag",
			args:     []string{"serve", "--pdf"},
			wantCode: ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			code := run(context.Background(), tt.args, env)

			if code != tt.wantCode {
				t.Errorf("run(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, stderr.String())
			}
			for _, want := range tt.wantInStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout should contain %q, got %q", want, stdout.String())
				}
			}
			for _, want := range tt.wantInStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr should contain %q, got %q", want, stderr.String())
				}
			}
		})
	}
}

func TestRun_InitConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "md2html.yaml")

	env, _, _ := testEnv()
	if code := run(context.Background(), []string{"init-config", path}, env); code != ExitSuccess {
		t.Fatalf("first init-config = %d, want %d", code, ExitSuccess)
	}

	env, _, stderr := testEnv()
	if code := run(context.Background(), []string{"init-config", path}, env); code != ExitUsage {
		t.Errorf("second init-config = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "--force") {
		t.Errorf("stderr = %q, want --force suggestion", stderr.String())
	}

	env, _, _ = testEnv()
	if code := run(context.Background(), []string{"init-config", "-f", path}, env); code != ExitSuccess {
		t.Errorf("forced init-config = %d, want %d", code, ExitSuccess)
	}
}

// ---------------------------------------------------------------------------
// TestHasVerboseFlag
// ---------------------------------------------------------------------------

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"convert", "docs"}, false},
		{[]string{"convert", "-v", "docs"}, true},
		{[]string{"serve", "--verbose"}, true},
		{[]string{"convert", "--", "-v"}, false},
	}

	for _, tt := range tests {
		if got := hasVerboseFlag(tt.args); got != tt.want {
			t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
