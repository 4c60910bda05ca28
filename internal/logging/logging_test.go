package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		want    zerolog.Level
	}{
		{name: "default", want: zerolog.WarnLevel},
		{name: "verbose", verbose: true, want: zerolog.DebugLevel},
		{name: "quiet", quiet: true, want: zerolog.ErrorLevel},
		{name: "quiet wins over verbose", verbose: true, quiet: true, want: zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Level(tt.verbose, tt.quiet); got != tt.want {
				t.Errorf("Level(%v, %v) = %v, want %v", tt.verbose, tt.quiet, got, tt.want)
			}
		})
	}
}

func TestNewWithRunID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithRunID(&buf, false, false, "run-1")

	log.Debug().Msg("hidden")
	log.Warn().Str("url", "http://x").Msg("version fetch failed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written at default level: %q", out)
	}
	for _, want := range []string{"version fetch failed", "run=run-1", "url=http://x"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %q", want, out)
		}
	}
}

func TestNew_VerboseWritesDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, true, false)
	log.Debug().Msg("details")

	if !strings.Contains(buf.String(), "details") {
		t.Errorf("verbose logger dropped debug message: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "run=") {
		t.Errorf("logger missing run id: %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	t.Parallel()

	// Must not panic
	Nop().Error().Msg("ignored")
}
