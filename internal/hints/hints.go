// Package hints turns common failures into one-line suggestions.
// Every hint renders as "\n  hint: <text>" so callers can append it to an
// error message unconditionally; an empty string means nothing to suggest.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2html/internal/fileutil"
)

const prefix = "\n  hint: "

// CIVars are the environment variables that mark a CI runner.
var CIVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// IsInContainer reports whether /.dockerenv exists. Replaced in tests.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// InCI reports whether any of CIVars is set.
func InCI() bool {
	for _, v := range CIVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect suggests the rod variables that usually fix a Chrome
// launch failure in the current environment.
func ForBrowserConnect() string {
	var parts []string
	if os.Getenv("ROD_NO_SANDBOX") != "1" && (InCI() || IsInContainer()) {
		parts = append(parts, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		parts = append(parts, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	return join(parts...)
}

// ForTimeout suggests a longer PDF timeout.
func ForTimeout() string {
	return join("for large documents or slow logo hosts, use --timeout flag")
}

// ForConfigNotFound suggests --config, init-config, and the first searched
// path under the user config directory.
func ForConfigNotFound(searched []string) string {
	text := "use --config /path/to/file.yaml, run md2html init-config"
	for _, p := range searched {
		if filepath.IsAbs(p) {
			text += " or create " + p
			break
		}
	}
	return join(text)
}

// ForOutputDirectory suggests checking the output location.
func ForOutputDirectory() string {
	return join("check parent directory exists and is writable")
}

// ForEngine lists the available Markdown engines.
func ForEngine(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return join("available engines: " + strings.Join(available, ", "))
}

// ForVersionFetch explains how to pin the banner version when the status
// page is unavailable.
func ForVersionFetch() string {
	return join("pass --doc-version or set MD2HTML_DOC_VERSION; use --no-fetch offline")
}

// ForDateFormat shows a token example and the preset names.
func ForDateFormat(presets []string) string {
	text := "use tokens DD, MM, YYYY (e.g. DD/MM/YYYY)"
	if len(presets) > 0 {
		text += " or a preset: " + strings.Join(presets, ", ")
	}
	return join(text)
}

// join renders non-empty parts as a single hint line.
func join(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return prefix + strings.Join(kept, "; ")
}
