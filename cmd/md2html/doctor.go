package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2html/internal/config"
	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/hints"
	"github.com/alnah/go-md2html/internal/version"
)

// Report sections, in print order.
const (
	sectionChrome  = "Chrome/Chromium (PDF export)"
	sectionStatus  = "Status page"
	sectionEnv     = "Environment"
	sectionSystem  = "System"
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

var sections = []string{sectionChrome, sectionStatus, sectionEnv, sectionSystem}

// severity of a finding. Only levelError makes doctor exit non-zero:
// without Chrome or the status page, HTML conversion still works.
type severity string

const (
	levelOK    severity = "ok"
	levelWarn  severity = "warn"
	levelError severity = "error"
)

var tags = map[severity]string{levelOK: "[OK]", levelWarn: "[WARN]", levelError: "[ERROR]"}

type finding struct {
	Section string   `json:"section"`
	Level   severity `json:"level"`
	Message string   `json:"message"`
}

type browserReport struct {
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type statusPageReport struct {
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
	Version   string `json:"version,omitempty"`
	Fallback  string `json:"fallback"`
}

type environmentReport struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Container  string `json:"container,omitempty"`
	CI         bool   `json:"ci"`
	NoSandbox  string `json:"rod_no_sandbox"`
	BrowserBin string `json:"rod_browser_bin"`
}

// doctorReport is what doctor prints, as text or with --json.
type doctorReport struct {
	Status       string            `json:"status"`
	Chrome       *browserReport    `json:"chrome,omitempty"`
	StatusPage   statusPageReport  `json:"status_page"`
	Env          environmentReport `json:"environment"`
	TempWritable bool              `json:"temp_writable"`
	Findings     []finding         `json:"findings"`
}

func (r *doctorReport) add(section string, level severity, format string, args ...any) {
	r.Findings = append(r.Findings, finding{Section: section, Level: level, Message: fmt.Sprintf(format, args...)})
}

// count returns how many findings have the given level.
func (r *doctorReport) count(level severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Level == level {
			n++
		}
	}
	return n
}

// runDoctorCmd runs every check and reports. Exit codes: 0 when nothing
// failed (warnings included), 1 on errors, 2 on bad flags or config.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asJSON := fs.Bool("json", false, "print the report as JSON")
	configPath := fs.StringP("config", "c", "", "config file name or path")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			runHelp([]string{"doctor"}, env)
			return ExitSuccess
		}
		err = fmt.Errorf("%w: %v", ErrUsage, err)
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	cfg, err := loadConfig(*configPath, loadEnvConfig())
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}

	report := diagnose(ctx, cfg, env)
	if *asJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printDoctorReport(env.Stdout, report)
	}

	if report.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func diagnose(ctx context.Context, cfg *config.Config, env *Environment) *doctorReport {
	r := &doctorReport{
		Env: environmentReport{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	inspectChrome(r)
	inspectStatusPage(ctx, r, cfg, env)
	inspectEnvironment(r)
	inspectTempDir(r)

	switch {
	case r.count(levelError) > 0:
		r.Status = statusErrors
	case r.count(levelWarn) > 0:
		r.Status = statusWarnings
	default:
		r.Status = statusReady
	}
	return r
}

func inspectChrome(r *doctorReport) {
	path := r.Env.BrowserBin
	if path == "" {
		var ok bool
		if path, ok = launcher.LookPath(); !ok {
			r.add(sectionChrome, levelWarn, "not found, --pdf is unavailable. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}
	if !fileutil.FileExists(path) {
		r.add(sectionChrome, levelWarn, "no browser at %s, --pdf is unavailable", path)
		return
	}

	b := &browserReport{Path: path, Sandbox: r.Env.NoSandbox != "1"}
	r.Chrome = b
	r.add(sectionChrome, levelOK, "found at %s", path)

	// #nosec G204 -- path comes from ROD_BROWSER_BIN or rod's lookup
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		r.add(sectionChrome, levelWarn, "could not read the browser version: %v", err)
	} else {
		b.Version = strings.TrimSpace(string(out))
		r.add(sectionChrome, levelOK, "version %s", b.Version)
	}

	if b.Sandbox {
		r.add(sectionChrome, levelOK, "sandbox enabled")
	} else {
		r.add(sectionChrome, levelOK, "sandbox disabled (ROD_NO_SANDBOX=1)")
	}
}

// inspectStatusPage queries the status page once. Failure is a warning
// because conversions fall back to the configured version.
func inspectStatusPage(ctx context.Context, r *doctorReport, cfg *config.Config, env *Environment) {
	r.StatusPage = statusPageReport{URL: cfg.Version.URL, Fallback: cfg.Version.Fallback}
	if r.StatusPage.Fallback == "" {
		r.StatusPage.Fallback = version.DefaultFallback
	}

	if cfg.Version.Fixed != "" {
		r.StatusPage.Version = cfg.Version.Fixed
		r.add(sectionStatus, levelOK, "fixed version %s, not queried", cfg.Version.Fixed)
		return
	}

	f := &version.Fetcher{URL: cfg.Version.URL, Timeout: cfg.VersionTimeout(), Client: env.HTTPClient}
	v, err := f.Probe(ctx)
	if err != nil {
		r.add(sectionStatus, levelWarn, "%s unavailable (%v), banner uses %s%s",
			cfg.Version.URL, err, r.StatusPage.Fallback, hints.ForVersionFetch())
		return
	}
	r.StatusPage.Reachable = true
	r.StatusPage.Version = v
	r.add(sectionStatus, levelOK, "%s reports %s", cfg.Version.URL, v)
}

func inspectEnvironment(r *doctorReport) {
	r.add(sectionEnv, levelOK, "platform %s/%s", r.Env.OS, r.Env.Arch)

	r.Env.Container = containerSignal()
	if r.Env.Container != "" {
		r.add(sectionEnv, levelOK, "container detected (%s)", r.Env.Container)
	}
	r.Env.CI = hints.InCI()
	if r.Env.CI {
		r.add(sectionEnv, levelOK, "CI detected")
	}

	if r.Chrome != nil && (r.Env.Container != "" || r.Env.CI) && r.Env.NoSandbox != "1" {
		r.add(sectionEnv, levelWarn, "container or CI without ROD_NO_SANDBOX=1, Chrome may refuse to start")
	}
}

// containerSignal names the first container marker found, or "".
func containerSignal() string {
	switch {
	case os.Getenv("MD2HTML_CONTAINER") == "1":
		return "MD2HTML_CONTAINER=1"
	case hints.IsInContainer():
		return "/.dockerenv"
	case os.Getenv("container") != "":
		return "container=" + os.Getenv("container")
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		return "KUBERNETES_SERVICE_HOST"
	}
	return ""
}

// inspectTempDir checks the directory PDF export stages pages in.
func inspectTempDir(r *doctorReport) {
	_, cleanup, err := fileutil.WriteTempFile("", "html")
	if err != nil {
		r.add(sectionSystem, levelError, "temp directory %s not writable: %v", os.TempDir(), err)
		return
	}
	cleanup()
	r.TempWritable = true
	r.add(sectionSystem, levelOK, "temp directory writable")
}

func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprintln(w, "md2html doctor")
	for _, section := range sections {
		fmt.Fprintf(w, "\n%s\n", section)
		for _, f := range r.Findings {
			if f.Section == section {
				fmt.Fprintf(w, "  %s %s\n", tags[f.Level], f.Message)
			}
		}
	}
	fmt.Fprintln(w)

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintf(w, "Status: Ready with %d warning(s)\n", r.count(levelWarn))
	default:
		fmt.Fprintf(w, "Status: Not ready, %d error(s)\n", r.count(levelError))
	}
}
