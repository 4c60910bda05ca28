// Package version retrieves the documented product version from a status
// page. Every failure degrades to a fallback version; callers never see an
// error from Fetch.
package version

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/alnah/go-md2html/internal/fileutil"
)

// Defaults for the status page lookup.
const (
	DefaultURL      = "http://192.168.99.183:8585/eorbis/"
	DefaultFallback = "1.0.0"
	DefaultTimeout  = 5 * time.Second

	// Marker precedes the version inside the status element.
	Marker = "Versão:"

	// MarkerSelector locates the element holding the version.
	MarkerSelector = "div.softgray"
)

// maxPageSize bounds how much of the status page is read.
const maxPageSize = 2 << 20

// Failure reasons, logged when the fallback is used.
var (
	ErrRequest          = errors.New("version request failed")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrMarkerNotFound   = errors.New("version marker not found")
	ErrEmptyVersion     = errors.New("version text is empty")
)

// Fetcher retrieves the version string from a status page.
// The zero value is usable once URL is set.
type Fetcher struct {
	URL      string
	Timeout  time.Duration // bounds the whole request; <= 0 uses DefaultTimeout
	Fallback string        // returned on any failure; empty uses DefaultFallback
	LogFile  string        // when set, successful lookups are persisted here
	Client   *http.Client  // nil uses http.DefaultClient
	Logger   *zerolog.Logger
}

// Fetch issues a single GET with the given timeout and returns the version,
// or DefaultFallback on failure.
func Fetch(ctx context.Context, url string, timeout time.Duration) string {
	f := &Fetcher{URL: url, Timeout: timeout}
	return f.Fetch(ctx)
}

// Fetch returns the version published on the status page, or the fallback
// when the request fails, the status is not 2xx, or the marker is missing.
func (f *Fetcher) Fetch(ctx context.Context) (v string) {
	log := f.logger()
	fallback := f.fallback()

	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Str("fallback", fallback).Msg("version fetch panicked")
			v = fallback
		}
	}()

	v, err := f.lookup(ctx)
	if err != nil {
		log.Warn().Err(err).Str("url", f.URL).Str("fallback", fallback).Msg("version unavailable, using fallback")
		return fallback
	}
	log.Debug().Str("url", f.URL).Str("version", v).Msg("version fetched")

	if f.LogFile != "" {
		if err := fileutil.WriteFile(f.LogFile, []byte(v)); err != nil {
			log.Warn().Err(err).Str("file", f.LogFile).Msg("could not persist version")
		}
	}
	return v
}

// Probe runs the lookup once and reports why it failed, without fallback
// or persistence. Used by diagnostics.
func (f *Fetcher) Probe(ctx context.Context) (string, error) {
	return f.lookup(ctx)
}

func (f *Fetcher) lookup(ctx context.Context) (string, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequest, err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequest, err)
	}

	return Extract(doc)
}

// Extract pulls the version out of a parsed status page: the text after the
// last marker in the first element matching MarkerSelector.
func Extract(doc *goquery.Document) (string, error) {
	el := doc.Find(MarkerSelector).First()
	if el.Length() == 0 {
		return "", fmt.Errorf("%w: no %s element", ErrMarkerNotFound, MarkerSelector)
	}

	text := strings.TrimSpace(el.Text())
	if !strings.Contains(text, Marker) {
		return "", fmt.Errorf("%w: %q", ErrMarkerNotFound, text)
	}

	parts := strings.Split(text, Marker)
	v := strings.TrimSpace(parts[len(parts)-1])
	if v == "" {
		return "", ErrEmptyVersion
	}
	return v, nil
}

// ReadLast returns the version persisted by the most recent successful fetch.
func ReadLast(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading version log: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (f *Fetcher) fallback() string {
	if f.Fallback == "" {
		return DefaultFallback
	}
	return f.Fallback
}

func (f *Fetcher) logger() *zerolog.Logger {
	if f.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return f.Logger
}
