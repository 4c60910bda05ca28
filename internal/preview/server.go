// Package preview serves restyled documents over HTTP so a documentation
// tree can be reviewed in a browser before export.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/logging"
)

// ErrRootNotDir is returned when the served root is not a directory.
var ErrRootNotDir = errors.New("preview root must be a directory")

// shutdownTimeout bounds graceful shutdown after the context is done.
const shutdownTimeout = 5 * time.Second

// Converter is the subset of md2html.Converter used by the server.
type Converter interface {
	Convert(ctx context.Context, input md2html.Input) (*md2html.ConvertResult, error)
}

// Compile-time interface check.
var _ Converter = (*md2html.Converter)(nil)

// Server renders Markdown files under Root on request.
// The document version is fixed for the server lifetime.
type Server struct {
	Root     string
	Version  string
	Branding *md2html.Branding
	Conv     Converter
	Logger   *zerolog.Logger
}

// New returns a Server for root. Root is made absolute and must be a directory.
func New(root string, conv Converter, version string, branding *md2html.Branding, logger *zerolog.Logger) (*Server, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving preview root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDir, abs)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{
		Root:     abs,
		Version:  version,
		Branding: branding,
		Conv:     conv,
		Logger:   logger,
	}, nil
}

// Handler returns the router wrapped with CORS and request logging.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/view/{path:.+}", s.handleView).Methods(http.MethodGet)
	router.Use(s.logRequests)

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet},
	}).Handler(router)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down preview server: %w", err)
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.Logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// handleIndex lists every Markdown file as a restyled page of links.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	files, err := s.markdownFiles()
	if err != nil {
		s.Logger.Error().Err(err).Msg("listing markdown files")
		http.Error(w, "could not list documents", http.StatusInternalServerError)
		return
	}

	s.render(w, r, indexMarkdown(files))
}

// handleView renders Markdown files and serves any other file under Root as-is,
// so relative images in rendered pages resolve against the same route.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	rel := mux.Vars(r)["path"]
	full, ok := s.resolve(rel)
	if !ok {
		http.NotFound(w, r)
		return
	}

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	if !fileutil.IsMarkdown(full) {
		http.ServeFile(w, r, full)
		return
	}

	content, err := os.ReadFile(full) // #nosec G304 -- confined to Root by resolve
	if err != nil {
		s.Logger.Error().Err(err).Str("file", full).Msg("reading markdown")
		http.Error(w, "could not read document", http.StatusInternalServerError)
		return
	}

	s.render(w, r, string(content))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, markdown string) {
	result, err := s.Conv.Convert(r.Context(), md2html.Input{
		Markdown: markdown,
		Version:  s.Version,
		Branding: s.Branding,
	})
	if err != nil {
		s.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("rendering document")
		http.Error(w, "could not render document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(result.HTML)
}

// resolve maps a slash-separated route path to a file under Root.
// It reports false for anything that would leave Root, including symlinks
// whose target lies outside it. Paths that do not exist resolve lexically.
func (s *Server) resolve(rel string) (string, bool) {
	cleaned := path.Clean("/" + rel)
	full := filepath.Join(s.Root, filepath.FromSlash(cleaned))
	if !fileutil.IsUnder(s.Root, full) {
		return "", false
	}

	target, err := filepath.EvalSymlinks(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return full, true
	case err != nil:
		return "", false
	}
	root, err := filepath.EvalSymlinks(s.Root)
	if err != nil || !fileutil.IsUnder(root, target) {
		return "", false
	}
	return full, true
}

// markdownFiles returns slash-separated paths of Markdown files relative to Root.
func (s *Server) markdownFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != s.Root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !fileutil.IsMarkdown(p) {
			return nil
		}
		rel, err := filepath.Rel(s.Root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}

// indexMarkdown builds the listing page as Markdown so it goes through the
// same pipeline as the documents.
func indexMarkdown(files []string) string {
	var sb strings.Builder
	sb.WriteString("# Documentos\n\n")
	if len(files) == 0 {
		sb.WriteString("Nenhum arquivo Markdown encontrado.\n")
		return sb.String()
	}
	for _, f := range files {
		fmt.Fprintf(&sb, "- [%s](</view/%s>)\n", escapeLinkText(f), escapeRoute(f))
	}
	return sb.String()
}

func escapeRoute(rel string) string {
	segments := strings.Split(rel, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

var linkTextReplacer = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`)

func escapeLinkText(s string) string {
	return linkTextReplacer.Replace(s)
}
