package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-md2html/internal/fileutil"
)

// localRefs lists the attributes that may point at files next to the source.
var localRefs = []struct {
	selector string
	attr     string
}{
	{"img[src]", "src"},
	{"source[src]", "src"},
	{"a[href]", "href"},
}

// RewriteRelativePaths resolves relative image, source and link targets
// against sourceDir and replaces them with file:// URLs. Chrome loads the
// page from a temp file, so relative references would otherwise break.
//
// References with a scheme, anchors, absolute paths and anything that
// resolves outside sourceDir are kept as written. An empty sourceDir
// returns the input unchanged.
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}
	root, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	doc := parseDocument(htmlContent)
	sel := goquery.NewDocumentFromNode(doc).Selection
	for _, ref := range localRefs {
		sel.Find(ref.selector).Each(func(_ int, s *goquery.Selection) {
			val, _ := s.Attr(ref.attr)
			if resolved, ok := resolveLocal(val, root); ok {
				s.SetAttr(ref.attr, resolved)
			}
		})
	}
	return renderDocument(doc)
}

// resolveLocal returns the file:// URL for ref under root, or false when
// ref should be left alone.
func resolveLocal(ref, root string) (string, bool) {
	if !isRelativePath(ref) {
		return "", false
	}

	target := ref
	if unescaped, err := url.PathUnescape(ref); err == nil {
		target = unescaped
	}
	abs := filepath.Join(root, filepath.FromSlash(target))
	if !fileutil.IsUnder(root, abs) {
		return "", false
	}
	return fileURL(abs), true
}

// isRelativePath reports whether ref is a local path relative to the source.
func isRelativePath(ref string) bool {
	switch {
	case ref == "",
		strings.HasPrefix(ref, "#"),
		strings.HasPrefix(ref, "//"),
		filepath.IsAbs(ref),
		strings.HasPrefix(ref, "/"):
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return true
	}
	// One-letter schemes are Windows drive letters.
	return len(u.Scheme) <= 1
}

// fileURL converts an absolute path to a file:// URL, on Windows too.
func fileURL(abs string) string {
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
