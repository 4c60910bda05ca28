package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-md2html/internal/dateutil"
)

// Alt texts identifying branding images. Images carrying one of them are
// never restyled as content images.
const (
	PrimaryLogoAlt   = "Logo E-Orbis"
	SecondaryLogoAlt = "Logo Meta Prime"
)

// DefaultBannerDateFormat renders the banner date as DD/MM/YYYY.
const DefaultBannerDateFormat = "DD/MM/YYYY"

// Callout prefixes, checked against the trimmed paragraph text.
var calloutPrefixes = []string{"OBS:", "\u26a0\ufe0f OBS:"}

// StyleRule binds a CSS selector to the inline style applied to its matches.
type StyleRule struct {
	Selector string
	Style    string
}

var headingStyles = []StyleRule{
	{Selector: "h1", Style: "font-size:20pt; font-weight:bold; text-align:center;"},
	{Selector: "h2", Style: "font-size:18pt; font-weight:bold; text-align:left; margin-top:20px;"},
	{Selector: "h3", Style: "font-size:16pt; font-weight:bold; text-align:left; margin-top:15px;"},
}

const (
	headerStyle      = "border-bottom: 2px solid #ccc; padding-bottom: 10px; margin-bottom: 20px;"
	primaryLogoStyle = "max-width:200px; display:block; margin:10px 0;"
	bannerStyle      = "font-size:12pt; text-align:left; margin:10px 0;"

	calloutStyle  = "font-size:16pt; text-align:center; margin:20px 0; border: 1px solid #ffcc00; padding: 10px;"
	imageStyle    = "display:block; margin:20px auto; max-width:1200px;"
	emphasisStyle = "font-weight:bold; color:#2563eb;"

	footerStyle        = "border-top: 2px solid #ccc; padding-top: 10px; margin-top: 20px; text-align: right;"
	secondaryLogoStyle = "max-width:200px; display:inline-block;"
)

// bodyContext is the fragment parsing context for non-document input.
var bodyContext = &html.Node{
	Type:     html.ElementNode,
	DataAtom: atom.Body,
	Data:     "body",
}

// RestyleData carries the per-call values injected into the document.
// Logo references are used verbatim as img src values.
type RestyleData struct {
	Version       string
	PrimaryLogo   string
	SecondaryLogo string
}

// HTMLRestyler normalizes rendered HTML into a branded document.
type HTMLRestyler interface {
	Restyle(htmlContent string, data RestyleData) string
}

// Compile-time interface check.
var _ HTMLRestyler = (*Restyler)(nil)

// Restyler applies the skeleton, banner, style rules and footer to HTML.
// A Restyler is immutable after construction and safe for concurrent use.
type Restyler struct {
	now    func() time.Time
	layout *dateutil.Layout
}

// RestylerOption configures a Restyler.
type RestylerOption func(*restylerConfig)

type restylerConfig struct {
	now        func() time.Time
	dateFormat string
}

// WithClock sets the time source used for the banner date.
func WithClock(now func() time.Time) RestylerOption {
	return func(c *restylerConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithDateFormat sets the banner date format using dateutil tokens or presets.
// An empty format keeps the default.
func WithDateFormat(format string) RestylerOption {
	return func(c *restylerConfig) {
		if format != "" {
			c.dateFormat = format
		}
	}
}

// NewRestyler creates a Restyler. The only failure is an invalid date format.
func NewRestyler(opts ...RestylerOption) (*Restyler, error) {
	cfg := restylerConfig{
		now:        time.Now,
		dateFormat: DefaultBannerDateFormat,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	layout, err := dateutil.Compile(cfg.dateFormat)
	if err != nil {
		return nil, err
	}

	return &Restyler{now: cfg.now, layout: layout}, nil
}

// Restyle rewrites htmlContent into a complete, styled document.
// It never fails: if serialization breaks, the original input is returned.
func (r *Restyler) Restyle(htmlContent string, data RestyleData) string {
	doc := parseDocument(htmlContent)
	body := ensureSkeleton(doc)

	sel := goquery.NewDocumentFromNode(body).Selection

	sel.PrependNodes(r.buildHeader(data))
	applyHeadingStyles(sel)
	applyCalloutStyles(sel)
	applyImageStyles(sel)
	applyEmphasisStyles(sel)
	sel.AppendNodes(buildFooter(data))

	out, err := renderDocument(doc)
	if err != nil {
		return htmlContent
	}
	return out
}

// BannerText returns the version banner line for the given version and time.
func (r *Restyler) BannerText(version string, t time.Time) string {
	return fmt.Sprintf("Versão: %s | Última atualização: %s", version, r.layout.Format(t))
}

func (r *Restyler) buildHeader(data RestyleData) *html.Node {
	header := newElement(atom.Div, attr("style", headerStyle))
	header.AppendChild(newElement(atom.Img,
		attr("src", data.PrimaryLogo),
		attr("alt", PrimaryLogoAlt),
		attr("style", primaryLogoStyle),
	))

	banner := newElement(atom.P, attr("style", bannerStyle))
	banner.AppendChild(&html.Node{Type: html.TextNode, Data: r.BannerText(data.Version, r.now())})
	header.AppendChild(banner)

	return header
}

func buildFooter(data RestyleData) *html.Node {
	footer := newElement(atom.Footer, attr("style", footerStyle))
	footer.AppendChild(newElement(atom.Img,
		attr("src", data.SecondaryLogo),
		attr("alt", SecondaryLogoAlt),
		attr("style", secondaryLogoStyle),
	))
	return footer
}

func applyHeadingStyles(body *goquery.Selection) {
	for _, rule := range headingStyles {
		body.Find(rule.Selector).SetAttr("style", rule.Style)
	}
}

func applyCalloutStyles(body *goquery.Selection) {
	body.Find("p").Each(func(_ int, p *goquery.Selection) {
		if !IsCallout(p.Text()) {
			return
		}
		p.SetAttr("style", calloutStyle)
		p.BeforeNodes(newElement(atom.Hr))
		p.AfterNodes(newElement(atom.Hr))
	})
}

func applyImageStyles(body *goquery.Selection) {
	body.Find("img").Each(func(_ int, img *goquery.Selection) {
		alt, _ := img.Attr("alt")
		if isBrandingAlt(alt) {
			return
		}
		img.SetAttr("style", imageStyle)
	})
}

func applyEmphasisStyles(body *goquery.Selection) {
	body.Find("strong, b").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if strings.Contains(text, "(") && strings.Contains(text, ")") {
			s.SetAttr("style", emphasisStyle)
		}
	})
}

// IsCallout reports whether paragraph text marks a callout.
func IsCallout(text string) bool {
	text = strings.TrimSpace(text)
	for _, prefix := range calloutPrefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

func isBrandingAlt(alt string) bool {
	return strings.Contains(alt, PrimaryLogoAlt) || strings.Contains(alt, SecondaryLogoAlt)
}

// ---------------------------------------------------------------------------
// Tree helpers
// ---------------------------------------------------------------------------

// isFullDocument reports whether content should be parsed as a document
// rather than a body fragment: the first token that is neither a comment
// nor whitespace is a doctype or an html or head start tag.
func isFullDocument(content string) bool {
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.CommentToken:
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				return false
			}
		case html.DoctypeToken:
			return true
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			return a == atom.Html || a == atom.Head
		default:
			return false
		}
	}
}

// parseDocument parses content into a tree rooted at a document node.
// A leading byte order mark is dropped. Fragments are parsed in a body
// context and left unwrapped; ensureSkeleton builds the missing structure.
func parseDocument(content string) *html.Node {
	content = strings.TrimPrefix(content, "\ufeff")
	if isFullDocument(content) {
		if doc, err := html.Parse(strings.NewReader(content)); err == nil {
			if !hasStartTag(content, atom.Head) {
				if head := findElement(doc, atom.Head); head != nil {
					head.InsertBefore(newCharsetMeta(), head.FirstChild)
				}
			}
			return doc
		}
	}

	container := &html.Node{Type: html.DocumentNode}
	nodes, err := html.ParseFragment(strings.NewReader(content), bodyContext)
	if err != nil {
		container.AppendChild(&html.Node{Type: html.TextNode, Data: content})
		return container
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container
}

// ensureSkeleton guarantees html, head and body elements and returns body.
// Top-level nodes other than head are moved into a new body in order. A
// document without a doctype gets the HTML5 one so browsers render it in
// standards mode; an existing doctype is kept as is.
func ensureSkeleton(doc *html.Node) *html.Node {
	root := findElement(doc, atom.Html)
	if root == nil {
		root = newElement(atom.Html)
		moveChildren(doc, root, func(c *html.Node) bool { return c.Type != html.DoctypeNode })
		doc.AppendChild(root)
	}
	if !hasDoctype(doc) {
		doc.InsertBefore(&html.Node{Type: html.DoctypeNode, Data: "html"}, doc.FirstChild)
	}

	head := findElement(root, atom.Head)
	if head == nil {
		head = newElement(atom.Head)
		head.AppendChild(newCharsetMeta())
		root.InsertBefore(head, root.FirstChild)
	}

	body := findElement(root, atom.Body)
	if body == nil {
		body = newElement(atom.Body)
		moveChildren(root, body, func(c *html.Node) bool { return c != head })
		root.AppendChild(body)
	}

	return body
}

func hasDoctype(doc *html.Node) bool {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			return true
		}
	}
	return false
}

// moveChildren reparents the children of src accepted by keep onto dst.
func moveChildren(src, dst *html.Node, keep func(*html.Node) bool) {
	for c := src.FirstChild; c != nil; {
		next := c.NextSibling
		if keep(c) {
			src.RemoveChild(c)
			dst.AppendChild(c)
		}
		c = next
	}
}

// renderDocument serializes every child of the document node.
func renderDocument(doc *html.Node) (string, error) {
	var buf strings.Builder
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// hasStartTag reports whether the raw markup contains a start tag for a.
func hasStartTag(content string, a atom.Atom) bool {
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == a {
				return true
			}
		}
	}
}

// findElement returns the first element matching a in depth-first order.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func newElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func newCharsetMeta() *html.Node {
	return newElement(atom.Meta, attr("charset", "UTF-8"))
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}
