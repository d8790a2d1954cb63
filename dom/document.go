package dom

import (
	"fmt"
	"io"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/cssengine/computed"
	"github.com/npillmayer/cssengine/dom/style"
	"github.com/npillmayer/cssengine/dom/style/cssom"
	"github.com/npillmayer/cssengine/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/cssengine/styledb"
	"go.uber.org/multierr"
	"golang.org/x/net/html"
)

// Document is an HTML document with its stylesheets. It creates the computed
// styles of its elements and collects the diagnostics of style resolution.
//
// A Document is safe for concurrent use, with the exception of adding
// stylesheets, which must not run concurrently with reading styles.
type Document struct {
	top      *html.Node // node the document has been created from
	root     *html.Node // document element
	om       *cssom.CSSOM
	db       styledb.Database
	viewport styledb.Viewport
	medium   string
	limit    int
	noUA     bool
	mu       sync.Mutex // guards styles
	styles   map[*html.Node]*computed.Style
	elemMu   sync.Mutex // guards elements
	elements map[*html.Node]*Element
	diagMu   sync.Mutex // guards diags
	diags    []Diagnostic
	registry *style.Registry
}

// Option configures a document at creation time.
type Option struct {
	config func(*Document)
}

// WithDatabase sets the style database for font and device metrics.
func WithDatabase(db styledb.Database) Option {
	return Option{config: func(doc *Document) {
		doc.db = db
	}}
}

// WithViewport sets the viewport for viewport relative units.
func WithViewport(vp styledb.Viewport) Option {
	return Option{config: func(doc *Document) {
		doc.viewport = vp
	}}
}

// WithMedium sets the target medium. Default is the medium of the style
// database, or "screen".
func WithMedium(medium string) Option {
	return Option{config: func(doc *Document) {
		doc.medium = medium
	}}
}

// WithRegistry sets the property registry. @property rules of the
// document's stylesheets are registered with it.
func WithRegistry(reg *style.Registry) Option {
	return Option{config: func(doc *Document) {
		doc.registry = reg
	}}
}

// WithReplacementLimit limits substitution of var(), attr() and env() per
// property resolution.
func WithReplacementLimit(n int) Option {
	return Option{config: func(doc *Document) {
		doc.limit = n
	}}
}

// WithoutUserAgentStyles suppresses the built-in user-agent stylesheet.
// The user-agent defaults for 'display' are always in effect.
func WithoutUserAgentStyles() Option {
	return Option{config: func(doc *Document) {
		doc.noUA = true
	}}
}

// Parse reads an HTML document. Stylesheets in <style> elements are added
// as author styles.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return FromHTMLNode(root, opts...)
}

// FromHTMLNode creates a document from an HTML parse tree, which has either
// a document node or the document element as its root. Stylesheets in
// <style> elements are added as author styles; problems with them are
// returned as an error, together with a usable document.
func FromHTMLNode(node *html.Node, opts ...Option) (*Document, error) {
	if node == nil {
		return nil, fmt.Errorf("cannot create a document without an HTML node")
	}
	doc := &Document{
		top:      node,
		root:     documentElement(node),
		styles:   make(map[*html.Node]*computed.Style),
		elements: make(map[*html.Node]*Element),
	}
	if doc.root == nil {
		return nil, fmt.Errorf("HTML tree has no element")
	}
	for _, opt := range opts {
		opt.config(doc)
	}
	if doc.medium == "" {
		doc.medium = "screen"
		if doc.db != nil {
			doc.medium = doc.db.Medium()
		}
	}
	doc.om = cssom.NewCSSOM(doc.registry, doc.medium)
	doc.registry = doc.om.Registry()
	var err error
	if !doc.noUA {
		ua, uaerr := douceuradapter.Parse(userAgentCSS)
		if uaerr != nil {
			panic(uaerr) // built-in stylesheet
		}
		err = doc.om.AddStyles(ua, cssom.UserAgent)
	}
	sheets, serr := douceuradapter.ExtractStyleElements(node)
	err = multierr.Append(err, serr)
	for _, sheet := range sheets {
		err = multierr.Append(err, doc.om.AddStyles(sheet, cssom.Author))
	}
	tracer().Debugf("document created with root %s, %d style elements", doc.root.Data, len(sheets))
	return doc, err
}

func documentElement(n *html.Node) *html.Node {
	if n.Type == html.ElementNode {
		return n
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode {
			return ch
		}
	}
	return nil
}

// AddStyleSheet adds a stylesheet for an origin and invalidates all
// computed styles.
func (doc *Document) AddStyleSheet(sheet cssom.StyleSheet, origin cssom.Origin) error {
	err := doc.om.AddStyles(sheet, origin)
	doc.Invalidate()
	return err
}

// Registry returns the property registry of the document.
func (doc *Document) Registry() *style.Registry {
	return doc.registry
}

// Medium returns the target medium.
func (doc *Document) Medium() string {
	return doc.medium
}

// Root returns the document element.
func (doc *Document) Root() *Element {
	return doc.Element(doc.root)
}

// Element returns the element for a node of the document's HTML tree, or
// nil if node is not an element.
func (doc *Document) Element(node *html.Node) *Element {
	if node == nil || node.Type != html.ElementNode {
		return nil
	}
	doc.elemMu.Lock()
	defer doc.elemMu.Unlock()
	el, ok := doc.elements[node]
	if !ok {
		el = &Element{node: node, doc: doc}
		doc.elements[node] = el
	}
	return el
}

// Select returns all elements matching a CSS selector, in document order.
func (doc *Document) Select(selector string) ([]*Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", selector, err)
	}
	nodes := sel.MatchAll(doc.top)
	elements := make([]*Element, len(nodes))
	for i, n := range nodes {
		elements[i] = doc.Element(n)
	}
	return elements, nil
}

// ComputedStyle returns the computed style of an element. The style of
// the element and of all of its ancestors is created on first use and
// cached until Invalidate is called.
func (doc *Document) ComputedStyle(el *Element) *computed.Style {
	if el == nil {
		return nil
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return doc.styleFor(el)
}

// styleFor expects doc.mu to be held.
func (doc *Document) styleFor(el *Element) *computed.Style {
	if s, ok := doc.styles[el.node]; ok {
		return s
	}
	var parent *computed.Style
	if p := el.Parent(); p != nil {
		parent = doc.styleFor(p)
	}
	declared, err := doc.om.Cascade(el.node)
	for _, e := range multierr.Errors(err) {
		doc.record(Diagnostic{Element: el, Err: e, Severity: Warning})
	}
	var s *computed.Style
	if parent == nil {
		s = computed.NewStyle(el, declared, nil, doc.styleOptions()...)
	} else {
		s = computed.NewStyle(el, declared, parent)
	}
	doc.styles[el.node] = s
	return s
}

func (doc *Document) styleOptions() []computed.Option {
	opts := []computed.Option{
		computed.WithRegistry(doc.registry),
		computed.WithDiagnostics(doc),
		computed.WithMedium(doc.medium),
	}
	if doc.db != nil {
		opts = append(opts, computed.WithDatabase(doc.db))
	}
	if doc.viewport != nil {
		opts = append(opts, computed.WithViewport(doc.viewport))
	}
	if doc.limit > 0 {
		opts = append(opts, computed.WithReplacementLimit(doc.limit))
	}
	return opts
}

// Invalidate drops all cached computed styles and the diagnostics recorded
// so far.
func (doc *Document) Invalidate() {
	doc.mu.Lock()
	doc.styles = make(map[*html.Node]*computed.Style)
	doc.mu.Unlock()
	doc.diagMu.Lock()
	doc.diags = nil
	doc.diagMu.Unlock()
}
