package dom

import (
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/xpath"
	"github.com/npillmayer/cquery/core"
	"github.com/npillmayer/cquery/core/dimen"
	"github.com/npillmayer/cquery/engine/dom/style"
	"github.com/npillmayer/cquery/engine/dom/xpathadapter"
	"github.com/npillmayer/cquery/engine/frame"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Default extent of a document's viewport.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
)

type compiledRule struct {
	selector cascadia.Selector
	decls    style.Rule
}

// Document is a parsed HTML document. The <html> element stands for the
// viewport.
type Document struct {
	root     *html.Node
	elements map[*html.Node]*Element
	rules    []compiledRule
	viewport dimen.Rect
	scroll   [2]float64 // x, y
	html     *Element
	body     *Element
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse HTML document")
	}
	doc := &Document{
		root:     root,
		elements: make(map[*html.Node]*Element),
		viewport: dimen.R(0, 0, DefaultViewportWidth, DefaultViewportHeight),
	}
	doc.collectStyleSheets(root)
	doc.wrap(root)
	doc.html = doc.elements[findElement(atom.Html, root)]
	doc.body = doc.elements[findElement(atom.Body, root)]
	if doc.html == nil || doc.body == nil { // cannot happen with x/net/html
		return nil, core.Error(core.EINTERNAL, "document without <html> or <body>")
	}
	doc.html.box = frame.BorderBox(doc.viewport)
	if doc.body.box.Bounds.Width == 0 && doc.body.box.Bounds.Height == 0 {
		doc.body.box.Bounds = doc.viewport
	}
	tracer().Debugf("parsed document with %d elements, %d style rules", len(doc.elements), len(doc.rules))
	return doc, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (doc *Document) collectStyleSheets(n *html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Style && n.FirstChild != nil {
		rules, err := style.ParseSheet(n.FirstChild.Data)
		if err != nil {
			tracer().Errorf("skipping style sheet: %v", err)
		}
		for _, r := range rules {
			sel, err := cascadia.Compile(r.Selector)
			if err != nil {
				tracer().Errorf("skipping style rule %q: %v", r.Selector, err)
				continue
			}
			doc.rules = append(doc.rules, compiledRule{selector: sel, decls: r})
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		doc.collectStyleSheets(c)
	}
}

// wrap creates elements for n and all of its element descendants.
func (doc *Document) wrap(n *html.Node) {
	if n.Type == html.ElementNode {
		if _, ok := doc.elements[n]; !ok {
			doc.elements[n] = doc.newElement(n)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		doc.wrap(c)
	}
}

// newElement cascades the styles of n and derives its box from them.
// Sheet rules apply in document order, the inline style last.
func (doc *Document) newElement(n *html.Node) *Element {
	el := &Element{node: n, doc: doc, styles: style.NewStyles()}
	for _, r := range doc.rules {
		if r.selector.Match(n) {
			el.styles.Apply(r.decls.Declarations)
		}
	}
	if inline := attr(n, "style"); inline != "" {
		decls, err := style.ParseInline(inline)
		if err != nil {
			tracer().Errorf("element %s: %v", el, err)
		} else {
			el.styles.Apply(decls)
		}
	}
	el.box = boxFromStyles(el.styles)
	return el
}

func boxFromStyles(st *style.Styles) frame.Box {
	box := frame.BorderBox(dimen.R(
		style.LengthOption(st.Get("left")).Or(0),
		style.LengthOption(st.Get("top")).Or(0),
		style.LengthOption(st.Get("width")).Or(0),
		style.LengthOption(st.Get("height")).Or(0),
	))
	box.Padding = style.Sides(st, "padding", "")
	box.BorderWidth = style.Sides(st, "border-width", "-width")
	return box
}

// Viewport returns the element standing for the document's viewport.
func (doc *Document) Viewport() *Element {
	return doc.html
}

// Body returns the <body> element.
func (doc *Document) Body() *Element {
	return doc.body
}

// SetViewport changes the extent of the viewport.
func (doc *Document) SetViewport(width, height float64) {
	doc.viewport = dimen.R(0, 0, width, height)
	doc.html.box.Bounds = doc.viewport
}

// Scroll scrolls the document by (dx, dy). Elements which are not fixed
// move the opposite way in viewport coordinates.
func (doc *Document) Scroll(dx, dy float64) {
	doc.scroll[0] += dx
	doc.scroll[1] += dy
}

// ScrollOffset returns the current scroll position of the document.
func (doc *Document) ScrollOffset() (x, y float64) {
	return doc.scroll[0], doc.scroll[1]
}

// Element returns the element for an HTML node, or nil.
func (doc *Document) Element(n *html.Node) *Element {
	return doc.elements[n]
}

// QuerySelector returns the first element matching a CSS selector, or nil.
func (doc *Document) QuerySelector(selector string) (*Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "invalid selector %q", selector)
	}
	return doc.elements[sel.MatchFirst(doc.root)], nil
}

// QuerySelectorAll returns all elements matching a CSS selector, in
// document order.
func (doc *Document) QuerySelectorAll(selector string) ([]*Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "invalid selector %q", selector)
	}
	return doc.wrapAll(sel.MatchAll(doc.root)), nil
}

// XPath returns all elements selected by an XPath expression.
func (doc *Document) XPath(path string) ([]*Element, error) {
	expr, err := xpath.Compile(path)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "invalid XPath %q", path)
	}
	return doc.wrapAll(xpathadapter.Select(doc.root, expr)), nil
}

func (doc *Document) wrapAll(nodes []*html.Node) []*Element {
	els := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if el := doc.elements[n]; el != nil {
			els = append(els, el)
		}
	}
	return els
}

// Elements returns elements from either markup or a selector. Markup
// creates new elements, detached from the document until appended.
func (doc *Document) Elements(input string) ([]*Element, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "<") {
		return doc.QuerySelectorAll(input)
	}
	nodes, err := html.ParseFragment(strings.NewReader(input), doc.body.node)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse markup")
	}
	var els []*Element
	for _, n := range nodes {
		if n.Type != html.ElementNode {
			continue
		}
		doc.wrap(n)
		els = append(els, doc.elements[n])
	}
	return els, nil
}

// Append appends a detached element to parent.
func (doc *Document) Append(parent, child *Element) error {
	if child.node.Parent != nil {
		return core.Error(core.EINVALID, "element %s is attached", child)
	}
	parent.node.AppendChild(child.node)
	return nil
}

// --- Helpers ---------------------------------------------------------------

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.DataAtom == a {
		return h
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if r := findElement(a, ch); r != nil {
			return r
		}
	}
	return nil
}
