package dom

import (
	"strings"

	"github.com/npillmayer/cquery/core/dimen"
	"github.com/npillmayer/cquery/core/option"
	"github.com/npillmayer/cquery/engine/dom/style"
	"github.com/npillmayer/cquery/engine/frame"
	"github.com/npillmayer/cquery/engine/observe"
	"golang.org/x/net/html"
)

// Element is an HTML element with styles and a border box.
type Element struct {
	node   *html.Node
	doc    *Document
	styles *style.Styles
	box    frame.Box
}

var _ observe.Element = &Element{}

// Node returns the underlying HTML node.
func (el *Element) Node() *html.Node {
	return el.node
}

// Tag returns the element's tag name.
func (el *Element) Tag() string {
	return el.node.Data
}

// ID returns the element's id attribute.
func (el *Element) ID() string {
	return attr(el.node, "id")
}

// Attr returns the value of an attribute, or "".
func (el *Element) Attr(key string) string {
	return attr(el.node, key)
}

// Styles returns the cascaded styles of el.
func (el *Element) Styles() *style.Styles {
	return el.styles
}

// Parent returns the parent element, or nil.
func (el *Element) Parent() *Element {
	if el.node.Parent == nil {
		return nil
	}
	return el.doc.elements[el.node.Parent]
}

// Box returns el's box in page coordinates.
func (el *Element) Box() frame.Box {
	return el.box
}

// SetBox replaces el's box.
func (el *Element) SetBox(box frame.Box) {
	el.box = box
}

// SetRect changes the border box of el, keeping padding and border.
func (el *Element) SetRect(r dimen.Rect) {
	el.box.Bounds = r
}

// Resize changes the extent of el's border box.
func (el *Element) Resize(width, height float64) {
	el.box.Bounds.Width, el.box.Bounds.Height = width, height
}

// Move moves el by (dx, dy). Descendants do not move along.
func (el *Element) Move(dx, dy float64) {
	el.box.Bounds = el.box.Bounds.Shift(dx, dy)
}

// Remove detaches el from its document.
func (el *Element) Remove() {
	if el.node.Parent != nil {
		el.node.Parent.RemoveChild(el.node)
	}
}

// IsConnected is false for elements detached from their document.
func (el *Element) IsConnected() bool {
	for n := el.node; n != nil; n = n.Parent {
		if n == el.doc.root {
			return true
		}
	}
	return false
}

func (el *Element) position() style.PositionT {
	return style.PositionOption(el.styles)
}

// placement tells how el takes part in offset parent resolution.
type placement int

const (
	inFlow     placement = iota // static or no position
	positioned                  // relative, absolute, sticky
	fixed                       // relative to the viewport
)

func (el *Element) placement() placement {
	p, err := el.position().Match(option.Of{
		option.None:          inFlow,
		style.PositionStatic: inFlow,
		style.PositionFixed:  fixed,
		option.Some:          positioned,
	})
	if err != nil {
		tracer().Errorf("position of %s: %v", el, err)
		return inFlow
	}
	return p.(placement)
}

// scrolls is true if el is a scroll container.
func (el *Element) scrolls() bool {
	s, err := style.OverflowOption(el.styles).Match(option.Of{
		style.OverflowScroll: true,
		style.OverflowAuto:   true,
		option.Some:          false,
		option.None:          false,
	})
	return err == nil && s.(bool)
}

// isFixed is true if el or one of its ancestors has position fixed.
func (el *Element) isFixed() bool {
	for e := el; e != nil; e = e.Parent() {
		if e.placement() == fixed {
			return true
		}
	}
	return false
}

// ClientRect returns el's border box in viewport coordinates, the way
// getBoundingClientRect reports it. Detached elements have an empty rect.
func (el *Element) ClientRect() dimen.Rect {
	if el == el.doc.html {
		return el.doc.viewport
	}
	if !el.IsConnected() {
		return dimen.Rect{}
	}
	if el.isFixed() {
		return el.box.Bounds
	}
	return el.box.Bounds.Shift(-el.doc.scroll[0], -el.doc.scroll[1])
}

// record returns a resize record for el, with bounds in viewport
// coordinates.
func (el *Element) record() frame.ResizeRecord {
	if !el.IsConnected() {
		return frame.ResizeRecord{
			ContentBoxSize: []dimen.BoxSize{{}},
			BorderBoxSize:  []dimen.BoxSize{{}},
		}
	}
	rec := el.box.Record()
	rec.Bounds = el.ClientRect()
	return rec
}

// OffsetParent returns the nearest positioned ancestor, or <body>.
// It is nil for fixed elements, <html>, <body> and detached elements.
func (el *Element) OffsetParent() observe.Element {
	if p := el.offsetParent(); p != nil {
		return p
	}
	return nil
}

func (el *Element) offsetParent() *Element {
	if el == el.doc.html || el == el.doc.body || !el.IsConnected() {
		return nil
	}
	if el.placement() == fixed {
		return nil
	}
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p == el.doc.body || p.placement() != inFlow {
			return p
		}
	}
	return nil
}

// ScrollParent returns the nearest ancestor which is a scroll container,
// or nil if el scrolls with the document.
func (el *Element) ScrollParent() observe.Element {
	if p := el.scrollParent(); p != nil {
		return p
	}
	return nil
}

func (el *Element) scrollParent() *Element {
	if el.isFixed() {
		return nil
	}
	for p := el.Parent(); p != nil && p != el.doc.body && p != el.doc.html; p = p.Parent() {
		if p.scrolls() {
			return p
		}
	}
	return nil
}

func (el *Element) String() string {
	var b strings.Builder
	b.WriteString(el.node.Data)
	if id := el.ID(); id != "" {
		b.WriteString("#" + id)
	}
	for _, c := range strings.Fields(el.Attr("class")) {
		b.WriteString("." + c)
	}
	return b.String()
}
