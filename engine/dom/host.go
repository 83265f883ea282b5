package dom

import (
	"github.com/npillmayer/cquery/engine/frame"
	"github.com/npillmayer/cquery/engine/observe"
)

// Stats counts the physical observation activity of a host.
type Stats struct {
	ResizeObservers       int // resize observers constructed
	IntersectionObservers int // intersection observers constructed
	Observed              int // Observe calls, minus Unobserve calls
	Callbacks             int // callback invocations
}

// Host simulates the physical observers of a browser for a document.
// Observers deliver their entries when Flush is called.
type Host struct {
	doc       *Document
	resize    []*resizeObserver
	intersect []*intersectionObserver
	stats     Stats
}

var _ observe.Host = &Host{}

// NewHost creates a host for a document.
func NewHost(doc *Document) *Host {
	return &Host{doc: doc}
}

// Document returns the element standing for the viewport.
func (h *Host) Document() observe.Element {
	return h.doc.html
}

// Doc returns the host's document.
func (h *Host) Doc() *Document {
	return h.doc
}

// Stats returns the counters of h.
func (h *Host) Stats() Stats {
	return h.stats
}

// NewResizeObserver is part of interface observe.Host.
func (h *Host) NewResizeObserver(cb observe.ResizeCallback) observe.ResizeObserver {
	ro := &resizeObserver{host: h, cb: cb, last: make(map[*Element]*frame.Box)}
	h.resize = append(h.resize, ro)
	h.stats.ResizeObservers++
	tracer().Infof("new resize observer #%d", h.stats.ResizeObservers)
	return ro
}

// NewIntersectionObserver is part of interface observe.Host.
func (h *Host) NewIntersectionObserver(cb observe.IntersectionCallback, opts observe.IntersectionOptions) observe.IntersectionObserver {
	root := h.element(opts.Root)
	if root == nil {
		root = h.doc.html
	}
	thresholds := opts.Thresholds
	if len(thresholds) == 0 {
		thresholds = []float64{0}
	}
	io := &intersectionObserver{
		host:       h,
		cb:         cb,
		root:       root,
		thresholds: thresholds,
		last:       make(map[*Element]*band),
	}
	h.intersect = append(h.intersect, io)
	h.stats.IntersectionObservers++
	tracer().Infof("new intersection observer #%d for root %s", h.stats.IntersectionObservers, root)
	return io
}

func (h *Host) element(e observe.Element) *Element {
	if e == nil {
		return nil
	}
	el, ok := e.(*Element)
	if !ok || el.doc != h.doc {
		tracer().Errorf("element %v does not belong to this host", e)
		return nil
	}
	return el
}

// Flush delivers pending observations: first resize entries, then
// intersection entries, each observer in order of construction and each
// target in order of observation. It returns the number of entries
// delivered.
//
// A resize entry is due for a target observed for the first time or whose
// size changed. An intersection entry is due for a target observed for the
// first time or whose intersection ratio crossed one of the observer's
// thresholds.
func (h *Host) Flush() int {
	n := 0
	for _, ro := range append([]*resizeObserver(nil), h.resize...) {
		n += ro.flush()
	}
	for _, io := range append([]*intersectionObserver(nil), h.intersect...) {
		n += io.flush()
	}
	tracer().Debugf("flush delivered %d entries", n)
	return n
}

// --- Resize observers ------------------------------------------------------

type resizeObserver struct {
	host    *Host
	cb      observe.ResizeCallback
	targets []*Element
	last    map[*Element]*frame.Box // nil until first delivery
}

func (ro *resizeObserver) Observe(target observe.Element) {
	el := ro.host.element(target)
	if el == nil {
		return
	}
	if _, ok := ro.last[el]; ok {
		return
	}
	ro.targets = append(ro.targets, el)
	ro.last[el] = nil
	ro.host.stats.Observed++
}

func (ro *resizeObserver) Unobserve(target observe.Element) {
	el := ro.host.element(target)
	if _, ok := ro.last[el]; !ok {
		return
	}
	delete(ro.last, el)
	ro.targets = remove(ro.targets, el)
	ro.host.stats.Observed--
}

func (ro *resizeObserver) flush() int {
	var entries []observe.ResizeEntry
	for _, el := range ro.targets {
		box := el.box
		if !el.IsConnected() {
			box = frame.Box{}
		}
		if prev := ro.last[el]; prev != nil && prev.SameSize(&box) {
			continue
		}
		ro.last[el] = &box
		entries = append(entries, observe.ResizeEntry{Target: el, Record: el.record()})
	}
	if len(entries) > 0 {
		ro.host.stats.Callbacks++
		ro.cb(entries)
	}
	return len(entries)
}

// --- Intersection observers ------------------------------------------------

type band struct {
	index        int // number of thresholds reached
	intersecting bool
}

type intersectionObserver struct {
	host         *Host
	cb           observe.IntersectionCallback
	root         *Element
	thresholds   []float64
	targets      []*Element
	last         map[*Element]*band // nil until first delivery
	disconnected bool
}

func (io *intersectionObserver) Observe(target observe.Element) {
	el := io.host.element(target)
	if el == nil || io.disconnected {
		return
	}
	if _, ok := io.last[el]; ok {
		return
	}
	io.targets = append(io.targets, el)
	io.last[el] = nil
	io.host.stats.Observed++
}

func (io *intersectionObserver) Unobserve(target observe.Element) {
	el := io.host.element(target)
	if _, ok := io.last[el]; !ok {
		return
	}
	delete(io.last, el)
	io.targets = remove(io.targets, el)
	io.host.stats.Observed--
}

func (io *intersectionObserver) Disconnect() {
	io.host.stats.Observed -= len(io.targets)
	io.targets = nil
	io.last = make(map[*Element]*band)
	io.disconnected = true
	io.host.intersect = removeObserver(io.host.intersect, io)
}

func (io *intersectionObserver) flush() int {
	var entries []observe.IntersectionEntry
	for _, el := range io.targets {
		rec := Intersect(el, io.root)
		b := band{intersecting: rec.IsIntersecting}
		for _, t := range io.thresholds {
			if rec.IsIntersecting && rec.IntersectionRatio >= t {
				b.index++
			}
		}
		if prev := io.last[el]; prev != nil && *prev == b {
			continue
		}
		io.last[el] = &b
		entries = append(entries, observe.IntersectionEntry{Target: el, Record: rec})
	}
	if len(entries) > 0 {
		io.host.stats.Callbacks++
		io.cb(entries)
	}
	return len(entries)
}

// Intersect computes the intersection record of a target with a root.
// Detached targets do not intersect.
func Intersect(target, root *Element) frame.IntersectionRecord {
	rec := frame.IntersectionRecord{
		BoundingClientRect: target.ClientRect(),
		RootBounds:         root.ClientRect(),
	}
	if !target.IsConnected() {
		return rec
	}
	ir, ok := rec.BoundingClientRect.Intersect(rec.RootBounds)
	if !ok {
		return rec
	}
	rec.IntersectionRect = ir
	rec.IsIntersecting = true
	if a := rec.BoundingClientRect.Area(); a > 0 {
		rec.IntersectionRatio = ir.Area() / a
	} else {
		rec.IntersectionRatio = 1
	}
	return rec
}

func remove(els []*Element, el *Element) []*Element {
	for i, e := range els {
		if e == el {
			return append(els[:i:i], els[i+1:]...)
		}
	}
	return els
}

func removeObserver(obs []*intersectionObserver, io *intersectionObserver) []*intersectionObserver {
	for i, o := range obs {
		if o == io {
			return append(obs[:i:i], obs[i+1:]...)
		}
	}
	return obs
}
