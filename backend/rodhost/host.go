/*
Package rodhost hosts physical observers in a real browser page, driven by
go-rod.

A script injected into the page owns the browser's ResizeObserver and
IntersectionObserver instances. Their callbacks are reported back through a
CDP binding and queued; Pump delivers them to the registered Go callbacks
on the caller's goroutine, which thereby becomes the engine's event loop.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rodhost

import (
	"context"
	_ "embed"
	"encoding/json"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/npillmayer/cquery/core"
	"github.com/npillmayer/cquery/engine/observe"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cquery.rod'.
func tracer() tracing.Trace {
	return tracing.Select("cquery.rod")
}

//go:embed observer.js
var observerJS string

const binding = "__cquery_binding"

// Host is an observe.Host for a browser page. Observer callbacks are
// delivered by Pump or PumpOnce only.
type Host struct {
	page      *rod.Page
	events    chan batch
	elements  map[int]*Element
	resize    map[int]*resizeObserver
	intersect map[int]*intersectionObserver
	next      int
	doc       *Element
	stop      context.CancelFunc
}

var _ observe.Host = &Host{}

// New injects the observer script into a page and starts listening for
// observer callbacks. Listening stops when ctx is done or Close is called.
func New(ctx context.Context, page *rod.Page) (*Host, error) {
	ctx, cancel := context.WithCancel(ctx)
	h := &Host{
		page:      page,
		events:    make(chan batch, 256),
		elements:  make(map[int]*Element),
		resize:    make(map[int]*resizeObserver),
		intersect: make(map[int]*intersectionObserver),
		stop:      cancel,
	}
	if err := (proto.RuntimeAddBinding{Name: binding}).Call(page); err != nil {
		tracer().Infof("add binding: %v (may already exist)", err)
	}
	wait := page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != binding {
			return
		}
		b, err := decodeBatch([]byte(e.Payload))
		if err != nil {
			tracer().Errorf("%v", err)
			return
		}
		select {
		case h.events <- b:
		case <-ctx.Done():
		}
	})
	go wait()
	if _, err := page.Eval(observerJS); err != nil {
		cancel()
		return nil, core.WrapError(err, core.EINTERNAL, "cannot inject observer script")
	}
	res, err := page.Eval(`() => window.__cquery.documentElement()`)
	if err != nil {
		cancel()
		return nil, core.WrapError(err, core.EINTERNAL, "cannot locate document element")
	}
	h.doc = h.element(res.Value.Int())
	tracer().Infof("observer script injected")
	return h, nil
}

// Close stops listening for observer callbacks.
func (h *Host) Close() {
	h.stop()
}

// Document is part of interface observe.Host.
func (h *Host) Document() observe.Element {
	return h.doc
}

// QuerySelectorAll returns the elements of the page matching a CSS selector.
func (h *Host) QuerySelectorAll(selector string) ([]*Element, error) {
	var ids []int
	if err := h.call(&ids, `(sel) => window.__cquery.query(sel)`, selector); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot select %q", selector)
	}
	els := make([]*Element, len(ids))
	for i, id := range ids {
		els[i] = h.element(id)
	}
	return els, nil
}

// Pump delivers observer callbacks until ctx is done.
func (h *Host) Pump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case b := <-h.events:
			h.deliver(b)
		}
	}
}

// PumpOnce delivers observer callbacks arriving within timeout. It returns
// the number of batches delivered.
func (h *Host) PumpOnce(timeout time.Duration) int {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	n := 0
	for {
		select {
		case <-timer.C:
			return n
		case b := <-h.events:
			h.deliver(b)
			n++
		}
	}
}

func (h *Host) deliver(b batch) {
	switch b.Kind {
	case kindResize:
		ro := h.resize[b.Observer]
		if ro == nil {
			return
		}
		entries := make([]observe.ResizeEntry, 0, len(b.Entries))
		for _, e := range b.Entries {
			if el := h.element(e.Target); el != nil {
				entries = append(entries, observe.ResizeEntry{Target: el, Record: e.resizeRecord()})
			}
		}
		ro.cb(entries)
	case kindIntersection:
		io := h.intersect[b.Observer]
		if io == nil {
			return
		}
		entries := make([]observe.IntersectionEntry, 0, len(b.Entries))
		for _, e := range b.Entries {
			if el := h.element(e.Target); el != nil {
				entries = append(entries, observe.IntersectionEntry{Target: el, Record: e.intersectionRecord()})
			}
		}
		io.cb(entries)
	}
}

// element returns the canonical element for a page-side id.
func (h *Host) element(id int) *Element {
	if id == 0 {
		return nil
	}
	el := h.elements[id]
	if el == nil {
		el = &Element{host: h, id: id}
		h.elements[id] = el
	}
	return el
}

// call evaluates a page function returning a JSON string, and decodes it
// into v.
func (h *Host) call(v interface{}, js string, args ...interface{}) error {
	res, err := h.page.Eval(js, args...)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return json.Unmarshal([]byte(res.Value.Str()), v)
}

func (h *Host) exec(js string, args ...interface{}) {
	if _, err := h.page.Eval(js, args...); err != nil {
		tracer().Errorf("page call failed: %v", err)
	}
}

// NewResizeObserver is part of interface observe.Host.
func (h *Host) NewResizeObserver(cb observe.ResizeCallback) observe.ResizeObserver {
	h.next++
	ro := &resizeObserver{host: h, id: h.next, cb: cb}
	h.resize[ro.id] = ro
	h.exec(`(oid) => window.__cquery.resizeObserver(oid)`, ro.id)
	return ro
}

// NewIntersectionObserver is part of interface observe.Host.
func (h *Host) NewIntersectionObserver(cb observe.IntersectionCallback, opts observe.IntersectionOptions) observe.IntersectionObserver {
	h.next++
	io := &intersectionObserver{host: h, id: h.next, cb: cb}
	h.intersect[io.id] = io
	rootID := 0
	if el, ok := opts.Root.(*Element); ok && el != nil {
		rootID = el.id
	}
	thresholds := opts.Thresholds
	if len(thresholds) == 0 {
		thresholds = []float64{0}
	}
	h.exec(`(oid, root, t) => window.__cquery.intersectionObserver(oid, root, t)`, io.id, rootID, thresholds)
	return io
}

type resizeObserver struct {
	host *Host
	id   int
	cb   observe.ResizeCallback
}

func (ro *resizeObserver) Observe(target observe.Element) {
	if el, ok := target.(*Element); ok {
		ro.host.exec(`(oid, id) => window.__cquery.observe(oid, id)`, ro.id, el.id)
	}
}

func (ro *resizeObserver) Unobserve(target observe.Element) {
	if el, ok := target.(*Element); ok {
		ro.host.exec(`(oid, id) => window.__cquery.unobserve(oid, id)`, ro.id, el.id)
	}
}

type intersectionObserver struct {
	host *Host
	id   int
	cb   observe.IntersectionCallback
}

func (io *intersectionObserver) Observe(target observe.Element) {
	if el, ok := target.(*Element); ok {
		io.host.exec(`(oid, id) => window.__cquery.observe(oid, id)`, io.id, el.id)
	}
}

func (io *intersectionObserver) Unobserve(target observe.Element) {
	if el, ok := target.(*Element); ok {
		io.host.exec(`(oid, id) => window.__cquery.unobserve(oid, id)`, io.id, el.id)
	}
}

func (io *intersectionObserver) Disconnect() {
	io.host.exec(`(oid) => window.__cquery.disconnect(oid)`, io.id)
	delete(io.host.intersect, io.id)
}

// Element is an element of a browser page. Relations are queried from the
// page on every call.
type Element struct {
	host *Host
	id   int
}

var _ observe.Element = &Element{}

func (el *Element) info() elementInfo {
	var info elementInfo
	if err := el.host.call(&info, `(id) => window.__cquery.info(id)`, el.id); err != nil {
		tracer().Errorf("cannot inspect element %d: %v", el.id, err)
	}
	return info
}

// OffsetParent is part of interface observe.Element.
func (el *Element) OffsetParent() observe.Element {
	if p := el.host.element(el.info().OffsetParent); p != nil {
		return p
	}
	return nil
}

// ScrollParent is part of interface observe.Element.
func (el *Element) ScrollParent() observe.Element {
	if p := el.host.element(el.info().ScrollParent); p != nil {
		return p
	}
	return nil
}

// IsConnected is part of interface observe.Element.
func (el *Element) IsConnected() bool {
	return el.info().Connected
}

func (el *Element) String() string {
	if l := el.info().Label; l != "" {
		return l
	}
	return "element"
}
