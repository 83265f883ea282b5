package cquery

import (
	"github.com/npillmayer/cquery/core/dimen"
	"github.com/npillmayer/cquery/engine/frame"
	"github.com/npillmayer/cquery/engine/observe"
	"github.com/npillmayer/cquery/engine/query"
)

// State is the matching state of a query handle.
type State uint8

// States of query handles.
const (
	Unmatched  State = iota // no geometry observed yet
	Matched                 // last evaluation matched
	NotMatched              // last evaluation did not match
)

func (s State) String() string {
	switch s {
	case Matched:
		return "matched"
	case NotMatched:
		return "not-matched"
	}
	return "unmatched"
}

// Change is the payload of change notifications: the target's rect
// together with the query result.
type Change struct {
	frame.ResizeRecord
	Result query.Result
	Cause  observe.Cause
}

// Matches is a shortcut for c.Result.Matches().
func (c Change) Matches() bool {
	return c.Result.Matches()
}

type listener struct {
	id int
	fn func(Change)
}

// QueryHandle is the live result of matching a query against a target.
type QueryHandle struct {
	engine    *Engine
	target    observe.Element
	query     *query.Query
	sub       *observe.Subscription
	rect      *frame.ResizeRecord
	result    query.Result
	state     State
	listeners []listener
	nextID    int
	disposed  bool
}

// Target returns the element h matches.
func (h *QueryHandle) Target() observe.Element { return h.target }

// Query returns the parsed query of h.
func (h *QueryHandle) Query() *query.Query { return h.query }

// State returns the matching state of h.
func (h *QueryHandle) State() State { return h.state }

// Matches tells whether the last evaluation matched. For composite queries
// it is true if any member matched. It is false before the first
// evaluation.
func (h *QueryHandle) Matches() bool { return h.state == Matched }

// Result returns the last evaluation result.
func (h *QueryHandle) Result() query.Result { return h.result }

// Rect returns the last rect seen, or nil.
func (h *QueryHandle) Rect() *frame.ResizeRecord { return h.rect }

// ContentRect returns the last content rect seen.
func (h *QueryHandle) ContentRect() dimen.Rect {
	if h.rect == nil {
		return dimen.Rect{}
	}
	return h.rect.ContentRect
}

// ContentBoxSize returns the last content box size seen.
func (h *QueryHandle) ContentBoxSize() []dimen.BoxSize {
	if h.rect == nil {
		return nil
	}
	return h.rect.ContentBoxSize
}

// BorderBoxSize returns the last border box size seen.
func (h *QueryHandle) BorderBoxSize() []dimen.BoxSize {
	if h.rect == nil {
		return nil
	}
	return h.rect.BorderBoxSize
}

// OnChange adds a change listener. It returns a function removing the
// listener again.
func (h *QueryHandle) OnChange(fn func(Change)) (remove func()) {
	if h.disposed || fn == nil {
		return func() {}
	}
	h.nextID++
	id := h.nextID
	h.listeners = append(h.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range h.listeners {
			if l.id == id {
				h.listeners = append(h.listeners[:i:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispose unsubscribes h from observation. Listeners are dropped and
// physical observations no longer needed are released.
func (h *QueryHandle) Dispose() {
	if h.disposed {
		return
	}
	h.disposed = true
	h.listeners = nil
	h.sub.Cancel()
	h.engine.release(h)
	tracer().Debugf("disposed %q on %s", h.query.Source(), h.target)
}

// Disposed is true after Dispose has been called.
func (h *QueryHandle) Disposed() bool { return h.disposed }

// update receives evaluations from the registry. Listeners are notified
// for the first result, whenever the result of a flat query flips, and on
// every evaluation of composite or empty queries.
func (h *QueryHandle) update(ev observe.Event) {
	if h.disposed || ev.Snapshot.Rect == nil {
		return
	}
	first := h.state == Unmatched
	changed := first || h.query.IsEmpty() || ev.Result.IsComposite() ||
		ev.Result.Matches() != h.result.Matches()
	h.rect = ev.Snapshot.Rect
	h.result = ev.Result
	if ev.Result.Matches() {
		h.state = Matched
	} else {
		h.state = NotMatched
	}
	if !changed {
		return
	}
	tracer().Debugf("%s: %q -> %s", h.target, h.query.Source(), ev.Result)
	c := Change{ResizeRecord: *h.rect, Result: ev.Result, Cause: ev.Cause}
	for _, l := range append([]listener(nil), h.listeners...) {
		if h.disposed {
			return
		}
		l.fn(c)
	}
}
