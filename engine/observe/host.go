package observe

import (
	"github.com/npillmayer/cquery/engine/frame"
)

// Element is an element of a host document. Implementations must be
// comparable; registries key their state by element.
type Element interface {
	// OffsetParent returns the nearest positioned ancestor, or nil.
	OffsetParent() Element
	// ScrollParent returns the nearest scrollable ancestor, or nil if
	// the element scrolls with the document.
	ScrollParent() Element
	// IsConnected is false for elements detached from their document.
	IsConnected() bool
	String() string
}

// ResizeEntry is delivered by a resize observer for a target whose size
// changed.
type ResizeEntry struct {
	Target Element
	Record frame.ResizeRecord
}

// IntersectionEntry is delivered by an intersection observer for a target
// whose intersection with the observer's root crossed a threshold.
type IntersectionEntry struct {
	Target Element
	Record frame.IntersectionRecord
}

// ResizeCallback receives the entries of one observation turn.
type ResizeCallback func(entries []ResizeEntry)

// IntersectionCallback receives the entries of one observation turn.
type IntersectionCallback func(entries []IntersectionEntry)

// ResizeObserver is a physical resize observer of a host.
type ResizeObserver interface {
	Observe(target Element)
	Unobserve(target Element)
}

// IntersectionObserver is a physical intersection observer of a host,
// bound to a single root.
type IntersectionObserver interface {
	Observe(target Element)
	Unobserve(target Element)
	Disconnect()
}

// IntersectionOptions configure a physical intersection observer.
// A nil Root is the host's document.
type IntersectionOptions struct {
	Root       Element
	Thresholds []float64
}

// Host is the environment providing physical observers. Callbacks are
// invoked by the host on its event loop, never concurrently.
type Host interface {
	NewResizeObserver(cb ResizeCallback) ResizeObserver
	NewIntersectionObserver(cb IntersectionCallback, opts IntersectionOptions) IntersectionObserver
	// Document returns the element standing for the document (viewport).
	Document() Element
}
