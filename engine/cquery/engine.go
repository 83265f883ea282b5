package cquery

import (
	"github.com/npillmayer/cquery/core"
	"github.com/npillmayer/cquery/core/parameters"
	"github.com/npillmayer/cquery/engine/observe"
	"github.com/npillmayer/cquery/engine/query"
)

// Engine evaluates container queries for the elements of a host.
// An engine is not safe for concurrent use; it lives on the host's event
// loop.
type Engine struct {
	params   *parameters.Registers
	cache    *query.Cache
	registry *observe.Registry
	handles  []*QueryHandle
}

// Option configures an engine.
type Option func(*Engine)

// WithParams sets the engine parameters.
func WithParams(params *parameters.Registers) Option {
	return func(e *Engine) {
		e.params = params
	}
}

// WithCache sets the query cache. The default is query.DefaultCache().
func WithCache(cache *query.Cache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// New creates an engine for a host.
func New(host observe.Host, opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.params == nil {
		e.params = parameters.NewRegisters()
	}
	if e.cache == nil {
		e.cache = query.DefaultCache()
	}
	e.registry = observe.NewRegistry(host, e.params)
	return e
}

// Registry returns the observation registry of e.
func (e *Engine) Registry() *observe.Registry {
	return e.registry
}

// Cache returns the query cache of e.
func (e *Engine) Cache() *query.Cache {
	return e.cache
}

// Handles returns the live handles of e, in order of creation.
func (e *Engine) Handles() []*QueryHandle {
	return append([]*QueryHandle(nil), e.handles...)
}

// MatchRect parses a query and subscribes it for a target element.
// Parse errors are returned synchronously, and no handle is created.
//
// The handle is updated on the next physical observation of the target.
// If immediate is set and geometry of the target is already known, the
// handle is evaluated right away.
func (e *Engine) MatchRect(target observe.Element, q string, immediate bool) (*QueryHandle, error) {
	if target == nil {
		return nil, core.Error(core.EINVALID, "cannot match nil element")
	}
	parsed, err := e.cache.Parse(q)
	if err != nil {
		return nil, err
	}
	h := &QueryHandle{engine: e, target: target, query: parsed}
	h.sub, err = e.registry.Subscribe(target, parsed, h.update)
	if err != nil {
		return nil, err
	}
	e.handles = append(e.handles, h)
	tracer().Debugf("match %s against %q", target, q)
	if immediate {
		if snap, ok := h.sub.Snapshot(); ok {
			h.update(observe.Event{
				Target:   target,
				Query:    parsed,
				Result:   parsed.Eval(snap),
				Snapshot: snap,
			})
		}
	}
	return h, nil
}

func (e *Engine) release(h *QueryHandle) {
	for i, x := range e.handles {
		if x == h {
			e.handles = append(e.handles[:i:i], e.handles[i+1:]...)
			return
		}
	}
}
