package observe

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/cquery/core"
	"github.com/npillmayer/cquery/core/dimen"
	"github.com/npillmayer/cquery/core/parameters"
	"github.com/npillmayer/cquery/engine/frame"
	"github.com/npillmayer/cquery/engine/query"
)

// Cause tells which observation triggered an event.
type Cause uint8

// Causes of events.
const (
	CauseResize       Cause = iota // target resized
	CauseParentResize              // target's offset parent resized
	CauseIntersection              // intersection with a root changed
)

func (c Cause) String() string {
	switch c {
	case CauseResize:
		return "resize"
	case CauseParentResize:
		return "parent-resize"
	case CauseIntersection:
		return "intersection"
	}
	return "unknown"
}

// Event is delivered to subscribers after a query has been evaluated
// against fresh geometry of its target.
type Event struct {
	Target   Element
	Query    *query.Query
	Result   query.Result
	Snapshot frame.Snapshot
	Cause    Cause
}

// Callback is called for every event of a subscription.
type Callback func(Event)

// Registry multiplexes the physical observers of a host.
//
// A registry is not safe for concurrent use. All of its methods, and all
// of the callbacks it invokes, run on the host's event loop.
type Registry struct {
	host       Host
	params     *parameters.Registers
	resizer    ResizeObserver // created on first use
	roots      map[Element]*rootEntry
	rootOrder  []Element
	targets    map[Element]*targetState
	thresholds []float64
}

// rootEntry is the physical intersection observer for a root, together
// with the per-target query buckets it feeds.
type rootEntry struct {
	root     Element
	observer IntersectionObserver
	targets  *linkedhashmap.Map // Element -> *linkedhashmap.Map (*query.Query -> *bucket)
}

// targetState is the geometry last seen for a target.
type targetState struct {
	target        Element
	rect          *frame.ResizeRecord
	parentRect    *frame.ResizeRecord
	intersections map[Element]*frame.IntersectionRecord
	resize        *linkedhashmap.Map // *query.Query -> *bucket
	roots         int                // number of roots observing the target
	parent        Element            // linked offset parent
	parentLinks   int
	parentWatch   *Subscription
}

// bucket groups the subscribers of a query on a target. evalRoot is the
// root whose intersection record the query reads.
type bucket struct {
	query    *query.Query
	evalRoot Element
	subs     []*Subscription
}

// NewRegistry creates a registry on top of a host. If params is nil,
// default engine parameters are used.
func NewRegistry(host Host, params *parameters.Registers) *Registry {
	if params == nil {
		params = parameters.NewRegisters()
	}
	return &Registry{
		host:       host,
		params:     params,
		roots:      make(map[Element]*rootEntry),
		targets:    make(map[Element]*targetState),
		thresholds: SynthesizeThresholds(params.N(parameters.P_THRESHOLD_STEPS)),
	}
}

// Host returns the host of r.
func (r *Registry) Host() Host {
	return r.host
}

// Targets returns the number of targets r keeps state for.
func (r *Registry) Targets() int {
	return len(r.targets)
}

// Roots returns the intersection roots r currently observes, in order of
// first use.
func (r *Registry) Roots() []Element {
	return append([]Element(nil), r.rootOrder...)
}

// Rect returns the last resize record seen for a target, or nil.
func (r *Registry) Rect(target Element) *frame.ResizeRecord {
	if st := r.targets[target]; st != nil {
		return st.rect
	}
	return nil
}

// --- Subscriptions ---------------------------------------------------------

// Subscription is the registration of a callback for a query on a target.
type Subscription struct {
	reg        *Registry
	target     Element
	query      *query.Query
	cb         Callback
	root       Element // intersection root, if the query has intersection properties
	parentRoot Element // offset parent observed for moves
	resize     bool
	parent     bool
	thresholds []float64
	band       int
	cancelled  bool
}

// Target returns the observed element.
func (s *Subscription) Target() Element { return s.target }

// Query returns the subscribed query.
func (s *Subscription) Query() *query.Query { return s.query }

// Root returns the intersection root of s, or nil.
func (s *Subscription) Root() Element { return s.root }

// Cancelled is true after Cancel has been called.
func (s *Subscription) Cancelled() bool { return s.cancelled }

// Snapshot returns the geometry currently known for the subscription's
// query. ok is false as long as no rect of the target has been seen.
func (s *Subscription) Snapshot() (snap frame.Snapshot, ok bool) {
	st := s.reg.targets[s.target]
	if st == nil || s.cancelled {
		return frame.Snapshot{}, false
	}
	snap = st.snapshot(s.root)
	return snap, snap.Rect != nil
}

// Subscribe registers a callback for query q on a target. Depending on the
// properties q reads, the target is added to the resize observer, to the
// intersection observer of q's root, and to the intersection observer of
// its offset parent. The offset parent itself is observed for resizes.
//
// Physical observers deliver initial observations only for targets they
// did not observe before. Clients may consult Snapshot for the geometry
// already known.
func (r *Registry) Subscribe(target Element, q *query.Query, cb Callback) (*Subscription, error) {
	if target == nil {
		return nil, core.Error(core.EINVALID, "cannot observe nil element")
	}
	if q == nil || cb == nil {
		return nil, core.Error(core.EINVALID, "subscription needs a query and a callback")
	}
	needs := q.Meta().Needs()
	sub := &Subscription{
		reg:        r,
		target:     target,
		query:      q,
		cb:         cb,
		thresholds: q.Meta().IntersectionThresholds(),
		band:       -1,
	}
	st := r.state(target)
	if needs.Intersection {
		sub.root = r.rootFor(target, q.Meta().Root())
		r.addIntersection(sub.root, st, sub, sub.root)
	}
	if needs.Resize {
		sub.resize = true
		r.addResize(st, sub)
		if needs.OffsetParent {
			sub.parent = true
			r.linkParent(st)
			p := target.OffsetParent()
			if p != nil && !(needs.Intersection && sub.root == p) {
				sub.parentRoot = p
				r.addIntersection(p, st, sub, sub.root)
			}
		}
	}
	tracer().Debugf("subscribed %q on %s", q.Source(), target)
	return sub, nil
}

// ObserveRaw subscribes to the resize records of an element, using the
// empty query.
func (r *Registry) ObserveRaw(target Element, cb Callback) (*Subscription, error) {
	q, _ := query.Parse("")
	return r.Subscribe(target, q, cb)
}

// Cancel removes s from all observation buckets. Physical observations no
// longer needed are released: a target without buckets is unobserved, and
// an intersection observer without targets is disconnected. The resize
// observer is kept.
func (s *Subscription) Cancel() {
	if s.cancelled {
		return
	}
	s.cancelled = true
	r := s.reg
	st := r.targets[s.target]
	if st == nil {
		return
	}
	if s.resize {
		r.removeResize(st, s)
	}
	if s.root != nil {
		r.removeIntersection(s.root, st, s)
	}
	if s.parentRoot != nil {
		r.removeIntersection(s.parentRoot, st, s)
	}
	if s.parent {
		r.unlinkParent(st)
	}
	r.gc(st)
	tracer().Debugf("cancelled %q on %s", s.query.Source(), s.target)
}

func (r *Registry) state(target Element) *targetState {
	st := r.targets[target]
	if st == nil {
		st = &targetState{
			target:        target,
			intersections: make(map[Element]*frame.IntersectionRecord),
			resize:        linkedhashmap.New(),
		}
		r.targets[target] = st
	}
	return st
}

func (r *Registry) gc(st *targetState) {
	if st.resize.Empty() && st.roots == 0 && st.parentLinks == 0 {
		delete(r.targets, st.target)
	}
}

// rootFor resolves an intersection root policy for a target. Targets
// without the requested ancestor intersect with the document.
func (r *Registry) rootFor(target Element, policy string) Element {
	if policy == "" {
		policy = r.params.S(parameters.P_INTERSECTION_ROOT)
	}
	var root Element
	switch policy {
	case parameters.RootOffsetParent:
		root = target.OffsetParent()
	case parameters.RootScrollParent:
		root = target.ScrollParent()
	}
	if root == nil {
		return r.host.Document()
	}
	return root
}

func (st *targetState) snapshot(evalRoot Element) frame.Snapshot {
	s := frame.Snapshot{Rect: st.rect, OffsetParent: st.parentRect}
	if evalRoot != nil {
		s.Intersection = st.intersections[evalRoot]
	}
	return s
}

func addToBucket(m *linkedhashmap.Map, sub *Subscription, evalRoot Element) {
	if v, ok := m.Get(sub.query); ok {
		b := v.(*bucket)
		b.subs = append(b.subs, sub)
		return
	}
	m.Put(sub.query, &bucket{query: sub.query, evalRoot: evalRoot, subs: []*Subscription{sub}})
}

// removeFromBucket removes sub and drops the bucket if it runs empty.
func removeFromBucket(m *linkedhashmap.Map, sub *Subscription) {
	v, ok := m.Get(sub.query)
	if !ok {
		return
	}
	b := v.(*bucket)
	subs := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s != sub {
			subs = append(subs, s)
		}
	}
	if len(subs) == 0 {
		m.Remove(sub.query)
		return
	}
	b.subs = subs
}

func buckets(m *linkedhashmap.Map) []*bucket {
	vals := m.Values()
	bs := make([]*bucket, len(vals))
	for i, v := range vals {
		bs[i] = v.(*bucket)
	}
	return bs
}

// --- Resize observation ----------------------------------------------------

func (r *Registry) addResize(st *targetState, sub *Subscription) {
	if r.resizer == nil {
		r.resizer = r.host.NewResizeObserver(r.onResize)
	}
	if st.resize.Empty() {
		r.resizer.Observe(st.target)
	}
	addToBucket(st.resize, sub, sub.root)
}

func (r *Registry) removeResize(st *targetState, sub *Subscription) {
	removeFromBucket(st.resize, sub)
	if st.resize.Empty() && r.resizer != nil {
		r.resizer.Unobserve(st.target)
	}
}

// onResize applies a whole batch to the targets' state before any bucket
// is evaluated, so that a target and its offset parent resized together
// are seen together.
func (r *Registry) onResize(entries []ResizeEntry) {
	changed := make([]*targetState, 0, len(entries))
	for _, e := range entries {
		st := r.targets[e.Target]
		if st == nil || st.resize.Empty() {
			continue
		}
		rec := e.Record
		st.rect = &rec
		changed = append(changed, st)
	}
	for _, st := range changed {
		if st.parent != nil && st.parentRect == nil {
			st.parentRect = r.Rect(st.parent)
		}
	}
	for _, st := range changed {
		r.dispatch(st, st.resize, nil, CauseResize)
	}
}

// linkParent makes the offset parent's rect available to a target. The
// parent is observed with the empty query; its resizes re-evaluate all
// resize buckets of the target.
func (r *Registry) linkParent(st *targetState) {
	st.parentLinks++
	if st.parentWatch != nil {
		return
	}
	p := st.target.OffsetParent()
	if p == nil {
		return
	}
	st.parent = p
	if prect := r.Rect(p); prect != nil {
		st.parentRect = prect
	}
	st.parentWatch, _ = r.ObserveRaw(p, func(ev Event) {
		st.parentRect = ev.Snapshot.Rect
		r.dispatch(st, st.resize, nil, CauseParentResize)
	})
}

func (r *Registry) unlinkParent(st *targetState) {
	if st.parentLinks == 0 {
		return
	}
	st.parentLinks--
	if st.parentLinks > 0 || st.parentWatch == nil {
		return
	}
	w := st.parentWatch
	st.parentWatch, st.parent, st.parentRect = nil, nil, nil
	w.Cancel()
}

// --- Intersection observation ----------------------------------------------

func (r *Registry) rootEntry(root Element) *rootEntry {
	if e := r.roots[root]; e != nil {
		return e
	}
	e := &rootEntry{root: root, targets: linkedhashmap.New()}
	opts := IntersectionOptions{Thresholds: r.thresholds}
	if root != r.host.Document() {
		opts.Root = root
	}
	e.observer = r.host.NewIntersectionObserver(func(entries []IntersectionEntry) {
		r.onIntersection(e, entries)
	}, opts)
	r.roots[root] = e
	r.rootOrder = append(r.rootOrder, root)
	tracer().Infof("observing intersections with root %s", root)
	return e
}

func (r *Registry) addIntersection(root Element, st *targetState, sub *Subscription, evalRoot Element) {
	e := r.rootEntry(root)
	var m *linkedhashmap.Map
	if v, ok := e.targets.Get(st.target); ok {
		m = v.(*linkedhashmap.Map)
	} else {
		m = linkedhashmap.New()
		e.targets.Put(st.target, m)
		st.roots++
		e.observer.Observe(st.target)
	}
	addToBucket(m, sub, evalRoot)
}

func (r *Registry) removeIntersection(root Element, st *targetState, sub *Subscription) {
	e := r.roots[root]
	if e == nil {
		return
	}
	v, ok := e.targets.Get(st.target)
	if !ok {
		return
	}
	m := v.(*linkedhashmap.Map)
	removeFromBucket(m, sub)
	if !m.Empty() {
		return
	}
	e.targets.Remove(st.target)
	e.observer.Unobserve(st.target)
	delete(st.intersections, root)
	st.roots--
	if e.targets.Empty() {
		e.observer.Disconnect()
		delete(r.roots, root)
		for i, x := range r.rootOrder {
			if x == root {
				r.rootOrder = append(r.rootOrder[:i:i], r.rootOrder[i+1:]...)
				break
			}
		}
		tracer().Infof("released intersection observer for root %s", root)
	}
}

// onIntersection refreshes a target's geometry from an intersection
// record. Intersection records see moves, which resize records do not:
// the target's bounds are updated, and if the root is the target's offset
// parent, so are the parent's bounds.
func (r *Registry) onIntersection(e *rootEntry, entries []IntersectionEntry) {
	for _, entry := range entries {
		v, ok := e.targets.Get(entry.Target)
		st := r.targets[entry.Target]
		if !ok || st == nil {
			continue
		}
		rec := entry.Record
		st.rect = withBounds(st.rect, rec.BoundingClientRect)
		if e.root == entry.Target.OffsetParent() {
			st.parentRect = withBounds(st.parentRect, rec.RootBounds)
		}
		st.intersections[e.root] = &rec
		r.dispatch(st, v.(*linkedhashmap.Map), e.root, CauseIntersection)
	}
}

func withBounds(rec *frame.ResizeRecord, bounds dimen.Rect) *frame.ResizeRecord {
	if rec == nil {
		fresh := frame.RecordFromBounds(bounds)
		return &fresh
	}
	moved := *rec
	moved.Bounds = bounds
	return &moved
}

// --- Dispatch --------------------------------------------------------------

// dispatch evaluates every bucket of a target once and hands the result to
// the bucket's subscribers. Detached targets keep their state updated but
// do not dispatch. Buckets reading the offset parent wait until the
// parent's rect is known. root is the intersection root which triggered
// the dispatch, if any.
func (r *Registry) dispatch(st *targetState, m *linkedhashmap.Map, root Element, cause Cause) {
	if !st.target.IsConnected() {
		tracer().Debugf("%s is detached, not dispatching %s", st.target, cause)
		return
	}
	filter := r.params.B(parameters.P_THRESHOLD_FILTER)
	for _, b := range buckets(m) {
		if st.parent != nil && st.parentRect == nil && b.query.Meta().Needs().OffsetParent {
			tracer().Debugf("offset parent of %s not yet known, holding %q", st.target, b.query.Source())
			continue
		}
		snap := st.snapshot(b.evalRoot)
		ev := Event{
			Target:   st.target,
			Query:    b.query,
			Result:   b.query.Eval(snap),
			Snapshot: snap,
			Cause:    cause,
		}
		for _, sub := range append([]*Subscription(nil), b.subs...) {
			if sub.cancelled {
				continue
			}
			if filter && root != nil && root == sub.root && !sub.crossed(snap.Intersection) {
				continue
			}
			sub.cb(ev)
		}
	}
}

// crossed updates the threshold band of a subscription and tells whether
// the subscriber should see the intersection record. Subscriptions without
// explicit thresholds see every record; the first record always passes.
func (s *Subscription) crossed(ir *frame.IntersectionRecord) bool {
	if len(s.thresholds) == 0 || ir == nil {
		return true
	}
	band := bandOf(s.thresholds, ir.IntersectionRatio, ir.IsIntersecting)
	if band == s.band {
		return false
	}
	s.band = band
	return true
}
