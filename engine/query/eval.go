package query

import (
	"github.com/npillmayer/cquery/engine/frame"
)

// Eval evaluates a query against a snapshot of observed geometry.
//
// The empty query is always true. A flat query folds its expression list
// from left to right, evaluating every expression. A composite query
// evaluates each member independently; the result holds one boolean per
// member id.
//
// Properties which cannot be read from the snapshot resolve to NaN and let
// comparisons fail; evaluation itself never fails.
func (q *Query) Eval(s frame.Snapshot) Result {
	if !q.composite {
		return BoolResult(fold(q.terms, s))
	}
	r := Result{
		composite: true,
		ids:       make([]string, len(q.members)),
		values:    make(map[string]bool, len(q.members)),
	}
	for i, m := range q.members {
		v := fold(m.Query.terms, s)
		r.ids[i] = m.ID
		r.values[m.ID] = v
		r.matches = r.matches || v
	}
	return r
}

// Evaluate is a shortcut for evaluating q against loose records, any of
// which may be nil.
func Evaluate(q *Query, rect, offsetParent *frame.ResizeRecord, ir *frame.IntersectionRecord) Result {
	return q.Eval(frame.Snapshot{Rect: rect, OffsetParent: offsetParent, Intersection: ir})
}
