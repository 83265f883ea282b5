package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/cquery/core/dimen"
	"github.com/npillmayer/cquery/core/percent"
	"github.com/npillmayer/cquery/engine/frame"
)

// --- Literals --------------------------------------------------------------

type literalKind uint8

const (
	litNumber literalKind = iota // plain number or pixels
	litBool
	litPercent
)

// Literal is the right-hand operand of an expression.
type Literal struct {
	raw  string
	kind literalKind
	num  float64
}

func parseLiteral(s string) (Literal, error) {
	switch s {
	case "true":
		return Literal{raw: s, kind: litBool, num: 1}, nil
	case "false":
		return Literal{raw: s, kind: litBool, num: 0}, nil
	}
	l, err := dimen.ParseLength(s)
	if err != nil {
		return Literal{}, err
	}
	if l.Percent {
		return Literal{raw: s, kind: litPercent, num: l.Value}, nil
	}
	return Literal{raw: s, kind: litNumber, num: l.Value}, nil
}

// IsPercent is true for percentage literals.
func (l Literal) IsPercent() bool {
	return l.kind == litPercent
}

// resolve returns the value of l in the context of property p.
func (l Literal) resolve(p Property, s frame.Snapshot) float64 {
	if l.kind == litPercent {
		return percent.FromFloat(l.num).Of(p.reference(s))
	}
	return l.num
}

func (l Literal) String() string {
	return l.raw
}

// --- Relations -------------------------------------------------------------

// Relation is a relational operator.
type Relation uint8

// Relational operators. Boolish is true iff both operands are truthy or
// both are falsy.
const (
	Eq Relation = iota
	Le
	Ge
	Lt
	Gt
	Boolish
)

var relationNames = [...]string{"=", "<=", ">=", "<", ">", "boolish"}

func (r Relation) String() string {
	return relationNames[r]
}

func relationFor(op string) Relation {
	switch op {
	case "<=":
		return Le
	case ">=":
		return Ge
	case "<":
		return Lt
	case ">":
		return Gt
	}
	return Eq
}

// inverse mirrors a relation for swapped operands.
func (r Relation) inverse() Relation {
	switch r {
	case Le:
		return Ge
	case Ge:
		return Le
	case Lt:
		return Gt
	case Gt:
		return Lt
	}
	return r
}

func (r Relation) holds(a, b float64) bool {
	switch r {
	case Boolish:
		return truthy(a) == truthy(b)
	case Le:
		return a <= b
	case Ge:
		return a >= b
	case Lt:
		return a < b
	case Gt:
		return a > b
	}
	return a == b
}

func truthy(x float64) bool {
	return x != 0 && !math.IsNaN(x)
}

// --- Expressions -----------------------------------------------------------

// Expr is a node of a flat expression list. Every expression carries a
// truthy flag; negated expressions (`not(…)`) have it set to false.
type Expr interface {
	Eval(s frame.Snapshot) bool
	Truthy() bool
	negate(truthy bool)
	String() string
}

// Comparison is an expression `A op B`.
type Comparison struct {
	Subject  Property
	Rel      Relation
	Operand  Literal
	isTruthy bool
}

// Eval evaluates a comparison against a snapshot.
func (c *Comparison) Eval(s frame.Snapshot) bool {
	a := c.Subject.Read(s)
	b := c.Operand.resolve(c.Subject, s)
	return c.Rel.holds(a, b) == c.isTruthy
}

// Truthy is false for negated comparisons.
func (c *Comparison) Truthy() bool { return c.isTruthy }

func (c *Comparison) negate(t bool) { c.isTruthy = c.isTruthy == t }

func (c *Comparison) String() string {
	return wrapNot(fmt.Sprintf("%s %s %s", c.Subject, c.Rel, c.Operand), c.isTruthy)
}

// Bound is one side of a range expression.
type Bound struct {
	Rel     Relation
	Operand Literal
}

// Range is a double-bounded expression `B1 op1 A op2 B2`. It is evaluated
// as the conjunction of `A inverse(op1) B1` and `A op2 B2`.
type Range struct {
	Subject      Property
	Lower, Upper Bound
	isTruthy     bool
}

// Eval evaluates a range against a snapshot. Both bounds are always evaluated.
func (r *Range) Eval(s frame.Snapshot) bool {
	a := r.Subject.Read(s)
	lower := r.Lower.Rel.holds(a, r.Lower.Operand.resolve(r.Subject, s))
	upper := r.Upper.Rel.holds(a, r.Upper.Operand.resolve(r.Subject, s))
	return (lower && upper) == r.isTruthy
}

// Truthy is false for negated ranges.
func (r *Range) Truthy() bool { return r.isTruthy }

func (r *Range) negate(t bool) { r.isTruthy = r.isTruthy == t }

func (r *Range) String() string {
	return wrapNot(fmt.Sprintf("%s %s %s %s %s", r.Lower.Operand, r.Lower.Rel.inverse(),
		r.Subject, r.Upper.Rel, r.Upper.Operand), r.isTruthy)
}

// Bool is a bare property name, true if the property is truthy.
type Bool struct {
	Subject  Property
	isTruthy bool
}

// Eval evaluates a boolish property against a snapshot.
func (b *Bool) Eval(s frame.Snapshot) bool {
	return Boolish.holds(b.Subject.Read(s), 1) == b.isTruthy
}

// Truthy is false for negated properties.
func (b *Bool) Truthy() bool { return b.isTruthy }

func (b *Bool) negate(t bool) { b.isTruthy = b.isTruthy == t }

func (b *Bool) String() string {
	return wrapNot(b.Subject.Name, b.isTruthy)
}

// Group is a parenthesized list of terms.
type Group struct {
	Terms    []Term
	isTruthy bool
}

// Eval folds the group's terms and applies negation.
func (g *Group) Eval(s frame.Snapshot) bool {
	return fold(g.Terms, s) == g.isTruthy
}

// Truthy is false for negated groups.
func (g *Group) Truthy() bool { return g.isTruthy }

func (g *Group) negate(t bool) { g.isTruthy = g.isTruthy == t }

func (g *Group) String() string {
	s := "(" + termsString(g.Terms) + ")"
	if !g.isTruthy {
		return "not" + s
	}
	return s
}

func wrapNot(s string, truthy bool) string {
	if truthy {
		return s
	}
	return "not(" + s + ")"
}

// --- Terms -----------------------------------------------------------------

// Connective joins an expression to the result of its predecessors.
type Connective uint8

// Connectives
const (
	And Connective = iota
	Or
)

func (c Connective) String() string {
	if c == Or {
		return "or"
	}
	return "and"
}

// Term is an entry of a flat expression list.
type Term struct {
	Op   Connective
	Expr Expr
}

// fold combines terms from left to right, without short-circuiting.
func fold(terms []Term, s frame.Snapshot) bool {
	result := true
	for _, t := range terms {
		v := t.Expr.Eval(s)
		if t.Op == Or {
			result = result || v
		} else {
			result = result && v
		}
	}
	return result
}

func termsString(terms []Term) string {
	var b strings.Builder
	for i, t := range terms {
		if i > 0 {
			b.WriteString(" " + t.Op.String() + " ")
		}
		b.WriteString(t.Expr.String())
	}
	return b.String()
}

// --- Queries ---------------------------------------------------------------

// Query is a compiled container query. It is either flat, i.e. a list of
// terms, or composite, i.e. a list of named sub-queries.
// Queries are read-only after construction and may be shared freely.
type Query struct {
	source    string
	terms     []Term
	members   []Member
	composite bool
	meta      *Meta
}

// Member is a named sub-query of a composite query.
type Member struct {
	ID    string
	Query *Query
}

// Source returns the literal string q has been compiled from.
func (q *Query) Source() string { return q.source }

// Meta returns the metadata of q.
func (q *Query) Meta() *Meta { return q.meta }

// IsComposite is true for queries of the form `{id: …; id2: …}`.
func (q *Query) IsComposite() bool { return q.composite }

// IsEmpty is true for a query without any constraint.
func (q *Query) IsEmpty() bool { return !q.composite && len(q.terms) == 0 }

// Terms returns the expression list of a flat query.
func (q *Query) Terms() []Term { return q.terms }

// Members returns the sub-queries of a composite query.
func (q *Query) Members() []Member { return q.members }

func (q *Query) String() string {
	if !q.composite {
		return termsString(q.terms)
	}
	parts := make([]string, len(q.members))
	for i, m := range q.members {
		parts[i] = m.ID + ": " + m.Query.String()
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

// --- Results ---------------------------------------------------------------

// Result is the outcome of evaluating a query. Flat queries produce a single
// boolean, composite queries a boolean per member.
type Result struct {
	composite bool
	matches   bool
	ids       []string
	values    map[string]bool
}

// BoolResult wraps a boolean into a flat result.
func BoolResult(b bool) Result {
	return Result{matches: b}
}

// IsComposite is true for results of composite queries.
func (r Result) IsComposite() bool { return r.composite }

// Matches returns the boolean of a flat result. For a composite result it
// reports whether any member matches.
func (r Result) Matches() bool { return r.matches }

// Member returns the boolean of a member of a composite result.
func (r Result) Member(id string) (matches bool, ok bool) {
	matches, ok = r.values[id]
	return
}

// IDs returns the member ids of a composite result, in query order.
func (r Result) IDs() []string { return r.ids }

func (r Result) String() string {
	if !r.composite {
		return strconv.FormatBool(r.matches)
	}
	parts := make([]string, len(r.ids))
	for i, id := range r.ids {
		parts[i] = id + ": " + strconv.FormatBool(r.values[id])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
