package query

import (
	"strings"

	"github.com/npillmayer/cquery/core"
)

// varsCallback is called for every property operand of a query, together
// with the raw literal it is compared to ("" for bare properties).
type varsCallback func(name string, operand string)

// compile parses a query string into a fresh Query. It does not consult
// the cache.
func compile(source string) (*Query, error) {
	s := normalize(source)
	var q *Query
	var err error
	if strings.HasPrefix(s, "{") {
		q, err = parseComposite(s)
	} else {
		q, err = parseFlat(s)
	}
	if err != nil {
		tracer().Debugf("query %q: %v", source, err)
		return nil, err
	}
	q.source = source
	return q, nil
}

func parseComposite(s string) (*Query, error) {
	end := closingBrace(s)
	if end < 0 {
		return nil, core.Error(core.EINVALID, "unterminated composite query %q", s)
	}
	q := &Query{composite: true, meta: newMeta()}
	ids := make(map[string]bool)
	for _, m := range splitMembers(s[1:end]) {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		colon := strings.IndexByte(m, ':')
		if colon < 0 {
			return nil, core.Error(core.EINVALID, "composite member without id: %q", m)
		}
		id := strings.TrimSpace(m[:colon])
		if !isIdent(id) {
			return nil, core.Error(core.EINVALID, "invalid composite member id %q", id)
		}
		if ids[id] {
			return nil, core.Error(core.EDUPLICATE, "duplicate composite member %q", id)
		}
		ids[id] = true
		sub, err := parseFlat(strings.TrimSpace(m[colon+1:]))
		if err != nil {
			return nil, err
		}
		sub.source = strings.TrimSpace(m[colon+1:])
		if err = q.meta.merge(sub.meta); err != nil {
			return nil, err
		}
		q.members = append(q.members, Member{ID: id, Query: sub})
	}
	rest := strings.TrimSpace(s[end+1:])
	if rest == "" {
		return q, nil
	}
	if !strings.HasPrefix(rest, "using ") {
		return nil, core.Error(core.EINVALID, "unexpected %q after composite query", rest)
	}
	tail, err := parseFlat(rest)
	if err != nil {
		return nil, err
	}
	if len(tail.terms) > 0 {
		return nil, core.Error(core.EINVALID, "unexpected expression after composite query")
	}
	return q, q.meta.merge(tail.meta)
}

// parseFlat parses a flat expression list with an optional `using` clause.
func parseFlat(s string) (*Query, error) {
	q := &Query{meta: newMeta()}
	terms, err := parseTerms(s, q.meta, true)
	if err != nil {
		return nil, err
	}
	q.terms = terms
	return q, nil
}

// parseTerms parses a list of expressions joined by connectives. Once a
// `using` token has been seen, every remaining token is an argument.
func parseTerms(s string, meta *Meta, argsAllowed bool) ([]Term, error) {
	tokens, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	var terms []Term
	report := meta.addVar
	op, dangling, argMode := And, false, false
	for _, tok := range tokens {
		switch tok.kind {
		case tokAnd, tokOr:
			if dangling {
				return nil, core.Error(core.EINVALID, "missing expression before %q in %q", tok.text, s)
			}
			if tok.kind == tokOr {
				op = Or
			} else {
				op = And
			}
			dangling = len(terms) > 0 || argMode
		case tokUsing:
			if !argsAllowed {
				return nil, core.Error(core.EINVALID, "'using' not allowed in group %q", s)
			}
			if dangling {
				return nil, core.Error(core.EINVALID, "missing expression before 'using' in %q", s)
			}
			argMode = true
		case tokExpr:
			dangling = false
			if argMode {
				if err = parseArg(tok.text, meta); err != nil {
					return nil, err
				}
				continue
			}
			expr, err := parseExpr(tok.text, meta, report)
			if err != nil {
				return nil, err
			}
			terms = append(terms, Term{Op: op, Expr: expr})
			op = And
		}
	}
	if dangling {
		return nil, core.Error(core.EINVALID, "query %q ends with a connective", s)
	}
	return terms, nil
}

// parseExpr parses a single expression, in order of precedence: group,
// range, comparison, bare property.
func parseExpr(e string, meta *Meta, report varsCallback) (Expr, error) {
	if strings.HasPrefix(e, "not") {
		if inner := strings.TrimSpace(e[3:]); wrapped(inner) {
			return parseGroup(inner, meta, false)
		}
	}
	if wrapped(e) {
		return parseGroup(e, meta, true)
	}
	operands, ops := splitRelational(e)
	for _, o := range operands {
		if o == "" {
			return nil, core.Error(core.EINVALID, "missing operand in %q", e)
		}
	}
	switch len(ops) {
	case 0:
		if !isIdent(e) {
			return nil, core.Error(core.EINVALID, "not a property name: %q", e)
		}
		report(e, "")
		return &Bool{Subject: PropertyFor(e), isTruthy: true}, nil
	case 1:
		return parseComparison(operands[0], ops[0], operands[1], report)
	case 2:
		return parseRange(operands, ops, report)
	}
	return nil, core.Error(core.EINVALID, "too many relational operators in %q", e)
}

// parseGroup parses a parenthesized expression list. A group of a single
// expression collapses into that expression.
func parseGroup(e string, meta *Meta, truthy bool) (Expr, error) {
	terms, err := parseTerms(e[1:len(e)-1], meta, false)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, core.Error(core.EINVALID, "empty group %q", e)
	}
	if len(terms) == 1 {
		x := terms[0].Expr
		x.negate(truthy)
		return x, nil
	}
	return &Group{Terms: terms, isTruthy: truthy}, nil
}

func parseComparison(a, op, b string, report varsCallback) (Expr, error) {
	rel := relationFor(op)
	if !isIdent(a) {
		if !isIdent(b) {
			return nil, core.Error(core.EINVALID, "no property in '%s %s %s'", a, op, b)
		}
		a, b, rel = b, a, rel.inverse()
	}
	name := a
	if rel == Eq {
		if strings.HasPrefix(name, "min-") {
			name, rel = name[4:], Ge
		} else if strings.HasPrefix(name, "max-") {
			name, rel = name[4:], Le
		}
	}
	lit, err := parseLiteral(b)
	if err != nil {
		return nil, err
	}
	report(name, b)
	return &Comparison{Subject: PropertyFor(name), Rel: rel, Operand: lit, isTruthy: true}, nil
}

func parseRange(operands []string, ops []string, report varsCallback) (Expr, error) {
	b1, a, b2 := operands[0], operands[1], operands[2]
	if !isIdent(a) {
		return nil, core.Error(core.EINVALID, "no property in range '%s'", strings.Join(operands, " "))
	}
	for _, op := range ops {
		if op == ":" || op == "=" {
			return nil, core.Error(core.EINVALID, "equality in range expression around %q", a)
		}
	}
	lower, err := parseLiteral(b1)
	if err != nil {
		return nil, err
	}
	upper, err := parseLiteral(b2)
	if err != nil {
		return nil, err
	}
	report(a, b1)
	report(a, b2)
	return &Range{
		Subject:  PropertyFor(a),
		Lower:    Bound{Rel: relationFor(ops[0]).inverse(), Operand: lower},
		Upper:    Bound{Rel: relationFor(ops[1]), Operand: upper},
		isTruthy: true,
	}, nil
}

// parseArg parses an argument. Arguments read like expressions: `key: value`,
// `key = value`, a comparison like `key > value`, or a bare `key`, which has
// value "true". Only the operands are kept.
func parseArg(a string, meta *Meta) error {
	key, value := a, "true"
	operands, ops := splitRelational(a)
	switch len(ops) {
	case 0:
	case 1:
		key, value = operands[0], operands[1]
	default:
		return core.Error(core.EINVALID, "malformed argument %q", a)
	}
	if !isIdent(key) || value == "" {
		return core.Error(core.EINVALID, "malformed argument %q", a)
	}
	return meta.addArg(key, value)
}
