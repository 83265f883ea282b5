package query

import (
	"regexp"
	"strings"

	"github.com/npillmayer/cquery/core"
)

type tokKind uint8

const (
	tokExpr tokKind = iota
	tokAnd
	tokOr
	tokUsing
)

type token struct {
	kind tokKind
	text string
}

var keywords = []struct {
	word string
	kind tokKind
}{
	{" and ", tokAnd},
	{" or ", tokOr},
	{" using ", tokUsing},
}

// tokenize splits a flat query at connectives of parenthesis depth 0.
// Expression tokens are trimmed; empty ones are dropped.
func tokenize(s string) ([]token, error) {
	s = " " + s + " "
	var tokens []token
	emit := func(text string) {
		if text = strings.TrimSpace(text); text != "" {
			tokens = append(tokens, token{kind: tokExpr, text: text})
		}
	}
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '{':
			depth++
		case ')', '}':
			depth--
			if depth < 0 {
				return nil, core.Error(core.EINVALID, "unbalanced parenthesis in %q", strings.TrimSpace(s))
			}
		case ',':
			if depth == 0 {
				emit(s[start:i])
				tokens = append(tokens, token{kind: tokAnd, text: ","})
				start = i + 1
			}
		case ' ':
			if depth > 0 {
				continue
			}
			for _, kw := range keywords {
				if strings.HasPrefix(s[i:], kw.word) {
					if i > start {
						emit(s[start:i])
					}
					tokens = append(tokens, token{kind: kw.kind, text: strings.TrimSpace(kw.word)})
					start = i + len(kw.word)
					i = start - 2 // trailing blank may start the next keyword
					break
				}
			}
		}
	}
	if depth != 0 {
		return nil, core.Error(core.EINVALID, "unbalanced parenthesis in %q", strings.TrimSpace(s))
	}
	emit(s[start:])
	return tokens, nil
}

// splitRelational splits an expression at relational operators outside of
// parentheses. It returns n operands and n-1 operators.
func splitRelational(e string) (operands []string, ops []string) {
	depth, start := 0, 0
	for i := 0; i < len(e); i++ {
		c := e[i]
		switch c {
		case '(':
			depth++
			continue
		case ')':
			depth--
			continue
		}
		if depth > 0 {
			continue
		}
		var op string
		switch {
		case strings.HasPrefix(e[i:], "<="), strings.HasPrefix(e[i:], ">="):
			op = e[i : i+2]
		case c == '<' || c == '>' || c == '=' || c == ':':
			op = e[i : i+1]
		default:
			continue
		}
		operands = append(operands, strings.TrimSpace(e[start:i]))
		ops = append(ops, op)
		start = i + len(op)
		i = start - 1
	}
	operands = append(operands, strings.TrimSpace(e[start:]))
	return
}

// wrapped is true if s is enclosed in one pair of matching parentheses.
func wrapped(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i < len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}

// closingBrace returns the index of the brace matching s[0], or -1.
func closingBrace(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '(':
			depth++
		case '}', ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitMembers splits the body of a composite query at semicolons of depth 0.
func splitMembers(body string) []string {
	var members []string
	depth, start := 0, 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(', '{':
			depth++
		case ')', '}':
			depth--
		case ';':
			if depth == 0 {
				members = append(members, body[start:i])
				start = i + 1
			}
		}
	}
	members = append(members, body[start:])
	return members
}

var identRx = regexp.MustCompile(`^[a-z_][a-z0-9_\-]*$`)

func isIdent(s string) bool {
	return identRx.MatchString(s) && s != "true" && s != "false"
}

var spaceRx = regexp.MustCompile(`\s+`)

// normalize lower-cases a query and collapses white space.
func normalize(s string) string {
	return strings.TrimSpace(spaceRx.ReplaceAllString(strings.ToLower(s), " "))
}
