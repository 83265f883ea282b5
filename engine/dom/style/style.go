/*
Package style holds the CSS properties of DOM elements relevant for
observing their geometry.

Style declarations are parsed with github.com/aymerick/douceur, from inline
`style` attributes as well as from `<style>` elements. Properties are
handled as plain strings; option types (PositionT, OverflowT, LengthT) give
typed access to those few properties the engine interprets.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/cquery/core"
	"github.com/npillmayer/schuko/tracing"
)

// T traces with key 'cquery.dom'.
func T() tracing.Trace {
	return tracing.Select("cquery.dom")
}

// Property is a raw CSS property value.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

// Styles is a set of CSS properties, the result of a cascade.
type Styles struct {
	props     map[string]Property
	important map[string]bool
}

// NewStyles creates an empty property set.
func NewStyles() *Styles {
	return &Styles{
		props:     make(map[string]Property),
		important: make(map[string]bool),
	}
}

// Get returns the value of a property, or NullStyle.
func (s *Styles) Get(key string) Property {
	if s == nil {
		return NullStyle
	}
	return s.props[key]
}

// Set sets a property value unconditionally.
func (s *Styles) Set(key string, value Property) {
	s.props[key] = value
}

// Apply applies a list of declarations, in order. An important
// declaration cannot be overridden by a non-important one.
func (s *Styles) Apply(decls []*css.Declaration) {
	for _, d := range decls {
		key := strings.ToLower(d.Property)
		if s.important[key] && !d.Important {
			continue
		}
		s.props[key] = Property(strings.TrimSpace(d.Value))
		s.important[key] = d.Important
	}
}

// Keys returns the names of all properties set.
func (s *Styles) Keys() []string {
	keys := make([]string, 0, len(s.props))
	for k := range s.props {
		keys = append(keys, k)
	}
	return keys
}

// ParseInline parses the content of a `style` attribute.
func ParseInline(attr string) ([]*css.Declaration, error) {
	decls, err := parser.ParseDeclarations(attr)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse inline style %q", attr)
	}
	return decls, nil
}

// Rule is a qualified rule of a style sheet.
type Rule struct {
	Selector     string
	Declarations []*css.Declaration
}

// ParseSheet parses the content of a `<style>` element. At-rules are
// skipped.
func ParseSheet(text string) ([]Rule, error) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse style sheet")
	}
	rules := make([]Rule, 0, len(sheet.Rules))
	for _, r := range sheet.Rules {
		if r.Kind != css.QualifiedRule {
			T().Debugf("skipping at-rule %s", r.Name)
			continue
		}
		rules = append(rules, Rule{Selector: r.Prelude, Declarations: r.Declarations})
	}
	return rules, nil
}
