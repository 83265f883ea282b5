package option

import (
	"errors"
	"math"
	"strconv"
)

var ErrNoSuchMatchPattern = errors.New("no such match pattern")
var ErrCannotMatchUnsetValue = errors.New("cannot match unset value")
var ErrCannotMatchValue = errors.New("cannot match value")

type MaybeOption int

const (
	None MaybeOption = iota
	Some
	Error
)

// Maybe is a type used for matching of optional types.
// It will match `Some` if a value is set, `None` if it is unset, or `Error`
// if an error occurs.
type Maybe map[MaybeOption]interface{}

// Of is a type used for matching of optional types.
// It will first try to match concrete values, and in case of no match will
// then try a Maybe match.
type Of map[interface{}]interface{}

// Type is a type for optional values.
type Type interface {
	Match(choices interface{}) (interface{}, error)
	Equals(other interface{}) bool
	IsNone() bool
}

// Match matches o against a set of choices, which must be of type Of or
// Maybe. Values of a choice map are either plain values or functions
// computing the result from o:
//
//	func(interface{}) (interface{}, error)
//	func(interface{}, MaybeOption) (interface{}, error)
//
// Other choice types yield ErrNoSuchMatchPattern.
func Match(o Type, choices interface{}) (value interface{}, err error) {
	switch c := choices.(type) {
	case Of:
		return c.Match(o)
	case Maybe:
		return c.Match(o)
	}
	return nil, ErrNoSuchMatchPattern
}

// Match tries the concrete keys of of first, then falls back to Some.
// An unset o matches None only. A failing choice is handed to the Error
// label, if present.
func (of Of) Match(o Type) (interface{}, error) {
	if o.IsNone() {
		return choose(of[None], o, None, ErrCannotMatchUnsetValue, nil)
	}
	for k, c := range of {
		if _, label := k.(MaybeOption); !label && o.Equals(k) {
			return choose(c, o, Some, ErrCannotMatchValue, of[Error])
		}
	}
	return choose(of[Some], o, Some, ErrCannotMatchValue, of[Error])
}

// Match selects None or Some, depending on whether o is set.
func (maybe Maybe) Match(o Type) (interface{}, error) {
	if o.IsNone() {
		return choose(maybe[None], o, None, ErrCannotMatchUnsetValue, nil)
	}
	return choose(maybe[Some], o, Some, ErrCannotMatchValue, maybe[Error])
}

// choose applies choice c to o. A nil choice yields err.
func choose(c interface{}, o Type, label MaybeOption, err error, onError interface{}) (interface{}, error) {
	if c == nil {
		return nil, err
	}
	v, e := apply(c, o, label)
	if e != nil && onError != nil {
		Tracer().Debugf("option match failed: %v", e)
		return apply(onError, o, Error)
	}
	return v, e
}

func apply(c interface{}, o Type, label MaybeOption) (interface{}, error) {
	switch f := c.(type) {
	case func(interface{}, MaybeOption) (interface{}, error):
		return f(o, label)
	case func(interface{}) (interface{}, error):
		return f(o)
	}
	return c, nil
}

// --- Float64T ---------------------------------------------------------------

// Float64T is an option type for float64. NaN is used as an in-band null
// value.
type Float64T float64

// SomeFloat64 creates an optional float64 with an initial value of x.
func SomeFloat64(x float64) Float64T {
	return Float64T(x)
}

// Float64 creates an optional float64 without an initial value.
func Float64() Float64T {
	return Float64T(math.NaN())
}

// Match is part of interface option.Type.
func (o Float64T) Match(choices interface{}) (value interface{}, err error) {
	return Match(o, choices)
}

// Equals is part of interface option.Type.
func (o Float64T) Equals(other interface{}) bool {
	Tracer().Debugf("EQUALS %v ? %v", o, other)
	switch x := other.(type) {
	case float64:
		return float64(o) == x
	case int:
		return float64(o) == float64(x)
	case Float64T:
		return o == x
	}
	return false
}

// Unwrap returns the underlying value, NaN if unset.
func (o Float64T) Unwrap() float64 {
	return float64(o)
}

// IsNone returns true if o is unset.
func (o Float64T) IsNone() bool {
	return math.IsNaN(float64(o))
}

func (o Float64T) String() string {
	if o.IsNone() {
		return "Float64.None"
	}
	return strconv.FormatFloat(float64(o), 'g', -1, 64)
}

var _ Type = Float64T(0)
