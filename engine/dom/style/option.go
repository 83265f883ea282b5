package style

import (
	"strings"

	"github.com/npillmayer/cquery/core/dimen"
	"github.com/npillmayer/cquery/core/option"
)

// --- LengthT ---------------------------------------------------------------

// LengthT is an option type for CSS lengths in pixels. Percentages and
// keywords like `auto` are unset lengths.
type LengthT struct {
	option.Float64T
}

// LengthOption returns an optional length from a property value.
// It will never return an error, even with illegal input, but instead will
// then return an unset length.
func LengthOption(p Property) LengthT {
	l, err := dimen.ParseLength(strings.TrimSpace(string(p)))
	if err != nil || l.Percent {
		return LengthT{option.Float64()}
	}
	return LengthT{option.SomeFloat64(l.Value)}
}

// Match is part of interface option.Type.
func (o LengthT) Match(choices interface{}) (value interface{}, err error) {
	return option.Match(o, choices)
}

// Or returns the length, or a default value if it is unset.
func (o LengthT) Or(dflt float64) float64 {
	l, _ := o.Match(option.Maybe{
		option.None: dflt,
		option.Some: func(x interface{}) (interface{}, error) {
			return x.(LengthT).Unwrap(), nil
		},
	})
	return l.(float64)
}

// Sides parses a 1–4 valued shorthand like `padding: 4px 8px`, starting
// at the top and travelling clockwise. Longhands (`padding-top`, …) take
// precedence over the shorthand.
func Sides(styles *Styles, shorthand string, suffix string) [4]float64 {
	var sides [4]float64
	if vals := strings.Fields(string(styles.Get(shorthand))); len(vals) > 0 {
		spread := [...][4]int{{0, 0, 0, 0}, {0, 1, 0, 1}, {0, 1, 2, 1}, {0, 1, 2, 3}}
		for i, j := range spread[minInt(len(vals), 4)-1] {
			sides[i] = LengthOption(Property(vals[j])).Or(0)
		}
	}
	for i, edge := range []string{"top", "right", "bottom", "left"} {
		key := strings.Replace(shorthand, suffix, "-"+edge+suffix, 1)
		if suffix == "" {
			key = shorthand + "-" + edge
		}
		if v := styles.Get(key); v != NullStyle {
			sides[i] = LengthOption(v).Or(0)
		}
	}
	return sides
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// --- PositionT -------------------------------------------------------------

// Position is an enum type for the CSS position property.
type Position uint16

// Enum values for type Position
const (
	PositionUnknown  Position = iota
	PositionStatic            // CSS static (default)
	PositionRelative          // CSS relative
	PositionAbsolute          // CSS absolute
	PositionFixed             // CSS fixed
	PositionSticky            // CSS sticky
)

// PositionT is an option type for CSS positions.
type PositionT struct {
	p Position
}

// SomePosition creates an optional position with an initial value of x.
func SomePosition(x Position) PositionT {
	return PositionT{p: x}
}

// Match is part of interface option.Type.
func (o PositionT) Match(choices interface{}) (value interface{}, err error) {
	return option.Match(o, choices)
}

// Equals is part of interface option.Type.
func (o PositionT) Equals(other interface{}) bool {
	T().Debugf("Position EQUALS %v ? %v", o, other)
	switch p := other.(type) {
	case Position:
		return o.Unwrap() == p
	case string:
		if pp, ok := positionStringMap[p]; ok {
			return o.p == pp
		}
	}
	return false
}

// Unwrap returns the underlying position of o.
func (o PositionT) Unwrap() Position {
	return o.p
}

// IsNone returns true if o is unset.
func (o PositionT) IsNone() bool {
	return o.p == PositionUnknown
}

// IsPositioned is true for any set position other than static.
func (o PositionT) IsPositioned() bool {
	return !o.IsNone() && o.p != PositionStatic
}

func (o PositionT) String() string {
	if p, ok := positionMap[o.p]; ok {
		return p
	}
	return "PositionT.None"
}

var positionMap = map[Position]string{
	PositionStatic:   "static",
	PositionRelative: "relative",
	PositionAbsolute: "absolute",
	PositionFixed:    "fixed",
	PositionSticky:   "sticky",
}

var positionStringMap = map[string]Position{
	"static":   PositionStatic,
	"relative": PositionRelative,
	"absolute": PositionAbsolute,
	"fixed":    PositionFixed,
	"sticky":   PositionSticky,
}

// ParsePosition parses a string and returns an option-type for positions.
// It will never return an error, but rather an unset position in case of illegal input.
func ParsePosition(s string) PositionT {
	if p, ok := positionStringMap[strings.TrimSpace(s)]; ok {
		return SomePosition(p)
	}
	return PositionT{}
}

// PositionOption returns the position of a set of styles.
func PositionOption(styles *Styles) PositionT {
	return ParsePosition(string(styles.Get("position")))
}

// --- OverflowT -------------------------------------------------------------

// Overflow is an enum type for the CSS overflow property.
type Overflow uint16

// Enum values for type Overflow
const (
	OverflowUnknown Overflow = iota
	OverflowVisible          // CSS visible (default)
	OverflowHidden           // CSS hidden
	OverflowClip             // CSS clip
	OverflowScroll           // CSS scroll
	OverflowAuto             // CSS auto
)

// OverflowT is an option type for CSS overflow.
type OverflowT struct {
	o Overflow
}

var overflowStringMap = map[string]Overflow{
	"visible": OverflowVisible,
	"hidden":  OverflowHidden,
	"clip":    OverflowClip,
	"scroll":  OverflowScroll,
	"auto":    OverflowAuto,
}

// Match is part of interface option.Type.
func (o OverflowT) Match(choices interface{}) (value interface{}, err error) {
	return option.Match(o, choices)
}

// Equals is part of interface option.Type.
func (o OverflowT) Equals(other interface{}) bool {
	switch x := other.(type) {
	case Overflow:
		return o.o == x
	case string:
		return o.o == overflowStringMap[x]
	}
	return false
}

// IsNone returns true if o is unset.
func (o OverflowT) IsNone() bool {
	return o.o == OverflowUnknown
}

// Unwrap returns the underlying overflow of o.
func (o OverflowT) Unwrap() Overflow {
	return o.o
}

// Scrolls is true for overflow values creating a scroll container.
func (o OverflowT) Scrolls() bool {
	return o.o == OverflowScroll || o.o == OverflowAuto
}

// ParseOverflow parses a string and returns an option-type for overflow.
func ParseOverflow(s string) OverflowT {
	return OverflowT{o: overflowStringMap[strings.TrimSpace(s)]}
}

// OverflowOption returns the effective overflow of a set of styles.
// `overflow-x` and `overflow-y` take precedence over `overflow` if either
// of them scrolls.
func OverflowOption(styles *Styles) OverflowT {
	ov := ParseOverflow(string(styles.Get("overflow")))
	for _, axis := range []string{"overflow-x", "overflow-y"} {
		if o := ParseOverflow(string(styles.Get(axis))); o.Scrolls() {
			return o
		}
	}
	return ov
}
