// Package dimen implements DOM geometry and the lengths used in container queries.
//
/*
BSD License

Copyright (c) 2017–22, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/npillmayer/cquery/core"
)

// Dimensions are CSS pixels, as reported by the browser's observation
// primitives. They are fractional.

// Rect is a rectangle in viewport coordinates, modelled after DOMRectReadOnly.
// Width and Height may be negative, edges are normalized.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// R is a shortcut to create a rectangle.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Top returns the top edge (y for positive height, y + height for negative).
func (r Rect) Top() float64 {
	return math.Min(r.Y, r.Y+r.Height)
}

// Right returns the right edge.
func (r Rect) Right() float64 {
	return math.Max(r.X, r.X+r.Width)
}

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 {
	return math.Max(r.Y, r.Y+r.Height)
}

// Left returns the left edge.
func (r Rect) Left() float64 {
	return math.Min(r.X, r.X+r.Width)
}

// Area returns the absolute area covered by r.
func (r Rect) Area() float64 {
	return math.Abs(r.Width * r.Height)
}

// Shift moves a rectangle along a vector.
func (r Rect) Shift(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Intersect returns the intersection of two rectangles. If they do not
// overlap, ok is false and an empty rectangle is returned.
// Rectangles which merely touch each other do intersect, with an area of 0.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	left := math.Max(r.Left(), other.Left())
	right := math.Min(r.Right(), other.Right())
	top := math.Max(r.Top(), other.Top())
	bottom := math.Min(r.Bottom(), other.Bottom())
	if left > right || top > bottom {
		return Rect{}, false
	}
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}, true
}

// Field returns a named field of a rectangle, as a script would read it from
// a DOMRect: x, y, width, height, top, right, bottom, left.
// Unknown names yield NaN.
func (r Rect) Field(name string) float64 {
	switch name {
	case "x":
		return r.X
	case "y":
		return r.Y
	case "width":
		return r.Width
	case "height":
		return r.Height
	case "top":
		return r.Top()
	case "right":
		return r.Right()
	case "bottom":
		return r.Bottom()
	case "left":
		return r.Left()
	}
	return math.NaN()
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}

// BoxSize is the size of a CSS box in logical dimensions, as reported by
// ResizeObserverSize.
type BoxSize struct {
	InlineSize float64
	BlockSize  float64
}

// ---------------------------------------------------------------------------

// Length is a parsed query literal: either a plain number (pixels) or a
// percentage value, which has to be resolved against a reference dimension.
type Length struct {
	Value   float64
	Percent bool
}

func (l Length) String() string {
	if l.Percent {
		return strconv.FormatFloat(l.Value, 'g', -1, 64) + "%"
	}
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + "px"
}

var lengthPattern = regexp.MustCompile(`^([+\-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+))(%|[a-zA-Z]+)?$`)

// ParseLength parses a string to return a length. Accepted are
//
//	400
//	400px
//	12.5%
//
// Every other unit results in an error with code core.EUNIT.
func ParseLength(s string) (Length, error) {
	d := lengthPattern.FindStringSubmatch(s)
	if len(d) < 2 {
		return Length{}, core.Error(core.EUNIT, "cannot interpret %q as a length", s)
	}
	n, err := strconv.ParseFloat(d[1], 64)
	if err != nil { // this cannot happen
		return Length{}, core.WrapError(err, core.EUNIT, "format error parsing length %q", s)
	}
	l := Length{Value: n}
	if len(d) > 2 {
		switch d[2] {
		case "", "px", "PX":
		case "%":
			l.Percent = true
		default:
			return Length{}, core.Error(core.EUNIT, "the CSS unit %q is not currently supported", d[2])
		}
	}
	return l, nil
}

// ---------------------------------------------------------------------------

// Min returns the smaller of two dimensions.
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the greater of two dimensions.
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
