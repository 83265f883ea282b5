package frame

/*
BSD License

Copyright (c) 2017–2022, Norbert Pillmayer

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
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/

import (
	"fmt"

	"github.com/npillmayer/cquery/core/dimen"
)

// Box type, following the CSS box model. Boxes are laid out already; the
// border box is known in viewport coordinates.
type Box struct {
	Bounds      dimen.Rect // border box
	Padding     [4]float64 // inside of border
	BorderWidth [4]float64 // thickness of border
}

// For padding, border etc. 4-way values always start at the top and travel
// clockwise.
const (
	Top int = iota
	Right
	Bottom
	Left
)

// BorderBox creates a box without padding and border.
func BorderBox(r dimen.Rect) Box {
	return Box{Bounds: r}
}

// DebugString returns a textual representation of a box's dimensions.
// Intended for debugging.
func (box *Box) DebugString() string {
	s := fmt.Sprintf("box{\n   bounds=%v\n", box.Bounds)
	s += fmt.Sprintf("   p.top=%v, p.right=%v, p.bottom=%v, p.left=%v\n",
		box.Padding[Top], box.Padding[Right],
		box.Padding[Bottom], box.Padding[Left])
	s += fmt.Sprintf("   b.top=%v, b.right=%v, b.bottom=%v, b.left=%v\n",
		box.BorderWidth[Top], box.BorderWidth[Right],
		box.BorderWidth[Bottom], box.BorderWidth[Left])
	s += "}"
	return s
}

// ContentWidth returns the width of the content box. It will never be negative.
func (box *Box) ContentWidth() float64 {
	return dimen.Max(0, box.Bounds.Width-innerDecorationWidth(box))
}

// ContentHeight returns the height of the content box. It will never be negative.
func (box *Box) ContentHeight() float64 {
	return dimen.Max(0, box.Bounds.Height-innerDecorationHeight(box))
}

// ContentRect returns the content rectangle the way ResizeObserver reports it:
// origin at the padding offsets, extent of the content box.
func (box *Box) ContentRect() dimen.Rect {
	return dimen.Rect{
		X:      box.Padding[Left],
		Y:      box.Padding[Top],
		Width:  box.ContentWidth(),
		Height: box.ContentHeight(),
	}
}

// ContentBox returns the content box in viewport coordinates.
func (box *Box) ContentBox() dimen.Rect {
	return dimen.Rect{
		X:      box.Bounds.X + box.BorderWidth[Left] + box.Padding[Left],
		Y:      box.Bounds.Y + box.BorderWidth[Top] + box.Padding[Top],
		Width:  box.ContentWidth(),
		Height: box.ContentHeight(),
	}
}

// Record creates a resize record for the current dimensions of box.
func (box *Box) Record() ResizeRecord {
	return ResizeRecord{
		ContentRect:    box.ContentRect(),
		ContentBoxSize: []dimen.BoxSize{{InlineSize: box.ContentWidth(), BlockSize: box.ContentHeight()}},
		BorderBoxSize:  []dimen.BoxSize{{InlineSize: box.Bounds.Width, BlockSize: box.Bounds.Height}},
		Bounds:         box.Bounds,
	}
}

// SameSize is true if two boxes have equal border box and content box extents.
func (box *Box) SameSize(other *Box) bool {
	return box.Bounds.Width == other.Bounds.Width && box.Bounds.Height == other.Bounds.Height &&
		box.ContentWidth() == other.ContentWidth() && box.ContentHeight() == other.ContentHeight()
}

func innerDecorationWidth(box *Box) float64 {
	return box.Padding[Left] + box.Padding[Right] + box.BorderWidth[Left] + box.BorderWidth[Right]
}

func innerDecorationHeight(box *Box) float64 {
	return box.Padding[Top] + box.Padding[Bottom] + box.BorderWidth[Top] + box.BorderWidth[Bottom]
}
