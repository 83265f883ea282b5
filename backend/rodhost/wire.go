package rodhost

import (
	"encoding/json"

	"github.com/npillmayer/cquery/core"
	"github.com/npillmayer/cquery/core/dimen"
	"github.com/npillmayer/cquery/engine/frame"
)

// Batch kinds, as sent by the page script.
const (
	kindResize       = "resize"
	kindIntersection = "intersection"
)

type wireRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r *wireRect) rect() dimen.Rect {
	if r == nil {
		return dimen.Rect{}
	}
	return dimen.R(r.X, r.Y, r.Width, r.Height)
}

type wireSize struct {
	InlineSize float64 `json:"inlineSize"`
	BlockSize  float64 `json:"blockSize"`
}

func boxSizes(s []wireSize) []dimen.BoxSize {
	sizes := make([]dimen.BoxSize, len(s))
	for i, b := range s {
		sizes[i] = dimen.BoxSize{InlineSize: b.InlineSize, BlockSize: b.BlockSize}
	}
	return sizes
}

type wireEntry struct {
	Target int `json:"target"`
	// resize entries
	ContentRect    *wireRect  `json:"contentRect"`
	ContentBoxSize []wireSize `json:"contentBoxSize"`
	BorderBoxSize  []wireSize `json:"borderBoxSize"`
	Bounds         *wireRect  `json:"bounds"`
	// intersection entries
	BoundingClientRect *wireRect `json:"boundingClientRect"`
	IntersectionRect   *wireRect `json:"intersectionRect"`
	RootBounds         *wireRect `json:"rootBounds"`
	IntersectionRatio  float64   `json:"intersectionRatio"`
	IsIntersecting     bool      `json:"isIntersecting"`
}

func (e wireEntry) resizeRecord() frame.ResizeRecord {
	return frame.ResizeRecord{
		ContentRect:    e.ContentRect.rect(),
		ContentBoxSize: boxSizes(e.ContentBoxSize),
		BorderBoxSize:  boxSizes(e.BorderBoxSize),
		Bounds:         e.Bounds.rect(),
	}
}

func (e wireEntry) intersectionRecord() frame.IntersectionRecord {
	return frame.IntersectionRecord{
		BoundingClientRect: e.BoundingClientRect.rect(),
		IntersectionRect:   e.IntersectionRect.rect(),
		RootBounds:         e.RootBounds.rect(),
		IntersectionRatio:  e.IntersectionRatio,
		IsIntersecting:     e.IsIntersecting,
	}
}

// batch is the payload of one observer callback in the page.
type batch struct {
	Observer int         `json:"observer"`
	Kind     string      `json:"kind"`
	Entries  []wireEntry `json:"entries"`
}

func decodeBatch(payload []byte) (batch, error) {
	var b batch
	if err := json.Unmarshal(payload, &b); err != nil {
		return b, core.WrapError(err, core.EINVALID, "cannot decode observer payload")
	}
	switch b.Kind {
	case kindResize, kindIntersection:
	default:
		return b, core.Error(core.EINVALID, "unknown observer payload kind %q", b.Kind)
	}
	return b, nil
}

// elementInfo describes an element of the page.
type elementInfo struct {
	OffsetParent int    `json:"offsetParent"`
	ScrollParent int    `json:"scrollParent"`
	Connected    bool   `json:"connected"`
	Label        string `json:"label"`
}
