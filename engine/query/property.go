package query

import (
	"math"
	"strings"

	"github.com/npillmayer/cquery/engine/frame"
)

// Category classifies properties by the observations they depend on.
type Category uint8

// Property categories
const (
	Generic      Category = iota // field of the content rect
	Size                         // size of the target's own box
	Offset                       // distance to the offset parent's edges
	Intersection                 // measure of the intersection with a root
)

func (c Category) String() string {
	switch c {
	case Size:
		return "size"
	case Offset:
		return "offset"
	case Intersection:
		return "intersection"
	}
	return "generic"
}

// BoxKind selects the box a size property is read from.
type BoxKind uint8

// Boxes of the CSS box model
const (
	BorderBox  BoxKind = iota // `width`, `outer-width`
	ContentBox                // `inner-width`
)

// Dimension is either width or height.
type Dimension uint8

// Dimensions; NoDimension is used for edges and ratios.
const (
	NoDimension Dimension = iota
	Width
	Height
)

// Edge is one of the four edges of a box.
type Edge uint8

// Edges; NoEdge is used for dimensions and ratios.
const (
	NoEdge Edge = iota
	Top
	Right
	Bottom
	Left
)

var edgeNames = map[string]Edge{"top": Top, "right": Right, "bottom": Bottom, "left": Left}
var dimNames = map[string]Dimension{"width": Width, "height": Height}

// Property is the subject of a query expression, resolved once at parse time.
// It is a closed variant over
//
//	Size(box, dimension)
//	Offset(edge)
//	Intersection(edge | dimension | ratio)
//	Generic(field)
type Property struct {
	Name     string
	Category Category
	Box      BoxKind
	Dim      Dimension
	Edge     Edge
	Ratio    bool   // intersection-ratio
	field    string // camel-cased name for generic properties
}

// PropertyFor classifies a property name.
func PropertyFor(name string) Property {
	p := Property{Name: name}
	switch {
	case dimNames[name] != NoDimension:
		p.Category, p.Box, p.Dim = Size, BorderBox, dimNames[name]
	case strings.HasPrefix(name, "outer-") && dimNames[name[6:]] != NoDimension:
		p.Category, p.Box, p.Dim = Size, BorderBox, dimNames[name[6:]]
	case strings.HasPrefix(name, "inner-") && dimNames[name[6:]] != NoDimension:
		p.Category, p.Box, p.Dim = Size, ContentBox, dimNames[name[6:]]
	case edgeNames[name] != NoEdge:
		p.Category, p.Edge = Offset, edgeNames[name]
	case strings.HasPrefix(name, "intersection-"):
		rest := name[len("intersection-"):]
		if d := dimNames[rest]; d != NoDimension {
			p.Category, p.Dim = Intersection, d
		} else if e := edgeNames[rest]; e != NoEdge {
			p.Category, p.Edge = Intersection, e
		} else if rest == "ratio" {
			p.Category, p.Ratio = Intersection, true
		} else {
			p.field = toCamel(name)
		}
	default:
		p.field = toCamel(name)
	}
	return p
}

func (p Property) String() string {
	return p.Name
}

// Read resolves the value of p from a snapshot. Values which are not
// obtainable from the snapshot are NaN.
func (p Property) Read(s frame.Snapshot) float64 {
	switch p.Category {
	case Size:
		return readSize(p, s.Rect)
	case Offset:
		if s.Rect == nil || s.OffsetParent == nil {
			return math.NaN()
		}
		r, parent := s.Rect.Bounds, s.OffsetParent.Bounds
		switch p.Edge {
		case Top:
			return r.Top() - parent.Top()
		case Left:
			return r.Left() - parent.Left()
		case Right:
			return parent.Right() - r.Right()
		case Bottom:
			return parent.Bottom() - r.Bottom()
		}
	case Intersection:
		ir := s.Intersection
		if ir == nil {
			return math.NaN()
		}
		switch {
		case p.Ratio:
			return ir.IntersectionRatio
		case p.Dim == Width:
			return ir.IntersectionRect.Width
		case p.Dim == Height:
			return ir.IntersectionRect.Height
		}
		target, root := ir.BoundingClientRect, ir.RootBounds
		switch p.Edge {
		case Top:
			return root.Bottom() - target.Top()
		case Left:
			return root.Right() - target.Left()
		case Bottom:
			return target.Bottom() - root.Top()
		case Right:
			return target.Right() - root.Left()
		}
	default:
		if s.Rect != nil {
			return s.Rect.ContentRect.Field(p.field)
		}
	}
	return math.NaN()
}

// reference returns the dimension percentages of p resolve against.
func (p Property) reference(s frame.Snapshot) float64 {
	switch p.Category {
	case Size:
		return readSize(p, s.OffsetParent)
	case Offset:
		if s.OffsetParent == nil {
			return math.NaN()
		}
		if p.Edge == Left || p.Edge == Right {
			return s.OffsetParent.Bounds.Width
		}
		return s.OffsetParent.Bounds.Height
	case Intersection:
		if p.Ratio {
			return 1
		}
		if s.Intersection == nil {
			return math.NaN()
		}
		if p.Dim == Width || p.Edge == Left || p.Edge == Right {
			return s.Intersection.BoundingClientRect.Width
		}
		return s.Intersection.BoundingClientRect.Height
	}
	return 1 // no-op scale
}

func readSize(p Property, rec *frame.ResizeRecord) float64 {
	if rec == nil {
		return math.NaN()
	}
	sizes := rec.BorderBoxSize
	if p.Box == ContentBox {
		sizes = rec.ContentBoxSize
	}
	if len(sizes) > 0 {
		if p.Dim == Width {
			return sizes[0].InlineSize
		}
		return sizes[0].BlockSize
	}
	if p.Dim == Width {
		return rec.ContentRect.Width
	}
	return rec.ContentRect.Height
}

func toCamel(name string) string {
	parts := strings.Split(name, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
