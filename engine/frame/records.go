package frame

import (
	"github.com/npillmayer/cquery/core/dimen"
)

// ResizeRecord is the geometry of an element as delivered by a resize
// observation. Bounds is the border box in viewport coordinates; it is
// refreshed by intersection observations as well, which see moves.
type ResizeRecord struct {
	ContentRect    dimen.Rect
	ContentBoxSize []dimen.BoxSize
	BorderBoxSize  []dimen.BoxSize
	Bounds         dimen.Rect
}

// RecordFromBounds creates a resize record from a bounding client rect alone.
// Without box decoration information, content box and border box coincide.
func RecordFromBounds(bounds dimen.Rect) ResizeRecord {
	box := BorderBox(bounds)
	return box.Record()
}

// IntersectionRecord is the payload of an intersection observation.
type IntersectionRecord struct {
	BoundingClientRect dimen.Rect // target's border box
	IntersectionRect   dimen.Rect // visible part of target
	RootBounds         dimen.Rect // intersection root's box
	IntersectionRatio  float64
	IsIntersecting     bool
}

// Snapshot is the finalized geometry a query is evaluated against.
// Any of the records may be nil if it has not been observed (yet).
type Snapshot struct {
	Rect         *ResizeRecord       // target
	OffsetParent *ResizeRecord       // target's offset parent
	Intersection *IntersectionRecord // target vs. intersection root
}
