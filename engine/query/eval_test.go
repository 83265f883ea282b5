package query

import (
	"math"
	"testing"

	"github.com/npillmayer/cquery/core/dimen"
	"github.com/npillmayer/cquery/engine/frame"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func record(w, h float64) *frame.ResizeRecord {
	rec := frame.RecordFromBounds(dimen.R(0, 0, w, h))
	return &rec
}

func snapshot(w, h float64) frame.Snapshot {
	return frame.Snapshot{Rect: record(w, h)}
}

func matches(t *testing.T, query string, s frame.Snapshot) bool {
	q, err := Parse(query)
	if !assert.NoError(t, err, query) {
		return false
	}
	return q.Eval(s).Matches()
}

func TestMinMaxEquivalence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	for _, w := range []float64{0, 399, 399.5, 400, 401, 1e6} {
		s := snapshot(w, w)
		assert.Equal(t, matches(t, "width >= 400px", s), matches(t, "min-width: 400px", s), "w=%g", w)
		assert.Equal(t, matches(t, "height <= 400px", s), matches(t, "max-height: 400px", s), "h=%g", w)
	}
}

func TestRangeBoundaries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	for _, x := range []struct {
		w     float64
		match bool
	}{
		{99.9, false}, {100, true}, {250, true}, {500, true}, {500.1, false},
	} {
		assert.Equal(t, x.match, matches(t, "100px <= width <= 500px", snapshot(x.w, 10)), "w=%g", x.w)
		assert.Equal(t, x.match, matches(t, "500px >= width >= 100px", snapshot(x.w, 10)), "reversed, w=%g", x.w)
	}
	assert.False(t, matches(t, "100px < width < 500px", snapshot(100, 10)))
}

func TestPercentageOfParent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	parent := record(1000, 800)
	for _, x := range []struct {
		w     float64
		match bool
	}{
		{0, false}, {499, false}, {500, true}, {1000, true},
	} {
		s := frame.Snapshot{Rect: record(x.w, 10), OffsetParent: parent}
		assert.Equal(t, x.match, matches(t, "width >= 50%", s), "w=%g", x.w)
	}
	assert.True(t, matches(t, "height < 50%", frame.Snapshot{Rect: record(10, 399), OffsetParent: parent}))
	// no parent observed yet
	assert.False(t, matches(t, "width >= 50%", snapshot(1000, 10)))
}

func TestNegation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	for _, w := range []float64{0, 399, 400, 401} {
		s := snapshot(w, 10)
		assert.NotEqual(t, matches(t, "width >= 400px", s), matches(t, "not(width >= 400px)", s), "w=%g", w)
	}
	// unobtainable values let comparisons fail, negated or not
	assert.False(t, matches(t, "width >= 400px", frame.Snapshot{}))
	assert.True(t, matches(t, "not(width >= 400px)", frame.Snapshot{}))
}

func TestCompositeExclusive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	q, err := Parse("{a: width<=300px; b: width>300px}")
	assert.NoError(t, err)
	for _, w := range []float64{0, 299.9, 300, 300.1, 5000} {
		r := q.Eval(snapshot(w, 10))
		assert.True(t, r.IsComposite())
		a, okA := r.Member("a")
		b, okB := r.Member("b")
		assert.True(t, okA && okB)
		assert.True(t, a != b, "exactly one of a/b at w=%g, have %s", w, r)
		assert.True(t, r.Matches())
	}
	r := q.Eval(snapshot(10, 10))
	assert.Equal(t, []string{"a", "b"}, r.IDs())
	assert.Equal(t, "{a: true, b: false}", r.String())
	_, ok := r.Member("c")
	assert.False(t, ok)
}

func TestConnectivesFoldLeft(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	// ((true or false) and false) == false
	assert.False(t, matches(t, "width > 0 or height > 100px and height > 200px", snapshot(10, 10)))
	assert.True(t, matches(t, "width > 100px or height > 5px, width > 5px", snapshot(10, 10)))
	assert.True(t, matches(t, "(width < 1px or width > 9px) and height", snapshot(10, 10)))
	assert.False(t, matches(t, "not(width < 1px or width > 9px) and height", snapshot(10, 10)))
}

func TestBoolish(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	box := frame.BorderBox(dimen.R(0, 0, 100, 100))
	rec := box.Record()
	s := frame.Snapshot{Rect: &rec}
	assert.False(t, matches(t, "x", s))
	assert.True(t, matches(t, "not(x)", s))
	assert.True(t, matches(t, "x = false", s))
	box.Padding[frame.Left] = 10
	rec = box.Record()
	assert.True(t, matches(t, "x", s))
	assert.True(t, matches(t, "x = 10px", s))
	assert.False(t, matches(t, "unknown-field", s))
	assert.True(t, math.IsNaN(PropertyFor("unknown-field").Read(s)))
}

func TestOffsetProperties(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	target := frame.RecordFromBounds(dimen.R(30, 70, 100, 100))
	parent := frame.RecordFromBounds(dimen.R(10, 20, 500, 500))
	s := frame.Snapshot{Rect: &target, OffsetParent: &parent}
	assert.Equal(t, 50.0, PropertyFor("top").Read(s))
	assert.Equal(t, 20.0, PropertyFor("left").Read(s))
	assert.Equal(t, 380.0, PropertyFor("right").Read(s))
	assert.Equal(t, 350.0, PropertyFor("bottom").Read(s))
	assert.True(t, matches(t, "top = 50px", s))
	assert.True(t, matches(t, "top = 10%", s))
	assert.True(t, matches(t, "left < 5%", s))
	// moving the parent below the target gives negative offsets
	parent = frame.RecordFromBounds(dimen.R(10, 90, 500, 500))
	assert.Equal(t, -20.0, PropertyFor("top").Read(s))
	assert.True(t, math.IsNaN(PropertyFor("top").Read(frame.Snapshot{Rect: &target})))
}

func TestIntersectionProperties(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	ir := &frame.IntersectionRecord{
		BoundingClientRect: dimen.R(0, 600, 100, 200),
		IntersectionRect:   dimen.R(0, 600, 100, 100),
		RootBounds:         dimen.R(0, 0, 1000, 700),
		IntersectionRatio:  0.5,
		IsIntersecting:     true,
	}
	s := frame.Snapshot{Intersection: ir}
	assert.Equal(t, 100.0, PropertyFor("intersection-top").Read(s))
	assert.Equal(t, 1000.0, PropertyFor("intersection-left").Read(s))
	assert.Equal(t, 800.0, PropertyFor("intersection-bottom").Read(s))
	assert.Equal(t, 100.0, PropertyFor("intersection-right").Read(s))
	assert.Equal(t, 100.0, PropertyFor("intersection-height").Read(s))
	assert.Equal(t, 100.0, PropertyFor("intersection-width").Read(s))
	assert.True(t, matches(t, "intersection-height >= 50%", s))
	assert.False(t, matches(t, "intersection-height > 50%", s))
	assert.True(t, matches(t, "intersection-ratio >= 50%", s))
	assert.True(t, matches(t, "intersection-ratio = 0.5", s))
	assert.False(t, matches(t, "intersection-ratio > 0.5", frame.Snapshot{}))
}

func TestSizeBoxes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	box := frame.BorderBox(dimen.R(0, 0, 200, 100))
	box.Padding[frame.Left], box.Padding[frame.Right] = 10, 10
	rec := box.Record()
	s := frame.Snapshot{Rect: &rec}
	assert.Equal(t, 200.0, PropertyFor("width").Read(s))
	assert.Equal(t, 200.0, PropertyFor("outer-width").Read(s))
	assert.Equal(t, 180.0, PropertyFor("inner-width").Read(s))
	// without box sizes, the content rect is used
	bare := frame.ResizeRecord{ContentRect: dimen.R(0, 0, 42, 24)}
	s = frame.Snapshot{Rect: &bare}
	assert.Equal(t, 42.0, PropertyFor("width").Read(s))
	assert.Equal(t, 24.0, PropertyFor("inner-height").Read(s))
}

func TestEvaluate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	q := MustParse("width > 10px")
	assert.True(t, Evaluate(q, record(20, 20), nil, nil).Matches())
	assert.Equal(t, "false", Evaluate(q, nil, nil, nil).String())
}
