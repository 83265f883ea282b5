package query

import (
	"testing"

	"github.com/npillmayer/cquery/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestCacheIdentity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	c := NewCache()
	q1, err := c.Parse("width >= 400px")
	assert.NoError(t, err)
	q2, err := c.Parse("width >= 400px")
	assert.NoError(t, err)
	assert.Same(t, q1, q2, "expected identical cached instance")
	assert.Equal(t, 1, c.Len())
	_, err = c.Parse("width >= 400px and height < 10px")
	assert.NoError(t, err)
	assert.Equal(t, []string{"width >= 400px", "width >= 400px and height < 10px"}, c.Complete("wid"))
	_, ok := c.Lookup("height > 0")
	assert.False(t, ok)
}

func TestCacheDoesNotKeepFailures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	c := NewCache()
	_, err := c.Parse("width > 3em")
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestEmptyQuery(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	q, err := Parse("")
	assert.NoError(t, err)
	assert.True(t, q.IsEmpty())
	assert.True(t, q.Eval(snapshot(0, 0)).Matches())
	assert.True(t, q.Meta().Needs().Resize)
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	for i, x := range []struct {
		query string
		code  int
	}{
		{"width >= 3em", core.EUNIT},
		{"width > 10vw", core.EUNIT},
		{"intersection-threshold-free > auto", core.EUNIT},
		{"width > 10px using a: 1, a: 2", core.EDUPLICATE},
		{"{a: width > 1px; a: height > 1px}", core.EDUPLICATE},
		{"{a: width > 1px using x: 1; b: height > 1px using x: 2}", core.EDUPLICATE},
		{"{a: width > 1px; b: height > 1px} using x, x", core.EDUPLICATE},
		{"(width > 1px", core.EINVALID},
		{"width > 1px)", core.EINVALID},
		{"width > 1px and", core.EINVALID},
		{"width > 1px and or height > 1px", core.EINVALID},
		{"width >", core.EINVALID},
		{"1px < 2px", core.EINVALID},
		{"1px < width = 2px", core.EINVALID},
		{"a < b < c < d", core.EINVALID},
		{"{a: width > 1px", core.EINVALID},
		{"{width > 1px}", core.EINVALID},
		{"{a: width > 1px} height", core.EINVALID},
		{"(width > 1px using a: 1)", core.EINVALID},
		{"width > 1px using intersection-root: window", core.EINVALID},
		{"width > 1px using intersection-threshold: 0 2", core.EINVALID},
		{"width > 1px using 1px < height < 2px", core.EINVALID},
		{"width > 1px using height >", core.EINVALID},
	} {
		_, err := NewCache().Parse(x.query)
		if assert.Error(t, err, "(%d) %q", i, x.query) {
			assert.Equal(t, x.code, core.Code(err), "(%d) %q: %v", i, x.query, err)
		}
	}
}

func TestParseNormalizes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	q, err := NewCache().Parse("  Min-Width:400PX   AND\tmax-height : 80% ")
	assert.NoError(t, err)
	assert.Equal(t, "width >= 400px and height <= 80%", q.String())
	assert.Equal(t, "  Min-Width:400PX   AND\tmax-height : 80% ", q.Source())
}

func TestParseForms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	for _, x := range []struct{ query, canonical string }{
		{"width", "width"},
		{"width >= 400px", "width >= 400px"},
		{"width:400px", "width = 400px"},
		{"min-width: 400px", "width >= 400px"},
		{"max-height = 10", "height <= 10"},
		{"400px <= width", "width >= 400px"},
		{"100px <= width <= 500px", "100px <= width <= 500px"},
		{"500px > width > 100px", "500px > width > 100px"},
		{"not(width >= 400px)", "not(width >= 400px)"},
		{"not (width)", "not(width)"},
		{"not(not(width > 1px))", "width > 1px"},
		{"(width > 1px)", "width > 1px"},
		{"(width < 1px or width > 9px), height", "(width < 1px or width > 9px) and height"},
		{"not(width < 1px or width > 9px)", "not(width < 1px or width > 9px)"},
		{"and width > 1px", "width > 1px"},
		{"{a: width <= 300px; b: width > 300px;}", "{a: width <= 300px; b: width > 300px}"},
	} {
		q, err := NewCache().Parse(x.query)
		if assert.NoError(t, err, x.query) {
			assert.Equal(t, x.canonical, q.String(), x.query)
		}
	}
}

func TestUsingSwitchesToArguments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	q, err := NewCache().Parse("width > 1px using intersection-root: document, sticky and width")
	assert.NoError(t, err)
	assert.Len(t, q.Terms(), 1)
	assert.Equal(t, []string{"intersection-root", "sticky", "width"}, q.Meta().ArgNames())
	v, _ := q.Meta().Arg("sticky")
	assert.Equal(t, "true", v)
	assert.Equal(t, "document", q.Meta().Root())
	//
	q, err = NewCache().Parse("width > 1px using height > 0, lazy = yes")
	assert.NoError(t, err)
	assert.Equal(t, []string{"height", "lazy"}, q.Meta().ArgNames())
	v, _ = q.Meta().Arg("height")
	assert.Equal(t, "0", v)
	v, _ = q.Meta().Arg("lazy")
	assert.Equal(t, "yes", v)
	assert.Equal(t, []string{"width"}, q.Meta().VarNames(), "arguments are no properties")
}

func TestMeta(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	q, err := NewCache().Parse("min-width: 50% and top > 0 and intersection-ratio > 0 and height < 100px " +
		"using intersection-root: offset-parent, intersection-threshold: 1 0 50%")
	assert.NoError(t, err)
	m := q.Meta()
	assert.Equal(t, []string{"width", "top", "intersection-ratio", "height"}, m.VarNames())
	assert.Equal(t, []string{"width", "height"}, m.SizeProps())
	assert.Equal(t, []string{"width"}, m.PercentageSizeProps())
	assert.Equal(t, []string{"top"}, m.OffsetProps())
	assert.Equal(t, []string{"intersection-ratio"}, m.IntersectionProps())
	assert.Equal(t, []string{"50%"}, m.Operands("width"))
	assert.Equal(t, "offset-parent", m.Root())
	assert.Equal(t, []float64{0, 0.5, 1}, m.IntersectionThresholds())
	assert.Equal(t, Needs{Resize: true, OffsetParent: true, Intersection: true}, m.Needs())
	//
	q, err = NewCache().Parse("intersection-height > 10px")
	assert.NoError(t, err)
	assert.Equal(t, Needs{Intersection: true}, q.Meta().Needs())
	assert.Equal(t, "", q.Meta().Root())
}

func TestCompositeMeta(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	q, err := NewCache().Parse("{small: width <= 300px; visible: intersection-ratio > 0} using intersection-root: document")
	assert.NoError(t, err)
	assert.True(t, q.IsComposite())
	assert.Len(t, q.Members(), 2)
	assert.Equal(t, "visible", q.Members()[1].ID)
	assert.Equal(t, []string{"width", "intersection-ratio"}, q.Meta().VarNames())
	assert.Equal(t, "document", q.Meta().Root())
}

func TestPropertyClassification(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.query")
	defer teardown()
	//
	assert.Equal(t, Property{Name: "inner-height", Category: Size, Box: ContentBox, Dim: Height},
		PropertyFor("inner-height"))
	assert.Equal(t, Property{Name: "outer-width", Category: Size, Box: BorderBox, Dim: Width},
		PropertyFor("outer-width"))
	assert.Equal(t, Property{Name: "left", Category: Offset, Edge: Left}, PropertyFor("left"))
	assert.Equal(t, Property{Name: "intersection-bottom", Category: Intersection, Edge: Bottom},
		PropertyFor("intersection-bottom"))
	assert.True(t, PropertyFor("intersection-ratio").Ratio)
	p := PropertyFor("block-size")
	assert.Equal(t, Generic, p.Category)
	assert.Equal(t, "blockSize", p.field)
}
