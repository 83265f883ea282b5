package dimen

import (
	"math"
	"testing"

	"github.com/npillmayer/cquery/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestParseLength(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.core")
	defer teardown()
	//
	l, err := ParseLength("12px")
	if err != nil {
		t.Errorf("(1) %s", err.Error())
	} else if l.Value != 12 || l.Percent {
		t.Errorf("(1) expected l to be 12px, is %v", l)
	}
	//
	l, err = ParseLength("0")
	if err != nil {
		t.Errorf("(2) %s", err.Error())
	} else if l.Value != 0 {
		t.Errorf("(2) expected l to be 0, is %v", l)
	}
	//
	l, err = ParseLength("12.5%")
	if err != nil {
		t.Errorf("(3) %s", err.Error())
	} else if !l.Percent || l.Value != 12.5 {
		t.Errorf("(3) expected 12.5%%, is %v", l)
	}
	//
	l, err = ParseLength("-.5px")
	assert.NoError(t, err)
	assert.Equal(t, -0.5, l.Value)
}

func TestParseLengthUnsupported(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.core")
	defer teardown()
	//
	for _, s := range []string{"3em", "10vw", "auto", "12 px"} {
		_, err := ParseLength(s)
		if assert.Error(t, err, s) {
			assert.Equal(t, core.EUNIT, core.Code(err), s)
		}
	}
}

func TestRectEdges(t *testing.T) {
	r := R(10, 20, 100, -50)
	assert.Equal(t, -30.0, r.Top())
	assert.Equal(t, 20.0, r.Bottom())
	assert.Equal(t, 10.0, r.Left())
	assert.Equal(t, 110.0, r.Right())
	assert.Equal(t, 5000.0, r.Area())
	assert.True(t, math.IsNaN(r.Field("depth")))
	assert.Equal(t, 110.0, r.Field("right"))
}

func TestRectIntersect(t *testing.T) {
	a := R(0, 0, 100, 100)
	b := R(50, 80, 100, 100)
	i, ok := a.Intersect(b)
	assert.True(t, ok)
	assert.Equal(t, R(50, 80, 50, 20), i)
	_, ok = a.Intersect(R(200, 0, 10, 10))
	assert.False(t, ok)
	i, ok = a.Intersect(R(100, 0, 10, 10))
	assert.True(t, ok, "touching rectangles intersect")
	assert.Equal(t, 0.0, i.Area())
}
