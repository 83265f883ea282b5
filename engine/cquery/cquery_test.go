package cquery

import (
	"testing"

	"github.com/npillmayer/cquery/core"
	"github.com/npillmayer/cquery/core/parameters"
	"github.com/npillmayer/cquery/engine/dom"
	"github.com/npillmayer/cquery/engine/observe"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

var page = `<html><body>
<div id="main" style="position: relative; left: 0; top: 0; width: 1000px; height: 2000px">
  <div id="card" style="left: 100px; top: 100px; width: 200px; height: 100px"></div>
</div>
</body></html>`

type EngineTestEnviron struct {
	suite.Suite
	doc    *dom.Document
	host   *dom.Host
	engine *Engine
	card   *dom.Element
}

// listen for 'go test' command --> run test methods
func TestEngine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.engine")
	defer teardown()
	suite.Run(t, new(EngineTestEnviron))
}

// run before each test method
func (env *EngineTestEnviron) SetupTest() {
	doc, err := dom.ParseString(page)
	env.Require().NoError(err)
	env.doc = doc
	env.host = dom.NewHost(doc)
	env.engine = New(env.host)
	env.card, err = doc.QuerySelector("#card")
	env.Require().NoError(err)
}

// counter attaches a listener counting change notifications.
func (env *EngineTestEnviron) counter(h *QueryHandle) *[]Change {
	changes := &[]Change{}
	h.OnChange(func(c Change) {
		*changes = append(*changes, c)
	})
	return changes
}

// --- Tests -----------------------------------------------------------------

func (env *EngineTestEnviron) TestSharedPhysicalObserver() {
	h1, err := env.engine.MatchRect(env.card, "width >= 400px", false)
	env.Require().NoError(err)
	h2, err := env.engine.MatchRect(env.card, "width >= 400px", false)
	env.Require().NoError(err)
	env.Same(h1.Query(), h2.Query(), "expected cached query")
	env.Equal(1, env.host.Stats().ResizeObservers)
	env.Equal(1, env.host.Stats().Observed)
	env.Len(env.engine.Handles(), 2)
}

func (env *EngineTestEnviron) TestChangeOnTransitionsOnly() {
	h, err := env.engine.MatchRect(env.card, "width >= 400px", false)
	env.Require().NoError(err)
	changes := env.counter(h)
	env.Equal(Unmatched, h.State())
	env.host.Flush()
	env.Len(*changes, 1, "first result always notifies")
	env.Equal(NotMatched, h.State())
	env.card.Resize(300, 100)
	env.host.Flush()
	env.Len(*changes, 1, "same result must not notify")
	env.Equal(300.0, h.BorderBoxSize()[0].InlineSize, "rect is updated nevertheless")
	env.card.Resize(500, 100)
	env.host.Flush()
	env.Require().Len(*changes, 2)
	env.True(h.Matches())
	env.True((*changes)[1].Matches())
	env.Equal(500.0, (*changes)[1].ContentRect.Width)
	env.Equal(0, env.host.Flush())
	env.Len(*changes, 2)
}

func (env *EngineTestEnviron) TestCompositeAlwaysNotifies() {
	h, err := env.engine.MatchRect(env.card, "{small: width <= 300px; large: width > 300px}", false)
	env.Require().NoError(err)
	changes := env.counter(h)
	for _, w := range []float64{200, 250, 280, 400} {
		env.card.Resize(w, 100)
		env.host.Flush()
	}
	env.Require().Len(*changes, 4)
	small, _ := (*changes)[2].Result.Member("small")
	large, _ := (*changes)[2].Result.Member("large")
	env.True(small)
	env.False(large)
	large, ok := h.Result().Member("large")
	env.True(ok)
	env.True(large)
	env.Equal("{small: false, large: true}", h.Result().String())
}

func (env *EngineTestEnviron) TestEmptyQueryReportsRects() {
	h, err := env.engine.MatchRect(env.card, "", false)
	env.Require().NoError(err)
	changes := env.counter(h)
	env.host.Flush()
	env.card.Resize(210, 100)
	env.host.Flush()
	env.Len(*changes, 2)
	env.True(h.Matches())
	env.Equal(210.0, h.ContentRect().Width)
}

func (env *EngineTestEnviron) TestOffsetQuery() {
	h, err := env.engine.MatchRect(env.card, "top = 10% and left >= 100px", false)
	env.Require().NoError(err)
	env.host.Flush()
	env.False(h.Matches(), "top is 100px of 2000px")
	main, _ := env.doc.QuerySelector("#main")
	main.Resize(1000, 1000)
	env.host.Flush()
	env.True(h.Matches())
}

func (env *EngineTestEnviron) TestOffsetQueryNotifiesOnce() {
	h, err := env.engine.MatchRect(env.card, "top >= 100px", false)
	env.Require().NoError(err)
	changes := env.counter(h)
	env.host.Flush()
	env.Require().Len(*changes, 1, "top is 100px throughout")
	env.True((*changes)[0].Matches())
	env.NotEqual(observe.CauseIntersection, (*changes)[0].Cause)
	env.card.Move(0, 20)
	env.host.Flush()
	env.Len(*changes, 1)
	env.True(h.Matches())
}

func (env *EngineTestEnviron) TestIntersectionQuery() {
	h, err := env.engine.MatchRect(env.card, "intersection-ratio > 0", false)
	env.Require().NoError(err)
	changes := env.counter(h)
	env.Equal(0, env.host.Stats().ResizeObservers)
	env.Equal(1, env.host.Stats().IntersectionObservers)
	env.host.Flush()
	env.Require().Len(*changes, 1)
	env.True(h.Matches())
	env.Equal(observe.CauseIntersection, (*changes)[0].Cause)
	env.Equal(200.0, h.Rect().Bounds.Width, "bounds taken from the intersection record")
	env.doc.Scroll(0, 300)
	env.host.Flush()
	env.Require().Len(*changes, 2)
	env.False(h.Matches(), "scrolled out of the viewport")
	h.Dispose()
	env.Equal(0, env.host.Stats().Observed)
}

func (env *EngineTestEnviron) TestOffsetParentAsIntersectionRoot() {
	h, err := env.engine.MatchRect(env.card,
		"top > 0 and intersection-ratio > 0 using intersection-root: offset-parent", false)
	env.Require().NoError(err)
	changes := env.counter(h)
	main, _ := env.doc.QuerySelector("#main")
	env.Equal([]observe.Element{main}, env.engine.Registry().Roots())
	env.Equal(1, env.host.Stats().IntersectionObservers)
	env.Equal(3, env.host.Stats().Observed, "card and main resizes, one intersection")
	env.host.Flush()
	env.Require().NotEmpty(*changes)
	env.True(h.Matches())
}

func (env *EngineTestEnviron) TestImmediate() {
	h1, err := env.engine.MatchRect(env.card, "height < 200px", false)
	env.Require().NoError(err)
	h2, err := env.engine.MatchRect(env.card, "height < 50px", true)
	env.Require().NoError(err)
	env.Equal(Unmatched, h2.State(), "nothing observed yet")
	env.host.Flush()
	env.True(h1.Matches())
	h3, err := env.engine.MatchRect(env.card, "height >= 50px", true)
	env.Require().NoError(err)
	env.True(h3.Matches())
	h4, err := env.engine.MatchRect(env.card, "height >= 50px", false)
	env.Require().NoError(err)
	env.Equal(Unmatched, h4.State())
}

func (env *EngineTestEnviron) TestDispose() {
	h1, _ := env.engine.MatchRect(env.card, "width > 0", false)
	h2, _ := env.engine.MatchRect(env.card, "left > 0", false)
	changes := env.counter(h1)
	env.host.Flush()
	env.Len(*changes, 1)
	env.counter(h2)
	h1.Dispose()
	h1.Dispose()
	env.True(h1.Disposed())
	env.Len(env.engine.Handles(), 1)
	h2.Dispose()
	env.Equal(0, env.host.Stats().Observed)
	env.Equal(0, env.engine.Registry().Targets())
	env.card.Resize(20, 20)
	env.host.Flush()
	env.Len(*changes, 1)
}

func (env *EngineTestEnviron) TestRemoveListener() {
	h, _ := env.engine.MatchRect(env.card, "width > 250px", false)
	n := 0
	remove := h.OnChange(func(Change) { n++ })
	env.host.Flush()
	remove()
	remove()
	env.card.Resize(300, 100)
	env.host.Flush()
	env.Equal(1, n)
	env.True(h.Matches())
}

func (env *EngineTestEnviron) TestParseErrorsReturnNoHandle() {
	h, err := env.engine.MatchRect(env.card, "width > 3em", false)
	env.Nil(h)
	env.Equal(core.EUNIT, core.Code(err))
	_, err = env.engine.MatchRect(env.card, "width > 1px using a: 1, a: 2", false)
	env.Equal(core.EDUPLICATE, core.Code(err))
	_, err = env.engine.MatchRect(nil, "width > 1px", false)
	env.Equal(core.EINVALID, core.Code(err))
	env.Empty(env.engine.Handles())
	env.Equal(0, env.host.Stats().Observed)
}

func (env *EngineTestEnviron) TestEnvScopes() {
	defer Release(env.host)
	params := parameters.NewRegisters().Push(parameters.P_THRESHOLD_STEPS, 10)
	root, err := Init(env.host, "", params)
	env.Require().NoError(err)
	again, err := Init(env.host, "", nil)
	env.NoError(err)
	env.Same(root, again)
	_, err = Init(env.host, "", params)
	env.NoError(err, "same parameters are no conflict")
	_, err = Init(env.host, "", parameters.NewRegisters())
	env.Equal(core.ECONFLICT, core.Code(err))
	//
	sub, err := Init(env.host, "widgets", nil)
	env.Require().NoError(err)
	env.Equal("widgets", sub.Scope())
	env.Same(root, sub.Root())
	env.Equal(10, sub.Params().N(parameters.P_THRESHOLD_STEPS), "sub-scope falls back to root")
	_, err = Init(env.host, "widgets", parameters.NewRegisters())
	env.Equal(core.ECONFLICT, core.Code(err))
	env.Contains(err.Error(), "widgets")
	env.Same(sub.Engine(), sub.Engine())
	env.NotSame(root.Engine(), sub.Engine())
	_, err = Init(nil, "", nil)
	env.Error(err)
}
