package dom

import (
	"testing"

	"github.com/npillmayer/cquery/core/dimen"
	"github.com/npillmayer/cquery/engine/observe"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

var page = `<!DOCTYPE html>
<html><head>
<style>
  .card { padding: 10px; border-width: 1px }
  #scroller { overflow-y: auto }
</style>
</head><body>
  <div id="main" style="position: relative; left: 0; top: 0; width: 1000px; height: 2000px">
    <div id="scroller" style="left: 0; top: 0; width: 500px; height: 400px">
      <div id="card" class="card" style="left: 10px; top: 50px; width: 200px; height: 100px"></div>
    </div>
  </div>
  <div id="static" style="left: 0; top: 2100px; width: 100px; height: 100px"></div>
  <div id="fixed" style="position: fixed; left: 0; top: 0; width: 100px; height: 20px"></div>
</body></html>`

func parsePage(t *testing.T) *Document {
	doc, err := ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func byID(t *testing.T, doc *Document, id string) *Element {
	el, err := doc.QuerySelector("#" + id)
	if err != nil || el == nil {
		t.Fatalf("no element #%s: %v", id, err)
	}
	return el
}

func TestDocumentBoxes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.dom")
	defer teardown()
	//
	doc := parsePage(t)
	card := byID(t, doc, "card")
	box := card.Box()
	assert.Equal(t, dimen.R(10, 50, 200, 100), box.Bounds)
	assert.Equal(t, 178.0, box.ContentWidth())
	assert.Equal(t, "div#card.card", card.String())
	assert.Equal(t, dimen.R(0, 0, DefaultViewportWidth, DefaultViewportHeight), doc.Viewport().ClientRect())
	assert.Equal(t, doc.Viewport().ClientRect(), doc.Body().Box().Bounds)
}

func TestOffsetAndScrollParents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.dom")
	defer teardown()
	//
	doc := parsePage(t)
	main, scroller, card := byID(t, doc, "main"), byID(t, doc, "scroller"), byID(t, doc, "card")
	assert.Equal(t, observe.Element(main), card.OffsetParent())
	assert.Equal(t, observe.Element(scroller), card.ScrollParent())
	assert.Equal(t, observe.Element(doc.Body()), main.OffsetParent())
	assert.Nil(t, main.ScrollParent())
	assert.Nil(t, byID(t, doc, "fixed").OffsetParent())
	assert.Nil(t, doc.Body().OffsetParent())
	card.Remove()
	assert.False(t, card.IsConnected())
	assert.Nil(t, card.OffsetParent())
	assert.Equal(t, dimen.Rect{}, card.ClientRect())
}

func TestPlacement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.dom")
	defer teardown()
	//
	doc := parsePage(t)
	assert.Equal(t, positioned, byID(t, doc, "main").placement())
	assert.Equal(t, inFlow, byID(t, doc, "card").placement())
	assert.Equal(t, fixed, byID(t, doc, "fixed").placement())
	assert.True(t, byID(t, doc, "scroller").scrolls())
	assert.False(t, byID(t, doc, "main").scrolls())
	st := byID(t, doc, "static")
	st.Styles().Set("position", "sticky")
	assert.Equal(t, positioned, st.placement())
	st.Styles().Set("position", "static")
	assert.Equal(t, inFlow, st.placement())
}

func TestScrolling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.dom")
	defer teardown()
	//
	doc := parsePage(t)
	doc.Scroll(0, 300)
	assert.Equal(t, dimen.R(0, 1800, 100, 100), byID(t, doc, "static").ClientRect())
	assert.Equal(t, dimen.R(0, 0, 100, 20), byID(t, doc, "fixed").ClientRect())
	x, y := doc.ScrollOffset()
	assert.Equal(t, [2]float64{0, 300}, [2]float64{x, y})
}

func TestLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.dom")
	defer teardown()
	//
	doc := parsePage(t)
	els, err := doc.Elements("body > div")
	assert.NoError(t, err)
	assert.Len(t, els, 3)
	els, err = doc.XPath("//div[@class='card']")
	assert.NoError(t, err)
	if assert.Len(t, els, 1) {
		assert.Equal(t, "card", els[0].ID())
	}
	_, err = doc.QuerySelector("div[")
	assert.Error(t, err)
	_, err = doc.XPath("//div[")
	assert.Error(t, err)
	//
	els, err = doc.Elements(`<div id="new" class="card" style="width: 50px; height: 50px"></div>`)
	assert.NoError(t, err)
	if assert.Len(t, els, 1) {
		el := els[0]
		assert.False(t, el.IsConnected())
		box := el.Box()
		assert.Equal(t, 28.0, box.ContentWidth(), "sheet rules apply to new elements")
		assert.NoError(t, doc.Append(doc.Body(), el))
		assert.True(t, el.IsConnected())
		assert.Error(t, doc.Append(doc.Body(), el))
	}
}

func TestHostResize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.dom")
	defer teardown()
	//
	doc := parsePage(t)
	host := NewHost(doc)
	var got []observe.ResizeEntry
	ro := host.NewResizeObserver(func(entries []observe.ResizeEntry) {
		got = append(got, entries...)
	})
	card, static := byID(t, doc, "card"), byID(t, doc, "static")
	ro.Observe(card)
	ro.Observe(static)
	ro.Observe(card)
	assert.Equal(t, 2, host.Stats().Observed)
	assert.Equal(t, 2, host.Flush())
	assert.Equal(t, observe.Element(card), got[0].Target)
	assert.Equal(t, 178.0, got[0].Record.ContentBoxSize[0].InlineSize)
	assert.Equal(t, 0, host.Flush(), "nothing changed")
	card.Move(5, 5)
	assert.Equal(t, 0, host.Flush(), "moves are not resizes")
	card.Resize(300, 100)
	assert.Equal(t, 1, host.Flush())
	assert.Equal(t, 300.0, got[2].Record.BorderBoxSize[0].InlineSize)
	static.Remove()
	assert.Equal(t, 1, host.Flush(), "removal shrinks to 0")
	ro.Unobserve(static)
	assert.Equal(t, 1, host.Stats().Observed)
	assert.Equal(t, 1, host.Stats().ResizeObservers)
}

func TestHostIntersection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.dom")
	defer teardown()
	//
	doc := parsePage(t)
	host := NewHost(doc)
	var got []observe.IntersectionEntry
	io := host.NewIntersectionObserver(func(entries []observe.IntersectionEntry) {
		got = append(got, entries...)
	}, observe.IntersectionOptions{Thresholds: []float64{0, 0.5, 1}})
	static := byID(t, doc, "static")
	io.Observe(static)
	assert.Equal(t, 1, host.Flush())
	assert.False(t, got[0].Record.IsIntersecting)
	doc.Scroll(0, 1350) // static at y=750, half visible
	assert.Equal(t, 1, host.Flush())
	assert.True(t, got[1].Record.IsIntersecting)
	assert.Equal(t, 0.5, got[1].Record.IntersectionRatio)
	assert.Equal(t, dimen.R(0, 750, 100, 50), got[1].Record.IntersectionRect)
	doc.Scroll(0, 10) // ratio 0.6, same band
	assert.Equal(t, 0, host.Flush())
	doc.Scroll(0, 100)
	assert.Equal(t, 1, host.Flush())
	assert.Equal(t, 1.0, got[2].Record.IntersectionRatio)
	io.Disconnect()
	assert.Equal(t, 0, host.Stats().Observed)
	doc.Scroll(0, -1460)
	assert.Equal(t, 0, host.Flush())
}

func TestIntersectWithElementRoot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.dom")
	defer teardown()
	//
	doc := parsePage(t)
	scroller, card := byID(t, doc, "scroller"), byID(t, doc, "card")
	rec := Intersect(card, scroller)
	assert.True(t, rec.IsIntersecting)
	assert.Equal(t, 1.0, rec.IntersectionRatio)
	assert.Equal(t, dimen.R(0, 0, 500, 400), rec.RootBounds)
	card.SetRect(dimen.R(400, 0, 200, 100))
	rec = Intersect(card, scroller)
	assert.Equal(t, 0.5, rec.IntersectionRatio)
}
