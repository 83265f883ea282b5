package xpathadapter

import (
	"strings"
	"testing"

	"github.com/antchfx/xpath"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

var doc = `<html><body>
<div id="outer" class="box"><p>Hello</p><div id="inner" data-q="width &gt; 10px">World</div></div>
<div id="second"></div>
</body></html>`

func TestXPathSelect(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.dom")
	defer teardown()
	//
	root, err := html.Parse(strings.NewReader(doc))
	assert.NoError(t, err)
	expr := xpath.MustCompile("//div[@id='inner']")
	nodes := Select(root, expr)
	if assert.Len(t, nodes, 1) {
		assert.Equal(t, "div", nodes[0].Data)
	}
	nodes = Select(root, xpath.MustCompile("/html/body/div"))
	assert.Len(t, nodes, 2)
	nodes = Select(root, xpath.MustCompile("//div[p='Hello']/div"))
	assert.Len(t, nodes, 1)
	nodes = Select(root, xpath.MustCompile("//*[@data-q]"))
	assert.Len(t, nodes, 1)
	nodes = Select(root, xpath.MustCompile("//div[@id='second']/preceding-sibling::div"))
	if assert.Len(t, nodes, 1) {
		assert.Equal(t, "outer", nodes[0].Attr[0].Val)
	}
}

func TestXPathEvaluate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cquery.dom")
	defer teardown()
	//
	root, err := html.Parse(strings.NewReader(doc))
	assert.NoError(t, err)
	n := xpath.MustCompile("count(//div)").Evaluate(NewNavigator(root))
	assert.Equal(t, 3.0, n)
	s := xpath.MustCompile("string(//div[@id='inner'])").Evaluate(NewNavigator(root))
	assert.Equal(t, "World", s)
}
