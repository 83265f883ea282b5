/*
Package dom implements a static DOM for observing element geometry
without a browser.

Documents are parsed from HTML with golang.org/x/net/html. Elements carry
the styles of their `<style>` sheets and inline style attributes; from
these a border box is derived. Boxes are not laid out: `left`, `top`,
`width` and `height` are read as page coordinates of the border box, which
may be changed programmatically afterwards (SetBox, Move).

Type Host turns a document into an observe.Host. It simulates the physical
resize and intersection observers of a browser: changes are collected until
Flush is called, which plays the part of a browser's rendering step and
invokes observer callbacks in a deterministic order.

Elements may be looked up by CSS selector (github.com/andybalholm/cascadia)
or by XPath (github.com/antchfx/xpath, see package xpathadapter).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cquery.dom'.
func tracer() tracing.Trace {
	return tracing.Select("cquery.dom")
}
