/*
Package cquery matches elements against container queries.

A container query is a predicate over the geometry of an element: its own
size, its offsets within its offset parent, and its intersection with a
root. Clients call MatchRect with a target element and a query string and
get back a QueryHandle, which is re-evaluated whenever physical observers
report new geometry for the target:

    engine := cquery.New(host)
    h, err := engine.MatchRect(card, "min-width: 400px and top < 20%", false)
    remove := h.OnChange(func(c cquery.Change) {
        fmt.Println(c.Result)
    })

Queries may be composite, evaluating several named sub-queries at once:

    {small: width <= 300px; large: width > 900px} using intersection-root: document

Engines are usually obtained from an environment scope (see Init), which
ties engine parameters to a host.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cquery.engine'.
func tracer() tracing.Trace {
	return tracing.Select("cquery.engine")
}
