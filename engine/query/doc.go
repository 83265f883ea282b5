/*
Package query implements the container query mini-language.

A container query is a predicate over the geometry of an element. Queries are
written like CSS media feature expressions:

    width >= 400px
    min-width: 400px and max-height: 80%
    100px <= width <= 500px
    not(intersection-height < 50%) using intersection-root: document
    {small: width <= 300px; large: width > 900px}

Queries are compiled into an immutable tree (type Query), which is evaluated
against snapshots of observed geometry (frame.Snapshot). Compiled queries are
cached by their literal source string, thus every client of a query string
shares one instance.

Property names are classified once at parse time into sizes (`width`,
`inner-height`, …), offsets relative to the offset parent (`top`, `left`, …),
intersection measures (`intersection-top`, `intersection-width`,
`intersection-ratio`, …) and generic fields of the content rect (`x`, `y`).
Literals are pixels, plain numbers, booleans or percentages; percentages
resolve against a reference rect depending on the property's category.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package query

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cquery.query'.
func tracer() tracing.Trace {
	return tracing.Select("cquery.query")
}
