/*
Package option implements option types and matching on them.

Option types are used for values which may be unset, e.g. CSS properties
not given by a style declaration. Matching dispatches on unset values,
concrete values and "some" value:

    x.Match(option.Of{
        option.None: …,
        "fixed":     …,
        option.Some: …,
    })

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package option

import (
	"github.com/npillmayer/schuko/tracing"
)

// Tracer traces with key 'cquery.core'.
func Tracer() tracing.Trace {
	return tracing.Select("cquery.core")
}
