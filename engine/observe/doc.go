/*
Package observe multiplexes physical observers of element geometry.

Browsers offer two kinds of observation primitives, resize observers and
intersection observers. Type Registry maintains exactly one physical resize
observer and one physical intersection observer per distinct intersection
root, however many queries request observation of however many targets.
Physical callbacks are fanned out to the query subscriptions interested in
the affected target: each distinct query is evaluated once per event, and
the result is delivered to every subscriber of that query.

Per target, the registry keeps the last geometry seen: the target's rect,
its offset parent's rect and an intersection record per root. Every
evaluation reads a snapshot of this state. Callbacks may subscribe or
cancel during dispatch; dispatch iterates over copies.

Hosts (type Host) create the physical observers. Package dom provides a
simulated host, package rodhost one driving a real browser.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package observe

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cquery.observe'.
func tracer() tracing.Trace {
	return tracing.Select("cquery.observe")
}
