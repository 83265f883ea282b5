/*
Package frame deals with the boxes of elements under observation.

Boxes follow the CSS box model: a border box, decorated on the inside by
border and padding, surrounds the content box. Observation primitives of a
browser report these boxes as records, which are collected into snapshots
for query evaluation.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package frame
