/*
Package dom provides the document collaborator of style computation.

A Document wraps an HTML parse tree (golang.org/x/net/html), together with
its stylesheets, the property registry, an optional style database and
the viewport. For every element it cascades the declared style and builds
the computed style on demand (see package computed). Computed styles are
cached until the document is invalidated.

The document is the diagnostics sink of all of its computed styles:
problems found during style resolution are recorded as Diagnostic
records, which clients may inspect after having read the styles they
are interested in.

Status

Early draft—API may change frequently. Please stay patient.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'cssengine.dom'
func tracer() tracing.Trace {
	return tracing.Select("cssengine.dom")
}
