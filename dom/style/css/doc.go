/*
Package css provides layout-facing views of computed CSS styles.

Computed styles of package computed hold values in their CSS form, with
lengths in points. Layout engines need them as option types instead:
dimensions (DimenT) in design units of package tyse/core/dimen, display
modes (DisplayMode) for box generation and positions (PositionT) with
their offsets. DimenT comes with a matcher to be used in switch statements
and a generic pattern expression. PositionT exposes its scheme as a
PositionKind, which switches directly.

Property values may as well be read as serialized text, with GetProperty
for computed values and GetLocalProperty for values as declared.

Status

This is a very first draft. It is unstable and the API will change without
notice. Please be patient.


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package css

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cssengine.css'.
func tracer() tracing.Trace {
	return tracing.Select("cssengine.css")
}
