/*
Package computed resolves computed values of CSS properties.

A Style combines the declared style of an element with the computed style of
its parent. Asking a Style for a property runs the resolution pipeline:
declared value, substitution of var(), attr() and env(), inheritance, initial
values, unit absolutization and property specific computations like display
blockification or currentcolor.

Resolution never fails with an error visible to callers of CSSValue. If a
value cannot be resolved, the property falls back to inheriting or to its
initial value, and a diagnostic is reported to the Diagnostics sink of the
style.

All lengths are absolutized to points.

Status

This is a very first draft. It is unstable and the API will change without
notice. Please be patient.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package computed

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cssengine.computed'.
func tracer() tracing.Trace {
	return tracing.Select("cssengine.computed")
}
