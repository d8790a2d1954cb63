/*
Package cssom provides the CSS object model and the cascade.

CSSOM is the "CSS Object Model", similar to the DOM for HTML. A CSSOM
collects the rules of the stylesheets of a document, together with their
origin (user agent, author or inline). For an HTML element, the cascade
selects the winning declaration of every property and produces the
declared style of the element, which is the input for computing styles
(see package computed).

There is not very much open source Go code around for supporting us
in implementing a styling engine, except the great work of
https://godoc.org/github.com/andybalholm/cascadia, which we use for
selector matching and specificity.
CSS handling is de-coupled by introducing appropriate interfaces
StyleSheet and Rule. A concrete implementation may be found in sub-package
douceuradapter.

A good explanation of styling may be found in

   https://hacks.mozilla.org/2017/08/inside-a-super-fast-css-engine-quantum-css-aka-stylo/

Rules for @property register custom properties with the registry of the
CSSOM. @media rules apply if their media type list matches the target medium;
media features are not supported.

Status

This is a very first draft. It is unstable and the API will change without
notice. Please be patient.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cssom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cssengine.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("cssengine.cssom")
}
