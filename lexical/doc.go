/*
Package lexical holds CSS property values in their tokenized, unevaluated form.

A value is represented as a chain of lexical units. Functions and parenthesized
blocks carry their arguments as a nested chain. Chains are produced by Parse and
are never mutated afterwards: substitution of var(), attr() and env() builds new
chains from clones.

Status

This is a very first draft. It is unstable and the API will change without
notice. Please be patient.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexical

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cssengine.lexical'.
func tracer() tracing.Trace {
	return tracing.Select("cssengine.lexical")
}
