/*
Package value implements typed CSS property values.

A property value is one of five kinds: a CSS-wide keyword, a typed value, a
list of values, a proxy still waiting for var(), attr() or env() substitution,
or a lexical value, i.e. an unevaluated token chain as kept for custom
properties.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package value

import (
	"strings"

	"github.com/npillmayer/cssengine/lexical"
)

// Kind is the kind of a property value.
type Kind uint8

// The kinds of property values.
const (
	KeywordKind Kind = iota
	TypedKind
	ListKind
	ProxyKind
	LexicalKind
)

func (k Kind) String() string {
	switch k {
	case KeywordKind:
		return "Keyword"
	case TypedKind:
		return "Typed"
	case ListKind:
		return "List"
	case ProxyKind:
		return "Proxy"
	}
	return "Lexical"
}

// Value is a CSS property value.
type Value interface {
	Kind() Kind
	String() string
}

// Type is the primitive type of a typed value.
type Type uint8

// Primitive types of typed values.
const (
	IdentType Type = iota + 1
	NumericType
	ColorType
	ColorFunctionType
	ColorMixType
	ExpressionType
	MathFunctionType
	URIType
	StringType
	FunctionType
	DelimType
	UnrecognizedType
)

// Typed is a value with a primitive type.
type Typed interface {
	Value
	Type() Type
}

// --- Keywords --------------------------------------------------------------

// Keyword is one of the CSS-wide keywords.
type Keyword uint8

// CSS-wide keywords.
const (
	Inherit Keyword = iota + 1
	Initial
	Unset
	Revert
	RevertLayer
)

var keywordNames = map[Keyword]string{
	Inherit:     "inherit",
	Initial:     "initial",
	Unset:       "unset",
	Revert:      "revert",
	RevertLayer: "revert-layer",
}

// Kind is KeywordKind.
func (kw Keyword) Kind() Kind { return KeywordKind }

func (kw Keyword) String() string { return keywordNames[kw] }

// IsCSSWideKeyword checks an identifier for being a CSS-wide keyword and
// returns it.
func IsCSSWideKeyword(ident string) (Keyword, bool) {
	ident = strings.ToLower(ident)
	for kw, name := range keywordNames {
		if name == ident {
			return kw, true
		}
	}
	return 0, false
}

// --- Simple typed values ---------------------------------------------------

// Ident is an identifier.
type Ident string

func (id Ident) Kind() Kind     { return TypedKind }
func (id Ident) Type() Type     { return IdentType }
func (id Ident) String() string { return string(id) }

// Is compares an identifier ASCII case-insensitively.
func (id Ident) Is(name string) bool {
	return strings.EqualFold(string(id), name)
}

// Numeric is a number with a unit. Unitless numbers have unit Number.
type Numeric struct {
	Num  float64
	Unit Unit
}

func (n Numeric) Kind() Kind { return TypedKind }
func (n Numeric) Type() Type { return NumericType }

func (n Numeric) String() string {
	return lexical.FormatNumber(n.Num) + n.Unit.String()
}

// Points creates a length in points.
func Points(pt float64) Numeric {
	return Numeric{Num: pt, Unit: PT}
}

// URI is the address of a url() value.
type URI string

func (u URI) Kind() Kind     { return TypedKind }
func (u URI) Type() Type     { return URIType }
func (u URI) String() string { return "url(" + lexical.Quote(string(u)) + ")" }

// String is a CSS string, stored unquoted.
type String string

func (s String) Kind() Kind     { return TypedKind }
func (s String) Type() Type     { return StringType }
func (s String) String() string { return lexical.Quote(string(s)) }

// Delim is a delimiter within a space separated list, e.g. the slash of
// "font: 12pt/14pt serif".
type Delim string

func (d Delim) Kind() Kind     { return TypedKind }
func (d Delim) Type() Type     { return DelimType }
func (d Delim) String() string { return string(d) }

// Unrecognized holds the text of tokens with no typed interpretation, as may
// occur in unregistered custom properties.
type Unrecognized string

func (u Unrecognized) Kind() Kind     { return TypedKind }
func (u Unrecognized) Type() Type     { return UnrecognizedType }
func (u Unrecognized) String() string { return string(u) }

// Function is a function value without dedicated support, e.g.
// linear-gradient() or counter(). Args holds comma separated arguments.
type Function struct {
	Name string
	Args []Value
}

func (f Function) Kind() Kind { return TypedKind }
func (f Function) Type() Type { return FunctionType }

func (f Function) String() string {
	return f.Name + "(" + joinValues(f.Args, ", ") + ")"
}

// --- Lists -----------------------------------------------------------------

// List is a list of values, separated by commas or by whitespace.
type List struct {
	Items []Value
	Comma bool
}

func (l List) Kind() Kind { return ListKind }

func (l List) String() string {
	if l.Comma {
		return joinValues(l.Items, ", ")
	}
	return joinValues(l.Items, " ")
}

func joinValues(vals []Value, sep string) string {
	var sb strings.Builder
	for i, v := range vals {
		if i > 0 {
			sb.WriteString(sep)
		}
		if v != nil {
			sb.WriteString(v.String())
		}
	}
	return sb.String()
}

// --- Proxies and lexical values --------------------------------------------

// ProxyType tells which kind of substitution a proxy waits for.
type ProxyType uint8

// Proxy types.
const (
	VarProxy ProxyType = iota + 1
	AttrProxy
	EnvProxy
	// PendingProxy is a longhand of a shorthand whose value contained
	// substitution functions. It resolves by substituting the shorthand's
	// chain and expanding it again.
	PendingProxy
)

// Proxy is a value which requires substitution before it is concrete.
type Proxy struct {
	ProxyType ProxyType
	Chain     *lexical.Unit
	Shorthand string // for pending proxies
}

func (p Proxy) Kind() Kind     { return ProxyKind }
func (p Proxy) String() string { return p.Chain.String() }

// Lexical is an unevaluated token chain.
type Lexical struct {
	Chain *lexical.Unit
}

func (lx Lexical) Kind() Kind     { return LexicalKind }
func (lx Lexical) String() string { return lx.Chain.String() }

// IsConcrete is false for keywords, proxies and lexical values, and for lists
// containing one of those.
func IsConcrete(v Value) bool {
	if v == nil {
		return false
	}
	switch v.Kind() {
	case KeywordKind, ProxyKind, LexicalKind:
		return false
	case ListKind:
		for _, item := range v.(List).Items {
			if !IsConcrete(item) {
				return false
			}
		}
	}
	return true
}
