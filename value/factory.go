package value

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/cssengine/lexical"
)

// ErrEmpty is returned for an empty lexical chain.
var ErrEmpty = errors.New("empty property value")

// ErrInvalid flags lexical units which have no typed interpretation.
var ErrInvalid = errors.New("invalid property value")

// FromLexical creates a property value from a lexical chain.
//
// Chains which contain var(), attr() or env() anywhere become proxies and are
// left for substitution time. A single CSS-wide keyword becomes a Keyword.
// Top-level commas produce a comma list, whitespace separated units a space
// list.
func FromLexical(chain *lexical.Unit) (Value, error) {
	if chain == nil {
		return nil, ErrEmpty
	}
	if chain.ContainsProxy() {
		return Proxy{ProxyType: firstProxyType(chain), Chain: chain}, nil
	}
	if chain.IsCSSWide() {
		kw, _ := IsCSSWideKeyword(chain.Text)
		return kw, nil
	}
	segs := chain.SplitCommas()
	if len(segs) == 1 {
		return fromSegment(chain)
	}
	list := List{Comma: true, Items: make([]Value, 0, len(segs))}
	for _, seg := range segs {
		if seg == nil {
			return nil, fmt.Errorf("%w: empty list item in %q", ErrInvalid, chain)
		}
		v, err := fromSegment(seg)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, v)
	}
	return list, nil
}

// FromText parses text and creates a property value from it.
func FromText(text string) (Value, error) {
	chain, err := lexical.Parse(text)
	if err != nil {
		return nil, err
	}
	return FromLexical(chain)
}

// MustParse is like FromText, but panics on error. Intended for tables of
// constant values.
func MustParse(text string) Value {
	v, err := FromText(text)
	if err != nil {
		panic(fmt.Sprintf("value: cannot parse %q: %v", text, err))
	}
	return v
}

func fromSegment(seg *lexical.Unit) (Value, error) {
	if seg.Next == nil {
		return FromUnit(seg)
	}
	list := List{}
	for u := seg; u != nil; u = u.Next {
		v, err := FromUnit(u)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, v)
	}
	return list, nil
}

// FromUnit creates a typed value from a single lexical unit, ignoring its
// successors.
func FromUnit(u *lexical.Unit) (Value, error) {
	switch u.Type {
	case lexical.Ident:
		return Ident(u.Text), nil
	case lexical.Number:
		return Numeric{Num: u.Num, Unit: Number}, nil
	case lexical.Percentage:
		return Numeric{Num: u.Num, Unit: Percent}, nil
	case lexical.Dimension:
		unit, ok := ParseUnit(u.Dim)
		if !ok {
			return nil, fmt.Errorf("%w: unknown unit %q", ErrInvalid, u.Dim)
		}
		return Numeric{Num: u.Num, Unit: unit}, nil
	case lexical.String:
		return String(u.Text), nil
	case lexical.URI:
		return URI(u.Text), nil
	case lexical.Hash:
		if c, ok := ParseHex(u.Text); ok {
			return c, nil
		}
		return Ident("#" + u.Text), nil
	case lexical.Slash, lexical.Delim, lexical.Plus, lexical.Minus, lexical.Multiply:
		return Delim(u.Single().String()), nil
	case lexical.UnicodeRange:
		return Ident(u.Text), nil
	case lexical.Function:
		return fromFunction(u)
	case lexical.Paren:
		root, err := parseCalc(u.Params)
		if err != nil {
			return nil, err
		}
		return Expression{Root: root}, nil
	}
	return nil, fmt.Errorf("%w: unexpected %s %q", ErrInvalid, u.Type, u.Single())
}

func fromFunction(u *lexical.Unit) (Value, error) {
	switch {
	case u.Text == "calc" || u.Text == "-webkit-calc":
		root, err := parseCalc(u.Params)
		if err != nil {
			return nil, err
		}
		return Expression{Root: root}, nil
	case IsMathFunctionName(u.Text):
		return parseMathFunction(u)
	case IsColorFunctionName(u.Text):
		return parseColorFunction(u)
	case u.Text == "color-mix":
		return parseColorMix(u)
	case u.Text == "url":
		if u.Params == nil {
			return URI(""), nil
		}
	}
	f := Function{Name: u.Text}
	for _, arg := range u.Params.SplitCommas() {
		if arg == nil {
			continue
		}
		v, err := fromSegment(arg)
		if err != nil {
			return nil, err
		}
		f.Args = append(f.Args, v)
	}
	return f, nil
}

// parseColorFunction accepts both the legacy comma syntax and the modern
// space syntax with an optional "/ alpha".
func parseColorFunction(u *lexical.Unit) (Value, error) {
	name := u.Text
	switch name {
	case "rgba":
		name = "rgb"
	case "hsla":
		name = "hsl"
	}
	cf := ColorFunction{Name: name}
	var comps []*lexical.Unit
	segs := u.Params.SplitCommas()
	if len(segs) > 1 {
		for _, seg := range segs {
			if seg == nil || seg.Next != nil {
				return nil, fmt.Errorf("%w: %s()", ErrInvalid, u.Text)
			}
			comps = append(comps, seg)
		}
	} else {
		for p := u.Params; p != nil; p = p.Next {
			comps = append(comps, p.Single())
		}
	}
	for i, c := range comps {
		if c.Type == lexical.Slash {
			if len(segs) > 1 || i+2 != len(comps) {
				return nil, fmt.Errorf("%w: misplaced '/' in %s()", ErrInvalid, u.Text)
			}
			alpha, err := colorComponent(comps[i+1])
			if err != nil {
				return nil, err
			}
			cf.Alpha = alpha
			break
		}
		v, err := colorComponent(c)
		if err != nil {
			return nil, err
		}
		if len(cf.Components) == 3 {
			if cf.Alpha != nil || len(segs) == 1 {
				return nil, fmt.Errorf("%w: too many components in %s()", ErrInvalid, u.Text)
			}
			cf.Alpha = v
			continue
		}
		cf.Components = append(cf.Components, v)
	}
	if len(cf.Components) != 3 {
		return nil, fmt.Errorf("%w: %s() needs 3 components", ErrInvalid, u.Text)
	}
	return cf, nil
}

func colorComponent(u *lexical.Unit) (Value, error) {
	if u.Type == lexical.Ident {
		if strings.EqualFold(u.Text, "none") {
			return Ident("none"), nil
		}
		return nil, fmt.Errorf("%w: color component %q", ErrInvalid, u.Text)
	}
	return FromUnit(u)
}

// parseColorMix parses
//
//	color-mix(in <space> [<hue-method> hue]?, <color> <percentage>?, <color> <percentage>?)
func parseColorMix(u *lexical.Unit) (Value, error) {
	segs := u.Params.SplitCommas()
	if len(segs) != 3 || segs[0] == nil || !segs[0].IsIdent("in") || segs[0].Next == nil {
		return nil, fmt.Errorf("%w: color-mix() expects an interpolation method and two colors", ErrInvalid)
	}
	cm := ColorMix{Space: strings.ToLower(segs[0].Next.Text)}
	if h := segs[0].Next.Next; h != nil {
		if h.Next == nil || !h.Next.IsIdent("hue") {
			return nil, fmt.Errorf("%w: color-mix() hue interpolation method", ErrInvalid)
		}
		cm.Hue = strings.ToLower(h.Text)
	}
	for i, seg := range segs[1:] {
		if seg == nil {
			return nil, fmt.Errorf("%w: color-mix() missing color", ErrInvalid)
		}
		var color, pct *lexical.Unit
		for p := seg; p != nil; p = p.Next {
			if p.Type == lexical.Percentage && pct == nil {
				pct = p
			} else if color == nil {
				color = p
			} else {
				return nil, fmt.Errorf("%w: color-mix() color %q", ErrInvalid, seg)
			}
		}
		if color == nil {
			return nil, fmt.Errorf("%w: color-mix() missing color", ErrInvalid)
		}
		c, err := FromUnit(color)
		if err != nil {
			return nil, err
		}
		cm.Colors[i] = c
		if pct != nil {
			cm.Percents[i] = Numeric{Num: pct.Num, Unit: Percent}
		}
	}
	return cm, nil
}

func firstProxyType(chain *lexical.Unit) ProxyType {
	for u := chain; u != nil; u = u.Next {
		if u.Type == lexical.Function && lexical.IsProxyFunction(u.Text) {
			return proxyTypeOf(u.Text)
		}
		if u.Params.ContainsProxy() {
			return firstProxyType(u.Params)
		}
	}
	return VarProxy
}
