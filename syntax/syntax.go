/*
Package syntax matches lexical values against registered property syntax
descriptors, as used by @property rules and attr(... type(<syntax>)).

Supported are data type names, literal identifiers, the universal syntax '*',
alternatives with '|' and the multipliers '+' (space separated list) and '#'
(comma separated list).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package syntax

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/cssengine/lexical"
	"github.com/npillmayer/cssengine/value"
)

// ErrSyntaxDescriptor is returned for malformed syntax descriptors.
var ErrSyntaxDescriptor = errors.New("malformed syntax descriptor")

// Multiplier of a syntax component.
type Multiplier uint8

// Multipliers
const (
	Single Multiplier = iota
	SpaceList
	CommaList
)

// Component is a single alternative of a syntax.
type Component struct {
	Name       string // data type name without angle brackets, or a literal identifier
	Literal    bool
	Multiplier Multiplier
}

// Syntax is a parsed syntax descriptor. The nil Syntax and the syntax "*"
// match everything.
type Syntax struct {
	Alternatives []Component
	universal    bool
}

// Universal is the syntax '*'.
var Universal = &Syntax{universal: true}

// IsUniversal is true for the syntax '*' and for nil.
func (s *Syntax) IsUniversal() bool {
	return s == nil || s.universal
}

func (s *Syntax) String() string {
	if s.IsUniversal() {
		return "*"
	}
	var parts []string
	for _, c := range s.Alternatives {
		p := c.Name
		if !c.Literal {
			p = "<" + p + ">"
		}
		switch c.Multiplier {
		case SpaceList:
			p += "+"
		case CommaList:
			p += "#"
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " | ")
}

// Parse parses a syntax descriptor like "<length> | <percentage>+ | auto".
func Parse(descriptor string) (*Syntax, error) {
	descriptor = strings.TrimSpace(descriptor)
	if descriptor == "*" {
		return Universal, nil
	}
	if descriptor == "" {
		return nil, fmt.Errorf("%w: empty", ErrSyntaxDescriptor)
	}
	s := &Syntax{}
	for _, alt := range strings.Split(descriptor, "|") {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			return nil, fmt.Errorf("%w: empty alternative in %q", ErrSyntaxDescriptor, descriptor)
		}
		c := Component{}
		switch alt[len(alt)-1] {
		case '+':
			c.Multiplier = SpaceList
			alt = alt[:len(alt)-1]
		case '#':
			c.Multiplier = CommaList
			alt = alt[:len(alt)-1]
		}
		if strings.HasPrefix(alt, "<") && strings.HasSuffix(alt, ">") {
			c.Name = strings.ToLower(alt[1 : len(alt)-1])
			if _, known := dataTypes[c.Name]; !known {
				return nil, fmt.Errorf("%w: unknown data type %q", ErrSyntaxDescriptor, alt)
			}
		} else {
			if strings.ContainsAny(alt, "<> \t") {
				return nil, fmt.Errorf("%w: %q", ErrSyntaxDescriptor, alt)
			}
			c.Name, c.Literal = alt, true
		}
		s.Alternatives = append(s.Alternatives, c)
	}
	return s, nil
}

// Match checks a lexical chain against the syntax.
func (s *Syntax) Match(chain *lexical.Unit) bool {
	if s.IsUniversal() {
		return true
	}
	if chain == nil {
		return false
	}
	for _, c := range s.Alternatives {
		if c.match(chain) {
			return true
		}
	}
	return false
}

// MatchValue checks a typed value against the syntax.
func (s *Syntax) MatchValue(v value.Value) bool {
	if s.IsUniversal() {
		return true
	}
	if v == nil {
		return false
	}
	chain, err := lexical.Parse(v.String())
	if err != nil {
		return false
	}
	return s.Match(chain)
}

func (c Component) match(chain *lexical.Unit) bool {
	switch c.Multiplier {
	case SpaceList:
		for u := chain; u != nil; u = u.Next {
			if u.Type == lexical.Comma || !c.matchUnit(u) {
				return false
			}
		}
		return true
	case CommaList:
		for _, seg := range chain.SplitCommas() {
			if seg == nil || seg.Next != nil || !c.matchUnit(seg) {
				return false
			}
		}
		return true
	}
	return chain.Next == nil && c.matchUnit(chain)
}

func (c Component) matchUnit(u *lexical.Unit) bool {
	if c.Literal {
		return u.Type == lexical.Ident && u.Text == c.Name
	}
	return dataTypes[c.Name](u)
}

// --- Data types ------------------------------------------------------------

var dataTypes map[string]func(*lexical.Unit) bool

func init() {
	dataTypes = map[string]func(*lexical.Unit) bool{
		"length":             isLength,
		"number":             isNumber,
		"integer":            isInteger,
		"percentage":         isPercentage,
		"length-percentage":  func(u *lexical.Unit) bool { return isLength(u) || isPercentage(u) },
		"color":              isColor,
		"angle":              unitIn(value.AngleCategory),
		"time":               unitIn(value.TimeCategory),
		"resolution":         unitIn(value.ResolutionCategory),
		"custom-ident":       isCustomIdent,
		"ident":              func(u *lexical.Unit) bool { return u.Type == lexical.Ident },
		"string":             func(u *lexical.Unit) bool { return u.Type == lexical.String },
		"url":                func(u *lexical.Unit) bool { return u.Type == lexical.URI || u.IsFunction("url") },
		"image":              isImage,
		"transform-function": func(u *lexical.Unit) bool { return u.Type == lexical.Function },
		"transform-list":     func(u *lexical.Unit) bool { return u.Type == lexical.Function },
	}
}

func isMath(u *lexical.Unit) bool {
	return u.Type == lexical.Function && (u.Text == "calc" || value.IsMathFunctionName(u.Text))
}

func isLength(u *lexical.Unit) bool {
	switch u.Type {
	case lexical.Dimension:
		unit, ok := value.ParseUnit(u.Dim)
		return ok && unit.IsLength()
	case lexical.Number:
		return u.Num == 0
	}
	return isMath(u)
}

func isNumber(u *lexical.Unit) bool {
	return u.Type == lexical.Number || isMath(u)
}

func isInteger(u *lexical.Unit) bool {
	return (u.Type == lexical.Number && u.Num == float64(int64(u.Num))) || isMath(u)
}

func isPercentage(u *lexical.Unit) bool {
	return u.Type == lexical.Percentage || isMath(u)
}

func unitIn(cat value.Category) func(*lexical.Unit) bool {
	return func(u *lexical.Unit) bool {
		if u.Type != lexical.Dimension {
			return isMath(u)
		}
		unit, ok := value.ParseUnit(u.Dim)
		return ok && unit.Category() == cat
	}
}

func isColor(u *lexical.Unit) bool {
	switch u.Type {
	case lexical.Hash:
		_, ok := value.ParseHex(u.Text)
		return ok
	case lexical.Ident:
		if u.IsIdent("currentcolor") {
			return true
		}
		_, ok := value.NamedColor(u.Text)
		return ok
	case lexical.Function:
		return value.IsColorFunctionName(u.Text) || u.Text == "color-mix"
	}
	return false
}

func isCustomIdent(u *lexical.Unit) bool {
	if u.Type != lexical.Ident || u.IsIdent("default") {
		return false
	}
	_, wide := value.IsCSSWideKeyword(u.Text)
	return !wide
}

func isImage(u *lexical.Unit) bool {
	if u.Type == lexical.URI || u.IsFunction("url") {
		return true
	}
	if u.Type != lexical.Function {
		return false
	}
	return strings.HasSuffix(u.Text, "gradient") || u.Text == "image" || u.Text == "image-set" ||
		u.Text == "cross-fade" || u.Text == "element"
}
