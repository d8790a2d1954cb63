package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cssengine/lexical"
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'cssengine.dom'
func tracer() tracing.Trace {
	return tracing.Select("cssengine.dom")
}

// Property is a raw value for a CSS property. For example, with
//
//     color: black
//
// a property value of "black" is set. The main purpose of wrapping
// the raw string value into type Property is to provide a set of
// convenient helpers for clients reading serialized computed values.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// IsInitial denotes if a property is of inheritence-type "initial"
func (p Property) IsInitial() bool {
	return p == "initial"
}

// IsInherit denotes if a property is of inheritence-type "inherit"
func (p Property) IsInherit() bool {
	return p == "inherit"
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return p == ""
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key   string
	Value Property
}

// IsCustomProperty is true for author defined properties "--name".
func IsCustomProperty(key string) bool {
	return strings.HasPrefix(key, "--")
}

// NormalizeKey lower-cases standard property names. Custom property names are
// case-sensitive and left untouched.
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if IsCustomProperty(key) {
		return key
	}
	return strings.ToLower(key)
}

// --- CSS Property Groups ----------------------------------------------

// GroupNameFromPropertyKey returns the style property group name for a
// style property.
// Example:
//    GroupNameFromPropertyKey("margin-top") => "Margins"
//
// Unknown style property keys will return a group name of "X".
func GroupNameFromPropertyKey(key string) string {
	if IsCustomProperty(key) {
		return PGCustom
	}
	if info, ok := standardProperties()[key]; ok {
		return info.Group
	}
	return PGX
}

// Symbolic names for string literals, denoting property groups.
const (
	PGMargins    = "Margins"
	PGPadding    = "Padding"
	PGBorder     = "Border"
	PGDimension  = "Dimension"
	PGDisplay    = "Display"
	PGRegion     = "Region"
	PGColor      = "Color"
	PGBackground = "Background"
	PGFont       = "Font"
	PGText       = "Text"
	PGList       = "List"
	PGAural      = "Aural"
	PGUI         = "UI"
	PGCustom     = "Custom"
	PGX          = "X"
)

// IsCascading returns wether the standard behaviour for a propery is to be
// inherited or not, i.e., a call to retrieve its value will cascade.
// Custom properties always cascade.
func IsCascading(key string) bool {
	if IsCustomProperty(key) {
		return true
	}
	if info, ok := standardProperties()[key]; ok {
		return info.Inherited
	}
	return false
}

// --- Shorthands -------------------------------------------------------

// SplitCompoundProperty splits up a shortcut property into its individual
// components. Returns a slice of key-value pairs representing the
// individual (fine grained) style properties.
// Example:
//    SplitCompountProperty("padding", "3px")
// will return
//    "padding-top"    => "3px"
//    "padding-right"  => "3px"
//    "padding-bottom" => "3px"
//    "padding-left  " => "3px"
// For the logic behind this, refer to e.g.
// https://www.w3schools.com/css/css_padding.asp .
func SplitCompoundProperty(key string, value Property) ([]KeyValue, error) {
	chain, err := lexical.Parse(value.String())
	if err != nil {
		return nil, err
	}
	longhands, err := ExpandShorthand(key, chain)
	if err != nil {
		return nil, err
	}
	kv := make([]KeyValue, len(longhands))
	for i, lh := range longhands {
		kv[i] = KeyValue{lh.Key, Property(lh.Value.String())}
	}
	return kv, nil
}

// Longhand is a longhand property with its lexical value, as produced by the
// expansion of a shorthand.
type Longhand struct {
	Key   string
	Value *lexical.Unit
}

// ExpandShorthand distributes the lexical value of a shorthand property onto
// its longhands. The chain must be free of var(), attr() and env().
func ExpandShorthand(key string, chain *lexical.Unit) ([]Longhand, error) {
	fields, err := fieldsOf(key, chain)
	if err != nil {
		return nil, err
	}
	switch key {
	case "margin":
		return feazeCompound4("margin", "", fourDirs, fields)
	case "padding":
		return feazeCompound4("padding", "", fourDirs, fields)
	case "inset":
		return feazeCompound4("", "", fourDirs, fields)
	case "border-color":
		return feazeCompound4("border", "color", fourDirs, fields)
	case "border-width":
		return feazeCompound4("border", "width", fourDirs, fields)
	case "border-style":
		return feazeCompound4("border", "style", fourDirs, fields)
	case "border-radius":
		return feazeCompound4("border", "radius", fourCorners, fields)
	case "overflow":
		return feazeCompound2("overflow", fields)
	}
	return nil, fmt.Errorf("not recognized as compound property: %s", key)
}

func fieldsOf(key string, chain *lexical.Unit) ([]*lexical.Unit, error) {
	var fields []*lexical.Unit
	for u := chain; u != nil; u = u.Next {
		if u.Type == lexical.Comma || u.Type == lexical.Slash {
			return nil, fmt.Errorf("unsupported separator in value of %s", key)
		}
		f := u.Single()
		f.SpaceBefore = false
		fields = append(fields, f)
	}
	return fields, nil
}

// CSS logic to distribute individual values from compound shortcuts is as
// follows: https://www.w3schools.com/css/css_border.asp
func feazeCompound4(pre string, suf string, dirs [4]string, fields []*lexical.Unit) ([]Longhand, error) {
	l := len(fields)
	if l == 0 || l > 4 {
		return nil, fmt.Errorf("expecting 1-4 values for %s-%s", pre, suf)
	}
	r := make([]Longhand, 4)
	r[0] = Longhand{p(pre, suf, dirs[0]), fields[0]}
	if l >= 2 {
		r[1] = Longhand{p(pre, suf, dirs[1]), fields[1]}
		if l >= 3 {
			r[2] = Longhand{p(pre, suf, dirs[2]), fields[2]}
			if l == 4 {
				r[3] = Longhand{p(pre, suf, dirs[3]), fields[3]}
			} else {
				r[3] = Longhand{p(pre, suf, dirs[3]), fields[1].Single()}
			}
		} else {
			r[2] = Longhand{p(pre, suf, dirs[2]), fields[0].Single()}
			r[3] = Longhand{p(pre, suf, dirs[3]), fields[1].Single()}
		}
	} else {
		r[1] = Longhand{p(pre, suf, dirs[1]), fields[0].Single()}
		r[2] = Longhand{p(pre, suf, dirs[2]), fields[0].Single()}
		r[3] = Longhand{p(pre, suf, dirs[3]), fields[0].Single()}
	}
	return r, nil
}

func feazeCompound2(pre string, fields []*lexical.Unit) ([]Longhand, error) {
	switch len(fields) {
	case 1:
		return []Longhand{{pre + "-x", fields[0]}, {pre + "-y", fields[0].Single()}}, nil
	case 2:
		return []Longhand{{pre + "-x", fields[0]}, {pre + "-y", fields[1]}}, nil
	}
	return nil, fmt.Errorf("expecting 1-2 values for %s", pre)
}

var fourDirs = [4]string{"top", "right", "bottom", "left"}
var fourCorners = [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}

func p(prefix string, suffix string, tag string) string {
	if suffix == "" && prefix == "" {
		return tag
	}
	if suffix == "" {
		return prefix + "-" + tag
	}
	if prefix == "" {
		return tag + "-" + suffix
	}
	return prefix + "-" + tag + "-" + suffix
}
