/*
Package styledb provides device and font metrics to style computation.

Some units cannot be resolved from the font size alone: 'ex', 'ch', 'ic' and
'cap' depend on glyph metrics, viewport units on the output device. A Database
answers these questions. Static is a table- and ratio-driven implementation,
configurable from YAML.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package styledb

import (
	"github.com/npillmayer/cssengine/value"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cssengine.styledb'.
func tracer() tracing.Trace {
	return tracing.Select("cssengine.styledb")
}

// TextStyle describes the font text is measured with.
type TextStyle struct {
	Family string  // first family of font-family
	Size   float64 // font size in points
	Weight string
	Style  string
}

// Database is the style database collaborator of style computation.
// Sizes are in points unless noted otherwise.
type Database interface {
	// FontSizeFromIdentifier maps an absolute font-size keyword
	// ("xx-small" … "xxx-large") to a size for a font family.
	FontSizeFromIdentifier(family, keyword string) (float64, bool)
	// ExSizeInPt returns the x-height of a font at a given size.
	ExSizeInPt(family string, size float64) float64
	// StringWidth measures the advance width of a text.
	StringWidth(text string, style TextStyle) float64
	// CapHeight returns the cap height of a font.
	CapHeight(style TextStyle) float64
	// DeviceWidth returns the width of the output device in its natural unit.
	DeviceWidth() (float64, value.Unit)
	// DeviceHeight returns the height of the output device in its natural unit.
	DeviceHeight() (float64, value.Unit)
	// EnvValue returns the value of an environment variable for env().
	EnvValue(name string) (value.Value, bool)
	// Medium returns the target medium, e.g. "screen" or "print".
	Medium() string
}

// Viewport is the initial containing block of a document, in points.
type Viewport interface {
	ViewportWidth() float64
	ViewportHeight() float64
}

// FixedViewport is a Viewport of constant size, in points.
type FixedViewport struct {
	Width, Height float64
}

// ViewportWidth returns the width of the viewport.
func (vp FixedViewport) ViewportWidth() float64 { return vp.Width }

// ViewportHeight returns the height of the viewport.
func (vp FixedViewport) ViewportHeight() float64 { return vp.Height }

// DefaultViewport returns the viewport size assumed for a medium if neither an
// explicit viewport nor a style database is present.
func DefaultViewport(medium string) FixedViewport {
	switch medium {
	case "print":
		return FixedViewport{Width: 595.28, Height: 841.89} // A4
	case "handheld":
		return FixedViewport{Width: 480 * 0.75, Height: 640 * 0.75}
	}
	return FixedViewport{Width: 1280 * 0.75, Height: 720 * 0.75}
}

// FontSizeKeywords is the ladder of absolute font-size keywords, from
// smallest to largest, which 'larger' and 'smaller' step along.
// 'xxx-large' is an absolute keyword outside of the ladder.
var FontSizeKeywords = []string{"xx-small", "x-small", "small", "medium", "large",
	"x-large", "xx-large"}

// DefaultFontSizes holds the size in points for every keyword of
// FontSizeKeywords, with 'medium' = 12pt.
var DefaultFontSizes = []float64{8, 9, 10, 12, 14, 18, 24}

// DefaultXXXLarge is the default size of 'xxx-large', three times 'medium'.
const DefaultXXXLarge = 36.0

// KeywordIndex returns the position of a keyword in FontSizeKeywords.
func KeywordIndex(keyword string) (int, bool) {
	for i, kw := range FontSizeKeywords {
		if kw == keyword {
			return i, true
		}
	}
	return -1, false
}
