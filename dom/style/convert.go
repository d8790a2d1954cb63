package style

import (
	"image/color"

	"github.com/npillmayer/cssengine/value"
)

// Color converts a serialized color value to a Go color. Property values
// which are not a concrete color (e.g., 'currentcolor' or a var() reference)
// yield nil.
func (p Property) Color() color.Color {
	v, err := value.FromText(string(p))
	if err != nil {
		return nil
	}
	switch c := v.(type) {
	case value.Color:
		return ToNRGBA(c)
	case value.Ident:
		if named, ok := value.NamedColor(string(c)); ok {
			return ToNRGBA(named)
		}
	}
	return nil
}

// ToNRGBA converts a color value to a non-alpha-premultiplied Go color.
func ToNRGBA(c value.Color) color.NRGBA {
	ch := func(x float64) uint8 {
		if x <= 0 {
			return 0
		}
		if x >= 255 {
			return 255
		}
		return uint8(x + 0.5)
	}
	return color.NRGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: ch(c.A * 255)}
}

// ColorString serializes a Go color as a CSS color value. nil is
// serialized as 'transparent'.
func ColorString(c color.Color) string {
	if c == nil {
		return "transparent"
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return value.Color{
		R: float64(n.R),
		G: float64(n.G),
		B: float64(n.B),
		A: float64(n.A) / 255,
	}.String()
}
