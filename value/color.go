package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/cssengine/lexical"
	"golang.org/x/image/colornames"
)

// Color is a concrete sRGB color. R, G and B range from 0 to 255, A from 0 to 1.
type Color struct {
	R, G, B float64
	A       float64
}

func (c Color) Kind() Kind { return TypedKind }
func (c Color) Type() Type { return ColorType }

func (c Color) String() string {
	r, g, b := channel(c.R), channel(c.G), channel(c.B)
	if c.A >= 1 {
		return "rgb(" + r + ", " + g + ", " + b + ")"
	}
	a := lexical.FormatNumber(math.Round(math.Max(0, c.A)*1000) / 1000)
	return "rgba(" + r + ", " + g + ", " + b + ", " + a + ")"
}

func channel(x float64) string {
	return strconv.Itoa(int(math.Round(clamp(x, 0, 255))))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Transparent is fully transparent black.
var Transparent = Color{0, 0, 0, 0}

// Black is the initial value of property color.
var Black = Color{0, 0, 0, 1}

// NamedColor looks up a CSS color keyword. transparent and rebeccapurple
// are included.
func NamedColor(name string) (Color, bool) {
	name = strings.ToLower(name)
	switch name {
	case "transparent":
		return Transparent, true
	case "rebeccapurple":
		return Color{R: 0x66, G: 0x33, B: 0x99, A: 1}, true
	}
	c, ok := colornames.Map[name]
	if !ok {
		return Color{}, false
	}
	return Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A) / 255}, true
}

// ParseHex parses the digits of a hex color (without '#'), in one of the
// forms rgb, rgba, rrggbb or rrggbbaa.
func ParseHex(hex string) (Color, bool) {
	digit := func(i int) (float64, bool) {
		n, err := strconv.ParseUint(hex[i:i+1], 16, 8)
		return float64(n), err == nil
	}
	pair := func(i int) (float64, bool) {
		n, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		return float64(n), err == nil
	}
	var ch [4]float64
	ch[3] = 255
	switch len(hex) {
	case 3, 4:
		for i := 0; i < len(hex); i++ {
			d, ok := digit(i)
			if !ok {
				return Color{}, false
			}
			ch[i] = d*16 + d
		}
	case 6, 8:
		for i := 0; i < len(hex)/2; i++ {
			d, ok := pair(2 * i)
			if !ok {
				return Color{}, false
			}
			ch[i] = d
		}
	default:
		return Color{}, false
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3] / 255}, true
}

// ColorFunction is a color function like rgb(), hsl() or oklch() whose
// components still need resolution (e.g. calc() or var() arguments).
// Components hold the three color channels, Alpha is nil if not given.
type ColorFunction struct {
	Name       string
	Components []Value
	Alpha      Value
}

func (cf ColorFunction) Kind() Kind { return TypedKind }
func (cf ColorFunction) Type() Type { return ColorFunctionType }

func (cf ColorFunction) String() string {
	s := cf.Name + "(" + joinValues(cf.Components, " ")
	if cf.Alpha != nil {
		s += " / " + cf.Alpha.String()
	}
	return s + ")"
}

// ColorMix is a color-mix() value. Percents are nil if omitted.
type ColorMix struct {
	Space    string
	Hue      string // hue interpolation method, or ""
	Colors   [2]Value
	Percents [2]Value
}

func (cm ColorMix) Kind() Kind { return TypedKind }
func (cm ColorMix) Type() Type { return ColorMixType }

func (cm ColorMix) String() string {
	var sb strings.Builder
	sb.WriteString("color-mix(in ")
	sb.WriteString(cm.Space)
	if cm.Hue != "" {
		sb.WriteString(" " + cm.Hue + " hue")
	}
	for i := 0; i < 2; i++ {
		sb.WriteString(", ")
		if cm.Colors[i] != nil {
			sb.WriteString(cm.Colors[i].String())
		}
		if cm.Percents[i] != nil {
			sb.WriteString(" " + cm.Percents[i].String())
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// IsColorFunctionName checks if name is a supported color function.
func IsColorFunctionName(name string) bool {
	switch name {
	case "rgb", "rgba", "hsl", "hsla", "hwb", "lab", "lch", "oklab", "oklch":
		return true
	}
	return false
}

// HSLToRGB converts hue (degrees), saturation and lightness (0..1) to sRGB
// channels in the range 0..1.
func HSLToRGB(hue, sat, light float64) (r, g, b float64) {
	hue /= 360
	var t2 float64
	if light <= 0.5 {
		t2 = (sat + 1) * light
	} else {
		t2 = light + sat - light*sat
	}
	t1 := light*2 - t2
	r = hueToRGB(t1, t2, hue+1.0/3.0)
	g = hueToRGB(t1, t2, hue)
	b = hueToRGB(t1, t2, hue-1.0/3.0)
	return
}

func hueToRGB(t1, t2, hue float64) float64 {
	hue -= math.Floor(hue)
	hue *= 6
	switch {
	case hue < 1:
		return t1 + (t2-t1)*hue
	case hue < 3:
		return t2
	case hue < 4:
		return t1 + (t2-t1)*(4-hue)
	}
	return t1
}

// HWBToRGB converts hue (degrees), whiteness and blackness (0..1) to sRGB
// channels in the range 0..1.
func HWBToRGB(hue, white, black float64) (r, g, b float64) {
	if white+black >= 1 {
		gray := white / (white + black)
		return gray, gray, gray
	}
	delta := 1 - white - black
	r, g, b = HSLToRGB(hue, 1, 0.5)
	return delta*r + white, delta*g + white, delta*b + white
}
