package computed

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/npillmayer/cssengine/value"
)

// resolveColor computes a color value: named colors, color functions and
// color-mix() become RGBA colors, 'currentcolor' becomes the value of 'color'.
func (s *Style) resolveColor(r *resolution, property string, v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case value.Color:
		return t, nil
	case value.Ident:
		if t.Is("currentcolor") {
			return s.currentColor(r, property)
		}
		if c, ok := value.NamedColor(strings.ToLower(string(t))); ok {
			return c, nil
		}
		return nil, fmt.Errorf("%w: %s is not a color", ErrTypeMismatch, t)
	case value.ColorFunction:
		return s.colorFromFunction(r, property, t)
	case value.ColorMix:
		return s.mixColors(r, property, t)
	}
	return v, nil
}

// currentColor is the computed 'color' of the element. For 'color' itself it
// is the color of the parent.
func (s *Style) currentColor(r *resolution, property string) (value.Value, error) {
	if property != "color" {
		return s.compute(r, "color")
	}
	if s.parent == nil {
		return value.Black, nil
	}
	return s.parent.compute(r, "color")
}

// resolveToColor is like resolveColor but insists on a color result.
func (s *Style) resolveToColor(r *resolution, property string, v value.Value) (value.Color, error) {
	cv, err := s.resolveColor(r, property, v)
	if err != nil {
		return value.Color{}, err
	}
	c, ok := cv.(value.Color)
	if !ok {
		return value.Color{}, fmt.Errorf("%w: %v is not a color", ErrTypeMismatch, v)
	}
	return c, nil
}

// component evaluates a color component to a number. For percentages it
// returns the percentage times pctScale / 100; 'none' is zero. Angles are
// returned in degrees.
func (s *Style) component(r *resolution, property string, v value.Value, pctScale float64) (float64, error) {
	if id, ok := v.(value.Ident); ok && id.Is("none") {
		return 0, nil
	}
	av, err := s.absolutize(r, property, v)
	if err != nil {
		return 0, err
	}
	n, ok := av.(value.Numeric)
	if !ok {
		return 0, fmt.Errorf("%w: color component %v", ErrTypeMismatch, v)
	}
	switch n.Unit {
	case value.Number:
		return n.Num, nil
	case value.Percent:
		return n.Num * pctScale / 100, nil
	case value.DEG:
		return n.Num, nil
	}
	return 0, fmt.Errorf("%w: color component %v", ErrTypeMismatch, v)
}

// colorFromFunction converts rgb(), hsl(), hwb(), lab(), lch(), oklab() and
// oklch() to sRGB.
func (s *Style) colorFromFunction(r *resolution, property string, cf value.ColorFunction) (value.Value, error) {
	var scales [3]float64
	switch cf.Name {
	case "rgb":
		scales = [3]float64{255, 255, 255}
	case "hsl", "hwb":
		scales = [3]float64{1, 100, 100}
	case "lab":
		scales = [3]float64{100, 125, 125}
	case "lch":
		scales = [3]float64{100, 150, 1}
	case "oklab":
		scales = [3]float64{1, 0.4, 0.4}
	case "oklch":
		scales = [3]float64{1, 0.4, 1}
	default:
		return nil, fmt.Errorf("%w: unknown color function %s()", ErrTypeMismatch, cf.Name)
	}
	var c [3]float64
	for i, comp := range cf.Components {
		x, err := s.component(r, property, comp, scales[i])
		if err != nil {
			return nil, err
		}
		c[i] = x
	}
	alpha := 1.0
	if cf.Alpha != nil {
		a, err := s.component(r, property, cf.Alpha, 1)
		if err != nil {
			return nil, err
		}
		alpha = clamp01(a)
	}
	var col colorful.Color
	switch cf.Name {
	case "rgb":
		col = colorful.Color{R: c[0] / 255, G: c[1] / 255, B: c[2] / 255}
	case "hsl":
		rr, gg, bb := value.HSLToRGB(c[0], clamp01(c[1]/100), clamp01(c[2]/100))
		col = colorful.Color{R: rr, G: gg, B: bb}
	case "hwb":
		rr, gg, bb := value.HWBToRGB(c[0], clamp01(c[1]/100), clamp01(c[2]/100))
		col = colorful.Color{R: rr, G: gg, B: bb}
	case "lab":
		col = colorful.LabWhiteRef(c[0]/100, c[1]/100, c[2]/100, colorful.D50)
	case "lch":
		col = colorful.HclWhiteRef(c[2], c[1]/100, c[0]/100, colorful.D50)
	case "oklab":
		col = colorful.OkLab(c[0], c[1], c[2])
	case "oklch":
		col = colorful.OkLch(c[0], c[1], c[2])
	}
	return fromColorful(col, alpha), nil
}

func fromColorful(col colorful.Color, alpha float64) value.Color {
	col = col.Clamped()
	return value.Color{
		R: math.Round(col.R * 255),
		G: math.Round(col.G * 255),
		B: math.Round(col.B * 255),
		A: alpha,
	}
}

func toColorful(c value.Color) colorful.Color {
	return colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// mixColors computes color-mix(). Percentages are normalized; if they sum up
// to less than 100%, the alpha of the result is scaled down accordingly.
// Colors are interpolated with premultiplied alpha.
func (s *Style) mixColors(r *resolution, property string, cm value.ColorMix) (value.Value, error) {
	var colors [2]value.Color
	for i := range cm.Colors {
		c, err := s.resolveToColor(r, property, cm.Colors[i])
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	var pcts [2]float64
	var given [2]bool
	for i, p := range cm.Percents {
		if p == nil {
			continue
		}
		x, err := s.component(r, property, p, 100)
		if err != nil {
			return nil, err
		}
		if x < 0 || x > 100 {
			return nil, fmt.Errorf("%w: color-mix() percentage %v", ErrTypeMismatch, p)
		}
		pcts[i], given[i] = x, true
	}
	switch {
	case !given[0] && !given[1]:
		pcts = [2]float64{50, 50}
	case !given[0]:
		pcts[0] = 100 - pcts[1]
	case !given[1]:
		pcts[1] = 100 - pcts[0]
	}
	sum := pcts[0] + pcts[1]
	if sum <= 0 {
		return nil, fmt.Errorf("%w: color-mix() percentages sum up to zero", ErrTypeMismatch)
	}
	alphaMult := 1.0
	if sum < 100 {
		alphaMult = sum / 100
	}
	t := pcts[1] / sum
	a1, a2 := colors[0].A, colors[1].A
	alpha := (1-t)*a1 + t*a2
	if alpha > 0 {
		t = t * a2 / alpha // interpolation of premultiplied channels
	}
	mixed, err := blend(cm.Space, cm.Hue, toColorful(colors[0]), toColorful(colors[1]), t)
	if err != nil {
		return nil, err
	}
	return fromColorful(mixed, alpha*alphaMult), nil
}

// blend interpolates two colors in a color space.
func blend(space, hue string, c1, c2 colorful.Color, t float64) (colorful.Color, error) {
	switch space {
	case "srgb":
		return c1.BlendRgb(c2, t), nil
	case "srgb-linear", "xyz", "xyz-d50", "xyz-d65":
		return c1.BlendLinearRgb(c2, t), nil
	case "lab":
		l1, a1, b1 := c1.LabWhiteRef(colorful.D50)
		l2, a2, b2 := c2.LabWhiteRef(colorful.D50)
		return colorful.LabWhiteRef(lerp(l1, l2, t), lerp(a1, a2, t), lerp(b1, b2, t), colorful.D50), nil
	case "oklab":
		return c1.BlendOkLab(c2, t), nil
	case "lch":
		h1, ch1, l1 := c1.HclWhiteRef(colorful.D50)
		h2, ch2, l2 := c2.HclWhiteRef(colorful.D50)
		h := lerpHue(hue, h1, h2, t)
		return colorful.HclWhiteRef(h, lerp(ch1, ch2, t), lerp(l1, l2, t), colorful.D50), nil
	case "oklch":
		l1, ch1, h1 := c1.OkLch()
		l2, ch2, h2 := c2.OkLch()
		return colorful.OkLch(lerp(l1, l2, t), lerp(ch1, ch2, t), lerpHue(hue, h1, h2, t)), nil
	case "hsl":
		h1, s1, l1 := c1.Hsl()
		h2, s2, l2 := c2.Hsl()
		return colorful.Hsl(lerpHue(hue, h1, h2, t), lerp(s1, s2, t), lerp(l1, l2, t)), nil
	case "hwb":
		h1, w1, b1 := hwb(c1)
		h2, w2, b2 := hwb(c2)
		rr, gg, bb := value.HWBToRGB(lerpHue(hue, h1, h2, t), lerp(w1, w2, t), lerp(b1, b2, t))
		return colorful.Color{R: rr, G: gg, B: bb}, nil
	}
	return colorful.Color{}, fmt.Errorf("%w: color space %q", ErrTypeMismatch, space)
}

func hwb(c colorful.Color) (h, w, b float64) {
	h, s, v := c.Hsv()
	return h, (1 - s) * v, 1 - v
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// lerpHue interpolates hue angles in degrees with a hue interpolation method.
func lerpHue(method string, h1, h2, t float64) float64 {
	if math.IsNaN(h1) {
		h1 = h2
	}
	if math.IsNaN(h2) {
		h2 = h1
	}
	d := h2 - h1
	switch method {
	case "longer":
		if d > 0 && d < 180 {
			d -= 360
		} else if d > -180 && d <= 0 {
			d += 360
		}
	case "increasing":
		if d < 0 {
			d += 360
		}
	case "decreasing":
		if d > 0 {
			d -= 360
		}
	default: // shorter
		if d > 180 {
			d -= 360
		} else if d < -180 {
			d += 360
		}
	}
	h := math.Mod(h1+d*t, 360)
	if h < 0 {
		h += 360
	}
	return h
}
