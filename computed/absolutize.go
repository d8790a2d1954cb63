package computed

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/npillmayer/cssengine/styledb"
	"github.com/npillmayer/cssengine/value"
)

// Approximations of font metrics, as ratios of the font size, used for font
// sizes if no style database is present.
const (
	fallbackEx  = 0.5
	fallbackCh  = 0.5
	fallbackIc  = 1.0
	fallbackCap = 0.7
)

const normalLineHeight = 1.2

// absolutize converts relative units of a value to absolute ones. Units
// depending on font metrics are left untouched if no style database is
// present; the value is then returned together with ErrStyleDatabaseRequired.
func (s *Style) absolutize(r *resolution, property string, v value.Value) (value.Value, error) {
	return s.absolutizeWith(r, property, v, false)
}

func (s *Style) absolutizeWith(r *resolution, property string, v value.Value, force bool) (value.Value, error) {
	switch t := v.(type) {
	case value.Numeric:
		return s.absolutizeNumeric(r, property, t, force)
	case value.List:
		items := make([]value.Value, len(t.Items))
		var soft error
		for i, item := range t.Items {
			av, err := s.absolutizeWith(r, property, item, force)
			if err != nil {
				if !errors.Is(err, ErrStyleDatabaseRequired) {
					return nil, err
				}
				soft = err
			}
			items[i] = av
		}
		return value.List{Items: items, Comma: t.Comma}, soft
	case value.Function:
		args := make([]value.Value, len(t.Args))
		var soft error
		for i, arg := range t.Args {
			av, err := s.absolutizeWith(r, property, arg, force)
			if err != nil {
				if !errors.Is(err, ErrStyleDatabaseRequired) {
					return nil, err
				}
				soft = err
			}
			args[i] = av
		}
		return value.Function{Name: t.Name, Args: args}, soft
	case value.Expression, value.Sum, value.Product, value.Negate, value.Invert, value.MathFunction:
		return s.evaluator(r, property, force).Evaluate(t)
	}
	return v, nil
}

// absolutizeNumeric converts a single number to points, if it is a length.
// force selects the metric approximations instead of failing without a style
// database.
func (s *Style) absolutizeNumeric(r *resolution, property string, n value.Numeric, force bool) (value.Numeric, error) {
	switch n.Unit.Category() {
	case value.AbsoluteLength:
		f, _ := n.Unit.ToPoints()
		return value.Points(n.Num * f), nil
	case value.FontRelative:
		base, err := s.fontRelative(r, property, n.Unit, false, force)
		if err != nil {
			return n, err
		}
		return value.Points(n.Num * base), nil
	case value.RootRelative:
		base, err := s.fontRelative(r, property, n.Unit, true, force)
		if err != nil {
			return n, err
		}
		return value.Points(n.Num * base), nil
	case value.ViewportRelative:
		return value.Points(n.Num * s.viewportUnit(r, n.Unit)), nil
	}
	if c, f := n.Unit.Canonical(); c != n.Unit {
		return value.Numeric{Num: n.Num * f, Unit: c}, nil
	}
	return n, nil
}

// metricsStyle selects the style whose font metrics a relative unit refers
// to. A nil result stands for the initial font.
func (s *Style) metricsStyle(property string, unit value.Unit, rootRelative bool) *Style {
	st := s
	if rootRelative {
		st = s.root
	}
	selfRef := property == "font-size" ||
		(property == "line-height" && (unit == value.LH || unit == value.RLH))
	if selfRef && st == s {
		return s.parent
	}
	return st
}

// fontRelative returns the size in points of 1 unit of a font or root
// relative unit.
func (s *Style) fontRelative(r *resolution, property string, unit value.Unit, rootRelative, force bool) (float64, error) {
	st := s.metricsStyle(property, unit, rootRelative)
	fs, err := s.fontSizeOf(r, st)
	if err != nil {
		return 0, err
	}
	if unit == value.EM || unit == value.REM {
		return fs, nil
	}
	if unit == value.LH || unit == value.RLH {
		if st == nil {
			return normalLineHeight * fs, nil
		}
		return st.lineHeight(r)
	}
	ts := styledb.TextStyle{Family: s.familyOf(r, st), Size: fs}
	if s.db != nil {
		switch unit {
		case value.EX, value.REX:
			return s.db.ExSizeInPt(ts.Family, fs), nil
		case value.CH, value.RCH:
			return s.db.StringWidth("0", ts), nil
		case value.IC, value.RIC:
			return s.db.StringWidth("水", ts), nil
		case value.CAP, value.RCAP:
			return s.db.CapHeight(ts), nil
		}
	}
	if !force {
		return 0, fmt.Errorf("%w: cannot resolve unit %s", ErrStyleDatabaseRequired, unit)
	}
	switch unit {
	case value.EX, value.REX:
		return fallbackEx * fs, nil
	case value.CH, value.RCH:
		return fallbackCh * fs, nil
	case value.IC, value.RIC:
		return fallbackIc * fs, nil
	}
	return fallbackCap * fs, nil
}

// fontSizeOf returns the computed font size of st, or the initial font size
// if st is nil.
func (s *Style) fontSizeOf(r *resolution, st *Style) (float64, error) {
	if st == nil {
		return s.initialFontSize(), nil
	}
	return st.fontSize(r)
}

func (s *Style) familyOf(r *resolution, st *Style) string {
	if st == nil {
		return "serif"
	}
	return st.fontFamily(r)
}

// fontSize returns the computed font size in points.
func (s *Style) fontSize(r *resolution) (float64, error) {
	v, err := s.compute(r, "font-size")
	if err != nil {
		return 0, err
	}
	if n, ok := v.(value.Numeric); ok && n.Unit == value.PT {
		return n.Num, nil
	}
	return 0, fmt.Errorf("%w: font-size computes to %v", ErrTypeMismatch, v)
}

// fontFamily returns the first family of font-family.
func (s *Style) fontFamily(r *resolution) string {
	v, err := s.compute(r, "font-family")
	if err != nil {
		return "serif"
	}
	if l, ok := v.(value.List); ok && len(l.Items) > 0 {
		if l.Comma {
			v = l.Items[0]
		} else {
			var names []string
			for _, item := range l.Items {
				names = append(names, unquoted(item))
			}
			return strings.Join(names, " ")
		}
	}
	return unquoted(v)
}

func unquoted(v value.Value) string {
	switch t := v.(type) {
	case value.String:
		return string(t)
	case nil:
		return "serif"
	}
	return v.String()
}

// lineHeight returns the used line height in points.
func (s *Style) lineHeight(r *resolution) (float64, error) {
	v, err := s.compute(r, "line-height")
	if err != nil {
		return 0, err
	}
	if n, ok := v.(value.Numeric); ok {
		switch n.Unit {
		case value.PT:
			return n.Num, nil
		case value.Number:
			fs, err := s.fontSize(r)
			return n.Num * fs, err
		}
	}
	fs, err := s.fontSize(r)
	return normalLineHeight * fs, err
}

func (s *Style) initialFontSize() float64 {
	if s.db != nil {
		if fs, ok := s.db.FontSizeFromIdentifier("serif", "medium"); ok {
			return fs
		}
	}
	return styledb.DefaultFontSizes[3]
}

// viewportUnit returns the size in points of 1 unit of a viewport relative
// unit. The viewport is taken from the explicit viewport option, else from the
// device of the style database, else from the medium's default.
func (s *Style) viewportUnit(r *resolution, unit value.Unit) float64 {
	w, h := s.viewportSize()
	switch unit {
	case value.VW:
		return w / 100
	case value.VH:
		return h / 100
	case value.VMIN:
		return math.Min(w, h) / 100
	case value.VMAX:
		return math.Max(w, h) / 100
	}
	vertical := s.isVertical(r)
	if (unit == value.VI) != vertical {
		return w / 100
	}
	return h / 100
}

func (s *Style) viewportSize() (w, h float64) {
	if s.viewport != nil {
		return s.viewport.ViewportWidth(), s.viewport.ViewportHeight()
	}
	if s.db != nil {
		dw, wu := s.db.DeviceWidth()
		dh, hu := s.db.DeviceHeight()
		fw, okw := devicePoints(wu)
		fh, okh := devicePoints(hu)
		if okw && okh && dw > 0 && dh > 0 {
			return dw * fw, dh * fh
		}
	}
	vp := styledb.DefaultViewport(s.medium)
	return vp.Width, vp.Height
}

// devicePoints is the factor from a device unit to points. Unit-less device
// sizes are taken as pixels.
func devicePoints(u value.Unit) (float64, bool) {
	if u == value.Number {
		return 0.75, true
	}
	return u.ToPoints()
}

func (s *Style) isVertical(r *resolution) bool {
	v, err := s.compute(r, "writing-mode")
	if err != nil {
		return false
	}
	wm, ok := v.(value.Ident)
	return ok && !wm.Is("horizontal-tb")
}
