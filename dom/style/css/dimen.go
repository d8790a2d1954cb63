package css

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/npillmayer/cssengine/value"
	"github.com/npillmayer/tyse/core/dimen"
	"github.com/npillmayer/tyse/core/percent"
)

const (
	dimenNone uint32 = 0

	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
	dimenInherit  uint32 = 0x0003
	dimenInitial  uint32 = 0x0004
	kindMask      uint32 = 0x000f

	// Flags for content dependent dimensions
	DimenContentMax uint32 = 0x0010
	DimenContentMin uint32 = 0x0020
	DimenContentFit uint32 = 0x0030
	contentMask     uint32 = 0x00f0

	dimenPercent uint32 = 0x0900
	relativeMask uint32 = 0xff00
)

// ErrNotADimension flags values which cannot be converted to a dimension.
var ErrNotADimension = errors.New("not a dimension")

// DimenT is an option type for CSS dimensions.
type DimenT struct {
	d       dimen.DU
	percent percent.Percent
	flags   uint32
}

/*
type DimenT
	= None
	| Auto
	| Inherit
	| Initial
	| JustDimen dimen
	| Percentage Percent
	| ContentRel Min N
	| ContentRel Max N
	| ContentRel Fit N
*/

// Auto creates a dimension of value `auto`.
func Auto() DimenT {
	return DimenT{flags: dimenAuto}
}

// Inherit creates a dimension of value `inherit`.
func Inherit() DimenT {
	return DimenT{flags: dimenInherit}
}

// Initial creates a dimension of value `initial`.
func Initial() DimenT {
	return DimenT{flags: dimenInitial}
}

// JustDimen creates a CSS dimension with a fixed value of x.
func JustDimen(x dimen.DU) DimenT {
	return DimenT{d: x, flags: dimenAbsolute}
}

// Percentage creates a CSS dimension with a %-relative value.
func Percentage(n percent.Percent) DimenT {
	return DimenT{percent: n, flags: dimenPercent}
}

// Content creates a content dependent dimension, with flag one of
// DimenContentMin, DimenContentMax or DimenContentFit.
func Content(flag uint32) DimenT {
	return DimenT{flags: flag & contentMask}
}

// Points converts a length in points to design units.
func Points(pt float64) dimen.DU {
	return dimen.DU(math.Round(pt * float64(dimen.PT)))
}

// DimenFromValue creates a dimension from a computed value. Lengths of
// computed values are in points; percentages are rounded to integer
// percents. 'none' (e.g., for max-width) yields the unset dimension.
func DimenFromValue(v value.Value) (DimenT, error) {
	switch t := v.(type) {
	case value.Keyword:
		switch t {
		case value.Inherit:
			return Inherit(), nil
		case value.Initial:
			return Initial(), nil
		}
	case value.Numeric:
		switch {
		case t.Unit == value.PT:
			return JustDimen(Points(t.Num)), nil
		case t.Unit == value.Percent:
			return Percentage(percent.FromInt(int(math.Round(t.Num)))), nil
		case t.Unit == value.Number && t.Num == 0:
			return JustDimen(0), nil
		}
	case value.Ident:
		switch strings.ToLower(string(t)) {
		case "auto":
			return Auto(), nil
		case "none":
			return DimenT{}, nil
		case "min-content":
			return Content(DimenContentMin), nil
		case "max-content":
			return Content(DimenContentMax), nil
		case "fit-content":
			return Content(DimenContentFit), nil
		}
	}
	tracer().Debugf("cannot convert %v to a dimension", v)
	return DimenT{}, fmt.Errorf("%w: %v", ErrNotADimension, v)
}

// IsNone is true for the unset dimension.
func (d DimenT) IsNone() bool {
	return d.flags == dimenNone
}

// IsAbsolute is true for fixed dimensions.
func (d DimenT) IsAbsolute() bool {
	return d.flags&kindMask == dimenAbsolute
}

// IsPercent is true for %-relative dimensions.
func (d DimenT) IsPercent() bool {
	return d.flags&relativeMask == dimenPercent
}

// Unwrap returns the fixed value of a dimension, or 0 for other kinds.
func (d DimenT) Unwrap() dimen.DU {
	if d.IsAbsolute() {
		return d.d
	}
	return 0
}

func (d DimenT) String() string {
	switch {
	case d.flags == dimenNone:
		return "none"
	case d.IsPercent():
		return d.percent.String()
	}
	switch d.flags & contentMask {
	case DimenContentMin:
		return "min-content"
	case DimenContentMax:
		return "max-content"
	case DimenContentFit:
		return "fit-content"
	}
	switch d.flags & kindMask {
	case dimenAbsolute:
		return fmt.Sprintf("%.6gpt", float64(d.d)/float64(dimen.PT))
	case dimenAuto:
		return "auto"
	case dimenInherit:
		return "inherit"
	case dimenInitial:
		return "initial"
	}
	return fmt.Sprintf("DimenT(%#x)", d.flags)
}

// ---------------------------------------------------------------------------

// Match starts a match of a dimension against kinds and values.
func (d DimenT) Match() *Matcher {
	return &Matcher{dimen: d}
}

// Matcher matches dimensions, to be used in switch statements.
type Matcher struct {
	dimen DimenT
}

// IsKind matches if the dimension is of the same kind as d.
func (m *Matcher) IsKind(d DimenT) *Matcher {
	switch {
	case m.dimen.flags == dimenNone && d.flags == dimenNone:
		return m
	case (m.dimen.flags&relativeMask > 0) && (d.flags&relativeMask > 0):
		if (m.dimen.flags&dimenPercent > 0) != (d.flags&dimenPercent > 0) {
			return nil
		}
		return m
	case (m.dimen.flags&contentMask > 0) && (d.flags&contentMask > 0):
		return m
	case m.dimen.flags&kindMask > 0 && (m.dimen.flags&kindMask) == (d.flags&kindMask):
		return m
	}
	return nil
}

// Just matches fixed dimensions and extracts the value.
func (m *Matcher) Just(du *dimen.DU) *Matcher {
	if m.dimen.flags&dimenAbsolute > 0 && m.dimen.flags&kindMask == dimenAbsolute {
		if du != nil {
			*du = m.dimen.d
		}
		return m
	}
	return nil
}

// Percentage matches %-relative dimensions and extracts the percentage.
func (m *Matcher) Percentage(p *percent.Percent) *Matcher {
	if m.dimen.flags&relativeMask == dimenPercent {
		if p != nil {
			*p = m.dimen.percent
		}
		return m
	}
	return nil
}

// --- Expression matching ---------------------------------------------------

// DimenPatterns holds the results of a pattern match for every kind of
// dimension.
type DimenPatterns[T any] struct {
	Auto    T
	Inherit T
	Initial T
	Just    T
	Percent T
	Content T
	Default T
}

// DimenPattern starts a pattern matching expression for a dimension.
func DimenPattern[T any](d DimenT) *MatchExpr[T] {
	return &MatchExpr[T]{dimen: d}
}

// MatchExpr is part of pattern matching for DimenT types and intended to be
// instantiated using `DimenPattern()` only.
type MatchExpr[T any] struct {
	dimen DimenT
}

// OneOf selects the pattern result for the kind of the dimension.
func (m *MatchExpr[T]) OneOf(patterns DimenPatterns[T]) T {
	switch {
	case m.dimen.flags&relativeMask == dimenPercent:
		return patterns.Percent
	case m.dimen.flags&contentMask > 0:
		return patterns.Content
	}
	switch m.dimen.flags & kindMask {
	case dimenAuto:
		return patterns.Auto
	case dimenAbsolute:
		return patterns.Just
	case dimenInitial:
		return patterns.Initial
	case dimenInherit:
		return patterns.Inherit
	}
	return patterns.Default
}

// With extracts the fixed value of the dimension.
func (m *MatchExpr[T]) With(du *dimen.DU) *MatchExpr[T] {
	*du = m.dimen.d
	return m
}

// Const returns x; it is a helper to chain With().
func (m *MatchExpr[T]) Const(x T) T {
	return x
}
