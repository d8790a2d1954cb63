package value

import (
	"fmt"
	"strings"
)

// Unit is the unit of a numeric value.
type Unit uint8

// Units known to the engine.
const (
	Number Unit = iota
	Percent
	// absolute lengths
	PT
	PX
	IN
	CM
	MM
	Q
	PC
	// font relative lengths
	EM
	EX
	CH
	IC
	CAP
	LH
	// root font relative lengths
	REM
	REX
	RCH
	RIC
	RCAP
	RLH
	// viewport lengths
	VW
	VH
	VI
	VB
	VMIN
	VMAX
	// angles
	DEG
	GRAD
	RAD
	TURN
	// time
	S
	MS
	// frequency
	HZ
	KHZ
	// resolution
	DPI
	DPCM
	DPPX
	// flex
	FR
)

var unitNames = [...]string{"", "%", "pt", "px", "in", "cm", "mm", "q", "pc",
	"em", "ex", "ch", "ic", "cap", "lh", "rem", "rex", "rch", "ric", "rcap", "rlh",
	"vw", "vh", "vi", "vb", "vmin", "vmax", "deg", "grad", "rad", "turn", "s", "ms",
	"hz", "khz", "dpi", "dpcm", "dppx", "fr"}

func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return "?"
}

// ParseUnit finds the unit for a dimension suffix (case-insensitive).
// "x" is accepted as an alias of dppx.
func ParseUnit(s string) (Unit, bool) {
	s = strings.ToLower(s)
	if s == "x" {
		return DPPX, true
	}
	for i, name := range unitNames {
		if i > 0 && name == s {
			return Unit(i), true
		}
	}
	return Number, false
}

// Category groups units for type checking and absolutization.
type Category uint8

// Unit categories.
const (
	NumberCategory Category = iota
	PercentCategory
	AbsoluteLength
	FontRelative
	RootRelative
	ViewportRelative
	AngleCategory
	TimeCategory
	FrequencyCategory
	ResolutionCategory
	FlexCategory
)

var categoryNames = [...]string{
	NumberCategory:     "number",
	PercentCategory:    "percentage",
	AbsoluteLength:     "length",
	FontRelative:       "font-relative length",
	RootRelative:       "root-relative length",
	ViewportRelative:   "viewport-relative length",
	AngleCategory:      "angle",
	TimeCategory:       "time",
	FrequencyCategory:  "frequency",
	ResolutionCategory: "resolution",
	FlexCategory:       "flex",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", c)
}

// Category returns the category of a unit.
func (u Unit) Category() Category {
	switch {
	case u == Number:
		return NumberCategory
	case u == Percent:
		return PercentCategory
	case u >= PT && u <= PC:
		return AbsoluteLength
	case u >= EM && u <= LH:
		return FontRelative
	case u >= REM && u <= RLH:
		return RootRelative
	case u >= VW && u <= VMAX:
		return ViewportRelative
	case u >= DEG && u <= TURN:
		return AngleCategory
	case u == S || u == MS:
		return TimeCategory
	case u == HZ || u == KHZ:
		return FrequencyCategory
	case u >= DPI && u <= DPPX:
		return ResolutionCategory
	}
	return FlexCategory
}

// IsLength is true for all length units, relative or absolute.
func (u Unit) IsLength() bool {
	switch u.Category() {
	case AbsoluteLength, FontRelative, RootRelative, ViewportRelative:
		return true
	}
	return false
}

// ToPoints returns the factor converting an absolute length unit to points.
// ok is false for all other units.
func (u Unit) ToPoints() (factor float64, ok bool) {
	switch u {
	case PT:
		return 1, true
	case PX:
		return 0.75, true
	case IN:
		return 72, true
	case CM:
		return 72 / 2.54, true
	case MM:
		return 72 / 25.4, true
	case Q:
		return 72 / 101.6, true
	case PC:
		return 12, true
	}
	return 0, false
}

// Canonical returns the canonical unit of a unit's category together with the
// conversion factor. Absolute lengths are canonicalized to points, angles to
// degrees, times to seconds, frequencies to hertz and resolutions to dppx.
// Other units are their own canonical unit.
func (u Unit) Canonical() (Unit, float64) {
	if f, ok := u.ToPoints(); ok {
		return PT, f
	}
	switch u {
	case GRAD:
		return DEG, 0.9
	case RAD:
		return DEG, 180 / 3.141592653589793
	case TURN:
		return DEG, 360
	case MS:
		return S, 0.001
	case KHZ:
		return HZ, 1000
	case DPI:
		return DPPX, 1.0 / 96
	case DPCM:
		return DPPX, 2.54 / 96
	}
	return u, 1
}
