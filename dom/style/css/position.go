package css

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cssengine/computed"
	"github.com/npillmayer/cssengine/dom/style"
	"go.uber.org/multierr"
)

// PositionKind is the positioning scheme of a box, from property 'position'.
type PositionKind uint8

// Positioning schemes. PositionUnset flags a missing or illegal value.
const (
	PositionUnset PositionKind = iota
	PositionStatic
	PositionRelative
	PositionSticky
	PositionAbsolute
	PositionFixed
)

var positionKindNames = [...]string{"unset", "static", "relative", "sticky", "absolute", "fixed"}

func (k PositionKind) String() string {
	if int(k) < len(positionKindNames) {
		return positionKindNames[k]
	}
	return fmt.Sprintf("PositionKind(%d)", k)
}

// PosDir names one of the offset properties of a positioned box.
type PosDir uint8

// Offset directions, in the order of the box sides in CSS shorthands.
const (
	Top PosDir = iota
	Right
	Bottom
	Left
)

// offsetProperties are the properties of offsets, indexed by PosDir.
var offsetProperties = [4]string{"top", "right", "bottom", "left"}

func (dir PosDir) String() string {
	if dir <= Left {
		return offsetProperties[dir]
	}
	return fmt.Sprintf("PosDir(%d)", dir)
}

// PositionT is the position of a box: its scheme and, for positioned boxes,
// the four offsets. Offsets of static boxes stay unset.
type PositionT struct {
	offsets [4]DimenT
	kind    PositionKind
}

// Position reads the positioning scheme from a property value. Illegal values
// yield an unset position; offsets are left unset.
func Position(p style.Property) PositionT {
	switch strings.ToLower(strings.TrimSpace(string(p))) {
	case "static":
		return PositionT{kind: PositionStatic}
	case "relative":
		return PositionT{kind: PositionRelative}
	case "sticky":
		return PositionT{kind: PositionSticky}
	case "absolute":
		return PositionT{kind: PositionAbsolute}
	case "fixed":
		return PositionT{kind: PositionFixed}
	}
	return PositionT{}
}

// PositionOf returns the position of a computed style. For positioned boxes
// the offsets are taken from the computed values of top, right, bottom and
// left. Offsets which are not dimensions are reported in the error and
// left unset.
func PositionOf(s *computed.Style) (PositionT, error) {
	prop, err := GetProperty(s, "position")
	if prop == style.NullStyle {
		return PositionT{}, err
	}
	pos := Position(prop)
	if !pos.IsPositioned() {
		return pos, err
	}
	for dir, key := range offsetProperties {
		d, derr := DimenFromValue(s.CSSValue(key))
		if derr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", key, derr))
			continue
		}
		pos.offsets[dir] = d
	}
	return pos, err
}

// WithOffset returns a copy of p with the offset in direction dir replaced.
func (p PositionT) WithOffset(dir PosDir, d DimenT) PositionT {
	if dir <= Left {
		p.offsets[dir] = d
	}
	return p
}

// Kind returns the positioning scheme.
func (p PositionT) Kind() PositionKind {
	return p.kind
}

// Offset returns the offset in direction dir.
func (p PositionT) Offset(dir PosDir) DimenT {
	if dir > Left {
		return DimenT{}
	}
	return p.offsets[dir]
}

// IsUnset is true for missing or illegal positions.
func (p PositionT) IsUnset() bool {
	return p.kind == PositionUnset
}

// IsPositioned is true for every scheme except static (and unset).
func (p PositionT) IsPositioned() bool {
	return p.kind > PositionStatic
}

// IsOutOfFlow is true for absolute and fixed positions, which take a box out
// of the normal flow.
func (p PositionT) IsOutOfFlow() bool {
	return p.kind == PositionAbsolute || p.kind == PositionFixed
}

// String serializes the scheme; positioned boxes list their offsets as well,
// e.g. "absolute top=10pt right=auto bottom=auto left=50%".
func (p PositionT) String() string {
	if !p.IsPositioned() {
		return p.kind.String()
	}
	var b strings.Builder
	b.WriteString(p.kind.String())
	for dir, d := range p.offsets {
		fmt.Fprintf(&b, " %s=%s", PosDir(dir), d)
	}
	return b.String()
}
