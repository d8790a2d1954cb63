package css

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/npillmayer/cssengine/computed"
	"github.com/npillmayer/cssengine/dom/style"
	"github.com/npillmayer/cssengine/value"
)

// ErrNoValue flags a property without a computed value.
var ErrNoValue = errors.New("property has no value")

// GetProperty gets the computed value of a property, serialized. Inherited
// properties have been inherited from the parent styles, if not set locally.
//
// The call to GetProperty will flag an error if problems had to be resolved
// during computing the value (the value then is the fallback value) or if
// the property is unknown.
func GetProperty(s *computed.Style, key string) (style.Property, error) {
	v, err := s.Compute(key)
	if v == nil {
		if err == nil {
			err = fmt.Errorf("%w: %s", ErrNoValue, key)
		}
		return style.NullStyle, err
	}
	return style.Property(v.String()), err
}

// GetLocalProperty returns a style property value as declared for the
// element of a style, i.e. without cascading to parent styles, or
// NullStyle.
func GetLocalProperty(s *computed.Style, key string) style.Property {
	d, ok := s.Declared().Get(style.NormalizeKey(key))
	if !ok || d.Value == nil {
		return style.NullStyle
	}
	return style.Property(d.Value.String())
}

// ColorOf returns the computed value of a color property as a Go color.
func ColorOf(s *computed.Style, key string) (color.Color, error) {
	v, err := s.Compute(key)
	c, ok := v.(value.Color)
	if !ok {
		if err == nil {
			err = fmt.Errorf("%w: %s is not a color", ErrNoValue, key)
		}
		return nil, err
	}
	return style.ToNRGBA(c), err
}
