package style

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/npillmayer/cssengine/lexical"
	"github.com/npillmayer/cssengine/syntax"
	"github.com/npillmayer/cssengine/value"
)

// ErrInvalidValue flags a value which is not legal for a property.
var ErrInvalidValue = errors.New("invalid value for property")

// ErrInvalidDefinition flags a malformed custom property registration.
var ErrInvalidDefinition = errors.New("invalid custom property definition")

// CustomPropertyDefinition is the registration of a custom property, as
// created from an @property rule. A nil Syntax is the universal syntax.
type CustomPropertyDefinition struct {
	Name     string
	Syntax   *syntax.Syntax
	Inherits bool
	Initial  *lexical.Unit
}

// Registry answers questions about properties: whether they inherit, their
// initial values and their legal identifiers. It holds the registered custom
// properties of a document. A Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	custom   map[string]*CustomPropertyDefinition
	initials sync.Map // property name -> value.Value
}

// NewRegistry creates a registry for the standard longhands, without any
// registered custom properties.
func NewRegistry() *Registry {
	standardProperties()
	return &Registry{custom: make(map[string]*CustomPropertyDefinition)}
}

// Info returns the static properties of a standard longhand.
func (reg *Registry) Info(key string) (Info, bool) {
	info, ok := standardProperties()[key]
	if !ok {
		return Info{Name: key}, false
	}
	return *info, true
}

// Tag returns the computation tag of a property.
func (reg *Registry) Tag(key string) Tag {
	if IsCustomProperty(key) {
		return TagCustom
	}
	if info, ok := standardProperties()[key]; ok {
		return info.Tag
	}
	return TagGeneric
}

// IsInherited tells if a property inherits by default. Unregistered custom
// properties inherit.
func (reg *Registry) IsInherited(key string) bool {
	if IsCustomProperty(key) {
		if def := reg.CustomPropertyDefinition(key); def != nil {
			return def.Inherits
		}
		return true
	}
	return IsCascading(key)
}

// InitialValue returns the initial value of a property, or nil if none
// exists. For registered custom properties the initial value is returned as a
// Lexical value.
func (reg *Registry) InitialValue(key string) value.Value {
	if IsCustomProperty(key) {
		if def := reg.CustomPropertyDefinition(key); def != nil && def.Initial != nil {
			return value.Lexical{Chain: def.Initial}
		}
		return nil
	}
	if v, ok := reg.initials.Load(key); ok {
		return v.(value.Value)
	}
	info, ok := standardProperties()[key]
	if !ok || info.Initial == "" {
		return nil
	}
	v, err := value.FromText(info.Initial)
	if err != nil {
		tracer().Errorf("initial value of %s: %v", key, err)
		return nil
	}
	reg.initials.Store(key, v)
	return v
}

// Shorthands returns the shorthands a longhand is part of.
func (reg *Registry) Shorthands(key string) []string {
	if info, ok := standardProperties()[key]; ok {
		return info.Shorthands
	}
	return nil
}

// IsShorthand is true for shorthand properties which ExpandShorthand supports.
func (reg *Registry) IsShorthand(key string) bool {
	standardProperties()
	_, ok := shorthandMap[key]
	return ok
}

// Longhands returns the longhands of a shorthand property.
func (reg *Registry) Longhands(shorthand string) []string {
	standardProperties()
	return shorthandMap[shorthand]
}

// Properties lists the names of all standard longhands, sorted.
func (reg *Registry) Properties() []string {
	names := make([]string, 0, len(standardTable))
	for name := range standardProperties() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsLegalIdentifier checks if ident is a legal keyword for a property.
// Properties without a closed set of keywords accept every identifier.
func (reg *Registry) IsLegalIdentifier(key string, ident string) bool {
	info, ok := standardProperties()[key]
	if !ok {
		return true
	}
	ident = strings.ToLower(ident)
	if info.Family == ColorFamily {
		if ident == "currentcolor" {
			return true
		}
		_, ok := value.NamedColor(ident)
		return ok
	}
	if info.Idents == nil {
		return true
	}
	for _, id := range info.Idents {
		if id == ident {
			return true
		}
	}
	return false
}

// Validate checks a value produced by substitution against the property's
// legal identifiers and value family.
func (reg *Registry) Validate(key string, v value.Value) error {
	if IsCustomProperty(key) {
		def := reg.CustomPropertyDefinition(key)
		if def != nil && !def.Syntax.MatchValue(v) {
			return fmt.Errorf("%w: %s does not match syntax %s", ErrInvalidValue, v, def.Syntax)
		}
		return nil
	}
	info, ok := standardProperties()[key]
	if !ok {
		return nil
	}
	return reg.validate(info, v)
}

func (reg *Registry) validate(info *Info, v value.Value) error {
	switch t := v.(type) {
	case value.List:
		for _, item := range t.Items {
			if err := reg.validate(info, item); err != nil {
				return err
			}
		}
		return nil
	case value.Ident:
		if !reg.IsLegalIdentifier(info.Name, string(t)) {
			return fmt.Errorf("%w: %s: %s", ErrInvalidValue, info.Name, t)
		}
		return nil
	case value.Numeric:
		switch info.Family {
		case ColorFamily, KeywordFamily, ImageFamily:
			return fmt.Errorf("%w: %s: %s", ErrInvalidValue, info.Name, t)
		case LengthFamily:
			if t.Unit != value.Number && t.Unit != value.Percent && !t.Unit.IsLength() {
				return fmt.Errorf("%w: %s: %s", ErrInvalidValue, info.Name, t)
			}
		}
	case value.Color, value.ColorFunction, value.ColorMix:
		if info.Family != ColorFamily && info.Family != AnyFamily && info.Family != ImageFamily {
			return fmt.Errorf("%w: %s: %s", ErrInvalidValue, info.Name, t)
		}
	case value.URI:
		if info.Family != ImageFamily && info.Family != AnyFamily {
			return fmt.Errorf("%w: %s: %s", ErrInvalidValue, info.Name, t)
		}
	}
	return nil
}

// Define registers a custom property. The syntax must be universal or come
// with an initial value matching it, and the initial value must be
// computationally independent.
func (reg *Registry) Define(def CustomPropertyDefinition) error {
	if !IsCustomProperty(def.Name) {
		return fmt.Errorf("%w: %q is not a custom property name", ErrInvalidDefinition, def.Name)
	}
	if def.Initial != nil {
		if def.Initial.ContainsProxy() || dependsOnContext(def.Initial) {
			return fmt.Errorf("%w: initial value of %s is not computationally independent",
				ErrInvalidDefinition, def.Name)
		}
		if !def.Syntax.Match(def.Initial) {
			return fmt.Errorf("%w: initial value of %s does not match %s", ErrInvalidDefinition,
				def.Name, def.Syntax)
		}
	} else if !def.Syntax.IsUniversal() {
		return fmt.Errorf("%w: %s needs an initial value", ErrInvalidDefinition, def.Name)
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	d := def
	reg.custom[def.Name] = &d
	tracer().Debugf("registered custom property %s: %s", def.Name, def.Syntax)
	return nil
}

// CustomPropertyDefinition returns the registration of a custom property, or
// nil if it is not registered.
func (reg *Registry) CustomPropertyDefinition(name string) *CustomPropertyDefinition {
	if reg == nil {
		return nil
	}
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.custom[name]
}

// dependsOnContext is true for chains with font or viewport relative units.
func dependsOnContext(chain *lexical.Unit) bool {
	for u := chain; u != nil; u = u.Next {
		if u.Type == lexical.Dimension {
			if unit, ok := value.ParseUnit(u.Dim); ok {
				switch unit.Category() {
				case value.FontRelative, value.RootRelative, value.ViewportRelative:
					return true
				}
			}
		}
		if u.Params != nil && dependsOnContext(u.Params) {
			return true
		}
	}
	return false
}
