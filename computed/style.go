package computed

import (
	"errors"
	"fmt"

	"github.com/npillmayer/cssengine/dom/style"
	"github.com/npillmayer/cssengine/value"
)

// Style is the computed style of an element. It combines the declared style
// of the element with the style of its parent and computes values on demand.
//
// Styles are immutable after creation. Every call to CSSValue or Compute runs
// an independent resolution, hence a Style may be used from several
// goroutines at the same time.
type Style struct {
	props
	element  Element
	declared *style.DeclaredStyle
	parent   *Style
	root     *Style
}

// NewStyle creates a style for an element. declared and el may be nil, parent
// is nil for the root of a document. Options not given are taken over from the
// parent.
func NewStyle(el Element, declared *style.DeclaredStyle, parent *Style, opts ...Option) *Style {
	s := &Style{element: el, declared: declared, parent: parent}
	if parent != nil {
		s.props = parent.props
		s.root = parent.root
	}
	for _, opt := range opts {
		s.props = opt.config(s.props)
	}
	s.props = s.props.init()
	if s.root == nil {
		s.root = s
	}
	return s
}

// Parent returns the style of the parent element, or nil for a root style.
func (s *Style) Parent() *Style {
	return s.parent
}

// Root returns the style of the document root.
func (s *Style) Root() *Style {
	return s.root
}

// Element returns the element a style belongs to.
func (s *Style) Element() Element {
	return s.element
}

// Declared returns the declared style.
func (s *Style) Declared() *style.DeclaredStyle {
	return s.declared
}

// Registry returns the property registry in use.
func (s *Style) Registry() *style.Registry {
	return s.registry
}

// CSSValue returns the computed value of a property. It never returns a
// CSS-wide keyword, a proxy or a lexical value. Problems are reported to the
// diagnostics sink; the result then is the value the property falls back to.
// Unknown properties without declaration yield nil.
func (s *Style) CSSValue(property string) value.Value {
	v, _ := s.Compute(property)
	return v
}

// Compute is like CSSValue, but additionally returns the first error that has
// been reported. Warnings are not returned.
func (s *Style) Compute(property string) (value.Value, error) {
	property = style.NormalizeKey(property)
	r := newResolution(s.limit)
	v := s.resolve(r, property)
	r.report()
	return v, r.err()
}

// AttrTainted tells if the computed value of a property depends on an
// attr() substitution, either directly or by inheritance.
func (s *Style) AttrTainted(property string) bool {
	property = style.NormalizeKey(property)
	r := newResolution(s.limit)
	s.resolve(r, property)
	r.report()
	return r.tainted
}

// ComputedFontSize returns the computed font size in points.
func (s *Style) ComputedFontSize() float64 {
	r := newResolution(s.limit)
	fs, err := s.fontSize(r)
	if err != nil {
		r.note(s, "font-size", "", err)
		fs = s.initialFontSize()
	}
	r.report()
	return fs
}

// ComputedLineHeight returns the used line height in points. 'normal' is
// taken as 1.2 times the font size.
func (s *Style) ComputedLineHeight() float64 {
	r := newResolution(s.limit)
	lh, err := s.lineHeight(r)
	if err != nil {
		r.note(s, "line-height", "", err)
		lh = normalLineHeight * s.initialFontSize()
	}
	r.report()
	return lh
}

// resolve runs a top-level resolution for a property and sanitizes the
// result.
func (s *Style) resolve(r *resolution, property string) value.Value {
	v, err := s.compute(r, property)
	if err != nil {
		decl, _ := s.declared.Get(property)
		r.note(s, property, decl.Text, err)
		v = s.fallback(property)
	}
	if v != nil && !value.IsConcrete(v) {
		r.note(s, property, "", fmt.Errorf("%w: %s resolved to %s", ErrUnresolved, property, v))
		v = s.fallback(property)
	}
	return v
}

// fallback computes the initial value of a property in a fresh resolution,
// without reporting. It is used after a resolution had to be aborted.
func (s *Style) fallback(property string) value.Value {
	r := newResolution(s.limit)
	v, err := s.initial(r, property)
	if err != nil || (v != nil && !value.IsConcrete(v)) {
		tracer().Errorf("no usable initial value for %s", property)
		return nil
	}
	return v
}

// --- Pipeline --------------------------------------------------------------

// compute runs the resolution pipeline for a property:
// declared value, substitution, inheritance or initial value, absolutization
// and constraints. An error is returned only if the property cannot be
// resolved at all; recoverable problems are noted in r. Results are kept
// for the rest of the resolution, so ancestors are computed once.
func (s *Style) compute(r *resolution, property string) (value.Value, error) {
	if r.aborted != nil {
		return nil, r.aborted
	}
	key := activeKey{s, property}
	if v, ok := r.done[key]; ok {
		return v, nil
	}
	if _, busy := r.active[key]; busy {
		return nil, fmt.Errorf("%w: %s depends on itself", ErrCircularity, property)
	}
	r.active[key] = struct{}{}
	defer delete(r.active, key)
	v, err := s.computeProperty(r, property)
	if err == nil && r.aborted == nil {
		r.done[key] = v
	}
	return v, err
}

// computeProperty is the uncached part of compute.
func (s *Style) computeProperty(r *resolution, property string) (value.Value, error) {
	if style.IsCustomProperty(property) {
		return s.computeCustom(r, property)
	}
	decl, _ := s.declared.Get(property)
	v, err := s.specified(r, property, decl)
	if err != nil {
		return nil, err
	}
	switch v {
	case nil, value.Unset:
		return s.unset(r, property)
	case value.Inherit:
		return s.inherit(r, property)
	case value.Initial:
		return s.initial(r, property)
	}
	cv, err := s.computeValue(r, property, v)
	if err != nil {
		if errors.Is(err, ErrStyleDatabaseRequired) && cv != nil {
			r.warn(s, property, decl.Text, err)
			return cv, nil
		}
		if isHard(err) || r.aborted != nil {
			return nil, err
		}
		r.note(s, property, decl.Text, err)
		return s.unset(r, property)
	}
	return cv, nil
}

// specified returns the declared value of a property after 'revert' and
// substitution. A failed substitution is noted and yields 'unset'. nil is
// returned for undeclared properties.
func (s *Style) specified(r *resolution, property string, decl style.Declaration) (value.Value, error) {
	v := decl.Value
	if kw, ok := v.(value.Keyword); ok && (kw == value.Revert || kw == value.RevertLayer) {
		ua, ok := s.declared.Revert().Get(property)
		if !ok {
			return value.Unset, nil
		}
		v, decl = ua.Value, ua
	}
	p, ok := v.(value.Proxy)
	if !ok {
		return v, nil
	}
	sv, err := s.substituteProxy(r, property, p)
	if err != nil {
		if errors.Is(err, ErrResourceLimit) {
			return nil, err
		}
		r.note(s, property, decl.Text, err)
		return value.Unset, nil
	}
	if kw, ok := sv.(value.Keyword); ok && (kw == value.Revert || kw == value.RevertLayer) {
		return value.Unset, nil
	}
	return sv, nil
}

func (s *Style) unset(r *resolution, property string) (value.Value, error) {
	if s.registry.IsInherited(property) {
		return s.inherit(r, property)
	}
	return s.initial(r, property)
}

func (s *Style) inherit(r *resolution, property string) (value.Value, error) {
	if s.parent == nil {
		return s.initial(r, property)
	}
	pv, err := s.parent.compute(r, property)
	if err != nil || pv == nil {
		return pv, err
	}
	return s.constrain(r, property, pv)
}

func (s *Style) initial(r *resolution, property string) (value.Value, error) {
	v := s.registry.InitialValue(property)
	if v == nil {
		return nil, nil
	}
	cv, err := s.computeValue(r, property, v)
	if errors.Is(err, ErrStyleDatabaseRequired) && cv != nil {
		return cv, nil
	}
	return cv, err
}

// computeValue turns a specified value into a computed value.
// It may return a partially computed value together with
// ErrStyleDatabaseRequired.
func (s *Style) computeValue(r *resolution, property string, v value.Value) (value.Value, error) {
	switch s.registry.Tag(property) {
	case style.TagFontSize:
		return s.computeFontSize(r, v)
	case style.TagLineHeight:
		return s.computeLineHeight(r, v)
	}
	av, err := s.absolutize(r, property, v)
	if err != nil && !errors.Is(err, ErrStyleDatabaseRequired) {
		return nil, err
	}
	cv, cerr := s.constrain(r, property, av)
	if cerr != nil {
		return nil, cerr
	}
	return cv, err
}

// constrain applies the adjustments of computed values which depend on other
// properties of the element.
func (s *Style) constrain(r *resolution, property string, v value.Value) (value.Value, error) {
	switch s.registry.Tag(property) {
	case style.TagDisplay:
		return s.computeDisplay(r, v)
	case style.TagFloat:
		return s.computeFloat(r, v)
	case style.TagBorderWidth:
		return s.computeBorderWidth(r, property, v)
	case style.TagBackgroundRepeat:
		return expandRepeat(v), nil
	case style.TagColor, style.TagColorValue:
		return s.resolveColor(r, property, v)
	}
	return v, nil
}
