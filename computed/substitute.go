package computed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/cssengine/dom/style"
	"github.com/npillmayer/cssengine/lexical"
	"github.com/npillmayer/cssengine/syntax"
	"github.com/npillmayer/cssengine/value"
)

// attr() must not be used to construct URLs.
var attrForbidden = map[string]bool{
	"background-image": true,
	"cursor":           true,
	"cue-before":       true,
	"cue-after":        true,
	"list-style-image": true,
	"play-during":      true,
}

// substituteProxy resolves a proxy value for a property. The result is either
// a CSS-wide keyword or a value valid for the property.
func (s *Style) substituteProxy(r *resolution, property string, p value.Proxy) (value.Value, error) {
	chain, err := s.substitute(r, property, p.Chain)
	if err != nil {
		return nil, err
	}
	if p.ProxyType == value.PendingProxy {
		if chain, err = longhandOf(p.Shorthand, property, chain); err != nil {
			return nil, err
		}
	}
	if chain == nil {
		return nil, fmt.Errorf("%w: %s is empty after substitution", ErrUnresolved, property)
	}
	if chain.IsCSSWide() {
		kw, _ := value.IsCSSWideKeyword(chain.Text)
		return kw, nil
	}
	v, err := value.FromLexical(chain)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTypeMismatch, property, err)
	}
	if err := s.registry.Validate(property, v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	tracer().Debugf("%s: substituted %s -> %s", property, p, v)
	return v, nil
}

// longhandOf expands a substituted shorthand and picks one longhand.
func longhandOf(shorthand, longhand string, chain *lexical.Unit) (*lexical.Unit, error) {
	if chain.IsCSSWide() {
		return chain, nil
	}
	expanded, err := style.ExpandShorthand(shorthand, chain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	for _, lh := range expanded {
		if lh.Key == longhand {
			return lh.Value, nil
		}
	}
	return nil, fmt.Errorf("%w: %s is not a longhand of %s", ErrUnresolved, longhand, shorthand)
}

// substitute replaces every substitution function in a chain. target is the
// property the substitution is done for. The input chain is left untouched.
func (s *Style) substitute(r *resolution, target string, chain *lexical.Unit) (*lexical.Unit, error) {
	var b lexical.Builder
	for u := chain; u != nil; u = u.Next {
		if u.Type == lexical.Function && lexical.IsProxyFunction(u.Text) {
			sub, err := s.substituteFunction(r, target, u)
			if err != nil {
				return nil, err
			}
			if err := r.splice(sub.Len()); err != nil {
				return nil, err
			}
			b.AppendChain(sub, u.SpaceBefore)
			continue
		}
		if u.Params.ContainsProxy() {
			params, err := s.substitute(r, target, u.Params)
			if err != nil {
				return nil, err
			}
			c := u.Single()
			c.Params = params
			b.Append(c)
			continue
		}
		b.Append(u.Single())
	}
	return b.Chain(), nil
}

func (s *Style) substituteFunction(r *resolution, target string, u *lexical.Unit) (*lexical.Unit, error) {
	switch u.Text {
	case "var":
		return s.substituteVar(r, target, u)
	case "attr":
		return s.substituteAttr(r, target, u)
	}
	return s.substituteEnv(r, target, u)
}

// --- var() -----------------------------------------------------------------

func (s *Style) substituteVar(r *resolution, target string, u *lexical.Unit) (*lexical.Unit, error) {
	first, fallback, hasFallback := u.Arguments()
	if first == nil || first.Type != lexical.Ident || !style.IsCustomProperty(first.Text) || first.Next != nil {
		return nil, fmt.Errorf("%w: malformed %s", ErrUnresolved, u.Single())
	}
	name := first.Text
	def := s.registry.CustomPropertyDefinition(name)
	chain, found, err := s.customPropertyChain(r, target, name)
	if err != nil {
		if isHard(err) {
			return nil, err
		}
		if errors.Is(err, ErrCircularity) && (def == nil || def.Initial == nil) {
			return nil, err
		}
		tracer().Debugf("var(%s): %v", name, err)
		found = false
	}
	if found {
		return chain, nil
	}
	if def != nil && def.Initial != nil {
		return def.Initial.Clone(), nil
	}
	if hasFallback {
		return s.substitute(r, target, fallback)
	}
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: var(%s) without value or fallback", ErrUnresolved, name)
}

// customPropertyChain finds the declared value of a custom property, walking
// up the parent chain for inherited properties, and substitutes it in the
// context of the declaring style. found is false if the property has no
// value (it is guaranteed-invalid); an empty value is found with a nil chain.
func (s *Style) customPropertyChain(r *resolution, target, name string) (chain *lexical.Unit, found bool, err error) {
	inherits := s.registry.IsInherited(name)
	for st := s; st != nil; st = st.parent {
		d, ok := st.declared.Get(name)
		if kw, isKw := d.Value.(value.Keyword); ok && isKw && (kw == value.Revert || kw == value.RevertLayer) {
			d, ok = st.declared.Revert().Get(name)
			if !ok {
				d, ok = style.Declaration{Value: value.Unset}, true
			}
		}
		if !ok {
			if !inherits {
				return nil, false, nil
			}
			continue
		}
		switch v := d.Value.(type) {
		case value.Keyword:
			if v == value.Initial || (v != value.Inherit && !inherits) {
				return nil, false, nil
			}
			continue // 'inherit' or inheriting 'unset'
		case value.Lexical:
			return st.expandCustom(r, target, name, v.Chain)
		}
		return nil, false, fmt.Errorf("%w: %s has unexpected value %s", ErrUnresolved, name, d.Value)
	}
	return nil, false, nil
}

// expandCustom substitutes the declared chain of a custom property of s.
func (s *Style) expandCustom(r *resolution, target, name string, chain *lexical.Unit) (*lexical.Unit, bool, error) {
	key := varKey{s, name}
	if _, busy := r.vars[key]; busy {
		return nil, false, fmt.Errorf("%w: custom property %s", ErrCircularity, name)
	}
	r.vars[key] = struct{}{}
	defer delete(r.vars, key)
	sub, err := s.substitute(r, target, chain)
	if err != nil {
		return nil, false, err
	}
	if def := s.registry.CustomPropertyDefinition(name); def != nil && !def.Syntax.IsUniversal() {
		if !def.Syntax.Match(sub) {
			return nil, false, fmt.Errorf("%w: %s does not match %s", ErrTypeMismatch, sub, def.Syntax)
		}
	}
	return sub, true, nil
}

// computeCustom computes the value of a custom property. Values of custom
// properties with universal syntax are interpreted as far as possible and
// kept as unrecognized text otherwise.
func (s *Style) computeCustom(r *resolution, name string) (value.Value, error) {
	def := s.registry.CustomPropertyDefinition(name)
	chain, found, err := s.customPropertyChain(r, name, name)
	if err != nil {
		if isHard(err) {
			return nil, err
		}
		decl, _ := s.declared.Get(name)
		r.note(s, name, decl.Text, err)
		found = false
	}
	if !found {
		if def == nil || def.Initial == nil {
			return nil, nil
		}
		chain = def.Initial.Clone()
	}
	if chain == nil {
		return value.Unrecognized(""), nil
	}
	v, perr := value.FromLexical(chain)
	if def == nil || def.Syntax.IsUniversal() {
		if perr != nil || !value.IsConcrete(v) {
			return value.Unrecognized(chain.String()), nil
		}
		return v, nil
	}
	if perr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTypeMismatch, name, perr)
	}
	av, err := s.absolutize(r, name, v)
	if errors.Is(err, ErrStyleDatabaseRequired) {
		r.warn(s, name, chain.String(), err)
		err = nil
	}
	if err != nil {
		return nil, err
	}
	if syntaxAcceptsColor(def.Syntax) {
		return s.resolveColor(r, name, av)
	}
	return av, nil
}

func syntaxAcceptsColor(syn *syntax.Syntax) bool {
	for _, alt := range syn.Alternatives {
		if alt.Name == "color" {
			return true
		}
	}
	return false
}

// --- attr() ----------------------------------------------------------------

func (s *Style) substituteAttr(r *resolution, target string, u *lexical.Unit) (*lexical.Unit, error) {
	if attrForbidden[target] {
		return nil, fmt.Errorf("%w: %s", ErrAttrForbidden, target)
	}
	first, fallback, hasFallback := u.Arguments()
	if first == nil || first.Type != lexical.Ident {
		return nil, fmt.Errorf("%w: malformed %s", ErrUnresolved, u.Single())
	}
	name := strings.ToLower(first.Text)
	kind := first.Next
	key := attrKey{s, name}
	if _, busy := r.attrs[key]; busy {
		return nil, fmt.Errorf("%w: attribute %s", ErrCircularity, name)
	}
	r.attrs[key] = struct{}{}
	defer delete(r.attrs, key)
	r.tainted = true
	var raw string
	present := false
	if s.element != nil {
		raw, present = s.element.Attribute(name)
	}
	if present {
		chain, err := attrValue(raw, kind)
		if err == nil {
			return chain, nil
		}
		if !hasFallback {
			return nil, err
		}
		tracer().Debugf("attr(%s): %v", name, err)
	}
	if hasFallback {
		return s.substitute(r, target, fallback)
	}
	if isStringKind(kind) {
		return lexical.NewString(""), nil
	}
	return nil, fmt.Errorf("%w: attribute %s not present", ErrUnresolved, name)
}

func isStringKind(kind *lexical.Unit) bool {
	return kind == nil || kind.IsIdent("string") || kind.IsIdent("raw-string")
}

// attrTypes are the legacy type names of attr() which map to a syntax.
var attrTypes = map[string]string{
	"length":            "<length>",
	"percentage":        "<percentage>",
	"length-percentage": "<length-percentage>",
	"angle":             "<angle>",
	"time":              "<time>",
	"resolution":        "<resolution>",
	"color":             "<color>",
	"integer":           "<integer>",
	"number":            "<number>",
	"ident":             "<custom-ident>",
}

// attrValue interprets an attribute value according to the type given in
// attr().
func attrValue(raw string, kind *lexical.Unit) (*lexical.Unit, error) {
	if isStringKind(kind) {
		return lexical.NewString(raw), nil
	}
	if kind.Next != nil {
		return nil, fmt.Errorf("%w: attr() type %s", ErrUnresolved, kind)
	}
	switch {
	case kind.IsIdent("url"):
		return lexical.NewURI(strings.TrimSpace(raw)), nil
	case kind.IsFunction("type"):
		syn, err := syntax.Parse(kind.Params.String())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnresolved, err)
		}
		return matchAttr(raw, syn)
	case kind.Type == lexical.Ident:
		if descr, ok := attrTypes[strings.ToLower(kind.Text)]; ok {
			syn, err := syntax.Parse(descr)
			if err != nil {
				return nil, err
			}
			return matchAttr(raw, syn)
		}
		if unit, ok := value.ParseUnit(kind.Text); ok {
			return attrNumber(raw, unit)
		}
	case kind.Type == lexical.Delim && kind.Text == "%":
		return attrNumber(raw, value.Percent)
	}
	return nil, fmt.Errorf("%w: unknown attr() type %s", ErrUnresolved, kind)
}

func matchAttr(raw string, syn *syntax.Syntax) (*lexical.Unit, error) {
	chain, err := lexical.Parse(raw)
	if err != nil || chain == nil || !syn.Match(chain) {
		return nil, fmt.Errorf("%w: attribute value %q does not match %s", ErrTypeMismatch, raw, syn)
	}
	return chain, nil
}

// attrNumber reads a plain number and attaches a unit to it.
func attrNumber(raw string, unit value.Unit) (*lexical.Unit, error) {
	chain, err := lexical.Parse(raw)
	if err != nil || chain == nil || chain.Next != nil || chain.Type != lexical.Number {
		return nil, fmt.Errorf("%w: attribute value %q is not a number", ErrTypeMismatch, raw)
	}
	if unit == value.Percent {
		return lexical.NewPercentage(chain.Num), nil
	}
	return lexical.NewDimension(chain.Num, unit.String()), nil
}

// --- env() -----------------------------------------------------------------

func (s *Style) substituteEnv(r *resolution, target string, u *lexical.Unit) (*lexical.Unit, error) {
	first, fallback, hasFallback := u.Arguments()
	if first == nil || first.Type != lexical.Ident {
		return nil, fmt.Errorf("%w: malformed %s", ErrUnresolved, u.Single())
	}
	name := first.Text
	if s.db != nil {
		if v, ok := s.db.EnvValue(name); ok {
			chain, err := lexical.Parse(v.String())
			if err == nil {
				return chain, nil
			}
			tracer().Errorf("env(%s): %v", name, err)
		}
	}
	if hasFallback {
		return s.substitute(r, target, fallback)
	}
	return nil, fmt.Errorf("%w: environment variable %s", ErrUnresolved, name)
}
