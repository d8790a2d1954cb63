package cssom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/cssengine/dom/style"
	"go.uber.org/multierr"
	"golang.org/x/net/html"
)

// CSSOM is the "CSS Object Model", holding the compiled rules of all
// stylesheets of a document in the order they have been added.
//
// A CSSOM is not safe for concurrent modification. Cascade may be called
// concurrently once all stylesheets are added.
type CSSOM struct {
	registry *style.Registry
	medium   string
	rules    []compiledRule
	order    int
}

type compiledRule struct {
	selectors cascadia.SelectorGroup
	rule      Rule
	origin    Origin
	order     int
}

// NewCSSOM creates an empty CSSOM. @property rules of stylesheets are
// registered with reg; @media rules are honoured if they apply to medium.
func NewCSSOM(reg *style.Registry, medium string) *CSSOM {
	if reg == nil {
		reg = style.NewRegistry()
	}
	if medium == "" {
		medium = "screen"
	}
	return &CSSOM{registry: reg, medium: medium}
}

// Registry returns the property registry of the CSSOM.
func (om *CSSOM) Registry() *style.Registry {
	return om.registry
}

// AddStyles adds the rules of a stylesheet for an origin. Rules with
// selectors cascadia cannot parse and malformed @property rules are dropped;
// the returned error lists them. The remaining rules are added nevertheless.
func (om *CSSOM) AddStyles(sheet StyleSheet, origin Origin) error {
	if sheet == nil || sheet.Empty() {
		return nil
	}
	return om.addRules(sheet.Rules(), origin)
}

func (om *CSSOM) addRules(rules []Rule, origin Origin) (err error) {
	for _, rule := range rules {
		switch kw := strings.ToLower(rule.AtKeyword()); kw {
		case "":
			sel, serr := cascadia.ParseGroup(rule.Selector())
			if serr != nil {
				err = multierr.Append(err, fmt.Errorf("selector %q: %w", rule.Selector(), serr))
				continue
			}
			om.rules = append(om.rules, compiledRule{
				selectors: sel,
				rule:      rule,
				origin:    origin,
				order:     om.order,
			})
			om.order++
		case "@media":
			if MediaMatches(rule.Selector(), om.medium) {
				err = multierr.Append(err, om.addRules(rule.Nested(), origin))
			} else {
				tracer().Debugf("skipping @media %s for medium %s", rule.Selector(), om.medium)
			}
		case "@property":
			def, derr := definitionFrom(rule)
			if derr == nil {
				derr = om.registry.Define(def)
			}
			err = multierr.Append(err, derr)
		default:
			tracer().Debugf("ignoring at-rule %s", kw)
		}
	}
	return err
}

// MediaMatches reports whether a media query list applies to a medium.
// Media types, 'all' and 'only' are understood; queries with media features
// do not match.
func MediaMatches(query, medium string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	for _, q := range strings.Split(strings.ToLower(query), ",") {
		fields := strings.Fields(q)
		if len(fields) > 0 && fields[0] == "only" {
			fields = fields[1:]
		}
		negate := false
		if len(fields) > 0 && fields[0] == "not" {
			negate, fields = true, fields[1:]
		}
		if len(fields) != 1 || strings.ContainsAny(fields[0], "()") {
			continue
		}
		if match := fields[0] == "all" || fields[0] == medium; match != negate {
			return true
		}
	}
	return false
}

// entry is a declaration taking part in the cascade of a node.
type entry struct {
	key       string
	text      string
	important bool
	origin    Origin
	spec      cascadia.Specificity
	order     int
}

func (e entry) less(other entry) bool {
	p1, p2 := priority(e.origin, e.important), priority(other.origin, other.important)
	if p1 != p2 {
		return p1 < p2
	}
	if e.spec != other.spec {
		return e.spec.Less(other.spec)
	}
	return e.order < other.order
}

// Cascade computes the declared style of an HTML element: it collects the
// declarations of all matching rules and of the element's style attribute
// and orders them by origin and importance, selector specificity and order
// of appearance. The winner for every property is set in the resulting
// declared style, with shorthands expanded.
//
// The declared style carries a snapshot of the user-agent declarations, to
// which the keyword 'revert' rolls back. The user-agent default for
// 'display' of the element is part of it.
//
// Invalid declarations are dropped and reported in the returned error,
// which does not invalidate the declared style.
func (om *CSSOM) Cascade(node *html.Node) (*style.DeclaredStyle, error) {
	ds := style.NewDeclaredStyle()
	if node == nil || node.Type != html.ElementNode {
		return ds, nil
	}
	entries := []entry{{
		key:    "display",
		text:   style.DisplayPropertyForHTMLNode(node).String(),
		origin: UserAgent,
		order:  -1,
	}}
	for _, cr := range om.rules {
		spec, ok := matchSpecificity(cr.selectors, node)
		if !ok {
			continue
		}
		for _, key := range cr.rule.Properties() {
			entries = append(entries, entry{
				key:       key,
				text:      cr.rule.Value(key).String(),
				important: cr.rule.IsImportant(key),
				origin:    cr.origin,
				spec:      spec,
				order:     cr.order,
			})
		}
	}
	var err error
	if inline, ok := attribute(node, "style"); ok {
		decls, perr := parser.ParseDeclarations(terminated(inline))
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("style attribute: %w", perr))
		}
		for _, d := range decls {
			entries = append(entries, entry{
				key:       d.Property,
				text:      d.Value,
				important: d.Important,
				origin:    Inline,
				order:     om.order,
			})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].less(entries[j])
	})
	ua := style.NewDeclaredStyle()
	for _, e := range entries {
		if derr := ds.Declare(om.registry, e.key, e.text, e.important); derr != nil {
			tracer().Debugf("dropping declaration %s: %s", e.key, e.text)
			err = multierr.Append(err, derr)
			continue
		}
		if e.origin == UserAgent {
			_ = ua.Declare(om.registry, e.key, e.text, e.important)
		}
	}
	ds.SetRevert(ua)
	return ds, err
}

// matchSpecificity returns the highest specificity of the selectors in
// group matching node. Selectors for pseudo-elements never match.
func matchSpecificity(group cascadia.SelectorGroup, node *html.Node) (cascadia.Specificity, bool) {
	var spec cascadia.Specificity
	matched := false
	for _, sel := range group {
		if sel.PseudoElement() != "" || !sel.Match(node) {
			continue
		}
		if s := sel.Specificity(); !matched || spec.Less(s) {
			spec = s
		}
		matched = true
	}
	return spec, matched
}

func attribute(node *html.Node, key string) (string, bool) {
	for _, a := range node.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// terminated closes the last declaration of a declaration block with a
// semicolon. douceur drops the value of an unterminated declaration.
func terminated(block string) string {
	trimmed := strings.TrimSpace(block)
	if trimmed == "" || strings.HasSuffix(trimmed, ";") {
		return block
	}
	return trimmed + ";"
}
