package cssom

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cssengine/dom/style"
	"github.com/npillmayer/cssengine/lexical"
	"github.com/npillmayer/cssengine/syntax"
	"go.uber.org/multierr"
)

// DefinitionsFrom collects the custom property registrations of the
// @property rules of a stylesheet, including those nested in @media rules.
// Malformed rules are skipped and reported in the error.
func DefinitionsFrom(sheet StyleSheet) ([]style.CustomPropertyDefinition, error) {
	if sheet == nil {
		return nil, nil
	}
	var defs []style.CustomPropertyDefinition
	var err error
	var walk func([]Rule)
	walk = func(rules []Rule) {
		for _, rule := range rules {
			switch strings.ToLower(rule.AtKeyword()) {
			case "@property":
				def, derr := definitionFrom(rule)
				if derr != nil {
					err = multierr.Append(err, derr)
					continue
				}
				defs = append(defs, def)
			case "@media":
				walk(rule.Nested())
			}
		}
	}
	walk(sheet.Rules())
	return defs, err
}

// definitionFrom reads the descriptors 'syntax', 'inherits' and
// 'initial-value' of an @property rule. 'syntax' and 'inherits' are
// required.
func definitionFrom(rule Rule) (style.CustomPropertyDefinition, error) {
	def := style.CustomPropertyDefinition{Name: strings.TrimSpace(rule.Selector())}
	fail := func(format string, args ...interface{}) (style.CustomPropertyDefinition, error) {
		msg := fmt.Sprintf(format, args...)
		return def, fmt.Errorf("@property %s: %w: %s", def.Name, style.ErrInvalidDefinition, msg)
	}
	if !style.IsCustomProperty(def.Name) {
		return fail("not a custom property name")
	}
	descriptors := make(map[string]string)
	for _, key := range rule.Properties() {
		descriptors[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(rule.Value(key).String())
	}
	text, ok := descriptors["syntax"]
	if !ok {
		return fail("missing descriptor 'syntax'")
	}
	if chain, err := lexical.Parse(text); err == nil && chain != nil &&
		chain.Type == lexical.String && chain.Next == nil {
		text = chain.Text
	}
	var err error
	if def.Syntax, err = syntax.Parse(text); err != nil {
		return fail("%v", err)
	}
	switch strings.ToLower(descriptors["inherits"]) {
	case "true":
		def.Inherits = true
	case "false":
	default:
		return fail("descriptor 'inherits' must be true or false")
	}
	if initial, ok := descriptors["initial-value"]; ok && initial != "" {
		if def.Initial, err = lexical.Parse(initial); err != nil {
			return fail("initial-value: %v", err)
		}
	}
	return def, nil
}
