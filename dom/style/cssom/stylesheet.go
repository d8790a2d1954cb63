package cssom

import "github.com/npillmayer/cssengine/dom/style"

// StyleSheet is an interface to abstract away a stylesheet-implementation.
// In order to de-couple implementations of CSS-stylesheets from the
// cascade, we introduce an interface for CSS stylesheets. Clients for the
// styling engine will have to provide a concrete implementation of this
// interface (e.g., see package douceuradapter).
//
// See interface Rule.
type StyleSheet interface {
	AppendRules(StyleSheet) // append rules from another stylesheet
	Empty() bool            // does this stylesheet contain any rules?
	Rules() []Rule          // all the rules of a stylesheet
}

// Rule is the type stylesheets consists of. Style rules have an empty
// at-keyword; at-rules like @media or @property carry their keyword, with
// the prelude returned by Selector.
//
// See interface StyleSheet.
type Rule interface {
	Selector() string            // the prelude / selectors of the rule
	Properties() []string        // property keys, e.g. "margin-top"
	Value(string) style.Property // property value for key, e.g. "15px"
	IsImportant(string) bool     // is property key marked as important?
	AtKeyword() string           // e.g. "@media", or "" for style rules
	Nested() []Rule              // nested rules of grouping at-rules
}

// Origin is the origin of a style declaration. Origins take part in
// ordering declarations of the cascade.
type Origin uint8

// Origins of style declarations, from weakest to strongest (for normal
// declarations).
const (
	UserAgent Origin = iota // browser defaults
	Author                  // document stylesheets
	Inline                  // style attributes
)

func (o Origin) String() string {
	switch o {
	case UserAgent:
		return "user-agent"
	case Author:
		return "author"
	case Inline:
		return "inline"
	}
	return "?"
}

// priority of declarations in the cascade. Important declarations reverse
// the order of origins.
func priority(o Origin, important bool) int {
	if important {
		switch o {
		case UserAgent:
			return 6
		case Inline:
			return 5
		}
		return 4
	}
	switch o {
	case Inline:
		return 3
	case Author:
		return 2
	}
	return 1
}
