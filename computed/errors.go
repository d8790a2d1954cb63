package computed

import "errors"

// Error conditions of style resolution. They are reported to Diagnostics,
// wrapped with context; test for them with errors.Is.
var (
	ErrCircularity           = errors.New("circular dependency")
	ErrResourceLimit         = errors.New("substitution exceeds resource limit")
	ErrStyleDatabaseRequired = errors.New("style database required")
	ErrAttrForbidden         = errors.New("attr() not allowed for property")
	ErrUnresolved            = errors.New("unresolved substitution")
	ErrTypeMismatch          = errors.New("type mismatch")
)

// hard errors end substitution without considering fallbacks
func isHard(err error) bool {
	return errors.Is(err, ErrResourceLimit) || errors.Is(err, ErrAttrForbidden)
}

// Element is the DOM collaborator of style resolution.
type Element interface {
	// Attribute returns the value of an attribute, if present.
	Attribute(name string) (string, bool)
	// IsRoot is true for the document element.
	IsRoot() bool
}

// Diagnostics is the sink for problems found during resolution. declared is
// the text of the declared value, if any.
type Diagnostics interface {
	ComputedStyleError(el Element, property, declared string, err error)
	ComputedStyleWarning(el Element, property, declared string, err error)
}

// nullSink ignores all diagnostics, except for tracing them.
type nullSink struct{}

func (nullSink) ComputedStyleError(el Element, property, declared string, err error) {
	tracer().Infof("%s: %v", property, err)
}

func (nullSink) ComputedStyleWarning(el Element, property, declared string, err error) {
	tracer().Debugf("%s: %v", property, err)
}
