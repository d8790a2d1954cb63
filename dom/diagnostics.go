package dom

import (
	"fmt"

	"github.com/npillmayer/cssengine/computed"
	"go.uber.org/multierr"
)

// Severity of a diagnostic.
type Severity uint8

// Warnings flag recovered problems like approximated font metrics or dropped
// declarations; errors flag values which had to be replaced by a fallback.
const (
	Warning Severity = iota
	Error
)

func (sev Severity) String() string {
	if sev == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is a problem found while styling an element.
type Diagnostic struct {
	Element  *Element
	Property string // empty for problems of the cascade
	Declared string // declared value as written, if any
	Err      error
	Severity Severity
}

func (d Diagnostic) String() string {
	if d.Property == "" {
		return fmt.Sprintf("%s: %s: %v", d.Severity, d.Element, d.Err)
	}
	if d.Declared == "" {
		return fmt.Sprintf("%s: %s { %s }: %v", d.Severity, d.Element, d.Property, d.Err)
	}
	return fmt.Sprintf("%s: %s { %s: %s }: %v", d.Severity, d.Element, d.Property, d.Declared, d.Err)
}

// Unwrap returns the error of the diagnostic.
func (d Diagnostic) Unwrap() error {
	return d.Err
}

func (d Diagnostic) Error() string {
	return d.String()
}

// ComputedStyleError records an error of style resolution.
//
// Interface computed.Diagnostics
func (doc *Document) ComputedStyleError(el computed.Element, property, declared string, err error) {
	doc.record(Diagnostic{Element: asElement(el), Property: property, Declared: declared,
		Err: err, Severity: Error})
}

// ComputedStyleWarning records a warning of style resolution.
//
// Interface computed.Diagnostics
func (doc *Document) ComputedStyleWarning(el computed.Element, property, declared string, err error) {
	doc.record(Diagnostic{Element: asElement(el), Property: property, Declared: declared,
		Err: err, Severity: Warning})
}

var _ computed.Diagnostics = (*Document)(nil)

func asElement(el computed.Element) *Element {
	e, _ := el.(*Element)
	return e
}

// record adds a diagnostic, unless an equal one has already been recorded.
// Styles inheriting from a style with a problem see the problem again in
// their own resolutions.
func (doc *Document) record(d Diagnostic) {
	doc.diagMu.Lock()
	defer doc.diagMu.Unlock()
	for _, known := range doc.diags {
		if known.sameAs(d) {
			return
		}
	}
	tracer().Debugf("%s", d)
	doc.diags = append(doc.diags, d)
}

func (d Diagnostic) sameAs(other Diagnostic) bool {
	if d.Element != other.Element || d.Property != other.Property ||
		d.Declared != other.Declared || d.Severity != other.Severity {
		return false
	}
	if d.Err == nil || other.Err == nil {
		return d.Err == other.Err
	}
	return d.Err.Error() == other.Err.Error()
}

// Diagnostics returns the diagnostics recorded so far, in the order they
// have been found.
func (doc *Document) Diagnostics() []Diagnostic {
	doc.diagMu.Lock()
	defer doc.diagMu.Unlock()
	diags := make([]Diagnostic, len(doc.diags))
	copy(diags, doc.diags)
	return diags
}

// Err combines all diagnostics of severity Error into a single error, or
// returns nil. Use errors.Is to test for the error conditions of package
// computed.
func (doc *Document) Err() error {
	var err error
	for _, d := range doc.Diagnostics() {
		if d.Severity == Error {
			err = multierr.Append(err, d)
		}
	}
	return err
}
