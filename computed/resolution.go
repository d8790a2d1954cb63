package computed

import (
	"fmt"

	"github.com/npillmayer/cssengine/value"
)

type varKey struct {
	owner *Style // declaring style
	name  string
}

type attrKey struct {
	owner *Style
	name  string
}

type activeKey struct {
	owner    *Style
	property string
}

type problem struct {
	style    *Style
	property string
	declared string
	err      error
	warning  bool
}

// resolution is the state of a single top-level resolution call. It is
// threaded through all stages and never stored on a Style, so concurrent
// resolution calls do not interfere.
type resolution struct {
	limit    int
	replaced int                       // lexical units spliced in so far
	vars     map[varKey]struct{}       // custom properties being expanded
	attrs    map[attrKey]struct{}      // attributes being expanded
	active   map[activeKey]struct{}    // properties being computed
	done     map[activeKey]value.Value // properties computed without error
	tainted  bool                      // an attr() substitution took place
	aborted  error
	problems []problem
}

func newResolution(limit int) *resolution {
	return &resolution{
		limit:  limit,
		vars:   make(map[varKey]struct{}),
		attrs:  make(map[attrKey]struct{}),
		active: make(map[activeKey]struct{}),
		done:   make(map[activeKey]value.Value),
	}
}

// splice accounts for n lexical units about to be substituted. Exceeding the
// limit aborts the resolution.
func (r *resolution) splice(n int) error {
	if r.aborted != nil {
		return r.aborted
	}
	if r.replaced+n > r.limit {
		r.aborted = fmt.Errorf("%w: more than %d substituted units", ErrResourceLimit, r.limit)
		return r.aborted
	}
	r.replaced += n
	return nil
}

func (r *resolution) note(s *Style, property, declared string, err error) {
	r.add(problem{style: s, property: property, declared: declared, err: err})
}

func (r *resolution) warn(s *Style, property, declared string, err error) {
	r.add(problem{style: s, property: property, declared: declared, err: err, warning: true})
}

// add records a problem once per style and property.
func (r *resolution) add(p problem) {
	for _, q := range r.problems {
		if q.style == p.style && q.property == p.property {
			return
		}
	}
	r.problems = append(r.problems, p)
}

// err returns the first error, ignoring warnings.
func (r *resolution) err() error {
	for _, p := range r.problems {
		if !p.warning {
			return p.err
		}
	}
	return nil
}

// report hands all problems to the diagnostics sinks of their styles.
func (r *resolution) report() {
	for _, p := range r.problems {
		if p.warning {
			p.style.sink.ComputedStyleWarning(p.style.element, p.property, p.declared, p.err)
		} else {
			tracer().Errorf("%s: %v", p.property, p.err)
			p.style.sink.ComputedStyleError(p.style.element, p.property, p.declared, p.err)
		}
	}
}
