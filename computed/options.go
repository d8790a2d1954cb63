package computed

import (
	"github.com/npillmayer/cssengine/dom/style"
	"github.com/npillmayer/cssengine/styledb"
)

// DefaultReplacementLimit is the maximum number of lexical units a single
// resolution may splice in by substitution.
const DefaultReplacementLimit = 131072

type props struct {
	registry *style.Registry
	db       styledb.Database
	viewport styledb.Viewport
	sink     Diagnostics
	medium   string
	limit    int
}

func (p props) init() props {
	if p.registry == nil {
		p.registry = style.NewRegistry()
	}
	if p.sink == nil {
		p.sink = nullSink{}
	}
	if p.medium == "" {
		if p.db != nil {
			p.medium = p.db.Medium()
		} else {
			p.medium = "screen"
		}
	}
	if p.limit <= 0 {
		p.limit = DefaultReplacementLimit
	}
	return p
}

// Option is a type to help initializing styles at creation time.
// Options not given for a style are taken over from its parent.
type Option struct {
	config func(props) props
}

// WithRegistry sets the property registry, which holds custom property
// registrations.
func WithRegistry(reg *style.Registry) Option {
	return Option{config: func(p props) props {
		p.registry = reg
		return p
	}}
}

// WithDatabase sets the style database for font and device metrics.
// Without a database, units depending on glyph metrics are approximated for
// font sizes and left unresolved otherwise.
func WithDatabase(db styledb.Database) Option {
	return Option{config: func(p props) props {
		p.db = db
		return p
	}}
}

// WithViewport sets the viewport, which takes precedence over the device size
// of the style database for viewport units.
func WithViewport(vp styledb.Viewport) Option {
	return Option{config: func(p props) props {
		p.viewport = vp
		return p
	}}
}

// WithDiagnostics sets the sink for resolution diagnostics.
func WithDiagnostics(sink Diagnostics) Option {
	return Option{config: func(p props) props {
		p.sink = sink
		return p
	}}
}

// WithMedium sets the target medium ("screen", "print", "handheld").
func WithMedium(medium string) Option {
	return Option{config: func(p props) props {
		p.medium = medium
		return p
	}}
}

// WithReplacementLimit sets the maximum number of lexical units a resolution
// may substitute. Default is 131072.
func WithReplacementLimit(n int) Option {
	return Option{config: func(p props) props {
		p.limit = n
		return p
	}}
}
