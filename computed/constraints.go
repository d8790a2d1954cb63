package computed

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cssengine/value"
)

// Border widths of the keywords 'thin', 'medium' and 'thick', in points
// (1px, 3px, 5px).
var borderWidths = map[string]float64{
	"thin":   0.75,
	"medium": 2.25,
	"thick":  3.75,
}

// blockified display values
var blockDisplay = map[string]string{
	"inline":             "block",
	"inline-block":       "block",
	"run-in":             "block",
	"inline-flex":        "flex",
	"inline-grid":        "grid",
	"inline-table":       "table",
	"table-row-group":    "block",
	"table-header-group": "block",
	"table-footer-group": "block",
	"table-row":          "block",
	"table-cell":         "block",
	"table-column-group": "block",
	"table-column":       "block",
	"table-caption":      "block",
	"ruby":               "block",
	"ruby-text":          "block",
}

func (s *Style) isOutOfFlow(r *resolution) bool {
	pos, err := s.compute(r, "position")
	if err != nil {
		return false
	}
	id, ok := pos.(value.Ident)
	return ok && (id.Is("absolute") || id.Is("fixed"))
}

// computeDisplay blockifies the display of floated, absolutely positioned and
// root elements.
func (s *Style) computeDisplay(r *resolution, v value.Value) (value.Value, error) {
	if l, ok := v.(value.List); ok && !l.Comma {
		return s.computeMultiKeywordDisplay(r, l), nil
	}
	id, ok := v.(value.Ident)
	if !ok {
		return v, nil
	}
	display := strings.ToLower(string(id))
	if display == "inline-table" {
		display = "table"
	}
	if display == "none" {
		return value.Ident(display), nil
	}
	isRoot := s.element != nil && s.element.IsRoot()
	if isRoot || s.isOutOfFlow(r) || s.isFloating(r) {
		if b, ok := blockDisplay[display]; ok {
			display = b
		} else if display == "contents" && isRoot {
			display = "block"
		}
	}
	return value.Ident(display), nil
}

// computeMultiKeywordDisplay blockifies the outer keyword of a multi-keyword
// display value, e.g. "inline flow-root" becomes "block flow-root".
func (s *Style) computeMultiKeywordDisplay(r *resolution, l value.List) value.Value {
	isRoot := s.element != nil && s.element.IsRoot()
	if !isRoot && !s.isOutOfFlow(r) && !s.isFloating(r) {
		return l
	}
	items := make([]value.Value, len(l.Items))
	for i, item := range l.Items {
		items[i] = item
		if id, ok := item.(value.Ident); ok && (id.Is("inline") || id.Is("run-in")) {
			items[i] = value.Ident("block")
		}
	}
	return value.List{Items: items}
}

func (s *Style) isFloating(r *resolution) bool {
	fl, err := s.compute(r, "float")
	if err != nil {
		return false
	}
	id, ok := fl.(value.Ident)
	return ok && !id.Is("none")
}

// computeFloat: absolutely positioned elements do not float.
func (s *Style) computeFloat(r *resolution, v value.Value) (value.Value, error) {
	if s.isOutOfFlow(r) {
		return value.Ident("none"), nil
	}
	return v, nil
}

// computeBorderWidth resolves width keywords for border, outline and column
// rule widths. The width is 0 if the corresponding style is 'none' or 'hidden'.
func (s *Style) computeBorderWidth(r *resolution, property string, v value.Value) (value.Value, error) {
	styleProp := strings.TrimSuffix(property, "-width") + "-style"
	if st, err := s.compute(r, styleProp); err == nil {
		if id, ok := st.(value.Ident); ok && (id.Is("none") || id.Is("hidden")) {
			return value.Points(0), nil
		}
	}
	switch t := v.(type) {
	case value.Ident:
		if w, ok := borderWidths[strings.ToLower(string(t))]; ok {
			return value.Points(w), nil
		}
	case value.Numeric:
		if t.Unit == value.PT && t.Num >= 0 {
			return t, nil
		}
		if t.Unit == value.Number && t.Num == 0 {
			return value.Points(0), nil
		}
	case value.Expression, value.MathFunction:
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s %s", ErrTypeMismatch, property, v)
}

// expandRepeat brings every layer of background-repeat into its two-value
// form.
func expandRepeat(v value.Value) value.Value {
	switch t := v.(type) {
	case value.Ident:
		return repeatPair(t)
	case value.List:
		if !t.Comma {
			return t
		}
		layers := make([]value.Value, len(t.Items))
		for i, item := range t.Items {
			if id, ok := item.(value.Ident); ok {
				layers[i] = repeatPair(id)
			} else {
				layers[i] = item
			}
		}
		return value.List{Items: layers, Comma: true}
	}
	return v
}

func repeatPair(id value.Ident) value.List {
	switch strings.ToLower(string(id)) {
	case "repeat-x":
		return value.List{Items: []value.Value{value.Ident("repeat"), value.Ident("no-repeat")}}
	case "repeat-y":
		return value.List{Items: []value.Value{value.Ident("no-repeat"), value.Ident("repeat")}}
	}
	return value.List{Items: []value.Value{id, id}}
}
