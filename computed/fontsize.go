package computed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/cssengine/styledb"
	"github.com/npillmayer/cssengine/value"
)

// Factors for 'larger' and 'smaller' if the parent's font size is not on the
// keyword ladder.
const (
	largerFactor  = 1.2
	smallerFactor = 0.82
)

const minFontSize = 1.0

// computeFontSize computes font-size. Relative sizes refer to the parent's
// font size; font metric units are approximated if necessary.
func (s *Style) computeFontSize(r *resolution, v value.Value) (value.Value, error) {
	parentSize, err := s.fontSizeOf(r, s.parent)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case value.Ident:
		kw := strings.ToLower(string(t))
		switch kw {
		case "larger", "smaller":
			step := 1
			if kw == "smaller" {
				step = -1
			}
			if idx, ok := s.parent.fontSizeKeywordIndex(r); ok {
				return value.Points(s.ladderSize(r, idx+step)), nil
			}
			if step > 0 {
				return value.Points(parentSize * largerFactor), nil
			}
			return value.Points(parentSize * smallerFactor), nil
		case "math":
			return value.Points(parentSize), nil
		}
		if size, ok := s.keywordFontSize(r, kw); ok {
			return value.Points(size), nil
		}
		return nil, fmt.Errorf("%w: font-size %s", ErrTypeMismatch, t)
	case value.Numeric:
		var size float64
		switch t.Unit.Category() {
		case value.PercentCategory:
			size = parentSize * t.Num / 100
		case value.NumberCategory:
			if t.Num != 0 {
				return nil, fmt.Errorf("%w: font-size %s", ErrTypeMismatch, t)
			}
		default:
			if !t.Unit.IsLength() {
				return nil, fmt.Errorf("%w: font-size %s", ErrTypeMismatch, t)
			}
			n, err := s.absolutizeNumeric(r, "font-size", t, true)
			if err != nil {
				return nil, err
			}
			size = n.Num
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: negative font-size %s", ErrTypeMismatch, t)
		}
		return value.Points(size), nil
	case value.Expression, value.MathFunction:
		ev := s.evaluator(r, "font-size", true)
		leaf := ev.AbsolutizeLeaf
		ev.AbsolutizeLeaf = func(n value.Numeric) (value.Numeric, error) {
			if n.Unit == value.Percent {
				return value.Points(parentSize * n.Num / 100), nil
			}
			return leaf(n)
		}
		res, err := ev.Evaluate(t)
		if err != nil && !errors.Is(err, ErrStyleDatabaseRequired) {
			return nil, err
		}
		n, ok := res.(value.Numeric)
		if !ok || (n.Unit != value.PT && !(n.Unit == value.Number && n.Num == 0)) {
			return nil, fmt.Errorf("%w: font-size %s", ErrTypeMismatch, t)
		}
		return value.Points(max(n.Num, 0)), nil
	}
	return nil, fmt.Errorf("%w: font-size %s", ErrTypeMismatch, v)
}

// keywordFontSize returns the size of an absolute font-size keyword.
func (s *Style) keywordFontSize(r *resolution, kw string) (float64, bool) {
	if kw != "xxx-large" {
		if _, ok := styledb.KeywordIndex(kw); !ok {
			return 0, false
		}
	}
	if s.db != nil {
		if size, ok := s.db.FontSizeFromIdentifier(s.fontFamily(r), kw); ok {
			return size, true
		}
	}
	if kw == "xxx-large" {
		return styledb.DefaultXXXLarge, true
	}
	idx, _ := styledb.KeywordIndex(kw)
	return styledb.DefaultFontSizes[idx], true
}

// ladderSize returns the size for a position on the keyword ladder.
// Positions beyond the ends are extrapolated from the two outermost steps.
func (s *Style) ladderSize(r *resolution, idx int) float64 {
	n := len(styledb.FontSizeKeywords)
	size := func(i int) float64 {
		sz, _ := s.keywordFontSize(r, styledb.FontSizeKeywords[i])
		return sz
	}
	var result float64
	switch {
	case idx < 0:
		result = size(0) + float64(idx)*(size(1)-size(0))
	case idx >= n:
		result = size(n-1) + float64(idx-n+1)*(size(n-1)-size(n-2))
	default:
		return size(idx)
	}
	return max(result, minFontSize)
}

// fontSizeKeywordIndex reports the ladder position of a style's font size if
// it was given by a keyword, directly, by inheritance or by stepping with
// 'larger' and 'smaller'. A nil style stands for the initial 'medium'.
func (s *Style) fontSizeKeywordIndex(r *resolution) (int, bool) {
	medium, _ := styledb.KeywordIndex("medium")
	if s == nil {
		return medium, true
	}
	decl, _ := s.declared.Get("font-size")
	v, err := s.specified(r, "font-size", decl)
	if err != nil {
		return 0, false
	}
	switch v {
	case nil, value.Unset, value.Inherit:
		return s.parent.fontSizeKeywordIndex(r)
	case value.Initial:
		return medium, true
	}
	id, ok := v.(value.Ident)
	if !ok {
		return 0, false
	}
	kw := strings.ToLower(string(id))
	switch kw {
	case "larger", "smaller":
		idx, ok := s.parent.fontSizeKeywordIndex(r)
		if !ok {
			return 0, false
		}
		if kw == "larger" {
			return idx + 1, true
		}
		return idx - 1, true
	case "math":
		return s.parent.fontSizeKeywordIndex(r)
	}
	return styledb.KeywordIndex(kw)
}

// computeLineHeight computes line-height. 'normal' and plain numbers are
// kept, percentages are resolved against the element's font size.
func (s *Style) computeLineHeight(r *resolution, v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case value.Ident:
		if t.Is("normal") {
			return value.Ident("normal"), nil
		}
	case value.Numeric:
		switch t.Unit.Category() {
		case value.NumberCategory:
			if t.Num < 0 {
				break
			}
			return t, nil
		case value.PercentCategory:
			fs, err := s.fontSize(r)
			if err != nil {
				return nil, err
			}
			return value.Points(fs * t.Num / 100), nil
		default:
			if t.Unit.IsLength() && t.Num >= 0 {
				return s.absolutizeNumeric(r, "line-height", t, false)
			}
		}
	case value.Expression, value.MathFunction:
		res, err := s.evaluator(r, "line-height", false).Evaluate(t)
		if err != nil && !errors.Is(err, ErrStyleDatabaseRequired) {
			return nil, err
		}
		if n, ok := res.(value.Numeric); ok && n.Unit == value.Percent {
			fs, ferr := s.fontSize(r)
			if ferr != nil {
				return nil, ferr
			}
			return value.Points(fs * n.Num / 100), err
		}
		return res, err
	}
	return nil, fmt.Errorf("%w: line-height %s", ErrTypeMismatch, v)
}
