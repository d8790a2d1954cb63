package value

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/npillmayer/cssengine/lexical"
)

// ErrExpression is returned for malformed calc() and math function expressions.
var ErrExpression = errors.New("malformed expression")

// Expression is a calc() value. Root is an expression tree of Sum, Product,
// Negate and Invert nodes with numeric (or math function) leaves.
//
// See: https://www.w3.org/TR/css-values-4/#calc-internal
type Expression struct {
	Root Value
}

func (e Expression) Kind() Kind { return TypedKind }
func (e Expression) Type() Type { return ExpressionType }

func (e Expression) String() string {
	switch e.Root.(type) {
	case Sum, Product, Negate, Invert:
		return "calc(" + termString(e.Root, false) + ")"
	}
	return "calc(" + e.Root.String() + ")"
}

// Sum is a sum of terms. Subtraction is represented by negated terms.
type Sum struct {
	Terms []Value
}

func (s Sum) Kind() Kind     { return TypedKind }
func (s Sum) Type() Type     { return ExpressionType }
func (s Sum) String() string { return "(" + termString(s, false) + ")" }

// Product is a product of terms. Division is represented by inverted terms.
type Product struct {
	Terms []Value
}

func (p Product) Kind() Kind     { return TypedKind }
func (p Product) Type() Type     { return ExpressionType }
func (p Product) String() string { return "(" + termString(p, false) + ")" }

// Negate negates its term.
type Negate struct {
	Term Value
}

func (n Negate) Kind() Kind     { return TypedKind }
func (n Negate) Type() Type     { return ExpressionType }
func (n Negate) String() string { return "(-1 * " + termString(n.Term, true) + ")" }

// Invert inverts its term.
type Invert struct {
	Term Value
}

func (i Invert) Kind() Kind     { return TypedKind }
func (i Invert) Type() Type     { return ExpressionType }
func (i Invert) String() string { return "(1 / " + termString(i.Term, true) + ")" }

func termString(v Value, nested bool) string {
	switch t := v.(type) {
	case Sum:
		var sb strings.Builder
		for i, term := range t.Terms {
			if i > 0 {
				if neg, ok := term.(Negate); ok {
					sb.WriteString(" - ")
					sb.WriteString(termString(neg.Term, true))
					continue
				}
				sb.WriteString(" + ")
			}
			sb.WriteString(termString(term, true))
		}
		if nested {
			return "(" + sb.String() + ")"
		}
		return sb.String()
	case Product:
		var sb strings.Builder
		for i, term := range t.Terms {
			if i > 0 {
				if inv, ok := term.(Invert); ok {
					sb.WriteString(" / ")
					sb.WriteString(termString(inv.Term, true))
					continue
				}
				sb.WriteString(" * ")
			}
			sb.WriteString(termString(term, true))
		}
		return sb.String()
	case Negate:
		return "-1 * " + termString(t.Term, true)
	case Invert:
		return "1 / " + termString(t.Term, true)
	case nil:
		return ""
	}
	return v.String()
}

// MathFunction is one of the CSS math functions besides calc(), e.g.
// min(), clamp() or round(). Every argument is a calc-sum.
type MathFunction struct {
	Name string
	Args []Value
}

func (m MathFunction) Kind() Kind { return TypedKind }
func (m MathFunction) Type() Type { return MathFunctionType }

func (m MathFunction) String() string {
	return m.Name + "(" + joinValues(m.Args, ", ") + ")"
}

// IsMathFunctionName checks if name denotes a math function other than calc().
func IsMathFunctionName(name string) bool {
	switch name {
	case "min", "max", "clamp", "round", "mod", "rem", "sin", "cos", "tan",
		"asin", "acos", "atan", "atan2", "pow", "sqrt", "hypot", "log", "exp",
		"abs", "sign":
		return true
	}
	return false
}

// --- Parsing ---------------------------------------------------------------

// parseCalc parses the content of calc() or a parenthesized sub-expression.
func parseCalc(chain *lexical.Unit) (Value, error) {
	if chain == nil {
		return nil, fmt.Errorf("%w: empty expression", ErrExpression)
	}
	var terms []Value
	var ops []lexical.Type
	expectTerm := true
	for u := chain; u != nil; u = u.Next {
		switch u.Type {
		case lexical.Plus, lexical.Minus, lexical.Multiply, lexical.Slash:
			if expectTerm {
				return nil, fmt.Errorf("%w: unexpected operator in %q", ErrExpression, chain)
			}
			ops = append(ops, u.Type)
			expectTerm = true
			continue
		}
		if !expectTerm {
			return nil, fmt.Errorf("%w: missing operator in %q", ErrExpression, chain)
		}
		term, err := calcLeaf(u)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
		expectTerm = false
	}
	if expectTerm {
		return nil, fmt.Errorf("%w: dangling operator in %q", ErrExpression, chain)
	}
	// collect runs of products, then the sum
	var sum []Value
	run, negated := []Value{terms[0]}, false
	for i, op := range ops {
		t := terms[i+1]
		switch op {
		case lexical.Multiply:
			run = append(run, t)
		case lexical.Slash:
			run = append(run, Invert{Term: t})
		case lexical.Plus, lexical.Minus:
			sum = append(sum, product(run, negated))
			run, negated = []Value{t}, op == lexical.Minus
		}
	}
	sum = append(sum, product(run, negated))
	if len(sum) == 1 {
		return sum[0], nil
	}
	return Sum{Terms: sum}, nil
}

func product(run []Value, negated bool) Value {
	var p Value = Product{Terms: run}
	if len(run) == 1 {
		p = run[0]
	}
	if negated {
		return Negate{Term: p}
	}
	return p
}

func calcLeaf(u *lexical.Unit) (Value, error) {
	switch u.Type {
	case lexical.Number:
		return Numeric{Num: u.Num, Unit: Number}, nil
	case lexical.Percentage:
		return Numeric{Num: u.Num, Unit: Percent}, nil
	case lexical.Dimension:
		unit, ok := ParseUnit(u.Dim)
		if !ok {
			return nil, fmt.Errorf("%w: unknown unit %q", ErrExpression, u.Dim)
		}
		return Numeric{Num: u.Num, Unit: unit}, nil
	case lexical.Paren:
		return parseCalc(u.Params)
	case lexical.Function:
		if u.Text == "calc" || u.Text == "-webkit-calc" {
			return parseCalc(u.Params)
		}
		if IsMathFunctionName(u.Text) {
			return parseMathFunction(u)
		}
		if lexical.IsProxyFunction(u.Text) {
			return Proxy{ProxyType: proxyTypeOf(u.Text), Chain: u.Single()}, nil
		}
	case lexical.Ident:
		switch strings.ToLower(u.Text) {
		case "e":
			return Numeric{Num: math.E}, nil
		case "pi":
			return Numeric{Num: math.Pi}, nil
		case "infinity":
			return Numeric{Num: math.Inf(1)}, nil
		case "-infinity":
			return Numeric{Num: math.Inf(-1)}, nil
		case "nan":
			return Numeric{Num: math.NaN()}, nil
		}
	}
	return nil, fmt.Errorf("%w: unexpected %s %q", ErrExpression, u.Type, u.Single())
}

func parseMathFunction(u *lexical.Unit) (Value, error) {
	m := MathFunction{Name: u.Text}
	for i, arg := range u.Params.SplitCommas() {
		if arg == nil {
			return nil, fmt.Errorf("%w: empty argument of %s()", ErrExpression, u.Text)
		}
		if i == 0 && m.Name == "round" && arg.Type == lexical.Ident && arg.Next == nil {
			switch strings.ToLower(arg.Text) {
			case "nearest", "up", "down", "to-zero":
				m.Args = append(m.Args, Ident(strings.ToLower(arg.Text)))
				continue
			}
		}
		v, err := parseCalc(arg)
		if err != nil {
			return nil, err
		}
		m.Args = append(m.Args, v)
	}
	if len(m.Args) == 0 {
		return nil, fmt.Errorf("%w: %s() without arguments", ErrExpression, u.Text)
	}
	return m, nil
}

func proxyTypeOf(name string) ProxyType {
	switch name {
	case "attr":
		return AttrProxy
	case "env":
		return EnvProxy
	}
	return VarProxy
}
