package computed

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/npillmayer/cssengine/value"
)

// Evaluator reduces calc() expressions and math functions. It is
// parameterized by the treatment of its leaves: AbsolutizeLeaf converts a
// numeric leaf (e.g. resolving 'em'), ResolveProxyLeaf resolves a
// substitution inside an expression. Either may be nil.
//
// Leaves are combined over canonical units. If the result still mixes units,
// e.g. a percentage and a length, it is returned as a simplified expression.
type Evaluator struct {
	AbsolutizeLeaf   func(value.Numeric) (value.Numeric, error)
	ResolveProxyLeaf func(value.Proxy) (value.Value, error)
}

// errOpaque marks a sub-expression which cannot be reduced to a number, like
// min(10%, 2pt).
var errOpaque = errors.New("irreducible expression")

// quantity is a sum of terms, one per canonical unit.
type quantity map[value.Unit]float64

func number(n float64) quantity {
	return quantity{value.Number: n}
}

// unit returns the single unit of q, if q has only one.
func (q quantity) unit() (value.Unit, bool) {
	if len(q) != 1 {
		return 0, false
	}
	for u := range q {
		return u, true
	}
	return 0, false
}

func (q quantity) isNumber() bool {
	u, ok := q.unit()
	return ok && u == value.Number
}

func (q quantity) scale(f float64) quantity {
	out := make(quantity, len(q))
	for u, n := range q {
		out[u] = n * f
	}
	return out
}

// typeOf is the dimension a unit contributes to.
func typeOf(u value.Unit) value.Category {
	switch u.Category() {
	case value.FontRelative, value.RootRelative, value.ViewportRelative:
		return value.AbsoluteLength
	}
	return u.Category()
}

// add sums two quantities. Numbers do not mix with dimensions; percentages
// mix with every dimension.
func (q quantity) add(o quantity) (quantity, error) {
	out := make(quantity, len(q)+len(o))
	for u, n := range q {
		out[u] = n
	}
	for u, n := range o {
		out[u] += n
	}
	var dim value.Category
	hasNumber, hasDim := false, false
	for u := range out {
		switch c := typeOf(u); c {
		case value.NumberCategory:
			hasNumber = true
		case value.PercentCategory:
		default:
			if hasDim && c != dim {
				return nil, fmt.Errorf("%w: cannot add %s and %s", ErrTypeMismatch, dim, c)
			}
			dim, hasDim = c, true
		}
	}
	if hasNumber && len(out) > 1 {
		return nil, fmt.Errorf("%w: cannot add numbers and dimensions", ErrTypeMismatch)
	}
	return out, nil
}

type evaluation struct {
	ev   Evaluator
	soft error // first ErrStyleDatabaseRequired
}

// Evaluate reduces an expression. A partially absolutized result may be
// returned together with ErrStyleDatabaseRequired.
func (ev Evaluator) Evaluate(v value.Value) (value.Value, error) {
	e := &evaluation{ev: ev}
	q, err := e.eval(v)
	if errors.Is(err, errOpaque) {
		mapped, err := e.mapLeaves(v)
		if err != nil {
			return nil, err
		}
		return mapped, e.soft
	}
	if err != nil {
		return nil, err
	}
	return q.value(), e.soft
}

func (e *evaluation) leaf(n value.Numeric) (quantity, error) {
	if e.ev.AbsolutizeLeaf != nil {
		an, err := e.ev.AbsolutizeLeaf(n)
		if err != nil {
			if !errors.Is(err, ErrStyleDatabaseRequired) {
				return nil, err
			}
			if e.soft == nil {
				e.soft = err
			}
		}
		n = an
	}
	u, f := n.Unit.Canonical()
	return quantity{u: n.Num * f}, nil
}

func (e *evaluation) eval(v value.Value) (quantity, error) {
	switch t := v.(type) {
	case value.Numeric:
		return e.leaf(t)
	case value.Expression:
		return e.eval(t.Root)
	case value.Sum:
		q := quantity{}
		for _, term := range t.Terms {
			tq, err := e.eval(term)
			if err != nil {
				return nil, err
			}
			if len(q) == 0 {
				q = tq
				continue
			}
			if q, err = q.add(tq); err != nil {
				return nil, err
			}
		}
		return q, nil
	case value.Product:
		q := number(1)
		for _, term := range t.Terms {
			var tq quantity
			var err error
			if inv, ok := term.(value.Invert); ok {
				tq, err = e.eval(inv.Term)
				if err == nil {
					if !tq.isNumber() {
						return nil, fmt.Errorf("%w: division by a dimension", ErrTypeMismatch)
					}
					tq = number(1 / tq[value.Number])
				}
			} else {
				tq, err = e.eval(term)
			}
			if err != nil {
				return nil, err
			}
			switch {
			case tq.isNumber():
				q = q.scale(tq[value.Number])
			case q.isNumber():
				q = tq.scale(q[value.Number])
			default:
				return nil, fmt.Errorf("%w: cannot multiply two dimensions", ErrTypeMismatch)
			}
		}
		return q, nil
	case value.Negate:
		q, err := e.eval(t.Term)
		if err != nil {
			return nil, err
		}
		return q.scale(-1), nil
	case value.Invert:
		q, err := e.eval(t.Term)
		if err != nil {
			return nil, err
		}
		if !q.isNumber() {
			return nil, fmt.Errorf("%w: division by a dimension", ErrTypeMismatch)
		}
		return number(1 / q[value.Number]), nil
	case value.MathFunction:
		return e.mathFunction(t)
	case value.Proxy:
		if e.ev.ResolveProxyLeaf != nil {
			rv, err := e.ev.ResolveProxyLeaf(t)
			if err != nil {
				return nil, err
			}
			return e.eval(rv)
		}
		return nil, fmt.Errorf("%w: unresolved %s in expression", ErrUnresolved, t)
	}
	return nil, fmt.Errorf("%w: %v in expression", ErrTypeMismatch, v)
}

// value converts a quantity back to a value. Mixed quantities become a sum.
func (q quantity) value() value.Value {
	if len(q) == 0 {
		return value.Numeric{}
	}
	if u, ok := q.unit(); ok {
		return value.Numeric{Num: q[u], Unit: u}
	}
	units := make([]value.Unit, 0, len(q))
	for u := range q {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i] < units[j] })
	sum := value.Sum{}
	for _, u := range units {
		n := value.Numeric{Num: q[u], Unit: u}
		if n.Num < 0 && len(sum.Terms) > 0 {
			n.Num = -n.Num
			sum.Terms = append(sum.Terms, value.Negate{Term: n})
			continue
		}
		sum.Terms = append(sum.Terms, n)
	}
	return value.Expression{Root: sum}
}

// mapLeaves rebuilds an irreducible expression with its leaves absolutized
// and its reducible sub-expressions reduced.
func (e *evaluation) mapLeaves(v value.Value) (value.Value, error) {
	if id, ok := v.(value.Ident); ok { // rounding strategy
		return id, nil
	}
	if _, ok := v.(value.Expression); !ok {
		if q, err := e.eval(v); err == nil {
			return q.value(), nil
		} else if !errors.Is(err, errOpaque) {
			return nil, err
		}
	}
	mapAll := func(terms []value.Value) ([]value.Value, error) {
		out := make([]value.Value, len(terms))
		for i, t := range terms {
			m, err := e.mapLeaves(t)
			if err != nil {
				return nil, err
			}
			out[i] = m
		}
		return out, nil
	}
	switch t := v.(type) {
	case value.Expression:
		root, err := e.mapLeaves(t.Root)
		if err != nil {
			return nil, err
		}
		if _, isExpr := root.(value.Expression); isExpr {
			return root, nil
		}
		if _, isMath := root.(value.MathFunction); isMath {
			return root, nil
		}
		return value.Expression{Root: root}, nil
	case value.Sum:
		terms, err := mapAll(t.Terms)
		return value.Sum{Terms: terms}, err
	case value.Product:
		terms, err := mapAll(t.Terms)
		return value.Product{Terms: terms}, err
	case value.Negate:
		m, err := e.mapLeaves(t.Term)
		return value.Negate{Term: m}, err
	case value.Invert:
		m, err := e.mapLeaves(t.Term)
		return value.Invert{Term: m}, err
	case value.MathFunction:
		args, err := mapAll(t.Args)
		return value.MathFunction{Name: t.Name, Args: args}, err
	}
	return v, nil
}

// --- Math functions --------------------------------------------------------

// args evaluates all arguments of a math function. Unless numbers are
// required, all arguments need the same single unit.
func (e *evaluation) args(m value.MathFunction) ([]float64, value.Unit, error) {
	vals := make([]float64, 0, len(m.Args))
	var unit value.Unit
	for i, arg := range m.Args {
		if id, ok := arg.(value.Ident); ok && i == 0 && m.Name == "round" && isRoundingStrategy(string(id)) {
			continue
		}
		q, err := e.eval(arg)
		if err != nil {
			return nil, 0, err
		}
		u, single := q.unit()
		if !single {
			if len(q) == 0 {
				u = value.Number
			} else {
				return nil, 0, errOpaque
			}
		}
		if len(vals) == 0 {
			unit = u
		} else if u != unit {
			if typeOf(u) != typeOf(unit) && typeOf(u) != value.PercentCategory && typeOf(unit) != value.PercentCategory {
				return nil, 0, fmt.Errorf("%w: %s() arguments of different types", ErrTypeMismatch, m.Name)
			}
			return nil, 0, errOpaque
		}
		vals = append(vals, q[u])
	}
	if len(vals) == 0 {
		return nil, 0, fmt.Errorf("%w: %s() without arguments", ErrTypeMismatch, m.Name)
	}
	return vals, unit, nil
}

func isRoundingStrategy(s string) bool {
	switch s {
	case "nearest", "up", "down", "to-zero":
		return true
	}
	return false
}

func (e *evaluation) mathFunction(m value.MathFunction) (quantity, error) {
	vals, unit, err := e.args(m)
	if err != nil {
		return nil, err
	}
	same := func(x float64) (quantity, error) { return quantity{unit: x}, nil }
	need := func(n int) error {
		if len(vals) != n {
			return fmt.Errorf("%w: %s() takes %d arguments", ErrTypeMismatch, m.Name, n)
		}
		return nil
	}
	// trigonometric functions take radians for plain numbers
	radians := func(x float64) float64 {
		if unit == value.DEG {
			return x * math.Pi / 180
		}
		return x
	}
	degrees := func(x float64) (quantity, error) {
		return quantity{value.DEG: x * 180 / math.Pi}, nil
	}
	switch m.Name {
	case "min":
		x := vals[0]
		for _, v := range vals[1:] {
			x = math.Min(x, v)
		}
		return same(x)
	case "max":
		x := vals[0]
		for _, v := range vals[1:] {
			x = math.Max(x, v)
		}
		return same(x)
	case "clamp":
		if err := need(3); err != nil {
			return nil, err
		}
		return same(math.Max(vals[0], math.Min(vals[1], vals[2])))
	case "round":
		strategy := "nearest"
		if id, ok := m.Args[0].(value.Ident); ok && isRoundingStrategy(string(id)) {
			strategy = string(id)
		}
		step := 1.0
		if len(vals) == 2 {
			step = vals[1]
		} else if unit != value.Number {
			return nil, fmt.Errorf("%w: round() needs a step for dimensions", ErrTypeMismatch)
		}
		if step == 0 {
			return same(math.NaN())
		}
		x := vals[0] / step
		switch strategy {
		case "up":
			x = math.Ceil(x)
		case "down":
			x = math.Floor(x)
		case "to-zero":
			x = math.Trunc(x)
		default:
			x = math.Floor(x + 0.5)
		}
		return same(x * step)
	case "mod":
		if err := need(2); err != nil {
			return nil, err
		}
		return same(vals[0] - vals[1]*math.Floor(vals[0]/vals[1]))
	case "rem":
		if err := need(2); err != nil {
			return nil, err
		}
		return same(math.Mod(vals[0], vals[1]))
	case "abs":
		return same(math.Abs(vals[0]))
	case "sign":
		switch {
		case vals[0] > 0:
			return number(1), nil
		case vals[0] < 0:
			return number(-1), nil
		}
		return number(0), nil
	case "hypot":
		sum := 0.0
		for _, v := range vals {
			sum += v * v
		}
		return same(math.Sqrt(sum))
	case "sin":
		return number(math.Sin(radians(vals[0]))), nil
	case "cos":
		return number(math.Cos(radians(vals[0]))), nil
	case "tan":
		return number(math.Tan(radians(vals[0]))), nil
	}
	if unit != value.Number {
		return nil, fmt.Errorf("%w: %s() takes numbers", ErrTypeMismatch, m.Name)
	}
	switch m.Name {
	case "asin":
		return degrees(math.Asin(vals[0]))
	case "acos":
		return degrees(math.Acos(vals[0]))
	case "atan":
		return degrees(math.Atan(vals[0]))
	case "atan2":
		if err := need(2); err != nil {
			return nil, err
		}
		return degrees(math.Atan2(vals[0], vals[1]))
	case "pow":
		if err := need(2); err != nil {
			return nil, err
		}
		return number(math.Pow(vals[0], vals[1])), nil
	case "sqrt":
		return number(math.Sqrt(vals[0])), nil
	case "exp":
		return number(math.Exp(vals[0])), nil
	case "log":
		if len(vals) == 2 {
			return number(math.Log(vals[0]) / math.Log(vals[1])), nil
		}
		return number(math.Log(vals[0])), nil
	}
	return nil, fmt.Errorf("%w: unknown math function %s()", ErrTypeMismatch, m.Name)
}

// --- Evaluators of a style -------------------------------------------------

// evaluator returns the evaluator for a property of s. The forcing variant
// approximates font metrics if no style database is present.
func (s *Style) evaluator(r *resolution, property string, force bool) Evaluator {
	return Evaluator{
		AbsolutizeLeaf: func(n value.Numeric) (value.Numeric, error) {
			return s.absolutizeNumeric(r, property, n, force)
		},
		ResolveProxyLeaf: func(p value.Proxy) (value.Value, error) {
			return s.substituteProxy(r, property, p)
		},
	}
}
