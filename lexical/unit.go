package lexical

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Type is the type of a lexical unit.
type Type uint8

// Types of lexical units. Operators are split out of generic delimiters, as
// calc() expressions and shorthands care about them.
const (
	Invalid Type = iota
	Ident
	Number
	Percentage
	Dimension
	String
	URI
	Hash
	UnicodeRange
	Function
	Paren   // ( ... )
	Bracket // [ ... ]
	Brace   // { ... }
	Comma
	Slash
	Plus
	Minus
	Multiply
	Delim
)

var typeNames = [...]string{"Invalid", "Ident", "Number", "Percentage", "Dimension",
	"String", "URI", "Hash", "UnicodeRange", "Function", "Paren", "Bracket", "Brace",
	"Comma", "Slash", "Plus", "Minus", "Multiply", "Delim"}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// ErrSyntax is returned for input which cannot be tokenized into a lexical chain.
var ErrSyntax = errors.New("css syntax error")

// Unit is a node of a chain of lexical units.
//
// For numeric units Num carries the value and Text the number as written.
// Dimensions carry their (lower-case) unit in Dim. Functions carry their
// lower-case name in Text; functions and blocks hold their content in Params.
// Strings, URIs and hashes hold their unquoted content in Text.
type Unit struct {
	Type   Type
	Text   string
	Num    float64
	Dim    string
	Params *Unit
	Next   *Unit
	Prev   *Unit
	// SpaceBefore is set if whitespace separated this unit from its predecessor.
	SpaceBefore bool
}

// --- Constructors ----------------------------------------------------------

// NewIdent creates a single identifier unit.
func NewIdent(name string) *Unit {
	return &Unit{Type: Ident, Text: name}
}

// NewString creates a single string unit. s is the unquoted content.
func NewString(s string) *Unit {
	return &Unit{Type: String, Text: s}
}

// NewURI creates a single url() unit.
func NewURI(uri string) *Unit {
	return &Unit{Type: URI, Text: uri}
}

// NewNumber creates a unitless number.
func NewNumber(n float64) *Unit {
	return &Unit{Type: Number, Num: n, Text: FormatNumber(n)}
}

// NewPercentage creates a percentage unit.
func NewPercentage(n float64) *Unit {
	return &Unit{Type: Percentage, Num: n, Text: FormatNumber(n)}
}

// NewDimension creates a number with a unit.
func NewDimension(n float64, dim string) *Unit {
	return &Unit{Type: Dimension, Num: n, Text: FormatNumber(n), Dim: strings.ToLower(dim)}
}

// NewFunction creates a function unit with a (possibly empty) argument chain.
func NewFunction(name string, params *Unit) *Unit {
	return &Unit{Type: Function, Text: strings.ToLower(name), Params: params}
}

// FormatNumber formats a float the way CSS serializes numbers.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// --- Chain operations -----------------------------------------------------

// Last returns the last unit of the chain starting at u.
func (u *Unit) Last() *Unit {
	if u == nil {
		return nil
	}
	for u.Next != nil {
		u = u.Next
	}
	return u
}

// Len counts the units of a chain, including the units of nested chains.
func (u *Unit) Len() int {
	n := 0
	for ; u != nil; u = u.Next {
		n++
		if u.Params != nil {
			n += u.Params.Len()
		}
	}
	return n
}

// Single returns a copy of u detached from its chain, with nested chains cloned.
func (u *Unit) Single() *Unit {
	if u == nil {
		return nil
	}
	c := *u
	c.Next, c.Prev = nil, nil
	c.Params = u.Params.Clone()
	return &c
}

// Clone deep-copies the chain starting at u.
func (u *Unit) Clone() *Unit {
	var b Builder
	for ; u != nil; u = u.Next {
		b.Append(u.Single())
	}
	return b.Chain()
}

// IsFunction checks if u is a function with the given name.
func (u *Unit) IsFunction(name string) bool {
	return u != nil && u.Type == Function && u.Text == name
}

// IsIdent checks if u is an identifier matching name (ASCII case-insensitive).
func (u *Unit) IsIdent(name string) bool {
	return u != nil && u.Type == Ident && strings.EqualFold(u.Text, name)
}

// IsCSSWide checks if a chain consists of exactly one CSS-wide keyword.
func (u *Unit) IsCSSWide() bool {
	if u == nil || u.Next != nil || u.Type != Ident {
		return false
	}
	switch strings.ToLower(u.Text) {
	case "inherit", "initial", "unset", "revert", "revert-layer":
		return true
	}
	return false
}

// ContainsProxy reports if a var(), attr() or env() function occurs anywhere
// in the chain.
func (u *Unit) ContainsProxy() bool {
	for ; u != nil; u = u.Next {
		if u.Type == Function && IsProxyFunction(u.Text) {
			return true
		}
		if u.Params.ContainsProxy() {
			return true
		}
	}
	return false
}

// IsProxyFunction checks if name denotes one of the substitution functions.
func IsProxyFunction(name string) bool {
	return name == "var" || name == "attr" || name == "env"
}

// SplitCommas splits a chain at top-level commas. It returns working copies.
// An empty segment is returned as nil. A nil chain yields nil.
func (u *Unit) SplitCommas() []*Unit {
	if u == nil {
		return nil
	}
	var segs []*Unit
	var b Builder
	for ; u != nil; u = u.Next {
		if u.Type == Comma {
			segs = append(segs, b.Chain())
			b = Builder{}
			continue
		}
		b.Append(u.Single())
	}
	return append(segs, b.Chain())
}

// Arguments splits the parameters of a function unit into its first argument
// and everything after the first top-level comma. The latter is used for
// fallbacks of var(), attr() and env(). hasRest is true if a comma exists,
// even if nothing follows it.
func (u *Unit) Arguments() (first *Unit, rest *Unit, hasRest bool) {
	var b Builder
	p := u.Params
	for ; p != nil; p = p.Next {
		if p.Type == Comma {
			hasRest = true
			p = p.Next
			break
		}
		b.Append(p.Single())
	}
	first = b.Chain()
	if hasRest {
		rest = p.Clone()
		if rest != nil {
			rest.SpaceBefore = false
		}
	}
	return
}

// Builder assembles a new chain. The zero value is an empty chain.
type Builder struct {
	first, last *Unit
}

// Append appends a single detached unit.
func (b *Builder) Append(u *Unit) {
	if u == nil {
		return
	}
	u.Next = nil
	u.Prev = b.last
	if b.last == nil {
		b.first = u
	} else {
		b.last.Next = u
	}
	b.last = u
}

// AppendChain appends a copy of a chain. space sets the whitespace flag of the
// first appended unit.
func (b *Builder) AppendChain(c *Unit, space bool) {
	first := true
	for ; c != nil; c = c.Next {
		s := c.Single()
		if first {
			s.SpaceBefore = space
			first = false
		}
		b.Append(s)
	}
}

// Chain returns the first unit of the chain built so far.
func (b *Builder) Chain() *Unit {
	return b.first
}

// Empty is true if nothing has been appended.
func (b *Builder) Empty() bool {
	return b.first == nil
}

// --- Serialization ---------------------------------------------------------

// String serializes a chain to CSS text.
func (u *Unit) String() string {
	var sb strings.Builder
	for first := true; u != nil; u = u.Next {
		if !first && u.SpaceBefore && u.Type != Comma {
			sb.WriteByte(' ')
		}
		first = false
		u.write(&sb)
	}
	return sb.String()
}

func (u *Unit) write(sb *strings.Builder) {
	switch u.Type {
	case Ident, Delim, UnicodeRange:
		sb.WriteString(u.Text)
	case Number:
		sb.WriteString(u.numText())
	case Percentage:
		sb.WriteString(u.numText())
		sb.WriteByte('%')
	case Dimension:
		sb.WriteString(u.numText())
		sb.WriteString(u.Dim)
	case String:
		sb.WriteString(Quote(u.Text))
	case URI:
		sb.WriteString("url(")
		sb.WriteString(Quote(u.Text))
		sb.WriteByte(')')
	case Hash:
		sb.WriteByte('#')
		sb.WriteString(u.Text)
	case Function:
		sb.WriteString(u.Text)
		sb.WriteByte('(')
		sb.WriteString(u.Params.String())
		sb.WriteByte(')')
	case Paren:
		sb.WriteString("(" + u.Params.String() + ")")
	case Bracket:
		sb.WriteString("[" + u.Params.String() + "]")
	case Brace:
		sb.WriteString("{" + u.Params.String() + "}")
	case Comma:
		sb.WriteByte(',')
	case Slash:
		sb.WriteByte('/')
	case Plus:
		sb.WriteByte('+')
	case Minus:
		sb.WriteByte('-')
	case Multiply:
		sb.WriteByte('*')
	}
}

func (u *Unit) numText() string {
	if u.Text != "" {
		return u.Text
	}
	return FormatNumber(u.Num)
}

// Quote wraps s into double quotes, escaping as needed.
func Quote(s string) string {
	if !strings.ContainsAny(s, "\"\\\n") {
		return `"` + s + `"`
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\a `)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// --- Parsing ---------------------------------------------------------------

type frame struct {
	owner *Unit // function or block unit, nil for the top level
	b     Builder
	close css.TokenType
}

// Parse tokenizes a property value into a chain of lexical units.
// An empty (or whitespace-only) input yields a nil chain without error.
// Unclosed functions and blocks are closed at the end of input.
func Parse(text string) (*Unit, error) {
	l := css.NewLexer(parse.NewInputString(text))
	stack := []*frame{{}}
	space := false
	push := func(u *Unit) {
		u.SpaceBefore = space
		space = false
		stack[len(stack)-1].b.Append(u)
	}
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			if err := l.Err(); err != nil && err != io.EOF {
				return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
			}
			for len(stack) > 1 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				top.owner.Params = top.b.Chain()
			}
			return stack[0].b.Chain(), nil
		case css.WhitespaceToken, css.CommentToken:
			space = true
			continue
		case css.IdentToken, css.CustomPropertyNameToken:
			push(NewIdent(string(data)))
		case css.NumberToken:
			n, err := strconv.ParseFloat(string(data), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: number %q", ErrSyntax, data)
			}
			push(&Unit{Type: Number, Num: n, Text: string(data)})
		case css.PercentageToken:
			num := string(data[:len(data)-1])
			n, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: percentage %q", ErrSyntax, data)
			}
			push(&Unit{Type: Percentage, Num: n, Text: num})
		case css.DimensionToken:
			u, err := splitDimension(string(data))
			if err != nil {
				return nil, err
			}
			push(u)
		case css.StringToken:
			push(NewString(unquote(string(data))))
		case css.URLToken:
			push(NewURI(urlContent(string(data))))
		case css.HashToken:
			push(&Unit{Type: Hash, Text: string(data[1:])})
		case css.UnicodeRangeToken:
			push(&Unit{Type: UnicodeRange, Text: string(data)})
		case css.CommaToken:
			push(&Unit{Type: Comma})
		case css.DelimToken:
			push(delim(string(data)))
		case css.ColonToken, css.SemicolonToken, css.IncludeMatchToken, css.DashMatchToken,
			css.PrefixMatchToken, css.SuffixMatchToken, css.SubstringMatchToken,
			css.ColumnToken, css.CDOToken, css.CDCToken:
			push(&Unit{Type: Delim, Text: string(data)})
		case css.FunctionToken:
			name := strings.ToLower(string(data[:len(data)-1]))
			u := &Unit{Type: Function, Text: name}
			push(u)
			stack = append(stack, &frame{owner: u, close: css.RightParenthesisToken})
		case css.LeftParenthesisToken, css.LeftBracketToken, css.LeftBraceToken:
			u, closer := block(tt)
			push(u)
			stack = append(stack, &frame{owner: u, close: closer})
		case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
			top := stack[len(stack)-1]
			if len(stack) == 1 || top.close != tt {
				return nil, fmt.Errorf("%w: unbalanced %q", ErrSyntax, data)
			}
			stack = stack[:len(stack)-1]
			top.owner.Params = top.b.Chain()
			space = false
		case css.BadStringToken, css.BadURLToken:
			return nil, fmt.Errorf("%w: malformed token %q", ErrSyntax, data)
		default:
			tracer().Debugf("lexical: ignoring token %v %q", tt, data)
		}
		foldURL(stack[len(stack)-1])
	}
}

// foldURL replaces a closed url("...") function by a URI unit. The lexer
// tokenizes quoted URLs as a function with a string argument.
func foldURL(f *frame) {
	u := f.b.last
	if u == nil || u.Type != Function || u.Text != "url" {
		return
	}
	if u.Params == nil || u.Params.Type != String || u.Params.Next != nil {
		return
	}
	u.Type = URI
	u.Text = u.Params.Text
	u.Params = nil
}

func block(tt css.TokenType) (*Unit, css.TokenType) {
	switch tt {
	case css.LeftBracketToken:
		return &Unit{Type: Bracket}, css.RightBracketToken
	case css.LeftBraceToken:
		return &Unit{Type: Brace}, css.RightBraceToken
	}
	return &Unit{Type: Paren}, css.RightParenthesisToken
}

func delim(s string) *Unit {
	switch s {
	case "/":
		return &Unit{Type: Slash}
	case "+":
		return &Unit{Type: Plus}
	case "-":
		return &Unit{Type: Minus}
	case "*":
		return &Unit{Type: Multiply}
	}
	return &Unit{Type: Delim, Text: s}
}

// splitDimension splits a dimension token like "12.5px" or "1e3ms".
func splitDimension(s string) (*Unit, error) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
		i++
	}
	// exponent, but not the start of a unit like "em" or "ex"
	if i+1 < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if s[j] == '+' || s[j] == '-' {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	n, err := strconv.ParseFloat(s[:i], 64)
	if err != nil || i == len(s) {
		return nil, fmt.Errorf("%w: dimension %q", ErrSyntax, s)
	}
	return &Unit{Type: Dimension, Num: n, Text: s[:i], Dim: strings.ToLower(s[i:])}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func unquote(s string) string {
	if len(s) < 2 {
		return ""
	}
	q := s[0]
	s = s[1:]
	if s[len(s)-1] == q {
		s = s[:len(s)-1]
	}
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		if s[i] == '\n' {
			continue
		}
		if hexDigit(s[i]) {
			j := i
			for j < len(s) && j < i+6 && hexDigit(s[j]) {
				j++
			}
			r, _ := strconv.ParseUint(s[i:j], 16, 32)
			b.WriteRune(rune(r))
			if j < len(s) && s[j] == ' ' {
				j++
			}
			i = j - 1
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func hexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// urlContent extracts the address from a url(...) token.
func urlContent(s string) string {
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, ")")
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') {
		return unquote(s)
	}
	return s
}
