package computed_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/cssengine/computed"
	"github.com/npillmayer/cssengine/dom/style"
	"github.com/npillmayer/cssengine/lexical"
	"github.com/npillmayer/cssengine/styledb"
	"github.com/npillmayer/cssengine/syntax"
	"github.com/npillmayer/cssengine/value"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type element struct {
	attrs map[string]string
	root  bool
}

func (e element) Attribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e element) IsRoot() bool { return e.root }

type sink struct {
	mu       sync.Mutex
	errors   []error
	warnings []error
}

func (s *sink) ComputedStyleError(el computed.Element, property, declared string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err)
}

func (s *sink) ComputedStyleWarning(el computed.Element, property, declared string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, err)
}

// declare creates a declared style from pairs of property and value.
func declare(t *testing.T, reg *style.Registry, decls ...string) *style.DeclaredStyle {
	ds := style.NewDeclaredStyle()
	for i := 0; i+1 < len(decls); i += 2 {
		require.NoError(t, ds.Declare(reg, decls[i], decls[i+1], false), decls[i])
	}
	return ds
}

// family creates a root style with a single child.
func family(t *testing.T, root, child []string, opts ...computed.Option) (*computed.Style, *computed.Style, *sink) {
	reg := style.NewRegistry()
	diag := &sink{}
	opts = append([]computed.Option{computed.WithRegistry(reg), computed.WithDiagnostics(diag)}, opts...)
	r := computed.NewStyle(element{root: true}, declare(t, reg, root...), nil, opts...)
	c := computed.NewStyle(element{}, declare(t, reg, child...), r)
	return r, c, diag
}

func TestInheritanceAndInitial(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.computed")
	defer teardown()
	//
	root, child, diag := family(t, []string{"color", "red", "width", "100pt"}, nil)
	assert.Equal(t, value.Color{R: 255, A: 1}, child.CSSValue("color"))
	assert.Equal(t, value.Points(100), root.CSSValue("width"))
	assert.Equal(t, value.Ident("auto"), child.CSSValue("width"))
	assert.Equal(t, value.Numeric{}, child.CSSValue("margin-top"))
	assert.Nil(t, child.CSSValue("no-such-property"))
	assert.Same(t, root, child.Root())
	assert.Empty(t, diag.errors)
}

func TestNoDanglingKeywords(t *testing.T) {
	root, child, diag := family(t, []string{"font-size", "inherit", "width", "initial"},
		[]string{"margin", "unset", "color", "inherit"})
	for _, st := range []*computed.Style{root, child} {
		for _, prop := range st.Registry().Properties() {
			v := st.CSSValue(prop)
			if v != nil {
				assert.True(t, value.IsConcrete(v), "%s = %v", prop, v)
			}
		}
	}
	assert.Empty(t, diag.errors)
}

func TestDeterminism(t *testing.T) {
	_, child, _ := family(t, []string{"font-size", "10pt", "--w", "calc(2em + 4pt)"},
		[]string{"width", "var(--w)"})
	first := child.CSSValue("width")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, first, child.CSSValue("width"))
		}()
	}
	wg.Wait()
	assert.Equal(t, value.Points(24), first)
}

func TestFontRelativeUnits(t *testing.T) {
	root, child, _ := family(t, []string{"font-size", "10pt"}, []string{"font-size", "2em", "width", "2em"})
	assert.InDelta(t, 10.0, root.ComputedFontSize(), 1e-9)
	assert.InDelta(t, 20.0, child.ComputedFontSize(), 1e-9)
	assert.Equal(t, value.Points(40), child.CSSValue("width"))
	//
	_, child, _ = family(t, []string{"font-size", "16px"}, []string{"font-size", "50%", "width", "2rem"})
	assert.InDelta(t, 6.0, child.ComputedFontSize(), 1e-9)
	assert.Equal(t, value.Points(24), child.CSSValue("width"))
	//
	root, _, _ = family(t, []string{"font-size", "2rem"}, nil)
	assert.InDelta(t, 24.0, root.ComputedFontSize(), 1e-9)
}

func TestDeeplyNestedFontSizes(t *testing.T) {
	reg := style.NewRegistry()
	diag := &sink{}
	chain := func(depth int, size string) *computed.Style {
		st := computed.NewStyle(element{root: true}, declare(t, reg, "font-size", "10pt"), nil,
			computed.WithRegistry(reg), computed.WithDiagnostics(diag))
		for i := 0; i < depth; i++ {
			st = computed.NewStyle(element{}, declare(t, reg, "font-size", size), st)
		}
		return st
	}
	assert.InDelta(t, 10.0, chain(64, "1em").ComputedFontSize(), 1e-9)
	assert.InDelta(t, 42.0, chain(32, "calc(1em + 1pt)").ComputedFontSize(), 1e-9)
	assert.Equal(t, value.Points(10), chain(48, "100%").CSSValue("font-size"))
	assert.Empty(t, diag.errors)
}

func TestLargerSmaller(t *testing.T) {
	_, child, _ := family(t, []string{"font-size", "small"}, []string{"font-size", "larger"})
	assert.InDelta(t, 12.0, child.ComputedFontSize(), 1e-9)
	//
	reg := style.NewRegistry()
	r := computed.NewStyle(element{root: true}, declare(t, reg, "font-size", "xx-large"), nil)
	c := computed.NewStyle(element{}, declare(t, reg, "font-size", "larger"), r)
	g := computed.NewStyle(element{}, declare(t, reg, "font-size", "larger"), c)
	assert.InDelta(t, 30.0, c.ComputedFontSize(), 1e-9)
	assert.InDelta(t, 36.0, g.ComputedFontSize(), 1e-9)
	//
	_, child, _ = family(t, []string{"font-size", "xx-small"}, []string{"font-size", "smaller"})
	assert.InDelta(t, 7.0, child.ComputedFontSize(), 1e-9)
	//
	_, child, _ = family(t, []string{"font-size", "10pt"}, []string{"font-size", "larger"})
	assert.InDelta(t, 12.0, child.ComputedFontSize(), 1e-9)
	_, child, _ = family(t, []string{"font-size", "10pt"}, []string{"font-size", "smaller"})
	assert.InDelta(t, 8.2, child.ComputedFontSize(), 1e-9)
}

func TestLineHeight(t *testing.T) {
	root, child, _ := family(t, []string{"font-size", "10pt"}, []string{"line-height", "1.5"})
	assert.Equal(t, value.Ident("normal"), root.CSSValue("line-height"))
	assert.InDelta(t, 12.0, root.ComputedLineHeight(), 1e-9)
	assert.Equal(t, value.Numeric{Num: 1.5}, child.CSSValue("line-height"))
	assert.InDelta(t, 15.0, child.ComputedLineHeight(), 1e-9)
	//
	_, child, _ = family(t, []string{"font-size", "10pt", "line-height", "150%"}, []string{"font-size", "20pt"})
	assert.Equal(t, value.Points(15), child.CSSValue("line-height"))
}

func TestMetricsWithoutDatabase(t *testing.T) {
	_, child, diag := family(t, nil, []string{"width", "2ex", "font-size", "2ex"})
	assert.Equal(t, value.Numeric{Num: 2, Unit: value.EX}, child.CSSValue("width"))
	assert.Len(t, diag.warnings, 1)
	assert.ErrorIs(t, diag.warnings[0], computed.ErrStyleDatabaseRequired)
	assert.InDelta(t, 12.0, child.ComputedFontSize(), 1e-9)
	//
	_, child, diag = family(t, nil, []string{"width", "2ex"}, computed.WithDatabase(styledb.Default()))
	assert.Equal(t, value.Points(12), child.CSSValue("width"))
	assert.Empty(t, diag.warnings)
}

func TestViewportUnits(t *testing.T) {
	vp := styledb.FixedViewport{Width: 800, Height: 600}
	_, child, _ := family(t, nil, []string{"width", "10vw", "height", "10vi"}, computed.WithViewport(vp))
	assert.Equal(t, value.Points(80), child.CSSValue("width"))
	assert.Equal(t, value.Points(80), child.CSSValue("height"))
	_, child, _ = family(t, []string{"writing-mode", "vertical-rl"}, []string{"height", "10vi"},
		computed.WithViewport(vp))
	assert.Equal(t, value.Points(60), child.CSSValue("height"))
	_, child, _ = family(t, nil, []string{"width", "100vw"}, computed.WithMedium("print"))
	w := child.CSSValue("width").(value.Numeric)
	assert.Equal(t, value.PT, w.Unit)
	assert.InDelta(t, 595.28, w.Num, 1e-9)
}

func TestBlockification(t *testing.T) {
	root, child, _ := family(t, []string{"display", "inline"}, []string{"display", "inline-flex", "float", "left"})
	assert.Equal(t, value.Ident("block"), root.CSSValue("display"))
	assert.Equal(t, value.Ident("flex"), child.CSSValue("display"))
	_, child, _ = family(t, nil, []string{"position", "absolute", "float", "right"})
	assert.Equal(t, value.Ident("none"), child.CSSValue("float"))
	assert.Equal(t, value.Ident("block"), child.CSSValue("display"))
	_, child, _ = family(t, nil, []string{"display", "inline-table"})
	assert.Equal(t, value.Ident("table"), child.CSSValue("display"))
	_, child, _ = family(t, nil, nil)
	assert.Equal(t, value.Ident("inline"), child.CSSValue("display"))
	//
	_, child, _ = family(t, nil, []string{"display", "inline flow-root", "position", "absolute"})
	assert.Equal(t, "block flow-root", child.CSSValue("display").String())
	_, child, _ = family(t, nil, []string{"display", "inline flow", "float", "left"})
	assert.Equal(t, "block flow", child.CSSValue("display").String())
	_, child, _ = family(t, nil, []string{"display", "inline flow"})
	assert.Equal(t, "inline flow", child.CSSValue("display").String())
}

func TestBorderWidth(t *testing.T) {
	_, child, _ := family(t, nil, []string{"border-top-width", "thick", "border-left-style", "solid",
		"border-left-width", "thin", "outline-style", "dotted"})
	assert.Equal(t, value.Points(0), child.CSSValue("border-top-width"))
	assert.Equal(t, value.Points(0.75), child.CSSValue("border-left-width"))
	assert.Equal(t, value.Points(2.25), child.CSSValue("outline-width"))
}

func TestBackgroundRepeat(t *testing.T) {
	_, child, _ := family(t, nil, []string{"background-repeat", "repeat-x, space"})
	rep := child.CSSValue("background-repeat")
	assert.Equal(t, "repeat no-repeat, space space", rep.String())
}

func TestCurrentColor(t *testing.T) {
	_, child, _ := family(t, []string{"color", "blue"}, []string{"background-color", "currentColor"})
	blue := value.Color{B: 255, A: 1}
	assert.Equal(t, blue, child.CSSValue("border-top-color"))
	assert.Equal(t, blue, child.CSSValue("background-color"))
	_, child, _ = family(t, []string{"color", "blue"}, []string{"color", "currentcolor"})
	assert.Equal(t, blue, child.CSSValue("color"))
	root, _, _ := family(t, []string{"color", "currentcolor"}, nil)
	assert.Equal(t, value.Black, root.CSSValue("color"))
}

func TestColorFunctions(t *testing.T) {
	_, child, _ := family(t, nil, []string{
		"color", "hsl(120deg 100% 50%)",
		"background-color", "rgb(255 0 0 / 50%)",
		"border-top-color", "color-mix(in srgb, red 50%, blue)",
		"border-left-color", "color-mix(in srgb, red 25%, blue 25%)",
		"outline-color", "oklch(100% 0 0)",
	})
	assert.Equal(t, value.Color{G: 255, A: 1}, child.CSSValue("color"))
	assert.Equal(t, value.Color{R: 255, A: 0.5}, child.CSSValue("background-color"))
	assert.Equal(t, value.Color{R: 128, B: 128, A: 1}, child.CSSValue("border-top-color"))
	mixed := child.CSSValue("border-left-color").(value.Color)
	assert.InDelta(t, 0.5, mixed.A, 1e-9)
	white := child.CSSValue("outline-color").(value.Color)
	assert.InDelta(t, 255, white.R, 1)
	assert.InDelta(t, 255, white.B, 1)
}

func TestCalc(t *testing.T) {
	_, child, diag := family(t, []string{"font-size", "10pt"}, []string{
		"width", "calc(100% - 2 * 1em)",
		"height", "calc(1in + 6pt)",
		"min-width", "min(10pt, 2em)",
		"margin-top", "calc(1px + 1s)",
		"padding-top", "calc(10pt / 4)",
	})
	assert.Equal(t, "calc(100% - 20pt)", child.CSSValue("width").String())
	assert.Equal(t, value.Points(78), child.CSSValue("height"))
	assert.Equal(t, value.Points(10), child.CSSValue("min-width"))
	assert.Equal(t, value.Points(2.5), child.CSSValue("padding-top"))
	assert.Empty(t, diag.errors)
	v, err := child.Compute("margin-top")
	assert.ErrorIs(t, err, computed.ErrTypeMismatch)
	assert.Equal(t, value.Numeric{}, v)
}

func TestEvaluator(t *testing.T) {
	ev := computed.Evaluator{}
	v, err := ev.Evaluate(value.MustParse("calc(2 * (3 + 4))"))
	require.NoError(t, err)
	assert.Equal(t, value.Numeric{Num: 14}, v)
	v, err = ev.Evaluate(value.MustParse("round(up, 10.2pt, 1pt)"))
	require.NoError(t, err)
	assert.Equal(t, value.Points(11), v)
	v, err = ev.Evaluate(value.MustParse("clamp(1pt, 5pt, 3pt)"))
	require.NoError(t, err)
	assert.Equal(t, value.Points(3), v)
	v, err = ev.Evaluate(value.MustParse("calc(1turn / 2)"))
	require.NoError(t, err)
	assert.Equal(t, value.Numeric{Num: 180, Unit: value.DEG}, v)
	_, err = ev.Evaluate(value.MustParse("calc(2pt * 3pt)"))
	assert.ErrorIs(t, err, computed.ErrTypeMismatch)
}

func TestVarSubstitution(t *testing.T) {
	_, child, diag := family(t, []string{"--gap", "4pt"}, []string{
		"margin-top", "var(--gap)",
		"padding", "var(--gap) 2pt",
		"width", "var(--missing, 10pt)",
		"height", "var(--missing)",
		"--empty", "",
		"min-height", "var(--empty) 3pt",
	})
	assert.Equal(t, value.Points(4), child.CSSValue("margin-top"))
	assert.Equal(t, value.Points(4), child.CSSValue("padding-top"))
	assert.Equal(t, value.Points(2), child.CSSValue("padding-left"))
	assert.Equal(t, value.Points(10), child.CSSValue("width"))
	assert.Equal(t, value.Points(3), child.CSSValue("min-height"))
	assert.Empty(t, diag.errors)
	assert.Equal(t, value.Ident("auto"), child.CSSValue("height"))
	require.Len(t, diag.errors, 1)
	assert.ErrorIs(t, diag.errors[0], computed.ErrUnresolved)
	assert.Equal(t, value.Numeric{Num: 4, Unit: value.PT}, child.CSSValue("--gap"))
}

func TestCycle(t *testing.T) {
	_, child, diag := family(t, nil, []string{"--a", "var(--b)", "--b", "var(--a)", "width", "var(--a)"})
	assert.Equal(t, value.Ident("auto"), child.CSSValue("width"))
	require.Len(t, diag.errors, 1)
	assert.ErrorIs(t, diag.errors[0], computed.ErrCircularity)
}

func TestResourceLimit(t *testing.T) {
	child := []string{
		"--a0", strings.Repeat("x ", 10),
		"--a1", strings.Repeat("var(--a0) ", 10),
		"--a2", strings.Repeat("var(--a1) ", 10),
		"width", "var(--a2)",
	}
	_, c, diag := family(t, nil, child, computed.WithReplacementLimit(1000))
	assert.Equal(t, value.Ident("auto"), c.CSSValue("width"))
	require.Len(t, diag.errors, 1)
	assert.ErrorIs(t, diag.errors[0], computed.ErrResourceLimit)
}

func TestDefaultResourceLimit(t *testing.T) {
	require.Equal(t, 131072, computed.DefaultReplacementLimit)
	child := []string{"--a0", strings.Repeat("x ", 10)}
	for i := 1; i <= 5; i++ {
		child = append(child, fmt.Sprintf("--a%d", i), strings.Repeat(fmt.Sprintf("var(--a%d) ", i-1), 10))
	}
	child = append(child, "width", "var(--a5)")
	_, c, diag := family(t, nil, child)
	assert.Equal(t, value.Ident("auto"), c.CSSValue("width"))
	require.Len(t, diag.errors, 1)
	assert.ErrorIs(t, diag.errors[0], computed.ErrResourceLimit)
	// a thousand units stay below the limit
	assert.NotNil(t, c.CSSValue("--a3"))
	assert.Len(t, diag.errors, 1)
}

func TestRegisteredCustomProperty(t *testing.T) {
	reg := style.NewRegistry()
	syn, err := syntax.Parse("<length>")
	require.NoError(t, err)
	initial, _ := lexical.Parse("5px")
	require.NoError(t, reg.Define(style.CustomPropertyDefinition{Name: "--gap", Syntax: syn, Initial: initial}))
	root := computed.NewStyle(element{root: true}, declare(t, reg, "--gap", "10px"), nil, computed.WithRegistry(reg))
	child := computed.NewStyle(element{}, declare(t, reg, "width", "var(--gap)"), root)
	assert.Equal(t, value.Points(7.5), root.CSSValue("--gap"))
	assert.Equal(t, value.Points(3.75), child.CSSValue("width"))
	assert.Equal(t, value.Points(3.75), child.CSSValue("--gap"))
}

func TestAttr(t *testing.T) {
	reg := style.NewRegistry()
	diag := &sink{}
	el := element{attrs: map[string]string{"data-w": "12", "data-img": "a.png", "title": "hello"}}
	ds := declare(t, reg,
		"width", "attr(data-w pt)",
		"height", "attr(data-none pt, 3pt)",
		"background-image", "attr(data-img url)",
		"content", "attr(title)",
		"quotes", "attr(data-none)",
	)
	st := computed.NewStyle(el, ds, nil, computed.WithRegistry(reg), computed.WithDiagnostics(diag))
	assert.Equal(t, value.Points(12), st.CSSValue("width"))
	assert.True(t, st.AttrTainted("width"))
	assert.Equal(t, value.Points(3), st.CSSValue("height"))
	assert.False(t, st.AttrTainted("margin-top"))
	assert.Equal(t, value.String("hello"), st.CSSValue("content"))
	assert.Equal(t, value.String(""), st.CSSValue("quotes"))
	assert.Empty(t, diag.errors)
	assert.Equal(t, value.Ident("none"), st.CSSValue("background-image"))
	require.Len(t, diag.errors, 1)
	assert.ErrorIs(t, diag.errors[0], computed.ErrAttrForbidden)
	// forbidden even if the attribute is absent and a fallback is given
	ds = declare(t, reg,
		"background-image", "attr(data-none url)",
		"list-style-image", "attr(data-none url, url(x.png))",
	)
	st = computed.NewStyle(el, ds, nil, computed.WithRegistry(reg), computed.WithDiagnostics(diag))
	assert.Equal(t, value.Ident("none"), st.CSSValue("background-image"))
	assert.Equal(t, value.Ident("none"), st.CSSValue("list-style-image"))
	require.Len(t, diag.errors, 3)
	assert.ErrorIs(t, diag.errors[1], computed.ErrAttrForbidden)
	assert.ErrorIs(t, diag.errors[2], computed.ErrAttrForbidden)
}

func TestEnv(t *testing.T) {
	db, err := styledb.Load(strings.NewReader("env:\n  safe-area-inset-top: 12px\n"))
	require.NoError(t, err)
	_, child, _ := family(t, nil, []string{
		"padding-top", "env(safe-area-inset-top)",
		"padding-left", "env(unknown, 3pt)",
	}, computed.WithDatabase(db))
	assert.Equal(t, value.Points(9), child.CSSValue("padding-top"))
	assert.Equal(t, value.Points(3), child.CSSValue("padding-left"))
}

func TestRevert(t *testing.T) {
	reg := style.NewRegistry()
	ua := declare(t, reg, "display", "block")
	ds := declare(t, reg, "display", "revert")
	ds.SetRevert(ua)
	st := computed.NewStyle(element{}, ds, nil, computed.WithRegistry(reg))
	assert.Equal(t, value.Ident("block"), st.CSSValue("display"))
	st = computed.NewStyle(element{}, declare(t, reg, "display", "revert"), nil, computed.WithRegistry(reg))
	assert.Equal(t, value.Ident("inline"), st.CSSValue("display"))
}
