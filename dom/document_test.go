package dom_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/cssengine/computed"
	"github.com/npillmayer/cssengine/dom"
	"github.com/npillmayer/cssengine/dom/style/cssom"
	"github.com/npillmayer/cssengine/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/cssengine/styledb"
	"github.com/npillmayer/cssengine/value"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><head><style>
body { font-size: 10pt; --accent: teal }
p { margin-top: 2em; width: var(--w, 50pt) }
.big { font-size: larger }
#x { color: var(--accent) }
span { margin-left: var(--missing) }
</style></head>
<body><p id="x" class="big">Hello <span>World</span></p><h1>Title</h1></body>
</html>`

func parse(t *testing.T, opts ...dom.Option) *dom.Document {
	doc, err := dom.Parse(strings.NewReader(page), opts...)
	require.NoError(t, err)
	return doc
}

func first(t *testing.T, doc *dom.Document, selector string) *dom.Element {
	elements, err := doc.Select(selector)
	require.NoError(t, err)
	require.NotEmpty(t, elements, selector)
	return elements[0]
}

func points(t *testing.T, v value.Value) float64 {
	n, ok := v.(value.Numeric)
	require.True(t, ok, "expected a numeric value, have %v", v)
	require.Equal(t, value.PT, n.Unit, "expected points, have %v", v)
	return n.Num
}

func TestElements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	doc := parse(t)
	root := doc.Root()
	assert.True(t, root.IsRoot())
	assert.Nil(t, root.Parent())
	assert.Equal(t, "html", root.NodeName())
	p := first(t, doc, "p")
	assert.Equal(t, "p#x.big", p.String())
	assert.Equal(t, "body", p.Parent().NodeName())
	assert.False(t, p.IsRoot())
	id, ok := p.Attribute("ID")
	assert.True(t, ok)
	assert.Equal(t, "x", id)
	assert.Same(t, p, doc.Element(p.HTMLNode()))
	assert.Len(t, p.Children(), 1)
	_, err := doc.Select("p:::")
	assert.Error(t, err)
}

func TestComputedStyles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	doc := parse(t)
	body := doc.ComputedStyle(first(t, doc, "body"))
	assert.Equal(t, 10.0, points(t, body.CSSValue("font-size")))
	p := doc.ComputedStyle(first(t, doc, "p"))
	assert.Same(t, body, p.Parent())
	assert.InDelta(t, 12.0, points(t, p.CSSValue("font-size")), 1e-9)
	assert.InDelta(t, 24.0, points(t, p.CSSValue("margin-top")), 1e-9)
	assert.Equal(t, 50.0, points(t, p.CSSValue("width")))
	assert.Equal(t, value.Color{G: 128, B: 128, A: 1}, p.CSSValue("color"))
	span := doc.ComputedStyle(first(t, doc, "span"))
	assert.Equal(t, value.Color{G: 128, B: 128, A: 1}, span.CSSValue("color"))
	assert.Equal(t, value.Ident("inline"), span.CSSValue("display"))
	h1 := doc.ComputedStyle(first(t, doc, "h1"))
	assert.Equal(t, 24.0, points(t, h1.CSSValue("font-size")))
	assert.Equal(t, value.Ident("block"), h1.CSSValue("display"))
	assert.Same(t, p, doc.ComputedStyle(first(t, doc, "p")))
}

func TestDiagnostics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	doc := parse(t)
	assert.NoError(t, doc.Err())
	span := first(t, doc, "span")
	assert.Equal(t, value.Numeric{}, doc.ComputedStyle(span).CSSValue("margin-left"))
	err := doc.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, computed.ErrUnresolved))
	diags := doc.Diagnostics()
	require.Len(t, diags, 1)
	assert.Same(t, span, diags[0].Element)
	assert.Equal(t, "margin-left", diags[0].Property)
	assert.Equal(t, dom.Error, diags[0].Severity)
	t.Logf("%s", diags[0])
	//
	doc.Invalidate()
	assert.Empty(t, doc.Diagnostics())
	assert.NoError(t, doc.Err())
}

func TestInheritedProblemsReportedOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	doc, err := dom.Parse(strings.NewReader(`<html><head><style>
		div { --a: var(--b); --b: var(--a); color: var(--a) }</style></head>
		<body><div><span>1</span><span>2</span><span>3</span></div></body></html>`))
	require.NoError(t, err)
	spans, err := doc.Select("span")
	require.NoError(t, err)
	require.Len(t, spans, 3)
	div := first(t, doc, "div")
	doc.ComputedStyle(div).CSSValue("color")
	for _, span := range spans {
		doc.ComputedStyle(span).CSSValue("color")
	}
	diags := doc.Diagnostics()
	require.Len(t, diags, 1)
	assert.Same(t, div, diags[0].Element)
	assert.True(t, errors.Is(diags[0].Err, computed.ErrCircularity))
	//
	for _, span := range spans {
		doc.ComputedStyle(span).CSSValue("color")
	}
	assert.Len(t, doc.Diagnostics(), 1)
}

func TestStyleSheetErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	doc, err := dom.Parse(strings.NewReader(`<html><head><style>
		p:no-such-class { color: red } p { color: blue }</style></head><body><p>x</p></body></html>`))
	assert.Error(t, err)
	require.NotNil(t, doc)
	p := doc.ComputedStyle(first(t, doc, "p"))
	assert.Equal(t, value.Color{B: 255, A: 1}, p.CSSValue("color"))
}

func TestAddStyleSheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	doc := parse(t, dom.WithoutUserAgentStyles())
	p := first(t, doc, "p")
	assert.Equal(t, value.Numeric{}, doc.ComputedStyle(p).CSSValue("margin-bottom"))
	sheet, err := douceuradapter.Parse(`p { margin-bottom: 3pt }`)
	require.NoError(t, err)
	require.NoError(t, doc.AddStyleSheet(sheet, cssom.Author))
	assert.Equal(t, 3.0, points(t, doc.ComputedStyle(p).CSSValue("margin-bottom")))
}

func TestMediumAndViewport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	doc, err := dom.Parse(strings.NewReader(`<html><head><style>
		div { width: 50vw } @media print { div { height: 10vh } }</style></head>
		<body><div></div></body></html>`),
		dom.WithDatabase(styledb.Default()),
		dom.WithMedium("print"),
		dom.WithViewport(styledb.FixedViewport{Width: 400, Height: 300}))
	require.NoError(t, err)
	assert.Equal(t, "print", doc.Medium())
	s := doc.ComputedStyle(first(t, doc, "div"))
	assert.InDelta(t, 200.0, points(t, s.CSSValue("width")), 1e-9)
	assert.InDelta(t, 30.0, points(t, s.CSSValue("height")), 1e-9)
}

func TestConcurrentStyles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	doc := parse(t)
	elements, err := doc.Select("*")
	require.NoError(t, err)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, el := range elements {
				doc.ComputedStyle(el).CSSValue("font-size")
			}
		}()
	}
	wg.Wait()
	p := doc.ComputedStyle(first(t, doc, "p"))
	assert.InDelta(t, 12.0, points(t, p.CSSValue("font-size")), 1e-9)
}

func TestDump(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	doc := parse(t)
	out := dom.Dump(doc, "font-size", "display")
	t.Logf("\n%s", out)
	assert.Contains(t, out, "p#x.big")
	assert.Contains(t, out, "font-size: 12pt")
	assert.Contains(t, out, "display: block")
}
