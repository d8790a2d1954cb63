package cssom_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/cssengine/dom/style"
	"github.com/npillmayer/cssengine/dom/style/cssom"
	"github.com/npillmayer/cssengine/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/cssengine/value"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const page = `<html><head><style></style></head><body>
<p id="x" class="c" style="margin-top: 3pt; color: olive">Hello</p>
<div><span>World</span></div>
</body></html>`

func parsePage(t *testing.T) *html.Node {
	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func find(t *testing.T, doc *html.Node, selector string) *html.Node {
	n := cascadia.MustCompile(selector).MatchFirst(doc)
	require.NotNil(t, n, selector)
	return n
}

func sheet(t *testing.T, text string) *douceuradapter.CSSStyles {
	s, err := douceuradapter.Parse(text)
	require.NoError(t, err)
	return s
}

func declared(t *testing.T, ds *style.DeclaredStyle, key string) string {
	d, ok := ds.Get(key)
	if !ok {
		return ""
	}
	return d.Value.String()
}

func TestSpecificity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.cssom")
	defer teardown()
	//
	doc := parsePage(t)
	om := cssom.NewCSSOM(nil, "screen")
	require.NoError(t, om.AddStyles(sheet(t, `
		#x { padding-left: 2pt }
		p.c { padding-left: 3pt; padding-right: 1pt }
		p { padding-left: 4pt; padding-right: 5pt }
		p { padding-right: 6pt }`), cssom.Author))
	ds, err := om.Cascade(find(t, doc, "p"))
	require.NoError(t, err)
	assert.Equal(t, "2pt", declared(t, ds, "padding-left"))
	assert.Equal(t, "1pt", declared(t, ds, "padding-right"))
}

func TestImportanceAndInline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.cssom")
	defer teardown()
	//
	doc := parsePage(t)
	om := cssom.NewCSSOM(nil, "screen")
	require.NoError(t, om.AddStyles(sheet(t, `p { color: red !important; margin-top: 1pt }`), cssom.Author))
	p := find(t, doc, "p")
	ds, err := om.Cascade(p)
	require.NoError(t, err)
	assert.Equal(t, "3pt", declared(t, ds, "margin-top"))
	assert.Equal(t, "red", declared(t, ds, "color"))
	d, _ := ds.Get("color")
	assert.True(t, d.Important)
}

func TestInlineStyles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.cssom")
	defer teardown()
	//
	doc, err := html.Parse(strings.NewReader(`<html><body>
<p style="margin-top: 3pt; color: olive">1</p>
<p style="  padding-top: 2pt ; ">2</p>
<p style="color: teal !important">3</p>
</body></html>`))
	require.NoError(t, err)
	om := cssom.NewCSSOM(nil, "screen")
	require.NoError(t, om.AddStyles(sheet(t, `p { color: red !important }`), cssom.Author))
	ps := cascadia.MustCompile("p").MatchAll(doc)
	require.Len(t, ps, 3)
	ds, err := om.Cascade(ps[0])
	require.NoError(t, err)
	assert.Equal(t, "3pt", declared(t, ds, "margin-top"))
	assert.Equal(t, "red", declared(t, ds, "color"))
	ds, err = om.Cascade(ps[1])
	require.NoError(t, err)
	assert.Equal(t, "2pt", declared(t, ds, "padding-top"))
	ds, err = om.Cascade(ps[2])
	require.NoError(t, err)
	assert.Equal(t, "teal", declared(t, ds, "color"))
}

func TestUserAgentOriginAndRevert(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.cssom")
	defer teardown()
	//
	doc := parsePage(t)
	om := cssom.NewCSSOM(nil, "screen")
	require.NoError(t, om.AddStyles(sheet(t, `div { margin-bottom: 5pt } div { margin-left: 1pt }`), cssom.UserAgent))
	require.NoError(t, om.AddStyles(sheet(t, `div { margin-bottom: 7pt }`), cssom.Author))
	ds, err := om.Cascade(find(t, doc, "div"))
	require.NoError(t, err)
	assert.Equal(t, "7pt", declared(t, ds, "margin-bottom"))
	assert.Equal(t, "1pt", declared(t, ds, "margin-left"))
	assert.Equal(t, "block", declared(t, ds, "display"))
	ua := ds.Revert()
	require.NotNil(t, ua)
	assert.Equal(t, "5pt", declared(t, ua, "margin-bottom"))
	assert.Equal(t, "block", declared(t, ua, "display"))
	//
	span, err := om.Cascade(find(t, doc, "span"))
	require.NoError(t, err)
	assert.Equal(t, "inline", declared(t, span, "display"))
	assert.Equal(t, "", declared(t, span, "margin-bottom"))
}

func TestShorthandsInCascade(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.cssom")
	defer teardown()
	//
	doc := parsePage(t)
	om := cssom.NewCSSOM(nil, "screen")
	require.NoError(t, om.AddStyles(sheet(t, `span { margin-left: 9pt } span { margin: 1pt 2pt }`), cssom.Author))
	ds, err := om.Cascade(find(t, doc, "span"))
	require.NoError(t, err)
	assert.Equal(t, "1pt", declared(t, ds, "margin-top"))
	assert.Equal(t, "2pt", declared(t, ds, "margin-left"))
	//
	om = cssom.NewCSSOM(nil, "screen")
	require.NoError(t, om.AddStyles(sheet(t, `span { margin: var(--m) }`), cssom.Author))
	ds, err = om.Cascade(find(t, doc, "span"))
	require.NoError(t, err)
	d, ok := ds.Get("margin-right")
	require.True(t, ok)
	proxy, ok := d.Value.(value.Proxy)
	require.True(t, ok, "expected a pending proxy, have %#v", d.Value)
	assert.Equal(t, "margin", proxy.Shorthand)
}

func TestInvalidRulesAreDropped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.cssom")
	defer teardown()
	//
	doc := parsePage(t)
	om := cssom.NewCSSOM(nil, "screen")
	err := om.AddStyles(sheet(t, `span:no-such-class { color: red } span { color: teal }`), cssom.Author)
	assert.Error(t, err)
	ds, err := om.Cascade(find(t, doc, "span"))
	require.NoError(t, err)
	assert.Equal(t, "teal", declared(t, ds, "color"))
}

func TestMediaRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.cssom")
	defer teardown()
	//
	doc := parsePage(t)
	text := `span { color: black } @media print { span { color: gray } }`
	for medium, expected := range map[string]string{"print": "gray", "screen": "black"} {
		om := cssom.NewCSSOM(nil, medium)
		require.NoError(t, om.AddStyles(sheet(t, text), cssom.Author))
		ds, err := om.Cascade(find(t, doc, "span"))
		require.NoError(t, err)
		assert.Equal(t, expected, declared(t, ds, "color"), medium)
	}
}

func TestMediaMatches(t *testing.T) {
	for _, x := range []struct {
		query, medium string
		match         bool
	}{
		{"", "screen", true},
		{"all", "print", true},
		{"print", "print", true},
		{"print", "screen", false},
		{"screen, print", "print", true},
		{"only print", "print", true},
		{"not print", "screen", true},
		{"not print", "print", false},
		{"(min-width: 100px)", "screen", false},
	} {
		assert.Equal(t, x.match, cssom.MediaMatches(x.query, x.medium), "%q for %s", x.query, x.medium)
	}
}

func TestPropertyRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.cssom")
	defer teardown()
	//
	s := sheet(t, `
		@property --gap { syntax: '<length>'; inherits: false; initial-value: 4pt }
		@property --any { syntax: '*'; inherits: true }
		@property --broken { syntax: '<length>' }`)
	defs, err := cssom.DefinitionsFrom(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, style.ErrInvalidDefinition))
	require.Len(t, defs, 2)
	assert.Equal(t, "--gap", defs[0].Name)
	assert.False(t, defs[0].Inherits)
	require.NotNil(t, defs[0].Initial)
	assert.Equal(t, "4pt", defs[0].Initial.String())
	assert.True(t, defs[1].Syntax.IsUniversal())
	assert.True(t, defs[1].Inherits)
	//
	om := cssom.NewCSSOM(nil, "screen")
	assert.Error(t, om.AddStyles(s, cssom.Author))
	assert.NotNil(t, om.Registry().CustomPropertyDefinition("--gap"))
	assert.Nil(t, om.Registry().CustomPropertyDefinition("--broken"))
}

func TestExtractStyleElements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.cssom")
	defer teardown()
	//
	doc, err := html.Parse(strings.NewReader(`<html><head><style></style>
		<style>p { color: red }</style></head><body><style>div { color: blue }</style></body></html>`))
	require.NoError(t, err)
	sheets, err := douceuradapter.ExtractStyleElements(doc)
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	sheets[0].AppendRules(sheets[1])
	rules := sheets[0].Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "div", rules[1].Selector())
	assert.Equal(t, style.Property("blue"), rules[1].Value("color"))
}
