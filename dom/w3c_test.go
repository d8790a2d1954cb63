package dom_test

import (
	"testing"

	"github.com/npillmayer/cssengine/dom/w3cdom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestW3CView(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	doc := parse(t).W3C()
	root := doc.DocumentElement()
	assert.Equal(t, "HTML", root.TagName())
	assert.Nil(t, root.ParentNode())
	assert.Nil(t, root.NextSibling())
	require.Equal(t, 2, root.Children().Length())
	body := root.Children().Item(1).(w3cdom.Element)
	assert.Equal(t, "body", body.NodeName())
	assert.Equal(t, "[p h1]", body.Children().String())
	//
	p, err := doc.QuerySelector("p")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "x", p.ID())
	assert.Equal(t, []string{"big"}, p.ClassList())
	assert.Equal(t, "big", p.Attributes().GetNamedItem("CLASS").Value())
	assert.Equal(t, 2, p.Attributes().Length())
	assert.Equal(t, "body", p.ParentElement().NodeName())
	ok, err := p.Matches("body > .big")
	require.NoError(t, err)
	assert.True(t, ok)
	text, err := p.TextContent()
	require.NoError(t, err)
	assert.Equal(t, "Hello World", text)
	//
	styles := doc.GetComputedStyle(p)
	require.NotNil(t, styles)
	assert.Equal(t, "12pt", styles.GetPropertyValue("font-size"))
	assert.Equal(t, "", styles.GetPropertyValue("no-such-property"))
	assert.Greater(t, styles.Length(), 10)
	assert.NotEmpty(t, styles.Item(0))
	assert.Nil(t, parse(t).W3C().GetComputedStyle(p))
	//
	hello := p.FirstChild()
	assert.Equal(t, html.TextNode, hello.NodeType())
	assert.Equal(t, "#text", hello.NodeName())
	assert.Equal(t, "Hello ", hello.NodeValue())
	span, ok := hello.NextSibling().(w3cdom.Element)
	require.True(t, ok)
	assert.Equal(t, "SPAN", span.TagName())
	assert.Equal(t, hello.NodeValue(), span.PreviousSibling().NodeValue())
	//
	all, err := doc.QuerySelectorAll("p, h1")
	require.NoError(t, err)
	assert.Equal(t, "[p h1]", all.String())
}
