package lexical_test

import (
	"testing"

	"github.com/npillmayer/cssengine/lexical"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimple(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.lexical")
	defer teardown()
	//
	chain, err := lexical.Parse("12px solid  #ff0000")
	require.NoError(t, err)
	require.NotNil(t, chain)
	assert.Equal(t, lexical.Dimension, chain.Type)
	assert.Equal(t, 12.0, chain.Num)
	assert.Equal(t, "px", chain.Dim)
	assert.Equal(t, lexical.Ident, chain.Next.Type)
	assert.True(t, chain.Next.SpaceBefore)
	assert.Equal(t, lexical.Hash, chain.Next.Next.Type)
	assert.Equal(t, "ff0000", chain.Next.Next.Text)
	assert.Equal(t, 3, chain.Len())
	assert.Equal(t, "12px solid #ff0000", chain.String())
}

func TestParseFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.lexical")
	defer teardown()
	//
	chain, err := lexical.Parse("var(--main-color, calc(1em + 2px))")
	require.NoError(t, err)
	require.True(t, chain.IsFunction("var"))
	assert.True(t, chain.ContainsProxy())
	first, rest, hasRest := chain.Arguments()
	require.True(t, hasRest)
	assert.Equal(t, "--main-color", first.Text)
	require.True(t, rest.IsFunction("calc"))
	assert.Equal(t, "calc(1em + 2px)", rest.String())
	t.Logf("\n%s", lexical.Dump(chain))
}

func TestParseEmptyFallback(t *testing.T) {
	chain, err := lexical.Parse("var(--x,)")
	require.NoError(t, err)
	first, rest, hasRest := chain.Arguments()
	assert.Equal(t, "--x", first.String())
	assert.True(t, hasRest)
	assert.Nil(t, rest)
}

func TestParseURL(t *testing.T) {
	chain, err := lexical.Parse(`url("a b.png") url(c.png)`)
	require.NoError(t, err)
	assert.Equal(t, lexical.URI, chain.Type)
	assert.Equal(t, "a b.png", chain.Text)
	require.NotNil(t, chain.Next)
	assert.Equal(t, lexical.URI, chain.Next.Type)
	assert.Equal(t, "c.png", chain.Next.Text)
}

func TestParseStrings(t *testing.T) {
	chain, err := lexical.Parse(`"say \"hi\""`)
	require.NoError(t, err)
	assert.Equal(t, lexical.String, chain.Type)
	assert.Equal(t, `say "hi"`, chain.Text)
	assert.Equal(t, `"say \"hi\""`, chain.String())
}

func TestParseUnbalanced(t *testing.T) {
	_, err := lexical.Parse("a)")
	assert.ErrorIs(t, err, lexical.ErrSyntax)
	chain, err := lexical.Parse("calc(1px + 2px")
	require.NoError(t, err)
	assert.Equal(t, "calc(1px + 2px)", chain.String())
}

func TestCSSWide(t *testing.T) {
	for _, s := range []string{"inherit", "INITIAL", "unset", "revert", "revert-layer"} {
		chain, err := lexical.Parse(s)
		require.NoError(t, err)
		if !chain.IsCSSWide() {
			t.Errorf("expected %q to be a CSS-wide keyword", s)
		}
	}
	chain, _ := lexical.Parse("inherit inherit")
	assert.False(t, chain.IsCSSWide())
}

func TestCloneIsDeep(t *testing.T) {
	chain, err := lexical.Parse("rgb(1 2 3), red")
	require.NoError(t, err)
	c := chain.Clone()
	c.Params.Num = 99
	assert.Equal(t, 1.0, chain.Params.Num)
	assert.Equal(t, chain.String(), "rgb(1 2 3), red")
	segs := chain.SplitCommas()
	require.Len(t, segs, 2)
	assert.Equal(t, "red", segs[1].String())
}

func TestDimensionExponent(t *testing.T) {
	chain, err := lexical.Parse("2em 3ex")
	require.NoError(t, err)
	assert.Equal(t, "em", chain.Dim)
	assert.Equal(t, 2.0, chain.Num)
	assert.Equal(t, "ex", chain.Next.Dim)
	assert.Equal(t, 3.0, chain.Next.Num)
}

func TestOperators(t *testing.T) {
	chain, err := lexical.Parse("1px - 2px * 3 / 4")
	require.NoError(t, err)
	var types []lexical.Type
	for u := chain; u != nil; u = u.Next {
		types = append(types, u.Type)
	}
	assert.Equal(t, []lexical.Type{lexical.Dimension, lexical.Minus, lexical.Dimension,
		lexical.Multiply, lexical.Number, lexical.Slash, lexical.Number}, types)
}
