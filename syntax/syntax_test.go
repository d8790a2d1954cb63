package syntax_test

import (
	"testing"

	"github.com/npillmayer/cssengine/lexical"
	"github.com/npillmayer/cssengine/syntax"
	"github.com/npillmayer/cssengine/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func match(t *testing.T, s *syntax.Syntax, text string) bool {
	chain, err := lexical.Parse(text)
	require.NoError(t, err)
	return s.Match(chain)
}

func TestParseDescriptor(t *testing.T) {
	s, err := syntax.Parse("<length> | <percentage>+ | auto")
	require.NoError(t, err)
	require.Len(t, s.Alternatives, 3)
	assert.Equal(t, syntax.SpaceList, s.Alternatives[1].Multiplier)
	assert.True(t, s.Alternatives[2].Literal)
	assert.Equal(t, "<length> | <percentage>+ | auto", s.String())
	_, err = syntax.Parse("<bogus>")
	assert.ErrorIs(t, err, syntax.ErrSyntaxDescriptor)
	u, err := syntax.Parse(" * ")
	require.NoError(t, err)
	assert.True(t, u.IsUniversal())
}

func TestMatchLength(t *testing.T) {
	s, err := syntax.Parse("<length>")
	require.NoError(t, err)
	assert.True(t, match(t, s, "12px"))
	assert.True(t, match(t, s, "0"))
	assert.True(t, match(t, s, "calc(1em + 2px)"))
	assert.False(t, match(t, s, "12"))
	assert.False(t, match(t, s, "12px 3px"))
	assert.False(t, match(t, s, "red"))
}

func TestMatchLists(t *testing.T) {
	s, err := syntax.Parse("<color>#")
	require.NoError(t, err)
	assert.True(t, match(t, s, "red, #fff, rgb(1 2 3)"))
	assert.False(t, match(t, s, "red blue"))
	s, err = syntax.Parse("<integer>+")
	require.NoError(t, err)
	assert.True(t, match(t, s, "1 2 3"))
	assert.False(t, match(t, s, "1 2.5"))
}

func TestMatchValue(t *testing.T) {
	s, err := syntax.Parse("<custom-ident> | <string>")
	require.NoError(t, err)
	assert.True(t, s.MatchValue(value.Ident("foo")))
	assert.True(t, s.MatchValue(value.String("a b")))
	assert.False(t, s.MatchValue(value.Ident("inherit")))
	assert.True(t, syntax.Universal.MatchValue(value.Numeric{Num: 1}))
}
