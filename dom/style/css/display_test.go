package css_test

import (
	"testing"

	"github.com/npillmayer/cssengine/dom/style/css"
	"github.com/npillmayer/cssengine/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDisplay(t *testing.T) {
	tests := []struct {
		display string
		mode    css.DisplayMode
	}{
		{"block", css.BlockMode | css.InnerBlockMode},
		{"inline flow", css.InlineMode | css.InnerInlineMode},
		{"inline-block", css.InlineMode | css.InnerBlockMode},
		{"inline flow-root", css.InlineMode | css.InnerBlockMode},
		{"Flex", css.BlockMode | css.FlexMode},
		{"contents", css.ContentsMode},
		{"table-cell", css.TablePartMode},
		{"none", css.DisplayNone},
	}
	for _, test := range tests {
		mode, err := css.ParseDisplay(test.display)
		require.NoError(t, err, test.display)
		assert.Equal(t, test.mode, mode, test.display)
	}
	_, err := css.ParseDisplay("sideways")
	assert.Error(t, err)
}

func TestDisplayModes(t *testing.T) {
	mode, err := css.DisplayModeOf(value.Ident("inline-grid"))
	require.NoError(t, err)
	assert.False(t, mode.IsBlockLevel())
	assert.Equal(t, css.InlineMode, mode.Outer())
	assert.Equal(t, css.GridMode, mode.Inner())
	//
	mode, err = css.DisplayModeOf(value.List{Items: []value.Value{value.Ident("block"), value.Ident("flex")}})
	require.NoError(t, err)
	assert.True(t, mode.IsBlockLevel())
	assert.True(t, mode.Contains(css.FlexMode))
}
