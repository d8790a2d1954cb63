package css_test

import (
	"errors"
	"image/color"
	"testing"

	"github.com/npillmayer/cssengine/computed"
	"github.com/npillmayer/cssengine/dom/style"
	"github.com/npillmayer/cssengine/dom/style/css"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperties(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.css")
	defer teardown()
	//
	reg := style.NewRegistry()
	ds := style.NewDeclaredStyle()
	require.NoError(t, ds.Declare(reg, "color", "red", false))
	require.NoError(t, ds.Declare(reg, "font-size", "12pt", false))
	parent := computed.NewStyle(nil, ds, nil, computed.WithRegistry(reg))
	s := computed.NewStyle(nil, style.NewDeclaredStyle(), parent)
	//
	p, err := css.GetProperty(s, "font-size")
	require.NoError(t, err)
	assert.Equal(t, style.Property("12pt"), p)
	assert.Equal(t, style.NullStyle, css.GetLocalProperty(s, "font-size"))
	assert.Equal(t, style.Property("12pt"), css.GetLocalProperty(parent, "font-size"))
	//
	c, err := css.ColorOf(s, "color")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, c)
	_, err = css.ColorOf(s, "font-size")
	assert.True(t, errors.Is(err, css.ErrNoValue))
	//
	_, err = css.GetProperty(s, "no-such-property")
	assert.Error(t, err)
}
