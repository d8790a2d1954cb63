package css_test

import (
	"testing"

	"github.com/npillmayer/cssengine/computed"
	"github.com/npillmayer/cssengine/dom/style"
	"github.com/npillmayer/cssengine/dom/style/css"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyse/core/dimen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionFromProperty(t *testing.T) {
	for p, kind := range map[string]css.PositionKind{
		"absolute": css.PositionAbsolute,
		"ABSOLUTE": css.PositionAbsolute,
		" fixed":   css.PositionFixed,
		"sticky":   css.PositionSticky,
		"static":   css.PositionStatic,
		"bogus":    css.PositionUnset,
		"":         css.PositionUnset,
	} {
		assert.Equal(t, kind, css.Position(style.Property(p)).Kind(), p)
	}
	assert.True(t, css.Position("bogus").IsUnset())
	assert.Equal(t, "static", css.Position("static").String())
	assert.False(t, css.Position("static").IsPositioned())
	assert.True(t, css.Position("sticky").IsPositioned())
	assert.False(t, css.Position("sticky").IsOutOfFlow())
	assert.True(t, css.Position("fixed").IsOutOfFlow())
}

func TestPositionOffsets(t *testing.T) {
	pos := css.Position("fixed").WithOffset(css.Bottom, css.JustDimen(10*dimen.PT))
	assert.Equal(t, css.JustDimen(10*dimen.PT), pos.Offset(css.Bottom))
	assert.True(t, pos.Offset(css.Top).IsNone())
	assert.True(t, pos.Offset(css.PosDir(7)).IsNone())
	assert.Equal(t, "fixed top=none right=none bottom=10pt left=none", pos.String())
	assert.Equal(t, "left", css.Left.String())
}

func TestPositionOf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.css")
	defer teardown()
	//
	reg := style.NewRegistry()
	ds := style.NewDeclaredStyle()
	require.NoError(t, ds.Declare(reg, "position", "absolute", false))
	require.NoError(t, ds.Declare(reg, "top", "10pt", false))
	require.NoError(t, ds.Declare(reg, "left", "50%", false))
	s := computed.NewStyle(nil, ds, nil, computed.WithRegistry(reg))
	pos, err := css.PositionOf(s)
	require.NoError(t, err)
	assert.True(t, pos.IsOutOfFlow())
	assert.Equal(t, css.JustDimen(css.Points(10)), pos.Offset(css.Top))
	assert.True(t, pos.Offset(css.Left).IsPercent())
	assert.Equal(t, css.Auto(), pos.Offset(css.Right))
	assert.Equal(t, "absolute top=10pt right=auto bottom=auto left=50%", pos.String())
	//
	static := computed.NewStyle(nil, style.NewDeclaredStyle(), nil, computed.WithRegistry(reg))
	pos, err = css.PositionOf(static)
	require.NoError(t, err)
	assert.Equal(t, "static", pos.String())
	assert.True(t, pos.Offset(css.Top).IsNone())
}
