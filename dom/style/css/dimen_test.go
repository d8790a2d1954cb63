package css_test

import (
	"errors"
	"testing"

	"github.com/npillmayer/cssengine/dom/style/css"
	"github.com/npillmayer/cssengine/value"
	"github.com/npillmayer/tyse/core/dimen"
	"github.com/npillmayer/tyse/core/percent"
	"github.com/stretchr/testify/assert"
)

func TestDimenBasic(t *testing.T) {
	ten := css.JustDimen(dimen.PT * 10)
	var du dimen.DU
	switch m := ten.Match(); m {
	case m.Just(&du):
		t.Logf("du = %s", du)
	default:
		t.Errorf("expected Just(10pt) to be a fixed value, isn't: %#v", ten)
	}

	auto := css.Auto()
	switch m := auto.Match(); m {
	case m.IsKind(css.Auto()):
		t.Logf("dimen is auto")
	default:
		t.Errorf("expected dimen auto to match auto, isn't: %#v", auto)
	}

	pcnt := css.Percentage(percent.FromInt(80))
	var p percent.Percent
	switch m := pcnt.Match(); m {
	case m.Percentage(&p):
		t.Logf("percent = %s", p)
	default:
		t.Errorf("expected Percentage(80) to be a percentage value, isn't: %#v", pcnt)
	}
}

func TestDimenPattern(t *testing.T) {
	ten := css.JustDimen(dimen.PT * 10)
	var du dimen.DU
	m := css.DimenPattern[int](ten)
	zehn := m.OneOf(css.DimenPatterns[int]{
		Just:    m.With(&du).Const(10),
		Auto:    0,
		Default: -1,
	})
	if zehn != 10 {
		t.Errorf("expected zehn == 10, isn't: %#v", zehn)
	}

	e := css.DimenPattern[dimen.DU](ten)
	distance := e.OneOf(css.DimenPatterns[dimen.DU]{
		Just:    e.With(&du).Const(2 * du),
		Auto:    0,
		Default: -1,
	})
	if distance != 2*10*dimen.PT {
		t.Errorf("expected distance to be %v, isn't: %#v", 10*dimen.PT, distance)
	}
}

func TestDimenFromValue(t *testing.T) {
	d, err := css.DimenFromValue(value.Points(12))
	assert.NoError(t, err)
	assert.True(t, d.IsAbsolute())
	assert.Equal(t, css.Points(12), d.Unwrap())
	//
	d, err = css.DimenFromValue(value.Numeric{})
	assert.NoError(t, err)
	assert.Equal(t, css.JustDimen(0), d)
	//
	d, err = css.DimenFromValue(value.Numeric{Num: 25, Unit: value.Percent})
	assert.NoError(t, err)
	assert.Equal(t, css.Percentage(percent.FromInt(25)), d)
	//
	d, _ = css.DimenFromValue(value.Ident("auto"))
	assert.Equal(t, css.Auto(), d)
	d, _ = css.DimenFromValue(value.Ident("none"))
	assert.True(t, d.IsNone())
	d, _ = css.DimenFromValue(value.Ident("fit-content"))
	assert.Equal(t, css.Content(css.DimenContentFit), d)
	//
	_, err = css.DimenFromValue(value.Ident("bold"))
	assert.True(t, errors.Is(err, css.ErrNotADimension))
}
