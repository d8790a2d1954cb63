package domdbg_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/cssengine/dom"
	"github.com/npillmayer/cssengine/dom/domdbg"
	"github.com/npillmayer/cssengine/dom/style"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	doc, err := dom.Parse(strings.NewReader(`<html><body><p style="margin-left: 3pt">x</p></body></html>`))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, domdbg.ToGraphViz(doc, &buf, []string{style.PGMargins}))
	out := buf.String()
	t.Logf("\n%s", out)
	assert.True(t, strings.HasPrefix(out, "digraph g {"))
	assert.Contains(t, out, `label="p"`)
	assert.Contains(t, out, "margin-left:</td><td>3pt")
	assert.Contains(t, out, "node00001 -> node00002")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}
