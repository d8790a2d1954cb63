package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><head><style>
p { font-size: 15pt; margin-left: var(--missing); }
div { position: absolute; top: 4pt; left: 10% }
</style></head>
<body><p class="note">Hello</p><div>World</div></body></html>`

func run(t *testing.T, args ...string) (string, string, error) {
	dir := t.TempDir()
	htmlFile := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(htmlFile, []byte(page), 0o644))
	cssFile := filepath.Join(dir, "extra.css")
	require.NoError(t, os.WriteFile(cssFile, []byte("div { display: flex; }"), 0o644))
	app := newApp()
	var out, errout bytes.Buffer
	app.Writer, app.ErrWriter = &out, &errout
	argv := append([]string{"cssresolve", "--html", htmlFile, "--css", cssFile}, args...)
	err := app.Run(context.Background(), argv)
	return out.String(), errout.String(), err
}

func TestSelect(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	out, _, err := run(t, "--select", "p", "font-size", "display")
	require.NoError(t, err)
	assert.Contains(t, out, "p.note")
	assert.Contains(t, out, "font-size: 15pt")
	assert.Contains(t, out, "display: block")
}

func TestDumpAndDiagnostics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	out, errout, err := run(t, "display", "margin-left")
	require.NoError(t, err)
	assert.Contains(t, out, "document (screen)")
	assert.Contains(t, out, "display: flex")
	assert.Contains(t, errout, "margin-left")
	//
	_, _, err = run(t, "--strict", "margin-left")
	assert.Error(t, err)
}

func TestNoMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	_, _, err := run(t, "--select", "table")
	assert.Error(t, err)
}

func TestLayout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssengine.dom")
	defer teardown()
	//
	out, errout, err := run(t, "--select", "div", "--layout", "display")
	require.NoError(t, err)
	assert.Contains(t, out, "display: flex")
	assert.Contains(t, out, "[box] ▩ BlockMode FlexMode")
	assert.Contains(t, out, "[position] absolute top=4pt right=auto bottom=auto left=10%")
	assert.NotContains(t, errout, "div")
	//
	out, _, err = run(t, "--select", "p", "--layout")
	require.NoError(t, err)
	assert.Contains(t, out, "[position] static")
}
