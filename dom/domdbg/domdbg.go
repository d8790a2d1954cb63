/*
Package domdbg implements helpers to debug the computed styles of a document.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>


*/
package domdbg

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/npillmayer/cssengine/dom"
	"github.com/npillmayer/cssengine/dom/style"
)

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname       string
	StyleGroups    []string
	NodeTmpl       *template.Template
	EdgeTmpl       *template.Template
	StylegroupTmpl *template.Template
	PgedgeTmpl     *template.Template
	PgpgTmpl       *template.Template
}

var defaultGroups = []string{
	style.PGMargins,
	style.PGPadding,
	style.PGBorder,
	style.PGDisplay,
}

// ToGraphViz outputs a diagram for the elements of a document with their
// computed styles. The diagram is in GraphViz (DOT) format. Clients have to
// provide the document, a Writer, and an optional list of style property
// groups. The diagram will include the computed values of all properties
// belonging to one of the groups.
//
// If the client does not provide a list of style groups, the following
// default will be used:
//
//     - Margins
//     - Padding
//     - Border
//     - Display
//
func ToGraphViz(doc *dom.Document, w io.Writer, styleGroups []string) error {
	tmpl := template.Must(template.New("dom").Parse(graphHeadTmpl))
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.NodeTmpl = template.Must(template.New("domnode").Parse(domNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("domedge").Parse(domEdgeTmpl))
	gparams.StylegroupTmpl = template.Must(template.New("stylegroup").Parse(styleGroupTmpl))
	gparams.PgedgeTmpl = template.Must(template.New("pgedge").Parse(pgEdgeTmpl))
	gparams.PgpgTmpl = template.Must(template.New("pgpgedge").Parse(pgpgEdgeTmpl))
	gparams.StyleGroups = styleGroups
	if styleGroups == nil {
		gparams.StyleGroups = defaultGroups
	}
	if err := tmpl.Execute(w, gparams); err != nil {
		return err
	}
	g := &graph{doc: doc, w: w, params: &gparams, names: make(map[*dom.Element]string)}
	g.groups = propertiesByGroup(doc.Registry(), gparams.StyleGroups)
	g.nodes(doc.Root())
	if g.err != nil {
		return g.err
	}
	_, err := w.Write([]byte("}\n"))
	return err
}

type graph struct {
	doc    *dom.Document
	w      io.Writer
	params *graphParamsType
	names  map[*dom.Element]string
	groups map[string][]string
	err    error
}

type node struct {
	Name  string
	Label string
}

type edge struct {
	N1, N2 string
}

type keyValue struct {
	Key, Value string
}

type propGroup struct {
	ID         string
	Name       string
	Properties []keyValue
}

type pgedge struct {
	Name, Group string
}

func propertiesByGroup(reg *style.Registry, groups []string) map[string][]string {
	byGroup := make(map[string][]string, len(groups))
	for _, g := range groups {
		byGroup[g] = nil
	}
	for _, p := range reg.Properties() {
		g := style.GroupNameFromPropertyKey(p)
		if _, ok := byGroup[g]; ok {
			byGroup[g] = append(byGroup[g], p)
		}
	}
	return byGroup
}

func (g *graph) exec(t *template.Template, data interface{}) {
	if g.err == nil {
		g.err = t.Execute(g.w, data)
	}
}

func (g *graph) name(el *dom.Element) string {
	name := g.names[el]
	if name == "" {
		name = fmt.Sprintf("node%05d", len(g.names)+1)
		g.names[el] = name
	}
	return name
}

func (g *graph) nodes(el *dom.Element) {
	g.exec(g.params.NodeTmpl, node{Name: g.name(el), Label: el.String()})
	g.styles(el)
	for _, ch := range el.Children() {
		g.nodes(ch)
		g.exec(g.params.EdgeTmpl, edge{g.name(el), g.name(ch)})
	}
}

func (g *graph) styles(el *dom.Element) {
	s := g.doc.ComputedStyle(el)
	prev := ""
	for _, group := range g.params.StyleGroups {
		pg := propGroup{ID: fmt.Sprintf("pg_%s_%s", g.name(el), group), Name: group}
		for _, p := range g.groups[group] {
			v := "-"
			if cv := s.CSSValue(p); cv != nil {
				v = cv.String()
			}
			pg.Properties = append(pg.Properties, keyValue{p, escape(v)})
		}
		g.exec(g.params.StylegroupTmpl, pg)
		if prev == "" {
			g.exec(g.params.PgedgeTmpl, pgedge{g.name(el), pg.ID})
		} else {
			g.exec(g.params.PgpgTmpl, []string{prev, pg.ID})
		}
		prev = pg.ID
	}
}

func escape(s string) string {
	s = strings.Replace(s, "&", "&amp;", -1)
	s = strings.Replace(s, "<", "&lt;", -1)
	return strings.Replace(s, ">", "&gt;", -1)
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ .Name }}	[ label={{ printf "%q" .Label }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
`

const styleGroupTmpl = `{{ .ID }} [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      <tr><td bgcolor="azure4" align="center" colspan="2"><font color="white">{{ .Name }}</font></td></tr>
      {{ range .Properties }}
      <tr><td align="right">{{ .Key }}:</td><td>{{ .Value }}</td></tr>
      {{ else }}
      <tr><td colspan="2">no styles</td></tr>
      {{ end }}
    </table>> ] ;
`

const domEdgeTmpl = `{{ .N1 }} -> {{ .N2 }} [weight=1] ;
`

const pgEdgeTmpl = `{{ .Name }} -> {{ .Group }} [dir=none weight=1 style="dashed"] ;
`

const pgpgEdgeTmpl = `{{ index . 0 }} -> {{ index . 1 }} [dir=none weight=1 style="dashed"] ;
`
