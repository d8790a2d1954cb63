package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/cssengine/computed"
	"github.com/npillmayer/cssengine/dom/w3cdom"
	"golang.org/x/net/html"
)

// W3C returns a W3C view of the document.
func (doc *Document) W3C() w3cdom.Document {
	return w3cDocument{doc: doc}
}

// W3CElement returns the W3C view of an element.
func (e *Element) W3CElement() w3cdom.Element {
	if e == nil {
		return nil
	}
	return &w3cElement{w3cNode{h: e.node, doc: e.doc}}
}

type w3cDocument struct {
	doc *Document
}

var _ w3cdom.Document = w3cDocument{}

func (d w3cDocument) DocumentElement() w3cdom.Element {
	return d.doc.Root().W3CElement()
}

func (d w3cDocument) QuerySelector(selector string) (w3cdom.Element, error) {
	elements, err := d.doc.Select(selector)
	if err != nil || len(elements) == 0 {
		return nil, err
	}
	return elements[0].W3CElement(), nil
}

func (d w3cDocument) QuerySelectorAll(selector string) (w3cdom.NodeList, error) {
	elements, err := d.doc.Select(selector)
	if err != nil {
		return nil, err
	}
	l := make(nodeList, len(elements))
	for i, el := range elements {
		l[i] = el.W3CElement()
	}
	return l, nil
}

func (d w3cDocument) GetComputedStyle(el w3cdom.Element) w3cdom.ComputedStyles {
	e, ok := el.(*w3cElement)
	if !ok || e.doc != d.doc {
		return nil
	}
	return styleDeclaration{s: d.doc.ComputedStyle(d.doc.Element(e.h))}
}

// --- Nodes -----------------------------------------------------------------

type w3cNode struct {
	h   *html.Node
	doc *Document
}

// wrap returns a node view, an element view for element nodes. Nodes
// outside the document element are not visible.
func (n *w3cNode) wrap(h *html.Node) w3cdom.Node {
	if h == nil {
		return nil
	}
	if h.Type == html.ElementNode {
		return &w3cElement{w3cNode{h: h, doc: n.doc}}
	}
	return &w3cNode{h: h, doc: n.doc}
}

func (n *w3cNode) NodeType() html.NodeType {
	return n.h.Type
}

func (n *w3cNode) NodeName() string {
	switch n.h.Type {
	case html.TextNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	case html.DoctypeNode:
		return "#doctype"
	}
	return n.h.Data
}

func (n *w3cNode) NodeValue() string {
	if n.h.Type == html.TextNode || n.h.Type == html.CommentNode {
		return n.h.Data
	}
	return ""
}

func (n *w3cNode) isRoot() bool {
	return n.h == n.doc.root
}

func (n *w3cNode) ParentNode() w3cdom.Node {
	if n.isRoot() {
		return nil
	}
	return n.wrap(n.h.Parent)
}

func (n *w3cNode) ParentElement() w3cdom.Element {
	if n.isRoot() || n.h.Parent == nil || n.h.Parent.Type != html.ElementNode {
		return nil
	}
	return &w3cElement{w3cNode{h: n.h.Parent, doc: n.doc}}
}

func (n *w3cNode) HasChildNodes() bool {
	return n.h.FirstChild != nil
}

func (n *w3cNode) ChildNodes() w3cdom.NodeList {
	var l nodeList
	for ch := n.h.FirstChild; ch != nil; ch = ch.NextSibling {
		l = append(l, n.wrap(ch))
	}
	return l
}

func (n *w3cNode) FirstChild() w3cdom.Node {
	return n.wrap(n.h.FirstChild)
}

func (n *w3cNode) LastChild() w3cdom.Node {
	return n.wrap(n.h.LastChild)
}

func (n *w3cNode) PreviousSibling() w3cdom.Node {
	if n.isRoot() {
		return nil
	}
	return n.wrap(n.h.PrevSibling)
}

func (n *w3cNode) NextSibling() w3cdom.Node {
	if n.isRoot() {
		return nil
	}
	return n.wrap(n.h.NextSibling)
}

func (n *w3cNode) TextContent() (string, error) {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(h *html.Node) {
		if h.Type == html.TextNode {
			sb.WriteString(h.Data)
		}
		for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
			collect(ch)
		}
	}
	collect(n.h)
	return sb.String(), nil
}

// --- Elements --------------------------------------------------------------

type w3cElement struct {
	w3cNode
}

var _ w3cdom.Element = (*w3cElement)(nil)

func (e *w3cElement) element() *Element {
	return e.doc.Element(e.h)
}

func (e *w3cElement) TagName() string {
	return strings.ToUpper(e.h.Data)
}

func (e *w3cElement) ID() string {
	id, _ := e.element().Attribute("id")
	return id
}

func (e *w3cElement) ClassList() []string {
	class, _ := e.element().Attribute("class")
	return strings.Fields(class)
}

func (e *w3cElement) HasAttributes() bool {
	return len(e.h.Attr) > 0
}

func (e *w3cElement) Attributes() w3cdom.NamedNodeMap {
	return attributes(e.h.Attr)
}

func (e *w3cElement) GetAttribute(name string) (string, bool) {
	return e.element().Attribute(name)
}

func (e *w3cElement) Children() w3cdom.NodeList {
	var l nodeList
	for _, ch := range e.element().Children() {
		l = append(l, ch.W3CElement())
	}
	return l
}

func (e *w3cElement) Matches(selector string) (bool, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return false, fmt.Errorf("selector %q: %w", selector, err)
	}
	return sel.Match(e.h), nil
}

// --- Node lists and attributes ---------------------------------------------

type nodeList []w3cdom.Node

func (l nodeList) Length() int {
	return len(l)
}

func (l nodeList) Item(i int) w3cdom.Node {
	if i < 0 || i >= len(l) {
		return nil
	}
	return l[i]
}

func (l nodeList) String() string {
	names := make([]string, len(l))
	for i, n := range l {
		names[i] = n.NodeName()
	}
	return fmt.Sprintf("[%s]", strings.Join(names, " "))
}

type attr struct {
	a html.Attribute
}

func (a attr) Namespace() string { return a.a.Namespace }
func (a attr) Key() string       { return a.a.Key }
func (a attr) Value() string     { return a.a.Val }

type attributes []html.Attribute

func (m attributes) Length() int {
	return len(m)
}

func (m attributes) Item(i int) w3cdom.Attr {
	if i < 0 || i >= len(m) {
		return nil
	}
	return attr{m[i]}
}

func (m attributes) GetNamedItem(key string) w3cdom.Attr {
	for _, a := range m {
		if strings.EqualFold(a.Key, key) {
			return attr{a}
		}
	}
	return nil
}

// --- Computed styles -------------------------------------------------------

type styleDeclaration struct {
	s *computed.Style
}

func (d styleDeclaration) GetPropertyValue(key string) string {
	if v := d.s.CSSValue(key); v != nil {
		return v.String()
	}
	return ""
}

func (d styleDeclaration) Length() int {
	return len(d.s.Registry().Properties())
}

func (d styleDeclaration) Item(i int) string {
	keys := d.s.Registry().Properties()
	if i < 0 || i >= len(keys) {
		return ""
	}
	return keys[i]
}
