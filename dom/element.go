package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Element is an element node of a document.
type Element struct {
	node *html.Node
	doc  *Document
}

// HTMLNode returns the underlying node of the HTML parse tree.
func (e *Element) HTMLNode() *html.Node {
	return e.node
}

// NodeName returns the (lower-case) tag name of the element.
func (e *Element) NodeName() string {
	return e.node.Data
}

// Attribute returns the value of an attribute, if present. Attribute names
// are case-insensitive.
func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// IsRoot is true for the document element.
func (e *Element) IsRoot() bool {
	return e.node == e.doc.root
}

// Parent returns the parent element, or nil for the document element.
func (e *Element) Parent() *Element {
	if e.IsRoot() {
		return nil
	}
	for p := e.node.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return e.doc.Element(p)
		}
	}
	return nil
}

// Children returns the child elements, in document order.
func (e *Element) Children() []*Element {
	var children []*Element
	for ch := e.node.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode {
			children = append(children, e.doc.Element(ch))
		}
	}
	return children
}

// String returns a short selector-like description, e.g. "p#intro.note".
func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString(e.node.Data)
	if id, ok := e.Attribute("id"); ok && id != "" {
		sb.WriteString("#" + id)
	}
	if class, ok := e.Attribute("class"); ok {
		for _, c := range strings.Fields(class) {
			sb.WriteString("." + c)
		}
	}
	return sb.String()
}
