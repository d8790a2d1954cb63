/*
Package w3cdom defines a read-only W3C view of styled documents.

The view follows the W3C DOM in naming: a Document hands out Elements,
which are Nodes of type html.ElementNode. Text and comment nodes are
plain Nodes. GetComputedStyle corresponds to window.getComputedStyle()
and serializes computed values.

See also https://www.w3schools.com/XML/dom_intro.asp

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package w3cdom

import (
	"golang.org/x/net/html"
)

// Document is the entry point of a W3C view.
type Document interface {
	DocumentElement() Element
	QuerySelector(selector string) (Element, error) // first match or nil
	QuerySelectorAll(selector string) (NodeList, error)
	GetComputedStyle(Element) ComputedStyles // nil for elements of other documents
}

// Node represents W3C-type Node
type Node interface {
	NodeType() html.NodeType      // type of the underlying HTML node (ElementNode, TextNode, etc.)
	NodeName() string             // "#text" etc. for non-elements, tag name for elements
	NodeValue() string            // text of text and comment nodes, "" otherwise
	ParentNode() Node             // nil for the document element
	ParentElement() Element       // nil for the document element
	HasChildNodes() bool          // check for existence of sub-nodes
	ChildNodes() NodeList         // all children-nodes
	FirstChild() Node             // nil for leafs
	LastChild() Node              // nil for leafs
	PreviousSibling() Node        // nil if first
	NextSibling() Node            // nil if last
	TextContent() (string, error) // text from node and all descendents
}

// Element represents W3C-type Element.
type Element interface {
	Node
	TagName() string
	ID() string
	ClassList() []string
	HasAttributes() bool
	Attributes() NamedNodeMap
	GetAttribute(name string) (string, bool)
	Children() NodeList // element children only
	Matches(selector string) (bool, error)
}

// NodeList represents W3C-type NodeList
type NodeList interface {
	Length() int
	Item(int) Node // nil if out of range
	String() string
}

// Attr represents W3C-type Attr
type Attr interface {
	Namespace() string
	Key() string
	Value() string
}

// NamedNodeMap represents w3C-type NamedNodeMap
type NamedNodeMap interface {
	Length() int
	Item(int) Attr
	GetNamedItem(string) Attr // case-insensitive, nil if absent
}

// ComputedStyles represents the resolved CSS style of an element, like
// CSSStyleDeclaration as returned by getComputedStyle.
type ComputedStyles interface {
	GetPropertyValue(string) string // serialized computed value, or ""
	Length() int                    // number of longhand properties
	Item(int) string                // name of the i-th longhand property
}
