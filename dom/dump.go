package dom

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Dump prints the computed values of properties for every element of a
// document, as a tree. Used for debugging.
func Dump(doc *Document, properties ...string) string {
	t := treeprint.New()
	t.SetValue(fmt.Sprintf("document (%s)", doc.medium))
	dumpElement(t, doc, doc.Root(), properties)
	return t.String()
}

func dumpElement(t treeprint.Tree, doc *Document, el *Element, properties []string) {
	b := t.AddBranch(el.String())
	s := doc.ComputedStyle(el)
	for _, p := range properties {
		v := s.CSSValue(p)
		if v == nil {
			b.AddNode(p + ": -")
			continue
		}
		b.AddNode(fmt.Sprintf("%s: %s", p, v))
	}
	for _, ch := range el.Children() {
		dumpElement(b, doc, ch, properties)
	}
}
