package lexical

import (
	"fmt"

	tp "github.com/xlab/treeprint"
)

// Dump renders a chain as a tree, with nested chains as branches.
// Used for debugging.
func Dump(u *Unit) string {
	p := tp.New()
	dumpChain(p, u)
	return p.String()
}

func dumpChain(p tp.Tree, u *Unit) {
	for ; u != nil; u = u.Next {
		label := fmt.Sprintf("%s %q", u.Type, u.Text)
		if u.Type == Dimension {
			label = fmt.Sprintf("%s %s%s", u.Type, u.numText(), u.Dim)
		}
		if u.Params == nil {
			p.AddNode(label)
			continue
		}
		dumpChain(p.AddBranch(label), u.Params)
	}
}
