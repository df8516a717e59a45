package tree

import (
	"fmt"
	"strings"
)

/*
Diagram returns a multi-line drawing of the tree rooted at the given node.
Inner nodes print their question, leaves their answer, and every child is
drawn under its parent prefixed by the answer leading to it:

	Outlook?
	|__[Overcast] Yes
	|__[Rainy] Wind?
	|  |__[Strong] No
	|  |__[Weak] Yes
	...

Children are drawn in Answers order. The result ends with a newline unless
the node is nil, in which case it is empty.
*/
func Diagram[Q any, A comparable](n Node[Q, A]) string {
	var sb strings.Builder
	writeDiagram(&sb, n, "", "")
	return sb.String()
}

func writeDiagram[Q any, A comparable](sb *strings.Builder, n Node[Q, A], prefix, indent string) {
	switch v := n.(type) {
	case *Leaf[Q, A]:
		fmt.Fprintf(sb, "%s%v\n", prefix, v.Answer)
	case *Inner[Q, A]:
		fmt.Fprintf(sb, "%s%v\n", prefix, v.Question)
		answers := v.Answers()
		for i, a := range answers {
			childIndent := indent + "|  "
			if i == len(answers)-1 {
				childIndent = indent + "   "
			}
			writeDiagram(sb, v.Children[a], fmt.Sprintf("%s|__[%v] ", indent, a), childIndent)
		}
	}
}
