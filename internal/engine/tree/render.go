package tree

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/ontoenv/internal/ui/style"
)

// Markers appended to flagged entries.
const (
	DuplicateMarker  = "[dup]"
	CycleMarker      = "[cycle]"
	UnresolvedMarker = "[unresolved]"
)

type renderFrame struct {
	node   *Node
	prefix string
	branch string
	child  string
}

// Render writes the forest to out, one line per node. Duplicates are bold and
// unresolved entries red, an unresolved duplicate both; a plain profile renders only
// the text markers.
func Render(out *termenv.Output, forest []*Node) error {
	var b strings.Builder
	for _, root := range forest {
		stack := []renderFrame{{node: root}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			b.WriteString(f.prefix)
			b.WriteString(f.branch)
			b.WriteString(label(out, f.node))
			b.WriteByte('\n')

			childPrefix := f.prefix + f.child
			for i := len(f.node.Children) - 1; i >= 0; i-- {
				next := renderFrame{node: f.node.Children[i], prefix: childPrefix, branch: style.Branch, child: style.Pipe}
				if i == len(f.node.Children)-1 {
					next.branch = style.LastBranch
					next.child = style.Indent
				}
				stack = append(stack, next)
			}
		}
	}
	_, err := io.WriteString(out, b.String())
	return err
}

// label renders the URI with every marker that applies, the repeat marker first.
func label(out *termenv.Output, n *Node) string {
	text := n.URI.String()
	switch {
	case n.Cycle:
		text += " " + CycleMarker
	case n.Duplicate:
		text += " " + DuplicateMarker
	}
	if n.Unresolved {
		text += " " + UnresolvedMarker
	}

	styled := out.String(text)
	if n.Duplicate || n.Cycle {
		styled = styled.Bold()
	}
	if n.Unresolved {
		styled = styled.Foreground(out.Color(string(style.Red)))
	}
	if !n.Duplicate && !n.Cycle && !n.Unresolved {
		return text
	}
	return styled.String()
}
