package tree

import (
	"bufio"
	"io"
	"strings"

	"go.trai.ch/ontoenv/internal/core/domain"
)

type dotEdge struct {
	from domain.OntologyURI
	to   domain.OntologyURI
}

// WriteDOT writes the import graph covered by forest in Graphviz DOT syntax.
// Every expanded node lists all of its imports, so the edges of duplicate leaves
// come from the place the URI was printed in full. Each node and edge appears once,
// in pre-order; unresolved nodes are drawn dashed and red.
func WriteDOT(w io.Writer, forest []*Node) error {
	var (
		nodes      []domain.OntologyURI
		unresolved = make(map[domain.OntologyURI]bool)
		seenNode   = make(map[domain.OntologyURI]bool)
		edges      []dotEdge
		seenEdge   = make(map[dotEdge]bool)
	)

	stack := make([]*Node, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, forest[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !seenNode[n.URI] {
			seenNode[n.URI] = true
			nodes = append(nodes, n.URI)
		}
		if n.Unresolved {
			unresolved[n.URI] = true
		}
		for _, child := range n.Children {
			e := dotEdge{from: n.URI, to: child.URI}
			if !seenEdge[e] {
				seenEdge[e] = true
				edges = append(edges, e)
			}
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}

	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString("digraph imports {\n  rankdir=LR;\n  node [shape=box];\n")
	for _, uri := range nodes {
		_, _ = bw.WriteString("  " + dotID(uri))
		if unresolved[uri] {
			_, _ = bw.WriteString(" [style=dashed, color=red]")
		}
		_, _ = bw.WriteString(";\n")
	}
	for _, e := range edges {
		_, _ = bw.WriteString("  " + dotID(e.from) + " -> " + dotID(e.to) + ";\n")
	}
	_, _ = bw.WriteString("}\n")
	return bw.Flush()
}

func dotID(uri domain.OntologyURI) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(uri.String())
	return `"` + escaped + `"`
}
