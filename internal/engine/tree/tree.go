// Package tree renders import graphs as dependency trees.
package tree

import "go.trai.ch/ontoenv/internal/core/domain"

// Node is one entry of a dependency tree.
type Node struct {
	URI domain.OntologyURI
	// Duplicate marks a URI expanded earlier in the traversal. It has no children.
	Duplicate bool
	// Cycle marks a duplicate that points back to one of its own ancestors.
	Cycle bool
	// Unresolved marks a URI that could not be resolved.
	Unresolved bool
	Children   []*Node
}

type frame struct {
	node     *Node
	children []domain.OntologyURI
	next     int
}

// Build returns one tree per root. Children are the direct imports in declaration
// order. A URI already expanded anywhere earlier, under this root or a previous one,
// becomes a childless duplicate leaf, so shared dependencies are printed in full once.
// Build only reads g; calling it again yields an identical forest.
func Build(g *domain.ImportGraph, roots []domain.OntologyURI, unresolved func(domain.OntologyURI) bool) []*Node {
	if unresolved == nil {
		unresolved = func(domain.OntologyURI) bool { return false }
	}

	expanded := make(map[domain.OntologyURI]bool)
	onPath := make(map[domain.OntologyURI]bool)
	var forest []*Node

	visit := func(uri domain.OntologyURI) (*Node, []domain.OntologyURI) {
		n := &Node{URI: uri, Unresolved: unresolved(uri)}
		if expanded[uri] {
			n.Duplicate = true
			n.Cycle = onPath[uri]
			return n, nil
		}
		expanded[uri] = true
		return n, g.Imports(uri)
	}

	for _, root := range roots {
		rootNode, children := visit(root)
		forest = append(forest, rootNode)
		if rootNode.Duplicate {
			continue
		}

		onPath[root] = true
		stack := []frame{{node: rootNode, children: children}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next >= len(top.children) {
				onPath[top.node.URI] = false
				stack = stack[:len(stack)-1]
				continue
			}
			child, grandchildren := visit(top.children[top.next])
			top.next++
			top.node.Children = append(top.node.Children, child)
			if !child.Duplicate {
				onPath[child.URI] = true
				stack = append(stack, frame{node: child, children: grandchildren})
			}
		}
	}
	return forest
}
