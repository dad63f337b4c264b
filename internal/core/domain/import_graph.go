package domain

// NodeID is the stable arena index of a URI inside one ImportGraph.
type NodeID int

// Edge is a directed import edge.
type Edge struct {
	From OntologyURI
	To   OntologyURI
}

// ImportGraph is a directed graph over ontology URIs built from direct imports.
// Nodes are stored in an arena in first-seen order and edges keep declaration order,
// so every traversal over the graph is deterministic. Cycles are allowed.
// An ImportGraph is not safe for concurrent mutation.
type ImportGraph struct {
	ids      map[OntologyURI]NodeID
	uris     []OntologyURI
	edges    [][]NodeID
	inDegree []int
}

// NewImportGraph creates an empty graph.
func NewImportGraph() *ImportGraph {
	return &ImportGraph{ids: make(map[OntologyURI]NodeID)}
}

// AddNode registers u and returns its id. Registering an existing URI returns the same id.
func (g *ImportGraph) AddNode(u OntologyURI) NodeID {
	if id, ok := g.ids[u]; ok {
		return id
	}
	id := NodeID(len(g.uris))
	g.ids[u] = id
	g.uris = append(g.uris, u)
	g.edges = append(g.edges, nil)
	g.inDegree = append(g.inDegree, 0)
	return id
}

// AddEdge records that from imports to. Repeated edges are ignored.
func (g *ImportGraph) AddEdge(from, to OntologyURI) {
	f := g.AddNode(from)
	t := g.AddNode(to)
	for _, existing := range g.edges[f] {
		if existing == t {
			return
		}
	}
	g.edges[f] = append(g.edges[f], t)
	g.inDegree[t]++
}

// Has reports whether u is a node of the graph.
func (g *ImportGraph) Has(u OntologyURI) bool {
	_, ok := g.ids[u]
	return ok
}

// Len returns the number of nodes.
func (g *ImportGraph) Len() int {
	return len(g.uris)
}

// Nodes returns all nodes in first-seen order.
func (g *ImportGraph) Nodes() []OntologyURI {
	out := make([]OntologyURI, len(g.uris))
	copy(out, g.uris)
	return out
}

// Imports returns the direct imports of u in declaration order.
func (g *ImportGraph) Imports(u OntologyURI) []OntologyURI {
	id, ok := g.ids[u]
	if !ok {
		return nil
	}
	out := make([]OntologyURI, len(g.edges[id]))
	for i, t := range g.edges[id] {
		out[i] = g.uris[t]
	}
	return out
}

// Edges returns every edge, grouped by source node in first-seen order.
func (g *ImportGraph) Edges() []Edge {
	var out []Edge
	for from, targets := range g.edges {
		for _, to := range targets {
			out = append(out, Edge{From: g.uris[from], To: g.uris[to]})
		}
	}
	return out
}

// Roots returns nodes nobody imports, in first-seen order.
// A graph made only of cycles has no such node; its first node is returned instead.
func (g *ImportGraph) Roots() []OntologyURI {
	var roots []OntologyURI
	for id, degree := range g.inDegree {
		if degree == 0 {
			roots = append(roots, g.uris[id])
		}
	}
	if len(roots) == 0 && len(g.uris) > 0 {
		roots = append(roots, g.uris[0])
	}
	return roots
}

type dfsFrame struct {
	id   NodeID
	next int
}

// PreOrder walks the graph depth-first from roots, children in declaration order,
// and returns each reachable node exactly once in pre-order. Edges that close a cycle
// are reported as CycleNotices. The walk uses an explicit stack, so deep or cyclic
// graphs cannot overflow the call stack.
func (g *ImportGraph) PreOrder(roots []OntologyURI) ([]OntologyURI, []*CycleNotice) {
	visited := make([]bool, len(g.uris))
	onPath := make([]bool, len(g.uris))
	var order []OntologyURI
	var cycles []*CycleNotice
	var stack []dfsFrame

	push := func(id NodeID) {
		visited[id] = true
		onPath[id] = true
		order = append(order, g.uris[id])
		stack = append(stack, dfsFrame{id: id})
	}

	for _, root := range roots {
		rootID, ok := g.ids[root]
		if !ok || visited[rootID] {
			continue
		}
		push(rootID)

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next >= len(g.edges[top.id]) {
				onPath[top.id] = false
				stack = stack[:len(stack)-1]
				continue
			}
			child := g.edges[top.id][top.next]
			top.next++

			switch {
			case onPath[child]:
				cycles = append(cycles, g.cycleFrom(stack, child))
			case !visited[child]:
				push(child)
			}
		}
	}
	return order, cycles
}

func (g *ImportGraph) cycleFrom(stack []dfsFrame, target NodeID) *CycleNotice {
	start := 0
	for i, frame := range stack {
		if frame.id == target {
			start = i
			break
		}
	}
	path := make([]OntologyURI, 0, len(stack)-start+1)
	for _, frame := range stack[start:] {
		path = append(path, g.uris[frame.id])
	}
	path = append(path, g.uris[target])
	return &CycleNotice{Path: path}
}
