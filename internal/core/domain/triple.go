package domain

import (
	"bufio"
	"cmp"
	"io"
	"slices"
)

// Vocabulary terms in N-Triples form.
const (
	RDFType     = "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>"
	OWLOntology = "<http://www.w3.org/2002/07/owl#Ontology>"
	OWLImports  = "<http://www.w3.org/2002/07/owl#imports>"
)

// Triple is an RDF statement over interned terms.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewTriple creates a triple from serialized terms.
func NewTriple(subject, predicate, object string) Triple {
	return Triple{
		Subject:   NewTerm(subject),
		Predicate: NewTerm(predicate),
		Object:    NewTerm(object),
	}
}

// String renders the triple as one N-Triples line without the trailing newline.
func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}

var (
	rdfType     = NewTerm(RDFType)
	owlOntology = NewTerm(OWLOntology)
	owlImports  = NewTerm(OWLImports)
)

// TripleGraph is a set of triples that remembers insertion order.
// It is not safe for concurrent mutation.
type TripleGraph struct {
	set   map[Triple]struct{}
	order []Triple
}

// NewTripleGraph creates an empty graph.
func NewTripleGraph() *TripleGraph {
	return &TripleGraph{set: make(map[Triple]struct{})}
}

// Add inserts t and reports whether it was new.
func (g *TripleGraph) Add(t Triple) bool {
	if g.set == nil {
		g.set = make(map[Triple]struct{})
	}
	if _, ok := g.set[t]; ok {
		return false
	}
	g.set[t] = struct{}{}
	g.order = append(g.order, t)
	return true
}

// Has reports whether t is in the graph.
func (g *TripleGraph) Has(t Triple) bool {
	_, ok := g.set[t]
	return ok
}

// Len returns the number of distinct triples.
func (g *TripleGraph) Len() int {
	return len(g.order)
}

// Triples returns the triples in insertion order.
func (g *TripleGraph) Triples() []Triple {
	return slices.Clone(g.order)
}

// Ontologies returns the IRIs typed as owl:Ontology, in insertion order.
func (g *TripleGraph) Ontologies() []OntologyURI {
	set := NewURISet()
	for _, t := range g.order {
		if t.Predicate != rdfType || t.Object != owlOntology {
			continue
		}
		if u, ok := t.Subject.URI(); ok {
			set.Add(u)
		}
	}
	return set.Slice()
}

// Imports returns every owl:imports target, in insertion order.
func (g *TripleGraph) Imports() []OntologyURI {
	set := NewURISet()
	for _, t := range g.order {
		if t.Predicate != owlImports {
			continue
		}
		if u, ok := t.Object.URI(); ok {
			set.Add(u)
		}
	}
	return set.Slice()
}

// ImportsOf returns the owl:imports targets stated with subject as the importing ontology.
func (g *TripleGraph) ImportsOf(subject OntologyURI) []OntologyURI {
	set := NewURISet()
	for _, t := range g.order {
		if t.Predicate != owlImports {
			continue
		}
		if s, ok := t.Subject.URI(); !ok || s != subject {
			continue
		}
		if u, ok := t.Object.URI(); ok {
			set.Add(u)
		}
	}
	return set.Slice()
}

// WriteNTriples writes the graph as sorted N-Triples, so equal sets produce equal bytes.
func (g *TripleGraph) WriteNTriples(w io.Writer) error {
	lines := make([]string, len(g.order))
	for i, t := range g.order {
		lines[i] = t.String()
	}
	slices.SortFunc(lines, cmp.Compare[string])

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
