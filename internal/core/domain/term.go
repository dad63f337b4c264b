package domain

import (
	"strings"
	"unique"
)

// Term is an RDF term in its N-Triples serialization, e.g. "<http://example.org/a>",
// "_:b0" or "\"label\"@en". Terms are interned: the vocabulary IRIs repeated across
// every parsed document share one backing string, and comparing two terms is a
// pointer comparison.
type Term struct {
	h unique.Handle[string]
}

// NewTerm interns a serialized term.
func NewTerm(serialized string) Term {
	return Term{h: unique.Make(serialized)}
}

// String returns the serialized term. The zero Term is empty.
func (t Term) String() string {
	if t.IsZero() {
		return ""
	}
	return t.h.Value()
}

// IsZero reports whether t was never set.
func (t Term) IsZero() bool {
	var zero unique.Handle[string]
	return t.h == zero
}

// IsIRI reports whether t is an IRI.
func (t Term) IsIRI() bool {
	s := t.String()
	return strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">")
}

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool {
	return strings.HasPrefix(t.String(), "_:")
}

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool {
	return strings.HasPrefix(t.String(), `"`)
}

// URI returns the normalized ontology URI of an IRI term.
func (t Term) URI() (OntologyURI, bool) {
	if !t.IsIRI() {
		return "", false
	}
	u, err := NormalizeURI(t.String())
	if err != nil {
		return "", false
	}
	return u, true
}
