package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ontoenv/internal/core/domain"
)

func TestTerm(t *testing.T) {
	tests := []struct {
		name       string
		serialized string
		iri        bool
		blank      bool
		literal    bool
		uri        domain.OntologyURI
	}{
		{name: "IRI", serialized: "<HTTP://Example.org/onto#>", iri: true, uri: "http://example.org/onto"},
		{name: "Relative IRI", serialized: "<onto.ttl>", iri: true},
		{name: "Blank Node", serialized: "_:b0", blank: true},
		{name: "Language Literal", serialized: `"label"@en`, literal: true},
		{name: "Typed Literal", serialized: `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`, literal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := domain.NewTerm(tt.serialized)
			assert.Equal(t, tt.serialized, term.String())
			assert.Equal(t, tt.iri, term.IsIRI())
			assert.Equal(t, tt.blank, term.IsBlank())
			assert.Equal(t, tt.literal, term.IsLiteral())

			uri, ok := term.URI()
			assert.Equal(t, tt.uri != "", ok)
			assert.Equal(t, tt.uri, uri)
		})
	}
}

func TestTerm_Interning(t *testing.T) {
	a := domain.NewTerm(domain.OWLImports)
	b := domain.NewTerm("<http://www.w3.org/2002/07/owl#" + "imports>")
	assert.Equal(t, a, b, "equal serializations intern to the same term")
	assert.NotEqual(t, a, domain.NewTerm(domain.OWLOntology))

	var zero domain.Term
	assert.True(t, zero.IsZero())
	assert.Empty(t, zero.String())
	assert.False(t, zero.IsIRI())
}
