// Package rdf decodes ontology documents with github.com/knakk/rdf.
package rdf

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/knakk/rdf"
	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Parser = (*Parser)(nil)

var syntaxes = map[domain.Format]rdf.Format{
	domain.FormatTurtle:   rdf.Turtle,
	domain.FormatNTriples: rdf.NTriples,
	domain.FormatRDFXML:   rdf.RDFXML,
}

// Parser implements ports.Parser.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes every triple of r. Relative IRIs resolve against source, which is a URL
// or a local path standing for its file URI, so `<> a owl:Ontology` names the document
// itself. Blank node labels are rewritten with a prefix derived from source so that
// documents merged into one graph never share blank nodes.
func (p *Parser) Parse(r io.Reader, format domain.Format, source string) (*domain.Document, error) {
	syntax, ok := syntaxes[format]
	if !ok {
		return nil, &domain.ParseError{
			Source: source,
			Err:    zerr.With(domain.ErrUnsupportedFormat, "format", string(format)),
		}
	}

	scope := fmt.Sprintf("b%08x", uint32(xxhash.Sum64String(source)))
	graph := domain.NewTripleGraph()
	dec := rdf.NewTripleDecoder(r, syntax)
	if syntax != rdf.NTriples {
		base, err := rdf.NewIRI(baseIRI(source))
		if err == nil {
			err = dec.SetOption(rdf.Base, base)
		}
		if err != nil {
			return nil, &domain.ParseError{Source: source, Err: err}
		}
	}

	for {
		triple, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.ParseError{Source: source, Err: err}
		}
		graph.Add(domain.NewTriple(
			term(triple.Subj, scope),
			term(triple.Pred, scope),
			term(triple.Obj, scope),
		))
	}

	return domain.NewDocument(source, format, graph), nil
}

// baseIRI returns source when it is already an absolute URI, and the file URI of the
// path otherwise.
func baseIRI(source string) string {
	if u, err := url.Parse(source); err == nil && len(u.Scheme) > 1 {
		return source
	}
	return domain.FileURI(source).String()
}

// term serializes t in N-Triples form, scoping blank nodes.
func term(t rdf.Term, scope string) string {
	if t.Type() == rdf.TermBlank {
		label := strings.TrimPrefix(t.Serialize(rdf.NTriples), "_:")
		return "_:" + scope + "x" + label
	}
	return t.Serialize(rdf.NTriples)
}
