package ports

import (
	"io"

	"go.trai.ch/ontoenv/internal/core/domain"
)

// Parser decodes RDF documents.
//
//go:generate go run go.uber.org/mock/mockgen -source=parser.go -destination=mocks/mock_parser.go -package=mocks
type Parser interface {
	// Parse reads a whole document in the given syntax. Source names the document in errors
	// and scopes its blank nodes. Malformed input yields a *domain.ParseError.
	Parse(r io.Reader, format domain.Format, source string) (*domain.Document, error)
}
