package ports

import "go.trai.ch/ontoenv/internal/core/domain"

// SourceResolver defines the interface for enumerating candidate ontology files.
//
//go:generate mockgen -destination=mocks/resolver_mock.go -package=mocks -source=resolver.go
type SourceResolver interface {
	// ResolveSources returns the files under root accepted by filter, sorted by path.
	ResolveSources(root string, filter domain.SourceFilter) ([]string, error)
}
