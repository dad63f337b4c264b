package ports

import "go.trai.ch/ontoenv/internal/core/domain"

// IndexStore persists the ontology index.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type IndexStore interface {
	// Load reads the index at path. A missing file yields an error wrapping fs.ErrNotExist;
	// an undecodable one yields *domain.IndexCorruptionError.
	Load(path string) (*domain.Index, error)

	// Save writes the index atomically, replacing any previous file only once the new one is complete.
	Save(path string, idx *domain.Index) error
}

// DocumentCache keeps copies of fetched remote documents.
type DocumentCache interface {
	// Put stores body under dir and returns the cache entry name.
	Put(dir string, uri domain.OntologyURI, format domain.Format, body []byte) (string, error)

	// Get reads the entry name from dir.
	Get(dir, name string) ([]byte, error)

	// Remove deletes the entry name from dir. A missing entry is not an error.
	Remove(dir, name string) error
}
