// Package store persists the ontology index and the cache of fetched documents.
package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.IndexStore = (*IndexStore)(nil)

// indexFile is the on-disk layout of the index.
type indexFile struct {
	Version int                     `json:"version"`
	Records []domain.OntologyRecord `json:"records"`
	// Sources lists what each local file declared, including declarations that
	// lost to another file.
	Sources []domain.SourceFile `json:"sources,omitempty"`
}

// IndexStore implements ports.IndexStore with a JSON file.
type IndexStore struct{}

// NewIndexStore creates a new IndexStore.
func NewIndexStore() *IndexStore {
	return &IndexStore{}
}

// Load reads the index at path. A missing file is reported with an error wrapping
// fs.ErrNotExist; any undecodable content yields *domain.IndexCorruptionError.
func (s *IndexStore) Load(path string) (*domain.Index, error) {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path) //nolint:gosec // Path is cleaned and provided by trusted caller
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrIndexReadFailed.Error()), "path", path)
	}

	var file indexFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, &domain.IndexCorruptionError{Path: path, Err: err}
	}
	if file.Version != domain.IndexVersion {
		return nil, &domain.IndexCorruptionError{
			Path: path,
			Err:  zerr.With(domain.ErrUnsupportedIndexVersion, "version", file.Version),
		}
	}
	for _, rec := range file.Records {
		if rec.URI == "" {
			return nil, &domain.IndexCorruptionError{Path: path, Err: domain.ErrInvalidURI}
		}
	}
	for _, src := range file.Sources {
		if src.Path == "" {
			return nil, &domain.IndexCorruptionError{Path: path, Err: domain.ErrInvalidSourceEntry}
		}
	}

	return domain.NewIndexWithSources(file.Records, file.Sources), nil
}

// Save writes a snapshot of idx to path atomically and marks idx clean.
// Unchanged inputs produce byte-identical files.
func (s *IndexStore) Save(path string, idx *domain.Index) error {
	path = filepath.Clean(path)

	file := indexFile{
		Version: domain.IndexVersion,
		Records: idx.Snapshot().Records(),
		Sources: idx.Sources(),
	}
	if file.Records == nil {
		file.Records = []domain.OntologyRecord{}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrIndexMarshalFailed.Error())
	}
	data = append(data, '\n')

	if err := atomicWriteFile(path, data, "index-*.json"); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIndexWriteFailed.Error()), "path", path)
	}

	idx.MarkClean()
	return nil
}
