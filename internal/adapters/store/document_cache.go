package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DocumentCache = (*DocumentCache)(nil)

// DocumentCache stores fetched documents as files named after the XXHash of their URI.
type DocumentCache struct{}

// NewDocumentCache creates a new DocumentCache.
func NewDocumentCache() *DocumentCache {
	return &DocumentCache{}
}

// EntryName returns the cache file name for a document.
func EntryName(uri domain.OntologyURI, format domain.Format) string {
	ext := ".rdf"
	if info, ok := domain.FormatRegistry[format]; ok {
		ext = info.Extension
	}
	return fmt.Sprintf("%016x%s", xxhash.Sum64String(uri.String()), ext)
}

// Put writes body atomically to dir and returns its entry name.
func (c *DocumentCache) Put(dir string, uri domain.OntologyURI, format domain.Format, body []byte) (string, error) {
	name := EntryName(uri, format)
	if err := atomicWriteFile(filepath.Join(dir, name), body, "doc-*.tmp"); err != nil {
		return "", zerr.With(zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "uri", uri.String()), "dir", dir)
	}
	return name, nil
}

// Get reads the entry name from dir.
func (c *DocumentCache) Get(dir, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(name))) //nolint:gosec // name is reduced to a base name
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "entry", name)
	}
	return data, nil
}

// Remove deletes the entry name from dir.
func (c *DocumentCache) Remove(dir, name string) error {
	err := os.Remove(filepath.Join(dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "entry", name)
	}
	return nil
}
