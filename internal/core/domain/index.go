package domain

import (
	"cmp"
	"slices"
	"sync"
)

// Index maps ontology URIs to their records. It is the long-lived cache of an environment.
// Writes are serialized; readers may take a Snapshot that never changes afterwards.
type Index struct {
	mu      sync.RWMutex
	records map[OntologyURI]OntologyRecord
	sources map[string]SourceFile
	dirty   bool
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{
		records: make(map[OntologyURI]OntologyRecord),
		sources: make(map[string]SourceFile),
	}
}

// NewIndexFromRecords creates an Index holding the given records.
// Later records with the same URI replace earlier ones.
func NewIndexFromRecords(records []OntologyRecord) *Index {
	return NewIndexWithSources(records, nil)
}

// NewIndexWithSources creates an Index holding the given records and source files.
func NewIndexWithSources(records []OntologyRecord, sources []SourceFile) *Index {
	idx := NewIndex()
	for _, rec := range records {
		idx.records[rec.URI] = rec.Clone()
	}
	for _, src := range sources {
		idx.sources[src.Path] = src.Clone()
	}
	return idx
}

// Get returns the record for uri.
func (i *Index) Get(uri OntologyURI) (OntologyRecord, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	rec, ok := i.records[uri]
	if !ok {
		return OntologyRecord{}, false
	}
	return rec.Clone(), true
}

// Upsert inserts or replaces a record and reports whether the index changed.
// A record with the same content as the stored one is ignored, keeping the original timestamp.
func (i *Index) Upsert(rec OntologyRecord) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if old, ok := i.records[rec.URI]; ok && old.SameContent(rec) {
		return false
	}
	i.records[rec.URI] = rec.Clone()
	i.dirty = true
	return true
}

// Remove deletes the record for uri and reports whether it existed.
func (i *Index) Remove(uri OntologyURI) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.records[uri]; !ok {
		return false
	}
	delete(i.records, uri)
	i.dirty = true
	return true
}

// Source returns what the file at path declared when it was last parsed.
func (i *Index) Source(path string) (SourceFile, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	src, ok := i.sources[path]
	if !ok {
		return SourceFile{}, false
	}
	return src.Clone(), true
}

// Sources returns every source file sorted by path.
func (i *Index) Sources() []SourceFile {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]SourceFile, 0, len(i.sources))
	for _, src := range i.sources {
		out = append(out, src.Clone())
	}
	slices.SortFunc(out, func(a, b SourceFile) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return out
}

// ReplaceSources sets the complete list of source files and reports whether it changed.
func (i *Index) ReplaceSources(sources []SourceFile) bool {
	next := make(map[string]SourceFile, len(sources))
	for _, src := range sources {
		next[src.Path] = src.Clone()
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	changed := len(next) != len(i.sources)
	for path, src := range next {
		if old, ok := i.sources[path]; !ok || !old.Equal(src) {
			changed = true
			break
		}
	}
	if !changed {
		return false
	}
	i.sources = next
	i.dirty = true
	return true
}

// Len returns the number of records.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.records)
}

// Dirty reports whether the index changed since it was loaded or last marked clean.
func (i *Index) Dirty() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.dirty
}

// MarkClean resets the dirty flag after a successful save.
func (i *Index) MarkClean() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.dirty = false
}

// Snapshot returns a stable, read-only view of the current records.
func (i *Index) Snapshot() *IndexSnapshot {
	i.mu.RLock()
	defer i.mu.RUnlock()
	records := make([]OntologyRecord, 0, len(i.records))
	for _, rec := range i.records {
		records = append(records, rec.Clone())
	}
	slices.SortFunc(records, func(a, b OntologyRecord) int {
		return cmp.Compare(a.URI, b.URI)
	})
	return &IndexSnapshot{records: records}
}

// IndexSnapshot is an immutable copy of the index contents sorted by URI.
type IndexSnapshot struct {
	records []OntologyRecord
}

// Records returns the records sorted by URI.
func (s *IndexSnapshot) Records() []OntologyRecord {
	return s.records
}

// Get looks up a record by URI.
func (s *IndexSnapshot) Get(uri OntologyURI) (OntologyRecord, bool) {
	n, found := slices.BinarySearchFunc(s.records, uri, func(rec OntologyRecord, target OntologyURI) int {
		return cmp.Compare(rec.URI, target)
	})
	if !found {
		return OntologyRecord{}, false
	}
	return s.records[n], true
}

// ByPath returns the URIs of local records stored at path.
func (s *IndexSnapshot) ByPath(path string) []OntologyURI {
	var uris []OntologyURI
	for _, rec := range s.records {
		if rec.Location.IsLocal() && rec.Location.Path == path {
			uris = append(uris, rec.URI)
		}
	}
	return uris
}

// ImportGraph builds the import graph over every indexed record.
// Imports that have no record still appear as nodes without edges.
func (s *IndexSnapshot) ImportGraph() *ImportGraph {
	g := NewImportGraph()
	for _, rec := range s.records {
		g.AddNode(rec.URI)
		for _, imp := range rec.DirectImports {
			g.AddEdge(rec.URI, imp)
		}
	}
	return g
}
