// Package loader reads ontology documents from the managed tree, the document
// cache and the network, and turns them into index records.
package loader

import (
	"bytes"
	"context"
	"os"
	"slices"
	"time"

	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports"
	"go.trai.ch/zerr"
)

// Loader reads documents and builds fully formed records for them.
type Loader struct {
	parser   ports.Parser
	hasher   ports.Hasher
	fetcher  ports.Fetcher
	cache    ports.DocumentCache
	cacheDir string
	now      func() time.Time
}

// New creates a Loader that stores fetched documents in cacheDir.
func New(
	parser ports.Parser,
	hasher ports.Hasher,
	fetcher ports.Fetcher,
	cache ports.DocumentCache,
	cacheDir string,
) *Loader {
	return &Loader{
		parser:   parser,
		hasher:   hasher,
		fetcher:  fetcher,
		cache:    cache,
		cacheDir: cacheDir,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for resolution timestamps.
func (l *Loader) WithClock(now func() time.Time) *Loader {
	l.now = now
	return l
}

// Now returns the current resolution timestamp in UTC.
func (l *Loader) Now() time.Time {
	return l.now().UTC()
}

// LoadFile parses the local file at path and returns the document with the
// fingerprint of exactly the bytes that were parsed.
func (l *Loader) LoadFile(path string) (*domain.Document, string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the source resolver or the index
	if err != nil {
		return nil, "", zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}

	format := domain.FormatFromExtension(path)
	if format == domain.FormatUnknown {
		format = domain.FormatTurtle
	}

	doc, err := l.parser.Parse(bytes.NewReader(data), format, path)
	if err != nil {
		return nil, "", err
	}
	return doc, l.hasher.ComputeHash(data), nil
}

// FileFingerprint returns the current fingerprint of a local file without parsing it.
func (l *Loader) FileFingerprint(path string) (string, error) {
	return l.hasher.ComputeFileHash(path)
}

// LocalRecords returns one record per ontology the source file declares.
func (l *Loader) LocalRecords(src domain.SourceFile) []domain.OntologyRecord {
	resolvedAt := l.Now()
	records := make([]domain.OntologyRecord, 0, len(src.Declarations))
	for _, decl := range src.Declarations {
		records = append(records, domain.OntologyRecord{
			URI:           decl.URI,
			Location:      domain.Local(src.Path),
			Format:        src.Format,
			Fingerprint:   src.Fingerprint,
			DirectImports: slices.Clone(decl.Imports),
			ResolvedAt:    resolvedAt,
		})
	}
	return records
}

// LoadRecord parses the content an index record points at: the local file, or the
// cached copy of a remote document.
func (l *Loader) LoadRecord(rec domain.OntologyRecord) (*domain.Document, error) {
	if rec.Location.IsLocal() {
		doc, _, err := l.LoadFile(rec.Location.Path)
		return doc, err
	}

	data, err := l.cache.Get(l.cacheDir, rec.Location.CachePath)
	if err != nil {
		return nil, zerr.With(err, "uri", rec.URI.String())
	}
	return l.parser.Parse(bytes.NewReader(data), rec.Format, rec.Location.URL)
}

// ReplaceCached removes the cached copy of previous once next no longer reads it,
// as when a refetched document changed format or a local file took over the URI.
func (l *Loader) ReplaceCached(previous, next domain.OntologyRecord) error {
	if previous.Location.IsLocal() || previous.Location.CachePath == "" {
		return nil
	}
	if !next.Location.IsLocal() && next.Location.CachePath == previous.Location.CachePath {
		return nil
	}
	return l.cache.Remove(l.cacheDir, previous.Location.CachePath)
}

// Retrieval is the outcome of fetching a remote ontology.
type Retrieval struct {
	Document *domain.Document
	Record   domain.OntologyRecord
	// NotModified is set when the previous record was confirmed by a conditional request.
	NotModified bool
}

// Fetch retrieves req.URI, stores the body in the document cache and returns the record
// to index. When previous is given the request is conditional and a 304 answer reuses
// the cached copy. The record is only returned once the document parsed and was cached.
func (l *Loader) Fetch(ctx context.Context, req domain.FetchRequest, previous *domain.OntologyRecord) (*Retrieval, error) {
	if previous != nil && !previous.Location.IsLocal() {
		req.Validators = previous.Validators
	}

	fetched, err := l.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	if fetched.NotModified {
		if previous != nil {
			if doc, loadErr := l.LoadRecord(*previous); loadErr == nil {
				return &Retrieval{Document: doc, Record: previous.Clone(), NotModified: true}, nil
			}
		}
		// The cached copy is gone; ask again without validators.
		req.Validators = domain.Validators{}
		if fetched, err = l.fetcher.Fetch(ctx, req); err != nil {
			return nil, err
		}
		if fetched.NotModified {
			return nil, zerr.With(domain.ErrCacheReadFailed, "uri", req.URI.String())
		}
	}

	format := fetched.Format()
	doc, err := l.parser.Parse(bytes.NewReader(fetched.Body), format, req.URI.String())
	if err != nil {
		return nil, err
	}

	name, err := l.cache.Put(l.cacheDir, req.URI, format, fetched.Body)
	if err != nil {
		return nil, err
	}

	return &Retrieval{
		Document: doc,
		Record: domain.OntologyRecord{
			URI:           req.URI,
			Location:      domain.Remote(req.URI.String(), name),
			Format:        format,
			Fingerprint:   l.hasher.ComputeHash(fetched.Body),
			Validators:    fetched.Validators,
			DirectImports: doc.ImportsFor(req.URI),
			ResolvedAt:    l.Now(),
		},
	}, nil
}
