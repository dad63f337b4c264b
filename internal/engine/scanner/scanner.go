// Package scanner indexes the ontology files of a managed tree.
package scanner

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"

	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports"
	"go.trai.ch/ontoenv/internal/engine/loader"
	"golang.org/x/sync/errgroup"
)

// Options controls one scan.
type Options struct {
	Root        string
	Filter      domain.SourceFilter
	Concurrency int
	Ambiguity   domain.AmbiguityPolicy
}

// Report lists the index changes made by a scan.
type Report struct {
	// Files is the number of candidate files found below the root.
	Files int
	// Parsed is the number of files that were read and parsed; unchanged files are not.
	Parsed  int
	Added   []domain.OntologyURI
	Updated []domain.OntologyURI
	Removed []domain.OntologyURI
	// Skipped lists files that failed to parse or declare no ontology.
	Skipped []string
}

// Changed reports whether the scan modified the index.
func (r *Report) Changed() bool {
	return len(r.Added)+len(r.Updated)+len(r.Removed) > 0
}

// Scanner walks the managed tree and keeps the local records of an index current.
type Scanner struct {
	resolver ports.SourceResolver
	loader   *loader.Loader
	logger   ports.Logger
}

// New creates a Scanner.
func New(resolver ports.SourceResolver, l *loader.Loader, logger ports.Logger) *Scanner {
	return &Scanner{resolver: resolver, loader: l, logger: logger}
}

type fileResult struct {
	path    string
	source  domain.SourceFile
	records []domain.OntologyRecord
	parsed  bool
	err     error
}

// Scan brings the local records of idx in line with the files below opts.Root.
// Files whose fingerprint matches their source entry are not parsed again; their
// records are rebuilt from the declarations remembered for them, including those
// that lost to another file. Records of
// files that disappeared, stopped parsing or no longer declare an ontology are
// removed. Remote records are left untouched. The index is only modified once every
// file was processed, so a failing scan leaves it as it was.
func (s *Scanner) Scan(ctx context.Context, idx *domain.Index, opts Options) (*Report, error) {
	files, err := s.resolver.ResolveSources(opts.Root, opts.Filter)
	if err != nil {
		return nil, err
	}

	snapshot := idx.Snapshot()

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency(opts.Concurrency))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.scanFile(idx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	chosen, report, err := s.merge(results, opts.Ambiguity)
	if err != nil {
		return nil, err
	}
	report.Files = len(files)

	var sources []domain.SourceFile
	for _, res := range results {
		if res.err == nil && len(res.records) > 0 {
			sources = append(sources, res.source)
		}
	}
	idx.ReplaceSources(sources)

	for _, uri := range sortedKeys(chosen) {
		prev, existed := snapshot.Get(uri)
		if !idx.Upsert(chosen[uri]) {
			continue
		}
		if existed {
			if err := s.loader.ReplaceCached(prev, chosen[uri]); err != nil {
				s.logger.Warn(fmt.Sprintf("removing stale cache entry of %s: %v", uri, err))
			}
			report.Updated = append(report.Updated, uri)
		} else {
			report.Added = append(report.Added, uri)
		}
	}
	for _, rec := range snapshot.Records() {
		if !rec.Location.IsLocal() {
			continue
		}
		if _, ok := chosen[rec.URI]; ok {
			continue
		}
		if idx.Remove(rec.URI) {
			report.Removed = append(report.Removed, rec.URI)
		}
	}

	s.logger.Debug(fmt.Sprintf("scanned %d files (%d parsed): %d added, %d updated, %d removed",
		report.Files, report.Parsed, len(report.Added), len(report.Updated), len(report.Removed)))
	return report, nil
}

// scanFile rebuilds records from the source entry when the file content is unchanged,
// and parses the file otherwise.
func (s *Scanner) scanFile(idx *domain.Index, path string) fileResult {
	if known, ok := idx.Source(path); ok && len(known.Declarations) > 0 {
		if fingerprint, err := s.loader.FileFingerprint(path); err == nil && fingerprint == known.Fingerprint {
			return fileResult{path: path, source: known, records: s.loader.LocalRecords(known)}
		}
	}

	doc, fingerprint, err := s.loader.LoadFile(path)
	if err != nil {
		return fileResult{path: path, parsed: true, err: err}
	}
	src := domain.NewSourceFile(path, doc, fingerprint)
	return fileResult{path: path, source: src, parsed: true, records: s.loader.LocalRecords(src)}
}

// merge combines per-file results in path order and applies the ambiguity policy.
func (s *Scanner) merge(results []fileResult, policy domain.AmbiguityPolicy) (map[domain.OntologyURI]domain.OntologyRecord, *Report, error) {
	report := &Report{}
	chosen := make(map[domain.OntologyURI]domain.OntologyRecord)
	declaredBy := make(map[domain.OntologyURI][]string)

	for _, res := range results {
		if res.parsed {
			report.Parsed++
		}
		switch {
		case res.err != nil:
			s.logger.Warn(fmt.Sprintf("skipping %s: %v", res.path, res.err))
			report.Skipped = append(report.Skipped, res.path)
			continue
		case len(res.records) == 0:
			s.logger.Warn("skipping " + res.path + ": no owl:Ontology declared")
			report.Skipped = append(report.Skipped, res.path)
			continue
		}
		for _, rec := range res.records {
			declaredBy[rec.URI] = append(declaredBy[rec.URI], res.path)
			chosen[rec.URI] = rec
		}
	}

	for _, uri := range sortedKeys(declaredBy) {
		paths := declaredBy[uri]
		if len(paths) < 2 {
			continue
		}
		ambiguous := &domain.AmbiguousOntologyError{URI: uri, Paths: paths}
		if policy == domain.AmbiguityError {
			return nil, nil, ambiguous
		}
		s.logger.Warn(fmt.Sprintf("%s; using %s", ambiguous.Error(), paths[len(paths)-1]))
	}
	return chosen, report, nil
}

func sortedKeys[V any](m map[domain.OntologyURI]V) []domain.OntologyURI {
	keys := make([]domain.OntologyURI, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, cmp.Compare[domain.OntologyURI])
	return keys
}

func concurrency(n int) int {
	if n < 1 {
		return runtime.NumCPU()
	}
	return n
}
