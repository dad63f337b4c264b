package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/ontoenv/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports"
	"go.trai.ch/ontoenv/internal/engine/loader"
	"go.trai.ch/ontoenv/internal/engine/merger"
	"go.trai.ch/ontoenv/internal/engine/resolver"
	"go.trai.ch/ontoenv/internal/engine/scanner"
	"go.trai.ch/ontoenv/internal/engine/tree"
	"go.trai.ch/zerr"
)

// Environment is an opened ontology environment: a managed root, its configuration
// and its index. It is loaded once per process and persisted with Save.
type Environment struct {
	cfg     domain.Config
	idx     *domain.Index
	store   ports.IndexStore
	logger  ports.Logger
	watcher ports.Watcher
	window  time.Duration

	loader   *loader.Loader
	scanner  *scanner.Scanner
	resolver *resolver.Resolver
	merger   *merger.Merger
}

// Config returns the effective configuration.
func (e *Environment) Config() domain.Config {
	return e.cfg
}

// Root returns the managed root directory.
func (e *Environment) Root() string {
	return e.cfg.Root
}

// Index returns the live index.
func (e *Environment) Index() *domain.Index {
	return e.idx
}

// Save persists the index when it changed since it was loaded or last saved.
func (e *Environment) Save() error {
	if !e.idx.Dirty() {
		return nil
	}
	return e.store.Save(e.cfg.IndexPath, e.idx)
}

// RefreshOptions controls a refresh.
type RefreshOptions struct {
	// Remote revalidates cached remote documents with conditional requests.
	Remote bool
}

// RefreshReport lists what a refresh changed.
type RefreshReport struct {
	Scan       *scanner.Report
	Revalidate *resolver.RevalidateReport
	Resolution *domain.ResolutionResult
}

// Refresh rescans the managed tree, optionally revalidates remote documents and
// resolves the imports of every local ontology, fetching the ones not indexed yet.
func (e *Environment) Refresh(ctx context.Context, opts RefreshOptions) (*RefreshReport, error) {
	scan, err := e.scanner.Scan(ctx, e.idx, scanner.Options{
		Root:        e.cfg.Root,
		Filter:      e.cfg.SourceFilter(),
		Concurrency: e.cfg.Concurrency,
		Ambiguity:   e.cfg.Ambiguity,
	})
	if err != nil {
		return nil, err
	}
	report := &RefreshReport{Scan: scan}

	if opts.Remote && !e.cfg.Fetch.Offline {
		report.Revalidate, err = e.resolver.Revalidate(ctx, e.idx, e.resolveOptions())
		if err != nil {
			return report, err
		}
	}

	report.Resolution, err = e.Resolve(ctx, e.localURIs())
	if err != nil {
		return report, err
	}

	e.logger.Debug(fmt.Sprintf("indexed %d ontologies (%d added, %d updated, %d removed)",
		e.idx.Len(), len(scan.Added), len(scan.Updated), len(scan.Removed)))
	return report, nil
}

func (e *Environment) localURIs() []domain.OntologyURI {
	var uris []domain.OntologyURI
	for _, rec := range e.idx.Snapshot().Records() {
		if rec.Location.IsLocal() {
			uris = append(uris, rec.URI)
		}
	}
	return uris
}

func (e *Environment) resolveOptions() resolver.Options {
	return resolver.Options{
		Concurrency: e.cfg.Concurrency,
		Deadline:    e.cfg.Deadline,
		Fetch:       e.cfg.Fetch,
		Strict:      e.cfg.Strict,
	}
}

// Resolve computes the import closure of roots. The roots are part of the closure.
// In strict mode unresolved imports are returned as a *domain.UnresolvedError next
// to the result.
func (e *Environment) Resolve(ctx context.Context, roots []domain.OntologyURI) (*domain.ResolutionResult, error) {
	return e.resolver.Resolve(ctx, e.idx, roots, e.resolveOptions())
}

// MergeOptions controls ResolveAndMerge.
type MergeOptions struct {
	// Depth limits the import levels merged; the graph's direct imports are level 1.
	// Zero or less merges the whole closure.
	Depth int
}

// ResolveAndMerge resolves the ontologies graph imports and adds their triples to graph.
// The graph's own ontologies seed nothing and are never merged into it again, so the
// closure holds only what the graph imports, directly or transitively.
func (e *Environment) ResolveAndMerge(ctx context.Context, graph *domain.TripleGraph, opts MergeOptions) (*domain.ResolutionResult, *merger.Report, error) {
	own := graph.Ontologies()
	var roots []domain.OntologyURI
	for _, imp := range graph.Imports() {
		if !slices.Contains(own, imp) {
			roots = append(roots, imp)
		}
	}

	result, err := e.Resolve(ctx, roots)
	if err != nil {
		return result, nil, err
	}
	report := e.merger.Merge(graph, e.idx.Snapshot(), result, merger.Options{
		Depth:   opts.Depth,
		Exclude: own,
	})
	return result, report, nil
}

// Locate returns where the ontology named uri is stored.
func (e *Environment) Locate(uri string) (domain.Location, error) {
	u, err := domain.NormalizeURI(uri)
	if err != nil {
		return domain.Location{}, err
	}
	rec, ok := e.idx.Get(u)
	if !ok {
		return domain.Location{}, &domain.NotFoundError{URI: u}
	}
	return rec.Location, nil
}

// Records returns every indexed record sorted by URI.
func (e *Environment) Records() []domain.OntologyRecord {
	return e.idx.Snapshot().Records()
}

// Roots returns the ontologies named by target: the ontologies a file declares when
// target is an existing file, the URI itself otherwise. An empty target selects every
// indexed ontology nothing imports.
func (e *Environment) Roots(target string) ([]domain.OntologyURI, error) {
	if target == "" {
		return e.idx.Snapshot().ImportGraph().Roots(), nil
	}

	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		path, err := filepath.Abs(target)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", target)
		}
		if uris := e.idx.Snapshot().ByPath(path); len(uris) > 0 {
			return uris, nil
		}
		doc, _, err := e.loader.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if len(doc.Declarations) == 0 {
			return nil, zerr.With(domain.ErrNoOntologyDeclared, "path", path)
		}
		roots := make([]domain.OntologyURI, len(doc.Declarations))
		for i, decl := range doc.Declarations {
			roots[i] = decl.URI
		}
		return roots, nil
	}

	uri, err := domain.NormalizeURI(target)
	if err != nil {
		return nil, err
	}
	return []domain.OntologyURI{uri}, nil
}

// DependencyTree resolves the ontologies named by target and returns their import trees.
func (e *Environment) DependencyTree(ctx context.Context, target string) ([]*tree.Node, *domain.ResolutionResult, error) {
	roots, err := e.Roots(target)
	if err != nil {
		return nil, nil, err
	}
	result, err := e.Resolve(ctx, roots)
	if err != nil {
		return nil, result, err
	}
	return tree.Build(result.Graph, roots, result.IsUnresolved), result, nil
}

// LoadGraph parses a local document into a triple graph.
func (e *Environment) LoadGraph(path string) (*domain.TripleGraph, error) {
	doc, _, err := e.loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Triples, nil
}

// Watch refreshes the environment whenever ontology files below the root change,
// until ctx is done. Bursts of changes are coalesced into one refresh. The index
// is saved after every refresh that changed it and onRefresh, if set, receives
// each outcome.
func (e *Environment) Watch(ctx context.Context, onRefresh func(*RefreshReport, error)) error {
	if err := e.watcher.Start(ctx, e.cfg.Root); err != nil {
		return err
	}
	defer func() { _ = e.watcher.Stop() }()

	var (
		mu   sync.Mutex
		done bool
	)
	debouncer := watcher.NewDebouncer(e.window, func(paths []string) {
		mu.Lock()
		defer mu.Unlock()
		if done {
			return
		}
		e.logger.Debug(fmt.Sprintf("%d files changed, refreshing", len(paths)))
		report, err := e.Refresh(ctx, RefreshOptions{})
		if err == nil {
			err = e.Save()
		}
		if err != nil {
			e.logger.Error(err)
		}
		if onRefresh != nil {
			onRefresh(report, err)
		}
	})

	e.logger.Info("watching " + e.cfg.Root)
	for event := range e.watcher.Events() {
		if e.relevant(event) {
			debouncer.Add(event.Path)
		}
	}

	debouncer.Stop()
	mu.Lock()
	done = true
	mu.Unlock()
	return nil
}

// relevant reports whether a change can affect the index. Removals and renames may
// concern directories holding ontologies, so they always count.
func (e *Environment) relevant(event ports.WatchEvent) bool {
	if event.Operation == ports.OpRemove || event.Operation == ports.OpRename {
		return true
	}
	ext := strings.ToLower(filepath.Ext(event.Path))
	for _, want := range e.cfg.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}
