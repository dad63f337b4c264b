// Package merger copies the triples of a resolved import closure into a graph.
package merger

import (
	"fmt"

	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports"
	"go.trai.ch/zerr"
)

// Target receives merged triples. *domain.TripleGraph satisfies it.
type Target interface {
	// Add inserts a triple and reports whether it was new.
	Add(t domain.Triple) bool
}

// DocumentSource loads the content an index record points at.
type DocumentSource interface {
	LoadRecord(rec domain.OntologyRecord) (*domain.Document, error)
}

// Options controls one merge.
type Options struct {
	// Depth limits the import levels merged. The roots are level 1; zero or less means no limit.
	Depth int
	// Exclude lists members that are never merged, such as the target's own ontology.
	Exclude []domain.OntologyURI
}

// Report describes a completed merge.
type Report struct {
	// Merged lists the members whose triples were copied, in closure order.
	Merged []domain.OntologyURI
	// Added counts triples that were new to the target.
	Added int
	// Failed maps members whose content could not be loaded to the cause.
	Failed map[domain.OntologyURI]error
}

// Merger copies closure members into a target graph.
type Merger struct {
	source DocumentSource
	logger ports.Logger
}

// New creates a Merger that reads members missing from a result through source.
func New(source DocumentSource, logger ports.Logger) *Merger {
	return &Merger{source: source, logger: logger}
}

// Merge adds the triples of every closure member to target. Documents parsed during the
// resolution are reused; other members are loaded through their index record in snap.
// Repeats are absorbed by the target's set semantics, so merging the same closure
// again adds nothing. The index is only read.
func (m *Merger) Merge(target Target, snap *domain.IndexSnapshot, result *domain.ResolutionResult, opts Options) *Report {
	report := &Report{Failed: make(map[domain.OntologyURI]error)}

	excluded := domain.NewURISet()
	for _, u := range opts.Exclude {
		excluded.Add(u)
	}
	depths := levels(result.Graph, result.Roots)

	for _, uri := range result.Closure {
		if excluded.Has(uri) {
			continue
		}
		if opts.Depth > 0 && depths[uri] > opts.Depth {
			continue
		}

		doc, err := m.document(snap, result, uri)
		if err != nil {
			report.Failed[uri] = err
			m.logger.Warn(fmt.Sprintf("merging %s: %v", uri, err))
			continue
		}
		report.Merged = append(report.Merged, uri)
		for _, t := range doc.Triples.Triples() {
			if target.Add(t) {
				report.Added++
			}
		}
	}

	m.logger.Debug(fmt.Sprintf("merged %d ontologies, %d new triples", len(report.Merged), report.Added))
	return report
}

func (m *Merger) document(snap *domain.IndexSnapshot, result *domain.ResolutionResult, uri domain.OntologyURI) (*domain.Document, error) {
	if doc, ok := result.Documents[uri]; ok && doc.Triples != nil {
		return doc, nil
	}
	rec, ok := snap.Get(uri)
	if !ok {
		return nil, &domain.NotFoundError{URI: uri}
	}
	doc, err := m.source.LoadRecord(rec)
	if err != nil {
		return nil, zerr.With(err, "location", rec.Location.String())
	}
	return doc, nil
}

// levels returns the breadth-first import level of every node reachable from roots,
// counting the roots as level 1.
func levels(g *domain.ImportGraph, roots []domain.OntologyURI) map[domain.OntologyURI]int {
	depth := make(map[domain.OntologyURI]int)
	var queue []domain.OntologyURI
	for _, root := range roots {
		if _, seen := depth[root]; seen {
			continue
		}
		depth[root] = 1
		queue = append(queue, root)
	}
	for len(queue) > 0 {
		uri := queue[0]
		queue = queue[1:]
		for _, imp := range g.Imports(uri) {
			if _, seen := depth[imp]; seen {
				continue
			}
			depth[imp] = depth[uri] + 1
			queue = append(queue, imp)
		}
	}
	return depth
}
