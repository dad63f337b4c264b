package domain

import "github.com/google/uuid"

// ResolutionResult is the output of one import resolution.
type ResolutionResult struct {
	// ID correlates log lines and telemetry of a single resolution.
	ID    uuid.UUID
	Roots []OntologyURI
	// Closure lists every resolved URI reachable from the roots, each once, in pre-order.
	Closure []OntologyURI
	// Graph holds every edge discovered between visited nodes, unresolved targets included.
	Graph      *ImportGraph
	Unresolved []OntologyURI
	// Failures maps each unresolved URI to the error that left it unresolved.
	Failures map[OntologyURI]error
	Cycles   []*CycleNotice
	// Documents holds the documents parsed during this resolution, keyed by URI.
	Documents map[OntologyURI]*Document
}

// NewResolutionResult creates an empty result for roots.
func NewResolutionResult(roots []OntologyURI) *ResolutionResult {
	return &ResolutionResult{
		ID:        uuid.New(),
		Roots:     roots,
		Graph:     NewImportGraph(),
		Failures:  make(map[OntologyURI]error),
		Documents: make(map[OntologyURI]*Document),
	}
}

// IsUnresolved reports whether uri could not be resolved.
func (r *ResolutionResult) IsUnresolved(uri OntologyURI) bool {
	_, ok := r.Failures[uri]
	return ok
}

// InClosure reports whether uri is part of the closure.
func (r *ResolutionResult) InClosure(uri OntologyURI) bool {
	for _, u := range r.Closure {
		if u == uri {
			return true
		}
	}
	return false
}

// Err returns an UnresolvedError naming every unresolved URI, or nil when everything resolved.
func (r *ResolutionResult) Err() error {
	if len(r.Unresolved) == 0 {
		return nil
	}
	return &UnresolvedError{URIs: r.Unresolved}
}
