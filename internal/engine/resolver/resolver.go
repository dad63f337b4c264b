// Package resolver computes the transitive import closure of ontologies.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports"
	"go.trai.ch/ontoenv/internal/engine/loader"
	"go.trai.ch/zerr"
)

// Options controls one resolution.
type Options struct {
	Concurrency int
	// Deadline bounds the whole resolution. Zero means no deadline.
	Deadline time.Duration
	Fetch    domain.FetchConfig
	// Strict turns a non-empty unresolved set into an error.
	Strict bool
}

// Resolver expands imports through the index, loading file: URIs from disk and
// fetching unknown remote URIs on demand.
type Resolver struct {
	loader    *loader.Loader
	telemetry ports.Telemetry
	logger    ports.Logger
}

// New creates a Resolver.
func New(l *loader.Loader, telemetry ports.Telemetry, logger ports.Logger) *Resolver {
	return &Resolver{loader: l, telemetry: telemetry, logger: logger}
}

type pending struct {
	uri      domain.OntologyURI
	importer domain.OntologyURI
}

type expansion struct {
	uri     domain.OntologyURI
	imports []domain.OntologyURI
	doc     *domain.Document
	status  domain.ResolutionStatus
	err     error
}

// Resolve walks the imports reachable from roots. Every URI is claimed by exactly one
// worker, so it is looked up, loaded or fetched at most once per call no matter how many
// importers reach it. Records discovered on the way are upserted into idx fully formed.
//
// Per-URI failures end up in the result's unresolved set and never stop sibling branches.
// When the deadline passes, URIs not yet expanded are reported unresolved and the partial
// result is returned. In strict mode a non-empty unresolved set is returned as an error
// alongside the result.
func (r *Resolver) Resolve(ctx context.Context, idx *domain.Index, roots []domain.OntologyURI, opts Options) (*domain.ResolutionResult, error) {
	runCtx := ctx
	if opts.Deadline > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Deadline)
		defer cancel()
	}

	state := r.newRunState(runCtx, idx, roots, opts)
	state.run()

	result := state.result()
	if err := ctx.Err(); err != nil {
		return result, err
	}
	for _, uri := range result.Unresolved {
		r.logger.Warn(fmt.Sprintf("unresolved %s: %v", uri, result.Failures[uri]))
	}
	if opts.Strict {
		return result, result.Err()
	}
	return result, nil
}

type runState struct {
	r       *Resolver
	ctx     context.Context
	idx     *domain.Index
	opts    Options
	roots   []domain.OntologyURI
	limit   int
	queue   []pending
	claimed map[domain.OntologyURI]bool
	active  int
	results chan expansion

	imports   map[domain.OntologyURI][]domain.OntologyURI
	failures  map[domain.OntologyURI]error
	documents map[domain.OntologyURI]*domain.Document
}

func (r *Resolver) newRunState(ctx context.Context, idx *domain.Index, roots []domain.OntologyURI, opts Options) *runState {
	limit := opts.Concurrency
	if limit < 1 {
		limit = runtime.NumCPU()
	}
	state := &runState{
		r:         r,
		ctx:       ctx,
		idx:       idx,
		opts:      opts,
		roots:     roots,
		limit:     limit,
		claimed:   make(map[domain.OntologyURI]bool),
		results:   make(chan expansion, limit),
		imports:   make(map[domain.OntologyURI][]domain.OntologyURI),
		failures:  make(map[domain.OntologyURI]error),
		documents: make(map[domain.OntologyURI]*domain.Document),
	}
	for _, root := range roots {
		state.queue = append(state.queue, pending{uri: root})
	}
	return state
}

// run is the coordinator loop. Only this goroutine touches the claim table.
func (state *runState) run() {
	for {
		state.schedule()
		if state.active == 0 && (len(state.queue) == 0 || state.ctx.Err() != nil) {
			break
		}
		select {
		case res := <-state.results:
			state.handle(res)
		case <-state.ctx.Done():
			if state.active > 0 {
				state.handle(<-state.results)
			}
		}
	}

	// Whatever is still queued was never expanded.
	for _, p := range state.queue {
		if state.claimed[p.uri] {
			continue
		}
		state.claimed[p.uri] = true
		state.failures[p.uri] = zerr.With(domain.ErrResolutionDeadline, "uri", p.uri.String())
	}
	state.queue = nil
}

func (state *runState) schedule() {
	for len(state.queue) > 0 && state.active < state.limit && state.ctx.Err() == nil {
		next := state.queue[0]
		state.queue = state.queue[1:]
		if state.claimed[next.uri] {
			continue
		}
		state.claimed[next.uri] = true
		state.active++

		go func(p pending) {
			state.results <- state.r.expand(state.ctx, state.idx, p, state.opts)
		}(next)
	}
}

func (state *runState) handle(res expansion) {
	state.active--
	if res.err != nil {
		if state.ctx.Err() != nil && !isTerminal(res.err) {
			res.err = zerr.With(zerr.Wrap(res.err, domain.ErrResolutionDeadline.Error()), "uri", res.uri.String())
		}
		state.failures[res.uri] = res.err
		return
	}

	state.imports[res.uri] = res.imports
	if res.doc != nil {
		state.documents[res.uri] = res.doc
	}
	for _, imp := range res.imports {
		if !state.claimed[imp] {
			state.queue = append(state.queue, pending{uri: imp, importer: res.uri})
		}
	}
}

// result assembles the ResolutionResult. The graph is rebuilt from the roots in
// declaration order, so node ids and edge order do not depend on worker timing.
func (state *runState) result() *domain.ResolutionResult {
	result := domain.NewResolutionResult(state.roots)
	result.Graph = buildGraph(state.roots, state.imports)
	order, cycles := result.Graph.PreOrder(state.roots)
	result.Cycles = cycles

	for _, uri := range order {
		if err, failed := state.failures[uri]; failed {
			result.Unresolved = append(result.Unresolved, uri)
			result.Failures[uri] = err
			continue
		}
		result.Closure = append(result.Closure, uri)
		if doc, ok := state.documents[uri]; ok {
			result.Documents[uri] = doc
		}
	}
	return result
}

// buildGraph adds nodes depth-first from the roots, children in declaration order.
func buildGraph(roots []domain.OntologyURI, imports map[domain.OntologyURI][]domain.OntologyURI) *domain.ImportGraph {
	g := domain.NewImportGraph()
	seen := make(map[domain.OntologyURI]bool)
	stack := make([]domain.OntologyURI, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		uri := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[uri] {
			continue
		}
		seen[uri] = true
		g.AddNode(uri)

		children := imports[uri]
		for _, child := range children {
			g.AddEdge(uri, child)
		}
		for i := len(children) - 1; i >= 0; i-- {
			if !seen[children[i]] {
				stack = append(stack, children[i])
			}
		}
	}
	return g
}

// isTerminal reports errors that do not depend on timing and are kept as they are.
func isTerminal(err error) bool {
	var parseErr *domain.ParseError
	var notFound *domain.NotFoundError
	return errors.As(err, &parseErr) || errors.As(err, &notFound)
}
