package app

import (
	"context"
	"errors"
	"os"

	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/engine/merger"
	"go.trai.ch/ontoenv/internal/engine/tree"
	"go.trai.ch/zerr"
)

// Init builds the index of a managed root from scratch, discarding any previous index,
// and resolves the remote imports of its ontologies.
func (a *App) Init(ctx context.Context, opts OpenOptions) (*RefreshReport, error) {
	opts.Create = true
	opts.Reset = true
	env, err := a.Open(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(domain.EnvDir(env.Root()), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrIndexWriteFailed.Error()), "root", env.Root())
	}

	report, err := env.Refresh(ctx, RefreshOptions{})
	if err == nil {
		// An empty tree still gets an index file, so later commands find the environment.
		err = a.store.Save(env.cfg.IndexPath, env.idx)
	}
	return report, a.finish(env, err)
}

// Refresh brings an existing index in line with the managed tree.
func (a *App) Refresh(ctx context.Context, opts OpenOptions, refresh RefreshOptions) (*RefreshReport, error) {
	env, err := a.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	report, err := env.Refresh(ctx, refresh)
	return report, a.finish(env, err)
}

// Dump returns every indexed record sorted by URI.
func (a *App) Dump(ctx context.Context, opts OpenOptions) ([]domain.OntologyRecord, error) {
	env, err := a.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	return env.Records(), a.finish(env, nil)
}

// Locate returns where the ontology named uri is stored.
func (a *App) Locate(ctx context.Context, opts OpenOptions, uri string) (domain.Location, error) {
	env, err := a.Open(ctx, opts)
	if err != nil {
		return domain.Location{}, err
	}
	loc, err := env.Locate(uri)
	if finishErr := a.finish(env, nil); finishErr != nil {
		return loc, finishErr
	}
	return loc, err
}

// Deps returns the dependency trees of the ontologies named by target, or of every
// ontology nothing imports when target is empty.
func (a *App) Deps(ctx context.Context, opts OpenOptions, target string) ([]*tree.Node, error) {
	env, err := a.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	forest, _, err := env.DependencyTree(ctx, target)
	return forest, a.finish(env, err)
}

// MergeOutcome is the result of merging a document with its imports.
type MergeOutcome struct {
	Graph      *domain.TripleGraph
	Resolution *domain.ResolutionResult
	Report     *merger.Report
}

// Merge parses the document at path and adds the triples of everything it imports.
func (a *App) Merge(ctx context.Context, opts OpenOptions, path string, merge MergeOptions) (*MergeOutcome, error) {
	env, err := a.Open(ctx, opts)
	if err != nil {
		return nil, err
	}

	graph, err := env.LoadGraph(path)
	if err != nil {
		return nil, a.finish(env, err)
	}
	result, report, err := env.ResolveAndMerge(ctx, graph, merge)
	return &MergeOutcome{Graph: graph, Resolution: result, Report: report}, a.finish(env, err)
}

// Watch refreshes the environment once, then again whenever files change, until ctx is done.
func (a *App) Watch(ctx context.Context, opts OpenOptions, onRefresh func(*RefreshReport, error)) error {
	env, err := a.Open(ctx, opts)
	if err != nil {
		return err
	}

	report, err := env.Refresh(ctx, RefreshOptions{})
	if err == nil {
		err = env.Save()
	}
	if onRefresh != nil {
		onRefresh(report, err)
	}
	if err != nil {
		return a.finish(env, err)
	}

	return a.finish(env, env.Watch(ctx, onRefresh))
}

// finish persists the index whenever it changed, even after a failed operation, since
// every record in it is complete, and closes the telemetry session.
func (a *App) finish(env *Environment, opErr error) error {
	saveErr := env.Save()
	closeErr := a.telemetry.Close()
	return errors.Join(opErr, saveErr, closeErr)
}
