package resolver

import (
	"context"

	"go.trai.ch/ontoenv/internal/core/domain"
)

// expand resolves a single URI: from the index when it is known, from disk for file:
// URIs, and from the network otherwise.
func (r *Resolver) expand(ctx context.Context, idx *domain.Index, p pending, opts Options) expansion {
	ctx, vertex := r.telemetry.Record(ctx, p.uri.String())

	if rec, ok := idx.Get(p.uri); ok {
		vertex.Cached()
		vertex.Complete(nil)
		return expansion{uri: p.uri, imports: rec.DirectImports, status: domain.StatusCached}
	}

	var res expansion
	switch {
	case p.uri.IsFile():
		res = r.expandFile(idx, p)
	case !p.uri.IsHTTP():
		res = expansion{uri: p.uri, err: &domain.NotFoundError{URI: p.uri, Importer: p.importer}}
	case opts.Fetch.Offline:
		res = expansion{uri: p.uri, err: &domain.NotFoundError{URI: p.uri, Importer: p.importer, Err: domain.ErrOfflineMode}}
	default:
		res = r.expandRemote(ctx, idx, p, opts)
	}

	if res.err != nil {
		res.status = domain.StatusFailed
	}
	vertex.Log(domain.LogLevelDebug, string(res.status))
	vertex.Complete(res.err)
	return res
}

func (r *Resolver) expandFile(idx *domain.Index, p pending) expansion {
	path, ok := p.uri.FilePath()
	if !ok {
		return expansion{uri: p.uri, err: &domain.NotFoundError{URI: p.uri, Importer: p.importer}}
	}

	doc, fingerprint, err := r.loader.LoadFile(path)
	if err != nil {
		return expansion{uri: p.uri, err: &domain.NotFoundError{URI: p.uri, Importer: p.importer, Err: err}}
	}

	rec := domain.OntologyRecord{
		URI:           p.uri,
		Location:      domain.Local(path),
		Format:        doc.Format,
		Fingerprint:   fingerprint,
		DirectImports: doc.ImportsFor(p.uri),
		ResolvedAt:    r.loader.Now(),
	}
	idx.Upsert(rec)
	return expansion{uri: p.uri, imports: rec.DirectImports, doc: doc, status: domain.StatusLoaded}
}

func (r *Resolver) expandRemote(ctx context.Context, idx *domain.Index, p pending, opts Options) expansion {
	retrieval, err := r.loader.Fetch(ctx, domain.FetchRequest{
		URI:        p.uri,
		Importer:   p.importer,
		Timeout:    opts.Fetch.Timeout,
		MaxRetries: opts.Fetch.Retries,
	}, nil)
	if err != nil {
		return expansion{uri: p.uri, err: err}
	}

	idx.Upsert(retrieval.Record)
	return expansion{
		uri:     p.uri,
		imports: retrieval.Record.DirectImports,
		doc:     retrieval.Document,
		status:  domain.StatusFetched,
	}
}
