package resolver

import (
	"context"
	"fmt"

	"go.trai.ch/ontoenv/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// RevalidateReport lists the outcome of revalidating remote records.
type RevalidateReport struct {
	Unchanged []domain.OntologyURI
	Updated   []domain.OntologyURI
	Failed    map[domain.OntologyURI]error
}

// Revalidate asks the origin of every remote record whether its document changed,
// using the stored validators. Changed documents replace their records and drop cache
// entries nothing reads any more; failures keep the existing record and are reported.
func (r *Resolver) Revalidate(ctx context.Context, idx *domain.Index, opts Options) (*RevalidateReport, error) {
	var remote []domain.OntologyRecord
	for _, rec := range idx.Snapshot().Records() {
		if !rec.Location.IsLocal() {
			remote = append(remote, rec)
		}
	}

	type outcome struct {
		prev    domain.OntologyRecord
		rec     domain.OntologyRecord
		changed bool
		err     error
	}
	outcomes := make([]outcome, len(remote))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))
	for i, prev := range remote {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, vertex := r.telemetry.Record(gctx, prev.URI.String())
			retrieval, err := r.loader.Fetch(gctx, domain.FetchRequest{
				URI:        prev.URI,
				Timeout:    opts.Fetch.Timeout,
				MaxRetries: opts.Fetch.Retries,
			}, &prev)
			switch {
			case err != nil:
				outcomes[i] = outcome{rec: prev, err: err}
			case retrieval.NotModified:
				vertex.Cached()
				outcomes[i] = outcome{rec: prev}
			default:
				outcomes[i] = outcome{prev: prev, rec: retrieval.Record, changed: true}
			}
			vertex.Complete(err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &RevalidateReport{Failed: make(map[domain.OntologyURI]error)}
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			r.logger.Warn(fmt.Sprintf("revalidating %s: %v", o.rec.URI, o.err))
			report.Failed[o.rec.URI] = o.err
		case o.changed && idx.Upsert(o.rec):
			if err := r.loader.ReplaceCached(o.prev, o.rec); err != nil {
				r.logger.Warn(fmt.Sprintf("removing stale cache entry of %s: %v", o.rec.URI, err))
			}
			report.Updated = append(report.Updated, o.rec.URI)
		default:
			report.Unchanged = append(report.Unchanged, o.rec.URI)
		}
	}
	return report, nil
}
