package remote

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/ontoenv/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the remote fetcher Graft node.
	NodeID graft.ID = "adapter.remote"
	// MetricsNodeID is the unique identifier for the fetch metrics Graft node.
	MetricsNodeID graft.ID = "adapter.remote.metrics"
)

func init() {
	graft.Register(graft.Node[*Metrics]{
		ID:        MetricsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Metrics, error) {
			return NewMetrics(prometheus.NewRegistry()), nil
		},
	})

	graft.Register(graft.Node[ports.Fetcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{MetricsNodeID},
		Run: func(ctx context.Context) (ports.Fetcher, error) {
			metrics, err := graft.Dep[*Metrics](ctx)
			if err != nil {
				return nil, err
			}
			return NewFetcher(WithMetrics(metrics)), nil
		},
	})
}
