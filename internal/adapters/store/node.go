package store

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ontoenv/internal/core/ports"
)

const (
	// IndexStoreNodeID is the unique identifier for the index store Graft node.
	IndexStoreNodeID graft.ID = "adapter.store.index"
	// DocumentCacheNodeID is the unique identifier for the document cache Graft node.
	DocumentCacheNodeID graft.ID = "adapter.store.documents"
)

func init() {
	graft.Register(graft.Node[ports.IndexStore]{
		ID:        IndexStoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.IndexStore, error) {
			return NewIndexStore(), nil
		},
	})

	graft.Register(graft.Node[ports.DocumentCache]{
		ID:        DocumentCacheNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DocumentCache, error) {
			return NewDocumentCache(), nil
		},
	})
}
