package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ontoenv/internal/adapters/config"                       //nolint:depguard // Wired in app layer
	"go.trai.ch/ontoenv/internal/adapters/fs"                           //nolint:depguard // Wired in app layer
	"go.trai.ch/ontoenv/internal/adapters/logger"                       //nolint:depguard // Wired in app layer
	"go.trai.ch/ontoenv/internal/adapters/rdf"                          //nolint:depguard // Wired in app layer
	"go.trai.ch/ontoenv/internal/adapters/remote"                       //nolint:depguard // Wired in app layer
	"go.trai.ch/ontoenv/internal/adapters/store"                        //nolint:depguard // Wired in app layer
	telemetry "go.trai.ch/ontoenv/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/ontoenv/internal/adapters/watcher"                      //nolint:depguard // Wired in app layer
	"go.trai.ch/ontoenv/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			store.IndexStoreNodeID,
			store.DocumentCacheNodeID,
			rdf.NodeID,
			fs.HasherNodeID,
			fs.ResolverNodeID,
			remote.NodeID,
			telemetry.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	var (
		deps Dependencies
		err  error
	)

	if deps.ConfigLoader, err = graft.Dep[ports.ConfigLoader](ctx); err != nil {
		return nil, err
	}
	if deps.Store, err = graft.Dep[ports.IndexStore](ctx); err != nil {
		return nil, err
	}
	if deps.Cache, err = graft.Dep[ports.DocumentCache](ctx); err != nil {
		return nil, err
	}
	if deps.Parser, err = graft.Dep[ports.Parser](ctx); err != nil {
		return nil, err
	}
	if deps.Hasher, err = graft.Dep[ports.Hasher](ctx); err != nil {
		return nil, err
	}
	if deps.Sources, err = graft.Dep[ports.SourceResolver](ctx); err != nil {
		return nil, err
	}
	if deps.Fetcher, err = graft.Dep[ports.Fetcher](ctx); err != nil {
		return nil, err
	}
	if deps.Telemetry, err = graft.Dep[ports.Telemetry](ctx); err != nil {
		return nil, err
	}
	if deps.Watcher, err = graft.Dep[ports.Watcher](ctx); err != nil {
		return nil, err
	}
	if deps.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
		return nil, err
	}

	return New(deps), nil
}
