// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/ontoenv/internal/adapters/config"
	_ "go.trai.ch/ontoenv/internal/adapters/fs"
	_ "go.trai.ch/ontoenv/internal/adapters/logger"
	_ "go.trai.ch/ontoenv/internal/adapters/rdf"
	_ "go.trai.ch/ontoenv/internal/adapters/remote"
	_ "go.trai.ch/ontoenv/internal/adapters/store"
	_ "go.trai.ch/ontoenv/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/ontoenv/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/ontoenv/internal/app"
)
