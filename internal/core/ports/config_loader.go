package ports

import "go.trai.ch/ontoenv/internal/core/domain"

// ConfigLoader defines the interface for loading the environment configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load returns the configuration of the environment rooted at root,
	// falling back to defaults when no config file exists.
	Load(root string) (domain.Config, error)

	// DiscoverRoot walks upward from cwd to the nearest directory holding an environment.
	DiscoverRoot(cwd string) (string, error)
}
