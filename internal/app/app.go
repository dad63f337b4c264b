// Package app implements the application layer for ontoenv.
package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/ontoenv/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports"
	"go.trai.ch/ontoenv/internal/engine/loader"
	"go.trai.ch/ontoenv/internal/engine/merger"
	"go.trai.ch/ontoenv/internal/engine/resolver"
	"go.trai.ch/ontoenv/internal/engine/scanner"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	store        ports.IndexStore
	cache        ports.DocumentCache
	parser       ports.Parser
	hasher       ports.Hasher
	sources      ports.SourceResolver
	fetcher      ports.Fetcher
	telemetry    ports.Telemetry
	watcher      ports.Watcher
	logger       ports.Logger
	now          func() time.Time
	window       time.Duration
}

// Dependencies groups the ports an App is built from.
type Dependencies struct {
	ConfigLoader ports.ConfigLoader
	Store        ports.IndexStore
	Cache        ports.DocumentCache
	Parser       ports.Parser
	Hasher       ports.Hasher
	Sources      ports.SourceResolver
	Fetcher      ports.Fetcher
	Telemetry    ports.Telemetry
	Watcher      ports.Watcher
	Logger       ports.Logger
}

// New creates a new App instance.
func New(deps Dependencies) *App {
	return &App{
		configLoader: deps.ConfigLoader,
		store:        deps.Store,
		cache:        deps.Cache,
		parser:       deps.Parser,
		hasher:       deps.Hasher,
		sources:      deps.Sources,
		fetcher:      deps.Fetcher,
		telemetry:    deps.Telemetry,
		watcher:      deps.Watcher,
		logger:       deps.Logger,
		now:          time.Now,
		window:       watcher.DefaultDebounceWindow,
	}
}

// WithClock replaces the clock used to timestamp records.
// This is primarily used for testing to get stable index files.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// WithDebounceWindow changes how long Watch waits for file changes to settle.
func (a *App) WithDebounceWindow(window time.Duration) *App {
	a.window = window
	return a
}

// LogSettings is implemented by loggers whose output can be reconfigured.
type LogSettings interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// ConfigureLogging switches the logger to JSON output or debug verbosity when it supports it.
func (a *App) ConfigureLogging(verbose, json bool) {
	if settings, ok := a.logger.(LogSettings); ok {
		settings.SetJSON(json)
		settings.SetVerbose(verbose)
	}
}

// Overrides are command line values that take precedence over the config file.
// Nil and zero fields leave the configured value alone.
type Overrides struct {
	Strict      *bool
	Offline     *bool
	Concurrency int
	Deadline    *time.Duration
}

func (o Overrides) apply(cfg *domain.Config) {
	if o.Strict != nil {
		cfg.Strict = *o.Strict
	}
	if o.Offline != nil {
		cfg.Fetch.Offline = *o.Offline
	}
	if o.Concurrency > 0 {
		cfg.Concurrency = o.Concurrency
	}
	if o.Deadline != nil {
		cfg.Deadline = *o.Deadline
	}
}

// OpenOptions selects the environment to open.
type OpenOptions struct {
	// Root is the managed directory. Empty means the nearest directory above the
	// working directory that holds an environment.
	Root string
	// IndexPath overrides the index location.
	IndexPath string
	// Create starts from an empty index when none exists yet.
	Create bool
	// Reset ignores any existing index.
	Reset     bool
	Overrides Overrides
}

// Open loads the environment of a managed root. A missing index fails with
// ErrNotInitialized unless opts.Create is set. A corrupt index is discarded with a
// warning and rebuilt from a full scan.
func (a *App) Open(ctx context.Context, opts OpenOptions) (*Environment, error) {
	root, err := a.findRoot(opts)
	if err != nil {
		return nil, err
	}

	cfg, err := a.configLoader.Load(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.IndexPath != "" {
		indexPath, err := filepath.Abs(opts.IndexPath)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrIndexReadFailed.Error()), "path", opts.IndexPath)
		}
		cfg.IndexPath = indexPath
	}
	opts.Overrides.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	env := a.newEnvironment(cfg)
	if opts.Reset {
		env.idx = domain.NewIndex()
		return env, nil
	}

	idx, err := a.store.Load(cfg.IndexPath)
	var corrupt *domain.IndexCorruptionError
	switch {
	case err == nil:
		env.idx = idx
	case errors.As(err, &corrupt):
		a.logger.Warn(corrupt.Error() + "; rebuilding it from a full scan")
		env.idx = domain.NewIndex()
		if _, err := env.Refresh(ctx, RefreshOptions{}); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
		if !opts.Create {
			return nil, zerr.With(domain.ErrNotInitialized, "root", root)
		}
		env.idx = domain.NewIndex()
	default:
		return nil, err
	}
	return env, nil
}

func (a *App) findRoot(opts OpenOptions) (string, error) {
	root := opts.Root
	if root == "" {
		if opts.Create {
			root = "."
		} else {
			discovered, err := a.configLoader.DiscoverRoot(".")
			if err != nil {
				return "", err
			}
			root = discovered
		}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrRootNotFound.Error()), "root", root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrRootNotFound.Error()), "root", abs)
	}
	if !info.IsDir() {
		return "", zerr.With(domain.ErrRootNotDirectory, "root", abs)
	}
	return abs, nil
}

func (a *App) newEnvironment(cfg domain.Config) *Environment {
	l := loader.New(a.parser, a.hasher, a.fetcher, a.cache, cfg.CachePath).WithClock(a.now)
	return &Environment{
		cfg:      cfg,
		store:    a.store,
		logger:   a.logger,
		watcher:  a.watcher,
		window:   a.window,
		loader:   l,
		scanner:  scanner.New(a.sources, l, a.logger),
		resolver: resolver.New(l, a.telemetry, a.logger),
		merger:   merger.New(l, a.logger),
	}
}
