package domain

import (
	"runtime"
	"time"

	"go.trai.ch/zerr"
)

// AmbiguityPolicy decides what happens when several local files declare the same ontology.
type AmbiguityPolicy string

const (
	// AmbiguityLastWins keeps the file that sorts last by path and warns about the others.
	AmbiguityLastWins AmbiguityPolicy = "last-wins"
	// AmbiguityError fails the scan.
	AmbiguityError AmbiguityPolicy = "error"
)

// FetchConfig controls remote retrieval.
type FetchConfig struct {
	Timeout time.Duration
	Retries int
	Offline bool
}

// Config is the effective configuration of an environment.
type Config struct {
	Root       string
	IndexPath  string
	CachePath  string
	Extensions []string
	Include    []string
	Exclude    []string
	// Concurrency bounds the number of documents parsed or fetched at once.
	Concurrency int
	Fetch       FetchConfig
	// Deadline bounds a whole resolution. Zero means no deadline.
	Deadline  time.Duration
	Strict    bool
	Ambiguity AmbiguityPolicy
}

const (
	// DefaultFetchTimeout is the per-request timeout of remote fetches.
	DefaultFetchTimeout = 30 * time.Second
	// DefaultFetchRetries is the number of retries after a transient fetch failure.
	DefaultFetchRetries = 3
)

// DefaultExcludes are globs, relative to the root, never scanned.
var DefaultExcludes = []string{".ontoenv/**", ".git/**", ".jj/**", "node_modules/**"}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig(root string) Config {
	return Config{
		Root:        root,
		IndexPath:   DefaultIndexPath(root),
		CachePath:   DefaultCachePath(root),
		Extensions:  append([]string(nil), DefaultExtensions...),
		Exclude:     append([]string(nil), DefaultExcludes...),
		Concurrency: runtime.NumCPU(),
		Fetch: FetchConfig{
			Timeout: DefaultFetchTimeout,
			Retries: DefaultFetchRetries,
		},
		Ambiguity: AmbiguityLastWins,
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Concurrency < 1 {
		return zerr.With(ErrInvalidConfig, "concurrency", c.Concurrency)
	}
	if c.Fetch.Retries < 0 {
		return zerr.With(ErrInvalidConfig, "fetch.retries", c.Fetch.Retries)
	}
	if c.Fetch.Timeout < 0 {
		return zerr.With(ErrInvalidConfig, "fetch.timeout", c.Fetch.Timeout)
	}
	if c.Deadline < 0 {
		return zerr.With(ErrInvalidConfig, "deadline", c.Deadline)
	}
	switch c.Ambiguity {
	case AmbiguityLastWins, AmbiguityError:
	default:
		return zerr.With(ErrInvalidConfig, "ambiguity", string(c.Ambiguity))
	}
	return nil
}

// SourceFilter selects the files of the managed tree that are scanned.
type SourceFilter struct {
	Extensions []string
	// Include and Exclude are doublestar globs relative to the root.
	// An empty Include selects everything.
	Include []string
	Exclude []string
}

// SourceFilter returns the scan filter of the configuration.
func (c Config) SourceFilter() SourceFilter {
	return SourceFilter{Extensions: c.Extensions, Include: c.Include, Exclude: c.Exclude}
}
