// Package config provides the configuration loader for ontoenv.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file inside the environment directory.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load returns the configuration for root. Without a config file the defaults apply.
func (l *Loader) Load(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig(root)
	path := domain.DefaultConfigPath(root)

	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the managed root
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file Configfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return cfg, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	if err := l.apply(&cfg, &file); err != nil {
		return cfg, zerr.With(err, "path", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, zerr.With(err, "path", path)
	}
	return cfg, nil
}

func (l *Loader) apply(cfg *domain.Config, file *Configfile) error {
	if len(file.Formats) > 0 {
		cfg.Extensions = normalizeExtensions(file.Formats)
	}
	if len(file.Include) > 0 {
		cfg.Include = file.Include
	}
	if len(file.Exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, file.Exclude...)
	}
	if file.Concurrency != nil {
		cfg.Concurrency = *file.Concurrency
	}
	if file.Strict != nil {
		cfg.Strict = *file.Strict
	}
	if file.Ambiguity != "" {
		cfg.Ambiguity = domain.AmbiguityPolicy(file.Ambiguity)
	}
	if file.Deadline != "" {
		d, err := time.ParseDuration(file.Deadline)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "deadline", file.Deadline)
		}
		cfg.Deadline = d
	}
	if file.Fetch != nil {
		if file.Fetch.Timeout != "" {
			d, err := time.ParseDuration(file.Fetch.Timeout)
			if err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "fetch.timeout", file.Fetch.Timeout)
			}
			cfg.Fetch.Timeout = d
		}
		if file.Fetch.Retries != nil {
			cfg.Fetch.Retries = *file.Fetch.Retries
		}
		if file.Fetch.Offline != nil {
			cfg.Fetch.Offline = *file.Fetch.Offline
		}
	}
	if file.Version != "" && file.Version != "1" {
		l.Logger.Warn("unknown config version " + file.Version + ", reading it as version 1")
	}
	return nil
}

// normalizeExtensions accepts "ttl", ".ttl" or "*.ttl".
func normalizeExtensions(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		f = strings.TrimPrefix(f, "*")
		if f == "" {
			continue
		}
		if !strings.HasPrefix(f, ".") {
			f = "." + f
		}
		out = append(out, f)
	}
	return out
}

// DiscoverRoot walks upward from cwd and returns the first directory containing
// an .ontoenv directory.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	current, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrRootNotFound.Error()), "cwd", cwd)
	}

	for {
		if info, err := os.Stat(domain.EnvDir(current)); err == nil && info.IsDir() {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", zerr.With(domain.ErrNotInitialized, "cwd", cwd)
		}
		current = parent
	}
}
