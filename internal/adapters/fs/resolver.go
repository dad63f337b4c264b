package fs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/ontoenv/internal/core/domain"
	"go.trai.ch/ontoenv/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceResolver = (*Resolver)(nil)

// Resolver enumerates ontology files below a root using doublestar globs.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// ResolveSources returns the files under root that have a recognized extension, match an
// include glob (when any is given) and match no exclude glob. Globs are evaluated against
// slash-separated paths relative to root. The result is sorted.
func (r *Resolver) ResolveSources(root string, filter domain.SourceFilter) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRootNotFound.Error()), "root", root)
	}
	if !info.IsDir() {
		return nil, zerr.With(domain.ErrRootNotDirectory, "root", root)
	}

	for _, pattern := range slices.Concat(filter.Include, filter.Exclude) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, zerr.With(zerr.With(domain.ErrInvalidConfig, "glob", pattern), "root", root)
		}
	}

	extensions := make(map[string]bool, len(filter.Extensions))
	for _, ext := range filter.Extensions {
		extensions[strings.ToLower(ext)] = true
	}

	skipDir := func(path string) bool {
		rel, ok := relSlash(root, path)
		return ok && excludesDir(filter.Exclude, rel)
	}

	var files []string
	for path := range r.walker.WalkFiles(root, skipDir) {
		if !extensions[strings.ToLower(filepath.Ext(path))] {
			continue
		}
		rel, ok := relSlash(root, path)
		if !ok {
			continue
		}
		if len(filter.Include) > 0 && !matchAny(filter.Include, rel) {
			continue
		}
		if matchAny(filter.Exclude, rel) {
			continue
		}
		files = append(files, path)
	}

	slices.Sort(files)
	return files, nil
}

func relSlash(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// excludesDir reports whether a "dir/**" style exclude covers the whole directory rel.
func excludesDir(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		prefix, ok := strings.CutSuffix(pattern, "/**")
		if !ok {
			continue
		}
		if matched, _ := doublestar.Match(prefix, rel); matched {
			return true
		}
	}
	return false
}
