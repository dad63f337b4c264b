package domain

import (
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// OntologyURI is a normalized absolute URI identifying an ontology.
// It is the canonical key of the index and the import graph.
type OntologyURI string

// String returns the URI text.
func (u OntologyURI) String() string {
	return string(u)
}

// IsFile reports whether the URI uses the file scheme.
func (u OntologyURI) IsFile() bool {
	return strings.HasPrefix(string(u), "file:")
}

// IsHTTP reports whether the URI can be dereferenced over HTTP(S).
func (u OntologyURI) IsHTTP() bool {
	s := string(u)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// FilePath returns the local path of a file URI.
func (u OntologyURI) FilePath() (string, bool) {
	if !u.IsFile() {
		return "", false
	}
	parsed, err := url.Parse(string(u))
	if err != nil {
		return "", false
	}
	if parsed.Path != "" {
		return parsed.Path, true
	}
	return parsed.Opaque, parsed.Opaque != ""
}

// FileURI returns the file URI of a local path. Relative paths are made absolute.
func FileURI(path string) OntologyURI {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return OntologyURI(u.String())
}

// NormalizeURI converts raw text into an OntologyURI.
// Surrounding whitespace and angle brackets are stripped, the scheme and host are
// lower-cased and an empty trailing fragment is dropped. Relative references are rejected.
func NormalizeURI(raw string) (OntologyURI, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "<")
	s = strings.TrimSuffix(s, ">")
	if s == "" {
		return "", zerr.With(ErrInvalidURI, "uri", raw)
	}

	parsed, err := url.Parse(s)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, ErrInvalidURI.Error()), "uri", raw)
	}
	if parsed.Scheme == "" {
		return "", zerr.With(zerr.With(ErrInvalidURI, "uri", raw), "reason", "relative reference")
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	out := parsed.String()
	if strings.HasSuffix(out, "#") && parsed.Fragment == "" {
		out = strings.TrimSuffix(out, "#")
	}
	return OntologyURI(out), nil
}

// MustNormalizeURI is like NormalizeURI but panics on invalid input.
// It is intended for constants and tests.
func MustNormalizeURI(raw string) OntologyURI {
	u, err := NormalizeURI(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// URISet is an insertion-ordered set of URIs.
type URISet struct {
	order []OntologyURI
	index map[OntologyURI]struct{}
}

// NewURISet creates a set holding the given URIs in order, skipping repeats.
func NewURISet(uris ...OntologyURI) *URISet {
	s := &URISet{index: make(map[OntologyURI]struct{}, len(uris))}
	for _, u := range uris {
		s.Add(u)
	}
	return s
}

// Add inserts u and reports whether it was new.
func (s *URISet) Add(u OntologyURI) bool {
	if s.index == nil {
		s.index = make(map[OntologyURI]struct{})
	}
	if _, ok := s.index[u]; ok {
		return false
	}
	s.index[u] = struct{}{}
	s.order = append(s.order, u)
	return true
}

// Has reports whether u is in the set.
func (s *URISet) Has(u OntologyURI) bool {
	_, ok := s.index[u]
	return ok
}

// Len returns the number of members.
func (s *URISet) Len() int {
	return len(s.order)
}

// Slice returns the members in insertion order.
func (s *URISet) Slice() []OntologyURI {
	return slices.Clone(s.order)
}
