package domain

import (
	"slices"
	"time"
)

// LocationKind tells whether an ontology lives in the managed tree or on the network.
type LocationKind string

const (
	// LocationLocal is a file under the managed root.
	LocationLocal LocationKind = "local"
	// LocationRemote is a document fetched over the network and cached locally.
	LocationRemote LocationKind = "remote"
)

// Location describes where an ontology's content can be read.
type Location struct {
	Kind LocationKind `json:"kind"`
	// Path is set for local locations.
	Path string `json:"path,omitempty"`
	// URL is set for remote locations.
	URL string `json:"url,omitempty"`
	// CachePath is the cached copy of a remote document, relative to the cache directory.
	CachePath string `json:"cachePath,omitempty"`
}

// Local creates a local location.
func Local(path string) Location {
	return Location{Kind: LocationLocal, Path: path}
}

// Remote creates a remote location.
func Remote(url, cachePath string) Location {
	return Location{Kind: LocationRemote, URL: url, CachePath: cachePath}
}

// IsLocal reports whether the location is a file in the managed tree.
func (l Location) IsLocal() bool {
	return l.Kind == LocationLocal
}

// String returns the path for local locations and the URL for remote ones.
func (l Location) String() string {
	if l.Kind == LocationLocal {
		return l.Path
	}
	return l.URL
}

// Validators carries HTTP cache validators of a remote document.
type Validators struct {
	ETag         string `json:"etag,omitempty"`
	LastModified string `json:"lastModified,omitempty"`
}

// IsZero reports whether no validator is present.
func (v Validators) IsZero() bool {
	return v.ETag == "" && v.LastModified == ""
}

// OntologyRecord is the index entry of one ontology.
type OntologyRecord struct {
	URI      OntologyURI `json:"uri"`
	Location Location    `json:"location"`
	Format   Format      `json:"format"`
	// Fingerprint is a content hash for local files and the ETag, Last-Modified or
	// content hash for remote documents.
	Fingerprint   string        `json:"fingerprint"`
	Validators    Validators    `json:"validators,omitzero"`
	DirectImports []OntologyURI `json:"directImports"`
	ResolvedAt    time.Time     `json:"resolvedAt"`
}

// SameContent reports whether two records describe the same content and edges,
// ignoring the resolution timestamp.
func (r OntologyRecord) SameContent(other OntologyRecord) bool {
	return r.URI == other.URI &&
		r.Location == other.Location &&
		r.Format == other.Format &&
		r.Fingerprint == other.Fingerprint &&
		r.Validators == other.Validators &&
		slices.Equal(r.DirectImports, other.DirectImports)
}

// Clone returns a deep copy of the record.
func (r OntologyRecord) Clone() OntologyRecord {
	r.DirectImports = slices.Clone(r.DirectImports)
	return r
}
