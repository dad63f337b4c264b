package domain

import "slices"

// SourceFile remembers every declaration of a local file as of its last parse.
// Declarations that lost to another file under the last-wins policy are kept here
// even though the index holds no record for them.
type SourceFile struct {
	Path         string        `json:"path"`
	Format       Format        `json:"format"`
	Fingerprint  string        `json:"fingerprint"`
	Declarations []Declaration `json:"declarations"`
}

// NewSourceFile describes a parsed local document.
func NewSourceFile(path string, doc *Document, fingerprint string) SourceFile {
	return SourceFile{
		Path:         path,
		Format:       doc.Format,
		Fingerprint:  fingerprint,
		Declarations: slices.Clone(doc.Declarations),
	}
}

// Declares returns the declared ontology URIs in document order.
func (s SourceFile) Declares() []OntologyURI {
	out := make([]OntologyURI, len(s.Declarations))
	for i, decl := range s.Declarations {
		out[i] = decl.URI
	}
	return out
}

// Equal reports whether both entries describe the same file content.
func (s SourceFile) Equal(other SourceFile) bool {
	return s.Path == other.Path &&
		s.Format == other.Format &&
		s.Fingerprint == other.Fingerprint &&
		slices.EqualFunc(s.Declarations, other.Declarations, func(a, b Declaration) bool {
			return a.URI == b.URI && slices.Equal(a.Imports, b.Imports)
		})
}

// Clone returns a deep copy of the entry.
func (s SourceFile) Clone() SourceFile {
	if s.Declarations == nil {
		return s
	}
	decls := make([]Declaration, len(s.Declarations))
	for i, decl := range s.Declarations {
		decls[i] = Declaration{URI: decl.URI, Imports: slices.Clone(decl.Imports)}
	}
	s.Declarations = decls
	return s
}
