package domain

import (
	"fmt"
	"strings"
)

// ParseError reports a document that could not be decoded as RDF.
// The affected file or URI is skipped.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError reports a URI that is absent from the index and could not be fetched.
type NotFoundError struct {
	URI      OntologyURI
	Importer OntologyURI
	Err      error
}

func (e *NotFoundError) Error() string {
	msg := "ontology not found: " + e.URI.String()
	if e.Importer != "" {
		msg += " (imported by " + e.Importer.String() + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// FetchError reports a failed retrieval of a remote ontology document.
type FetchError struct {
	URI      OntologyURI
	Importer OntologyURI
	Status   int
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	b.WriteString("fetch ")
	b.WriteString(e.URI.String())
	if e.Importer != "" {
		b.WriteString(" (imported by ")
		b.WriteString(e.Importer.String())
		b.WriteString(")")
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Attempts > 1 {
		fmt.Fprintf(&b, " after %d attempts", e.Attempts)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FetchError) Unwrap() error { return e.Err }

// CycleNotice records an import cycle. It is informational and never aborts a resolution.
type CycleNotice struct {
	// Path starts and ends with the same URI.
	Path []OntologyURI
}

func (e *CycleNotice) Error() string {
	parts := make([]string, len(e.Path))
	for i, u := range e.Path {
		parts[i] = u.String()
	}
	return "import cycle: " + strings.Join(parts, " -> ")
}

// IndexCorruptionError reports a persisted index that could not be decoded.
// Callers recover by discarding the index and rescanning.
type IndexCorruptionError struct {
	Path string
	Err  error
}

func (e *IndexCorruptionError) Error() string {
	return fmt.Sprintf("corrupt ontology index %s: %v", e.Path, e.Err)
}

func (e *IndexCorruptionError) Unwrap() error { return e.Err }

// AmbiguousOntologyError reports several local files declaring the same ontology URI.
type AmbiguousOntologyError struct {
	URI   OntologyURI
	Paths []string
}

func (e *AmbiguousOntologyError) Error() string {
	return fmt.Sprintf("ontology %s declared by multiple files: %s", e.URI, strings.Join(e.Paths, ", "))
}

// UnresolvedError is returned in strict mode when a resolution leaves URIs unresolved.
type UnresolvedError struct {
	URIs []OntologyURI
}

func (e *UnresolvedError) Error() string {
	parts := make([]string, len(e.URIs))
	for i, u := range e.URIs {
		parts[i] = u.String()
	}
	return "unresolved imports: " + strings.Join(parts, ", ")
}
