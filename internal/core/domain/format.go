package domain

import (
	"mime"
	"path"
	"strings"
)

// Format identifies an RDF serialization syntax.
type Format string

const (
	// FormatUnknown means the syntax could not be determined.
	FormatUnknown Format = ""
	// FormatTurtle is Turtle (also used for simple N3 documents).
	FormatTurtle Format = "turtle"
	// FormatNTriples is line-based N-Triples.
	FormatNTriples Format = "ntriples"
	// FormatRDFXML is RDF/XML.
	FormatRDFXML Format = "rdfxml"
)

// FormatInfo provides metadata about a serialization format.
type FormatInfo struct {
	Name Format
	// Extension is the canonical file extension used for cached documents.
	Extension  string
	MediaTypes []string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:       FormatTurtle,
		Extension:  ".ttl",
		MediaTypes: []string{"text/turtle", "application/x-turtle", "text/n3", "text/rdf+n3"},
	},
	FormatNTriples: {
		Name:       FormatNTriples,
		Extension:  ".nt",
		MediaTypes: []string{"application/n-triples"},
	},
	FormatRDFXML: {
		Name:       FormatRDFXML,
		Extension:  ".rdf",
		MediaTypes: []string{"application/rdf+xml", "application/xml", "text/xml"},
	},
}

var extensionFormats = map[string]Format{
	".ttl":      FormatTurtle,
	".turtle":   FormatTurtle,
	".n3":       FormatTurtle,
	".nt":       FormatNTriples,
	".ntriples": FormatNTriples,
	".rdf":      FormatRDFXML,
	".owl":      FormatRDFXML,
	".xml":      FormatRDFXML,
}

// DefaultExtensions lists the file extensions scanned when no config overrides them.
var DefaultExtensions = []string{".ttl", ".rdf", ".owl", ".n3", ".nt", ".ntriples", ".xml"}

// FormatFromExtension guesses the syntax from a file name or URL path.
func FormatFromExtension(name string) Format {
	ext := strings.ToLower(path.Ext(name))
	return extensionFormats[ext]
}

// FormatFromMediaType maps a Content-Type header value to a syntax.
func FormatFromMediaType(contentType string) Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	for name, info := range FormatRegistry {
		for _, mt := range info.MediaTypes {
			if mt == mediaType {
				return name
			}
		}
	}
	return FormatUnknown
}

// AcceptHeader is the content negotiation header sent when fetching ontologies.
const AcceptHeader = "text/turtle, application/rdf+xml;q=0.9, application/n-triples;q=0.8, application/xml;q=0.5, */*;q=0.1"
