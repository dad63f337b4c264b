package domain

import "time"

// FetchRequest asks for the current content of a remote document.
type FetchRequest struct {
	URI OntologyURI
	// Importer is the ontology whose import triggered the fetch, if any.
	Importer OntologyURI
	// Validators turn the request into a conditional one.
	Validators Validators
	Timeout    time.Duration
	MaxRetries int
}

// FetchedDocument is the raw result of a fetch.
type FetchedDocument struct {
	URI         OntologyURI
	Body        []byte
	ContentType string
	Validators  Validators
	// NotModified is set when a conditional request was answered with 304 and Body is empty.
	NotModified bool
}

// Format determines the syntax of the body from its content type, falling back to the URL.
func (d *FetchedDocument) Format() Format {
	if f := FormatFromMediaType(d.ContentType); f != FormatUnknown {
		return f
	}
	if f := FormatFromExtension(d.URI.String()); f != FormatUnknown {
		return f
	}
	return FormatRDFXML
}
