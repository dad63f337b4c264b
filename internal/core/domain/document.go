package domain

// Declaration is one owl:Ontology subject of a document with the imports it states.
type Declaration struct {
	URI     OntologyURI   `json:"uri"`
	Imports []OntologyURI `json:"imports"`
}

// Document is the parsed form of one ontology file or fetched body.
type Document struct {
	// Source is the file path or URL the document was read from.
	Source       string
	Format       Format
	Declarations []Declaration
	Triples      *TripleGraph
}

// NewDocument derives the declarations of a parsed graph.
// Imports stated by a declared ontology are attributed to it. When the document
// declares exactly one ontology, every owl:imports statement belongs to that ontology,
// whatever its subject.
func NewDocument(source string, format Format, triples *TripleGraph) *Document {
	doc := &Document{Source: source, Format: format, Triples: triples}
	ontologies := triples.Ontologies()
	switch len(ontologies) {
	case 0:
	case 1:
		doc.Declarations = []Declaration{{URI: ontologies[0], Imports: triples.Imports()}}
	default:
		for _, u := range ontologies {
			doc.Declarations = append(doc.Declarations, Declaration{URI: u, Imports: triples.ImportsOf(u)})
		}
	}
	return doc
}

// Imports returns the union of every declaration's imports in declaration order.
// A document without declarations reports every owl:imports target it contains.
func (d *Document) Imports() []OntologyURI {
	if len(d.Declarations) == 0 {
		if d.Triples == nil {
			return nil
		}
		return d.Triples.Imports()
	}
	set := NewURISet()
	for _, decl := range d.Declarations {
		for _, u := range decl.Imports {
			set.Add(u)
		}
	}
	return set.Slice()
}

// Declares reports whether the document declares uri as an ontology.
func (d *Document) Declares(uri OntologyURI) bool {
	for _, decl := range d.Declarations {
		if decl.URI == uri {
			return true
		}
	}
	return false
}

// Declaration returns the declaration for uri.
func (d *Document) Declaration(uri OntologyURI) (Declaration, bool) {
	for _, decl := range d.Declarations {
		if decl.URI == uri {
			return decl, true
		}
	}
	return Declaration{}, false
}

// ImportsFor returns the imports to record for uri when the document was retrieved
// under that name. A document that does not declare uri itself contributes all of its imports.
func (d *Document) ImportsFor(uri OntologyURI) []OntologyURI {
	if decl, ok := d.Declaration(uri); ok {
		return decl.Imports
	}
	return d.Imports()
}
