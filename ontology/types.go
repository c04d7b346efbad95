// Package ontology implements the concept knowledge base: a SQLite-backed
// triple store, the concept catalog, and the structured query layer that
// resolves fuzzy concept names into facts.
package ontology

import "strings"

// Well-known predicate IRIs from the quantum cryptography ontology.
const (
	PredicateLabel      = "http://www.w3.org/2000/01/rdf-schema#label"
	PredicateComment    = "http://www.w3.org/2000/01/rdf-schema#comment"
	PredicateSubClassOf = "http://www.w3.org/2000/01/rdf-schema#subClassOf"

	PredicateDefinition      = "http://purl.obolibrary.org/obo/IAO_0000115"
	PredicateAlternativeName = "http://purl.obolibrary.org/obo/IAO_0000118"
	PredicateIsAbout         = "http://purl.obolibrary.org/obo/IAO_0000136"
	PredicateHasPart         = "http://purl.obolibrary.org/obo/BFO_0000051"

	PredicateRelated = "http://www.w3.org/2004/02/skos/core#related"

	PredicateAcronym     = "http://www.semanticweb.org/quantumblockchains/crypto#acronym"
	PredicateProperLabel = "http://www.semanticweb.org/quantumblockchains/crypto#proper_label"

	PredicateDOI            = "http://www.semanticweb.org/quantumblockchains/crypto#doi"
	PredicateWikipediaEntry = "http://www.semanticweb.org/quantumblockchains/crypto#wikipedia_entry"
	PredicateWikidataEntry  = "http://www.semanticweb.org/quantumblockchains/crypto#wikidata_entry"
	PredicatePDFLink        = "http://www.semanticweb.org/quantumblockchains/crypto#qb_pdf_link"
)

// RelationPredicates are the predicates treated as concept-to-concept relations.
var RelationPredicates = []string{
	PredicateRelated,
	PredicateIsAbout,
	PredicateHasPart,
}

// ReferencePredicates are the predicates treated as external references.
var ReferencePredicates = []string{
	PredicateDOI,
	PredicateWikipediaEntry,
	PredicatePDFLink,
	PredicateWikidataEntry,
}

// Triple is a single (subject, predicate, object) fact.
// Subject and predicate are IRIs; the object is an IRI or a literal.
type Triple struct {
	Subject     string
	Predicate   string
	Object      string
	ObjectIsIRI bool
}

// Reference is an external link attached to a concept.
// Kind is the IRI fragment of the reference predicate (e.g. "wikipedia_entry").
type Reference struct {
	URI  string
	Kind string
}

// RelatedConcept is a typed relation from one concept to another.
// Relation is the IRI fragment of the relation predicate.
type RelatedConcept struct {
	IRI      string
	Label    string
	Relation string
}

// ClassRef points at a concept in the subclass hierarchy.
type ClassRef struct {
	IRI   string
	Label string
}

// RefKind classifies an external reference for filtering.
type RefKind string

// Reference kinds in fixed priority order. When a reference's type or
// value matches keywords from more than one kind, the first kind in
// RefKindOrder wins.
const (
	RefKindAny   RefKind = ""
	RefKindPDF   RefKind = "pdf"
	RefKindDOI   RefKind = "doi"
	RefKindURL   RefKind = "url"
	RefKindWiki  RefKind = "wiki"
	RefKindPaper RefKind = "paper"
)

// RefKindOrder is the deterministic priority order for reference kinds.
var RefKindOrder = []RefKind{RefKindPDF, RefKindDOI, RefKindURL, RefKindWiki, RefKindPaper}

// refKindKeywords maps each reference kind to the keywords matched against
// a reference's type string or literal value (case-insensitive substring).
var refKindKeywords = map[RefKind][]string{
	RefKindPDF:   {"pdf", "document", "qb_pdf_link"},
	RefKindDOI:   {"doi"},
	RefKindURL:   {"url", "link"},
	RefKindWiki:  {"wikipedia", "wiki"},
	RefKindPaper: {"paper", "article"},
}

// KindOf assigns a reference to exactly one kind: the first kind in
// RefKindOrder whose keyword set matches the reference's type string or
// its literal value. Returns RefKindAny when nothing matches.
func KindOf(ref Reference) RefKind {
	kind := strings.ToLower(ref.Kind)
	uri := strings.ToLower(ref.URI)
	for _, k := range RefKindOrder {
		for _, keyword := range refKindKeywords[k] {
			if strings.Contains(kind, keyword) || strings.Contains(uri, keyword) {
				return k
			}
		}
	}
	return RefKindAny
}

// ParseRefKind validates a reference kind string. Empty means "all kinds".
func ParseRefKind(s string) (RefKind, bool) {
	switch RefKind(strings.ToLower(strings.TrimSpace(s))) {
	case RefKindAny:
		return RefKindAny, true
	case RefKindPDF:
		return RefKindPDF, true
	case RefKindDOI:
		return RefKindDOI, true
	case RefKindURL:
		return RefKindURL, true
	case RefKindWiki:
		return RefKindWiki, true
	case RefKindPaper:
		return RefKindPaper, true
	}
	return RefKindAny, false
}

// NormalizeLabel lower-cases and trims a concept label for comparison.
// Every lookup in the knowledge base goes through this normalization.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Fragment returns the local name of an IRI: the part after '#',
// or after the last '/' when there is no fragment separator.
func Fragment(iri string) string {
	if i := strings.LastIndex(iri, "#"); i >= 0 {
		return iri[i+1:]
	}
	if i := strings.LastIndex(iri, "/"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}

// CleanTypeName renders a predicate fragment for display:
// "qb_pdf_link" becomes "Qb Pdf Link".
func CleanTypeName(iri string) string {
	name := strings.ReplaceAll(Fragment(iri), "_", " ")
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
