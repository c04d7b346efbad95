// Package ask turns free-text questions into structured requests:
// a set of intents, an optional reference kind, and an ordered list of
// candidate concepts.
package ask

import (
	"sort"
	"strings"

	"github.com/quantumblockchains/ontochat/ontology"
)

// Intent is the category of information a question is asking for.
type Intent string

const (
	IntentDefinition       Intent = "definition"
	IntentCategory         Intent = "category"
	IntentAcronym          Intent = "acronym"
	IntentReferences       Intent = "references"
	IntentAlternativeNames Intent = "alternative_names"
	IntentSubclass         Intent = "subclass"
	IntentSuperclass       Intent = "superclass"
	IntentRelated          Intent = "related"
	IntentComments         Intent = "comments"
)

// IntentOrder is the canonical iteration order for intents. Answer
// sections render in this order, which keeps composition deterministic.
var IntentOrder = []Intent{
	IntentDefinition,
	IntentCategory,
	IntentAcronym,
	IntentReferences,
	IntentAlternativeNames,
	IntentSubclass,
	IntentSuperclass,
	IntentRelated,
	IntentComments,
}

// IntentSet is a set of intents. Never empty after classification.
type IntentSet map[Intent]bool

// Add inserts an intent into the set
func (s IntentSet) Add(i Intent) { s[i] = true }

// Has reports whether the intent is in the set
func (s IntentSet) Has(i Intent) bool { return s[i] }

// Ordered returns the set's members in canonical order. Members
// outside IntentOrder sort lexicographically after the known ones, so
// iteration stays deterministic even for intents this package does not
// recognize.
func (s IntentSet) Ordered() []Intent {
	var out []Intent
	for _, i := range IntentOrder {
		if s[i] {
			out = append(out, i)
		}
	}

	known := make(map[Intent]bool, len(IntentOrder))
	for _, i := range IntentOrder {
		known[i] = true
	}
	var extra []Intent
	for i := range s {
		if !known[i] {
			extra = append(extra, i)
		}
	}
	sort.Slice(extra, func(a, b int) bool { return extra[a] < extra[b] })
	return append(out, extra...)
}

// Keyword rules. Each rule is checked independently; a question can
// trigger several intents at once.
var (
	definitionKeywords  = []string{"what is", "define", "definition", "meaning"}
	acronymKeywords     = []string{"acronym", "abbreviation"}
	alternativeKeywords = []string{"also known as", "alternative names", "other names"}
	referenceKeywords   = []string{"reference", "where can i find"}
	categoryKeywords    = []string{"which category", "what type", "what category", "what class"}
	subclassKeywords    = []string{"what are the types of", "what are the kinds of", "subclasses", "subcategories"}
	superclassKeywords  = []string{"what is the parent", "superclass", "category of", "type of"}
	relatedKeywords     = []string{"what is related to", "connection between", "relationship", "how is it related"}
	commentsKeywords    = []string{"what additional information", "tell me more", "additional details", "more about"}
)

// subtypeRule binds a reference kind to its trigger keywords
type subtypeRule struct {
	kind     ontology.RefKind
	keywords []string
}

// subtypeRules are checked in fixed priority order; the first matching
// rule sets both the references intent and the reference kind, and no
// further subtype is checked. The url set deliberately omits the bare
// "link" keyword so that "wiki link" resolves to wiki, not url.
var subtypeRules = []subtypeRule{
	{ontology.RefKindPDF, []string{"pdf", "document", "qb_pdf_link"}},
	{ontology.RefKindDOI, []string{"doi"}},
	{ontology.RefKindURL, []string{"url", "website"}},
	{ontology.RefKindWiki, []string{"wiki", "wikipedia"}},
	{ontology.RefKindPaper, []string{"paper", "article", "publication"}},
}

// Classifier maps question text to intents using keyword rules.
type Classifier struct{}

// NewClassifier creates an intent classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the set of intents the text asks for plus the
// reference kind, if a specific one was requested. The returned set is
// never empty: when no rule fires it contains IntentDefinition.
func (c *Classifier) Classify(text string) (IntentSet, ontology.RefKind) {
	lower := strings.ToLower(text)
	intents := make(IntentSet)
	refKind := ontology.RefKindAny

	if containsAny(lower, definitionKeywords) {
		intents.Add(IntentDefinition)
	}
	if containsAny(lower, acronymKeywords) {
		intents.Add(IntentAcronym)
	}
	if containsAny(lower, alternativeKeywords) {
		intents.Add(IntentAlternativeNames)
	}

	// Specific reference kinds first, then the general reference rule
	for _, rule := range subtypeRules {
		if containsAny(lower, rule.keywords) {
			intents.Add(IntentReferences)
			refKind = rule.kind
			break
		}
	}
	if refKind == ontology.RefKindAny && containsAny(lower, referenceKeywords) {
		intents.Add(IntentReferences)
	}

	if containsAny(lower, categoryKeywords) {
		intents.Add(IntentCategory)
	}
	if containsAny(lower, subclassKeywords) {
		intents.Add(IntentSubclass)
	}
	if containsAny(lower, superclassKeywords) {
		intents.Add(IntentSuperclass)
	}
	if containsAny(lower, relatedKeywords) {
		intents.Add(IntentRelated)
	}
	if containsAny(lower, commentsKeywords) {
		intents.Add(IntentComments)
	}

	if len(intents) == 0 {
		intents.Add(IntentDefinition)
	}
	return intents, refKind
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
