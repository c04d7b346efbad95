package ask

import (
	"strings"
	"unicode"

	"github.com/quantumblockchains/ontochat/ontology"
)

// questionWords never appear inside a concept candidate.
var questionWords = []string{"what", "who", "where", "when", "how", "why", "which"}

// stopwords are skipped when carving noun-phrase spans out of a question.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true, "being": true,
	"do": true, "does": true, "did": true, "can": true, "could": true, "will": true,
	"would": true, "shall": true, "should": true, "may": true, "might": true, "must": true,
	"i": true, "you": true, "he": true, "she": true, "it": true, "we": true, "they": true,
	"me": true, "him": true, "her": true, "us": true, "them": true,
	"my": true, "your": true, "its": true, "our": true, "their": true,
	"of": true, "in": true, "on": true, "at": true, "by": true, "for": true, "with": true,
	"about": true, "between": true, "into": true, "through": true, "to": true, "from": true,
	"up": true, "down": true, "out": true, "off": true, "over": true, "under": true,
	"and": true, "or": true, "but": true, "not": true, "no": true, "so": true,
	"if": true, "then": true, "than": true, "too": true, "very": true,
	"this": true, "that": true, "these": true, "those": true, "there": true,
	"please": true, "tell": true, "give": true, "show": true, "find": true,
	"explain": true, "describe": true, "list": true, "know": true, "want": true,
	"need": true, "more": true, "some": true, "any": true,
}

// Extractor maps question text to an ordered, de-duplicated list of
// candidate concept strings. Catalog matches always win over the
// linguistic fallback.
type Extractor struct {
	catalog *ontology.Catalog
}

// NewExtractor creates a concept extractor over the given catalog
func NewExtractor(catalog *ontology.Catalog) *Extractor {
	return &Extractor{catalog: catalog}
}

// Extract returns candidate concepts for the question text. When any
// cataloged label appears in the text, those labels (longest first) are
// the result and no heuristic extraction runs. Otherwise candidates are
// collected by priority: multi-word spans, then capitalized entities not
// subsumed by a span, then remaining content tokens.
func (e *Extractor) Extract(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if matches := e.catalog.ContainsSubstring(strings.ToLower(text)); len(matches) > 0 {
		return matches
	}

	words := splitWords(text)
	var candidates []string

	// Multi-word content spans approximate noun phrases
	for _, span := range contentSpans(words) {
		if len(span) >= 2 {
			candidates = append(candidates, strings.ToLower(strings.Join(span, " ")))
		}
	}

	// Capitalized/acronym entities not already inside a span
	for _, word := range words {
		if !looksLikeEntity(word) || isStopword(word) {
			continue
		}
		lower := strings.ToLower(word)
		if !subsumed(lower, candidates) {
			candidates = append(candidates, lower)
		}
	}

	// Remaining individual content tokens
	for _, word := range words {
		if isStopword(word) {
			continue
		}
		lower := strings.ToLower(word)
		if !subsumed(lower, candidates) {
			candidates = append(candidates, lower)
		}
	}

	return clean(candidates)
}

// clean drops candidates containing question words or of trivial
// length, then de-duplicates preserving first-seen order.
func clean(candidates []string) []string {
	var result []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if len(c) <= 1 || seen[c] || containsAny(c, questionWords) {
			continue
		}
		seen[c] = true
		result = append(result, c)
	}
	return result
}

// splitWords tokenizes on anything that is not a letter, digit,
// apostrophe, or hyphen.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
}

// contentSpans groups consecutive non-stopword tokens
func contentSpans(words []string) [][]string {
	var spans [][]string
	var current []string
	for _, word := range words {
		if isStopword(word) {
			if len(current) > 0 {
				spans = append(spans, current)
				current = nil
			}
			continue
		}
		current = append(current, word)
	}
	if len(current) > 0 {
		spans = append(spans, current)
	}
	return spans
}

// looksLikeEntity reports whether a token is capitalized or an acronym
func looksLikeEntity(word string) bool {
	runes := []rune(word)
	if len(runes) < 2 {
		return false
	}
	return unicode.IsUpper(runes[0])
}

// isStopword treats question words as stopwords too, so they break
// spans instead of polluting candidates that clean() would then drop.
func isStopword(word string) bool {
	lower := strings.ToLower(word)
	if stopwords[lower] {
		return true
	}
	for _, q := range questionWords {
		if lower == q {
			return true
		}
	}
	return false
}

func subsumed(candidate string, collected []string) bool {
	for _, c := range collected {
		if strings.Contains(c, candidate) {
			return true
		}
	}
	return false
}
