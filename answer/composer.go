// Package answer turns parsed questions into formatted answer text by
// driving knowledge queries per concept and intent.
package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quantumblockchains/ontochat/ask"
	"github.com/quantumblockchains/ontochat/ontology"
)

// Fixed response fragments. The front end renders these verbatim, so
// they stay stable across releases.
const (
	noConceptsMessage = "👋 Hello! I'm sorry, I couldn't identify any specific concepts in your question. Could you please rephrase it?"
	notFoundMessage   = "👋 I'm sorry, I couldn't find the requested information in my knowledge base. Could you please rephrase your question or ask about a different concept?"
	closingPrompt     = "\nWould you like to know anything else? 😊"
)

// Composer builds the final answer string for a parsed question. Each
// (concept, intent) pair is handled independently: a failed or empty
// lookup skips that section and never aborts the rest of the answer.
type Composer struct {
	query       *ontology.KnowledgeQuery
	logger      *zap.SugaredLogger
	maxConcepts int
}

// NewComposer creates an answer composer. maxConcepts caps how many
// concepts one question may answer; zero or negative means no cap.
func NewComposer(query *ontology.KnowledgeQuery, logger *zap.SugaredLogger, maxConcepts int) *Composer {
	return &Composer{query: query, logger: logger, maxConcepts: maxConcepts}
}

// sectionFunc renders one intent's section for a concept, or "" when
// the knowledge base has nothing to say.
type sectionFunc func(ctx context.Context, concept string, kind ontology.RefKind) (string, error)

// Compose formats the full answer for a parsed question. Sections for
// one concept are separated by a blank line, concepts by two. The
// closing prompt is appended once; the fixed fallback messages carry
// no closing prompt.
func (c *Composer) Compose(ctx context.Context, parsed ask.ParsedQuestion) string {
	concepts := parsed.Concepts
	if len(concepts) == 0 {
		return noConceptsMessage
	}
	if c.maxConcepts > 0 && len(concepts) > c.maxConcepts {
		c.logf("Concept list truncated", "total", len(concepts), "cap", c.maxConcepts)
		concepts = concepts[:c.maxConcepts]
	}

	sections := map[ask.Intent]sectionFunc{
		ask.IntentDefinition:       c.definitionSection,
		ask.IntentCategory:         c.categorySection,
		ask.IntentAcronym:          c.acronymSection,
		ask.IntentReferences:       c.referencesSection,
		ask.IntentAlternativeNames: c.alternativeNamesSection,
		ask.IntentSubclass:         c.subclassSection,
		ask.IntentSuperclass:       c.categorySection,
		ask.IntentRelated:          c.relatedSection,
		ask.IntentComments:         c.commentsSection,
	}

	var blocks []string
	firstConcept := ""
	for _, concept := range concepts {
		var parts []string
		for _, intent := range parsed.Intents.Ordered() {
			render, ok := sections[intent]
			if !ok {
				render = c.definitionSection
			}
			section, err := render(ctx, concept, parsed.RefKind)
			if err != nil {
				c.logf("Section lookup failed", "concept", concept, "intent", string(intent), "error", err)
				continue
			}
			if section != "" {
				parts = append(parts, section)
			}
		}
		if len(parts) == 0 {
			continue
		}
		if firstConcept == "" {
			firstConcept = concept
		}
		blocks = append(blocks, strings.Join(parts, "\n\n"))
	}

	if len(blocks) == 0 {
		return notFoundMessage
	}

	blocks[0] = fmt.Sprintf("👋 Of course, here's the information about '%s':\n%s", firstConcept, blocks[0])
	return strings.Join(blocks, "\n\n") + closingPrompt
}

func (c *Composer) definitionSection(ctx context.Context, concept string, _ ontology.RefKind) (string, error) {
	definitions, err := c.query.Definitions(ctx, concept)
	if err != nil {
		return "", err
	}
	comments, err := c.query.Comments(ctx, concept)
	if err != nil {
		return "", err
	}
	if len(definitions) == 0 && len(comments) == 0 {
		return "", nil
	}

	var lines []string
	if len(definitions) > 0 {
		lines = append(lines, "📚 Definition:")
		lines = append(lines, definitions...)
	}
	if len(comments) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "💭 Additional Information:")
		for _, comment := range comments {
			lines = append(lines, "• "+comment)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (c *Composer) categorySection(ctx context.Context, concept string, _ ontology.RefKind) (string, error) {
	classes, err := c.hierarchy(ctx, concept, c.query.Superclasses)
	if err != nil {
		return "", err
	}
	return bulletedLabels(fmt.Sprintf("🔍 Categories that '%s' belongs to:", concept), classes), nil
}

func (c *Composer) subclassSection(ctx context.Context, concept string, _ ontology.RefKind) (string, error) {
	classes, err := c.hierarchy(ctx, concept, c.query.Subclasses)
	if err != nil {
		return "", err
	}
	return bulletedLabels(fmt.Sprintf("📋 Types of '%s':", concept), classes), nil
}

// hierarchy resolves the concept label to subject IRIs and merges the
// closure over every resolved subject, de-duplicating by IRI.
func (c *Composer) hierarchy(ctx context.Context, concept string, walk func(context.Context, string) ([]ontology.ClassRef, error)) ([]ontology.ClassRef, error) {
	subjects, err := c.query.ResolveSubjects(ctx, concept)
	if err != nil {
		return nil, err
	}

	var merged []ontology.ClassRef
	seen := make(map[string]bool)
	for _, subject := range subjects {
		classes, err := walk(ctx, subject)
		if err != nil {
			return nil, err
		}
		for _, class := range classes {
			if seen[class.IRI] || class.IRI == subject {
				continue
			}
			seen[class.IRI] = true
			merged = append(merged, class)
		}
	}
	return merged, nil
}

func (c *Composer) acronymSection(ctx context.Context, concept string, _ ontology.RefKind) (string, error) {
	acronyms, err := c.query.Acronyms(ctx, concept)
	if err != nil {
		return "", err
	}
	if len(acronyms) == 0 {
		return "", nil
	}
	return "💡 Acronym:\n" + strings.Join(acronyms, "\n"), nil
}

func (c *Composer) referencesSection(ctx context.Context, concept string, kind ontology.RefKind) (string, error) {
	refs, err := c.query.References(ctx, concept, kind)
	if err != nil {
		return "", err
	}
	if len(refs) == 0 {
		return "", nil
	}

	lines := []string{"🔗 References:"}
	seen := make(map[string]bool)
	for _, ref := range refs {
		if seen[ref.URI] {
			continue
		}
		seen[ref.URI] = true
		lines = append(lines, referenceLine(ref))
	}
	return strings.Join(lines, "\n"), nil
}

// referenceLine renders one reference as an anchor, labeled by its
// type. Wikipedia and qb_pdf_link types get friendlier labels than the
// generic title-cased fragment.
func referenceLine(ref ontology.Reference) string {
	kind := strings.ToLower(ref.Kind)
	label := ontology.CleanTypeName(ref.Kind)
	switch {
	case strings.Contains(kind, "wikipedia"):
		label = "Wikipedia Entry"
	case strings.Contains(kind, "qb_pdf_link"):
		label = "Documentation"
	}
	return fmt.Sprintf("• %s: <a href='%s' target='_blank'>%s</a>", label, ref.URI, ref.URI)
}

func (c *Composer) alternativeNamesSection(ctx context.Context, concept string, _ ontology.RefKind) (string, error) {
	names, err := c.query.AlternativeNames(ctx, concept)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", nil
	}

	lines := []string{fmt.Sprintf("🔤 Alternative names for '%s':", concept)}
	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		lines = append(lines, "• "+name)
	}
	return strings.Join(lines, "\n"), nil
}

func (c *Composer) relatedSection(ctx context.Context, concept string, _ ontology.RefKind) (string, error) {
	related, err := c.query.Related(ctx, concept)
	if err != nil {
		return "", err
	}
	if len(related) == 0 {
		return "", nil
	}

	lines := []string{fmt.Sprintf("🔗 Concepts related to '%s':", concept)}
	seen := make(map[string]bool)
	for _, rel := range related {
		key := rel.Label + "\x00" + rel.Relation
		if seen[key] {
			continue
		}
		seen[key] = true
		lines = append(lines, fmt.Sprintf("• %s (%s)", rel.Label, rel.Relation))
	}
	return strings.Join(lines, "\n"), nil
}

func (c *Composer) commentsSection(ctx context.Context, concept string, _ ontology.RefKind) (string, error) {
	comments, err := c.query.Comments(ctx, concept)
	if err != nil {
		return "", err
	}
	if len(comments) == 0 {
		return "", nil
	}

	lines := []string{fmt.Sprintf("💬 Additional information about '%s':", concept)}
	seen := make(map[string]bool)
	for _, comment := range comments {
		if seen[comment] {
			continue
		}
		seen[comment] = true
		lines = append(lines, "• "+comment)
	}
	return strings.Join(lines, "\n"), nil
}

// bulletedLabels renders a header plus one bullet per unique label,
// or "" when there are no entries.
func bulletedLabels(header string, classes []ontology.ClassRef) string {
	if len(classes) == 0 {
		return ""
	}
	lines := []string{header}
	seen := make(map[string]bool)
	for _, class := range classes {
		if seen[class.Label] {
			continue
		}
		seen[class.Label] = true
		lines = append(lines, "• "+class.Label)
	}
	return strings.Join(lines, "\n")
}

func (c *Composer) logf(msg string, kv ...interface{}) {
	if c.logger != nil {
		c.logger.Warnw(msg, kv...)
	}
}
