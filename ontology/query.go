package ontology

import (
	"context"

	"go.uber.org/zap"

	"github.com/quantumblockchains/ontochat/errors"
)

// KnowledgeQuery executes structured lookups against the triple store for
// a given concept name. All operations are read-only and return empty
// results (never an error) when nothing matches; errors indicate the
// backing store failed and wrap errors.ErrQueryFailed.
//
// Resolution policy:
//   - Definitions try an exact case-insensitive label match first and fall
//     back to a substring match (concept contained in the subject's label).
//   - Every other predicate lookup is a single-pass substring match.
//   - Hierarchy operations take fully-qualified IRIs, not labels.
type KnowledgeQuery struct {
	store  Store
	logger *zap.SugaredLogger
}

// NewKnowledgeQuery creates the query layer over a triple store
func NewKnowledgeQuery(store Store, logger *zap.SugaredLogger) *KnowledgeQuery {
	return &KnowledgeQuery{store: store, logger: logger}
}

// Definitions returns definition strings for the concept,
// exact label match first, substring fallback second.
func (q *KnowledgeQuery) Definitions(ctx context.Context, concept string) ([]string, error) {
	concept = NormalizeLabel(concept)
	if concept == "" {
		return nil, nil
	}

	defs, err := q.store.ObjectsByLabel(ctx, concept, PredicateDefinition, true)
	if err != nil {
		return nil, errors.WrapQueryFailure(err, "definitions lookup")
	}
	if len(defs) > 0 {
		return defs, nil
	}

	defs, err = q.store.ObjectsByLabel(ctx, concept, PredicateDefinition, false)
	if err != nil {
		return nil, errors.WrapQueryFailure(err, "definitions fallback lookup")
	}
	return defs, nil
}

// Comments returns free-text comments for the concept
func (q *KnowledgeQuery) Comments(ctx context.Context, concept string) ([]string, error) {
	return q.fuzzyObjects(ctx, concept, PredicateComment, "comments")
}

// Acronyms returns acronyms for the concept
func (q *KnowledgeQuery) Acronyms(ctx context.Context, concept string) ([]string, error) {
	return q.fuzzyObjects(ctx, concept, PredicateAcronym, "acronyms")
}

// AlternativeNames returns alternative names for the concept
func (q *KnowledgeQuery) AlternativeNames(ctx context.Context, concept string) ([]string, error) {
	return q.fuzzyObjects(ctx, concept, PredicateAlternativeName, "alternative names")
}

// ProperLabels returns display labels for the concept
func (q *KnowledgeQuery) ProperLabels(ctx context.Context, concept string) ([]string, error) {
	return q.fuzzyObjects(ctx, concept, PredicateProperLabel, "proper labels")
}

// References returns external references for the concept, optionally
// filtered to one kind. A kind filter that matches nothing returns an
// empty list; it never widens back to the unfiltered set.
func (q *KnowledgeQuery) References(ctx context.Context, concept string, kind RefKind) ([]Reference, error) {
	concept = NormalizeLabel(concept)
	if concept == "" {
		return nil, nil
	}

	refs, err := q.store.ReferencesByLabel(ctx, concept)
	if err != nil {
		return nil, errors.WrapQueryFailure(err, "references lookup")
	}
	if kind == RefKindAny {
		return refs, nil
	}

	var filtered []Reference
	for _, ref := range refs {
		if KindOf(ref) == kind {
			filtered = append(filtered, ref)
		}
	}
	return filtered, nil
}

// Related returns typed relations from the concept to other concepts
func (q *KnowledgeQuery) Related(ctx context.Context, concept string) ([]RelatedConcept, error) {
	concept = NormalizeLabel(concept)
	if concept == "" {
		return nil, nil
	}

	related, err := q.store.RelatedByLabel(ctx, concept)
	if err != nil {
		return nil, errors.WrapQueryFailure(err, "related concepts lookup")
	}
	return related, nil
}

// ResolveSubjects maps a concept label to subject IRIs,
// exact match first, substring fallback second.
func (q *KnowledgeQuery) ResolveSubjects(ctx context.Context, concept string) ([]string, error) {
	concept = NormalizeLabel(concept)
	if concept == "" {
		return nil, nil
	}

	subjects, err := q.store.SubjectsByLabel(ctx, concept, true)
	if err != nil {
		return nil, errors.WrapQueryFailure(err, "subject resolution")
	}
	if len(subjects) > 0 {
		return subjects, nil
	}

	subjects, err = q.store.SubjectsByLabel(ctx, concept, false)
	if err != nil {
		return nil, errors.WrapQueryFailure(err, "subject resolution fallback")
	}
	return subjects, nil
}

// Subclasses computes the transitive closure of subclasses below the
// given concept IRI, excluding the concept itself.
func (q *KnowledgeQuery) Subclasses(ctx context.Context, iri string) ([]ClassRef, error) {
	return q.closure(ctx, iri, func(ctx context.Context, node string) ([]string, error) {
		return q.store.SubjectsByPredicateObject(ctx, PredicateSubClassOf, node)
	})
}

// Superclasses computes the transitive closure of superclasses above the
// given concept IRI, excluding the concept itself.
func (q *KnowledgeQuery) Superclasses(ctx context.Context, iri string) ([]ClassRef, error) {
	return q.closure(ctx, iri, func(ctx context.Context, node string) ([]string, error) {
		return q.store.ObjectsBySubject(ctx, node, PredicateSubClassOf)
	})
}

// closure walks the subclass relation breadth-first from start,
// collecting every reachable concept except start itself.
func (q *KnowledgeQuery) closure(ctx context.Context, start string, neighbors func(context.Context, string) ([]string, error)) ([]ClassRef, error) {
	visited := map[string]bool{start: true}
	queue := []string{start}
	var result []ClassRef

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		next, err := neighbors(ctx, node)
		if err != nil {
			return nil, errors.WrapQueryFailure(err, "hierarchy traversal")
		}

		for _, n := range next {
			if visited[n] {
				continue
			}
			visited[n] = true
			queue = append(queue, n)

			label, err := q.store.LabelForSubject(ctx, n)
			if err != nil {
				return nil, errors.WrapQueryFailure(err, "hierarchy label lookup")
			}
			if label == "" {
				label = Fragment(n)
			}
			result = append(result, ClassRef{IRI: n, Label: label})
		}
	}
	return result, nil
}

// fuzzyObjects runs a single-pass substring lookup for one predicate
func (q *KnowledgeQuery) fuzzyObjects(ctx context.Context, concept, predicate, what string) ([]string, error) {
	concept = NormalizeLabel(concept)
	if concept == "" {
		return nil, nil
	}

	objects, err := q.store.ObjectsByLabel(ctx, concept, predicate, false)
	if err != nil {
		return nil, errors.WrapQueryFailure(err, what+" lookup")
	}
	return objects, nil
}
