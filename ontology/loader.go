package ontology

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/quantumblockchains/ontochat/errors"
)

// Document is the on-disk shape of an ontology concept dump.
// Concept ids and subclass/related targets may be namespace fragments
// (resolved against Namespace) or fully-qualified IRIs.
type Document struct {
	Namespace string         `yaml:"namespace"`
	Concepts  []ConceptEntry `yaml:"concepts"`
}

// ConceptEntry describes one concept and all of its facts
type ConceptEntry struct {
	ID               string              `yaml:"id"`
	Label            string              `yaml:"label"`
	ProperLabel      string              `yaml:"proper_label"`
	Definitions      []string            `yaml:"definitions"`
	Comments         []string            `yaml:"comments"`
	Acronyms         []string            `yaml:"acronyms"`
	AlternativeNames []string            `yaml:"alternative_names"`
	SubClassOf       []string            `yaml:"subclass_of"`
	Related          []RelatedEntry      `yaml:"related"`
	References       map[string][]string `yaml:"references"`
}

// RelatedEntry is a typed relation to another concept
type RelatedEntry struct {
	Concept  string `yaml:"concept"`
	Relation string `yaml:"relation"`
}

// relationPredicates maps document relation names to predicate IRIs
var relationPredicateByName = map[string]string{
	"related":  PredicateRelated,
	"is_about": PredicateIsAbout,
	"has_part": PredicateHasPart,
}

// referencePredicateByName maps document reference keys to predicate IRIs
var referencePredicateByName = map[string]string{
	"doi":             PredicateDOI,
	"wikipedia_entry": PredicateWikipediaEntry,
	"wikidata_entry":  PredicateWikidataEntry,
	"qb_pdf_link":     PredicatePDFLink,
}

// LoadDocument parses an ontology concept dump from a YAML file
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "ontology file %s", path)
		}
		return nil, errors.Wrapf(err, "read ontology file %s", path)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parse ontology file %s", path)
	}

	if len(doc.Concepts) == 0 {
		return nil, errors.NewInvalidRequestError("ontology file %s contains no concepts", path)
	}
	for i, c := range doc.Concepts {
		if strings.TrimSpace(c.ID) == "" {
			return nil, errors.NewInvalidRequestError("concept %d has no id", i)
		}
		if strings.TrimSpace(c.Label) == "" {
			return nil, errors.NewInvalidRequestError("concept %q has no label", c.ID)
		}
	}

	return &doc, nil
}

// Triples flattens the document into store triples
func (d *Document) Triples() ([]Triple, error) {
	var triples []Triple

	add := func(subject, predicate, object string, iri bool) {
		if strings.TrimSpace(object) == "" {
			return
		}
		triples = append(triples, Triple{
			Subject:     subject,
			Predicate:   predicate,
			Object:      object,
			ObjectIsIRI: iri,
		})
	}

	for _, c := range d.Concepts {
		subject := d.resolve(c.ID)

		add(subject, PredicateLabel, c.Label, false)
		add(subject, PredicateProperLabel, c.ProperLabel, false)
		for _, v := range c.Definitions {
			add(subject, PredicateDefinition, v, false)
		}
		for _, v := range c.Comments {
			add(subject, PredicateComment, v, false)
		}
		for _, v := range c.Acronyms {
			add(subject, PredicateAcronym, v, false)
		}
		for _, v := range c.AlternativeNames {
			add(subject, PredicateAlternativeName, v, false)
		}
		for _, v := range c.SubClassOf {
			add(subject, PredicateSubClassOf, d.resolve(v), true)
		}
		for _, r := range c.Related {
			predicate, ok := relationPredicateByName[strings.ToLower(r.Relation)]
			if !ok {
				if r.Relation != "" {
					return nil, errors.NewInvalidRequestError(
						"concept %q: unknown relation %q", c.ID, r.Relation)
				}
				predicate = PredicateRelated
			}
			add(subject, predicate, d.resolve(r.Concept), true)
		}
		for key, uris := range c.References {
			predicate, ok := referencePredicateByName[strings.ToLower(key)]
			if !ok {
				return nil, errors.NewInvalidRequestError(
					"concept %q: unknown reference kind %q", c.ID, key)
			}
			for _, uri := range uris {
				add(subject, predicate, uri, false)
			}
		}
	}

	return triples, nil
}

// resolve turns a fragment into a fully-qualified IRI using the
// document namespace; values that already look like IRIs pass through.
func (d *Document) resolve(value string) string {
	value = strings.TrimSpace(value)
	if strings.Contains(value, "://") {
		return value
	}
	return d.Namespace + value
}

// Ingest loads an ontology file and persists its triples into the store.
// Returns the number of newly inserted triples.
func Ingest(ctx context.Context, store Store, path string, logger *zap.SugaredLogger) (int, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return 0, err
	}

	triples, err := doc.Triples()
	if err != nil {
		return 0, err
	}

	inserted, err := store.InsertTriples(ctx, triples)
	if err != nil {
		return 0, errors.Wrapf(err, "ingest %s", path)
	}

	if logger != nil {
		logger.Infow("Ontology ingested",
			"path", path,
			"concepts", len(doc.Concepts),
			"triples", len(triples),
			"inserted", inserted,
		)
	}
	return inserted, nil
}
