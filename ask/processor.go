package ask

import (
	"strings"

	"go.uber.org/zap"

	"github.com/quantumblockchains/ontochat/ontology"
)

// ParsedQuestion is the structured form of one question.
// Intents is never empty; Concepts may be, which the answer composer
// turns into a clarification message.
type ParsedQuestion struct {
	Concepts []string         `json:"concepts"`
	Intents  IntentSet        `json:"intents"`
	RefKind  ontology.RefKind `json:"ref_kind,omitempty"`
	Text     string           `json:"text"`
}

// Processor orchestrates intent classification and concept extraction.
type Processor struct {
	classifier *Classifier
	extractor  *Extractor
	logger     *zap.SugaredLogger
}

// NewProcessor creates a question processor over the given catalog
func NewProcessor(catalog *ontology.Catalog, logger *zap.SugaredLogger) *Processor {
	return &Processor{
		classifier: NewClassifier(),
		extractor:  NewExtractor(catalog),
		logger:     logger,
	}
}

// Process parses a raw question into a structured request. Concepts
// keep first-seen order; duplicates are removed during extraction.
func (p *Processor) Process(text string) ParsedQuestion {
	trimmed := strings.TrimSpace(text)

	intents, refKind := p.classifier.Classify(trimmed)
	concepts := p.extractor.Extract(trimmed)

	if p.logger != nil {
		p.logger.Debugw("Question processed",
			"concepts", concepts,
			"intents", intents.Ordered(),
			"ref_kind", string(refKind),
		)
	}

	return ParsedQuestion{
		Concepts: concepts,
		Intents:  intents,
		RefKind:  refKind,
		Text:     strings.ToLower(trimmed),
	}
}
