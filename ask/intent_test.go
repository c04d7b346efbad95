package ask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumblockchains/ontochat/ontology"
)

func TestClassifyDefaultsToDefinition(t *testing.T) {
	c := NewClassifier()

	tests := []string{
		"qkd",
		"quantum entanglement please",
		"",
	}
	for _, text := range tests {
		intents, refKind := c.Classify(text)
		assert.Equal(t, []Intent{IntentDefinition}, intents.Ordered(), "text: %q", text)
		assert.Equal(t, ontology.RefKindAny, refKind)
	}
}

func TestClassifySingleIntents(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		text   string
		intent Intent
	}{
		{"What is QKD?", IntentDefinition},
		{"define quantum entanglement", IntentDefinition},
		{"what is the acronym for quantum key distribution", IntentAcronym},
		{"is qkd also known as something else", IntentAlternativeNames},
		{"which category does qkd belong to", IntentCategory},
		{"what are the types of quantum protocols", IntentSubclass},
		{"what is the parent of bb84", IntentSuperclass},
		{"connection between qkd and entanglement", IntentRelated},
		{"tell me more about qkd", IntentComments},
	}

	for _, tt := range tests {
		intents, _ := c.Classify(tt.text)
		assert.True(t, intents.Has(tt.intent), "text %q should trigger %s, got %v",
			tt.text, tt.intent, intents.Ordered())
	}
}

func TestClassifyIsAdditive(t *testing.T) {
	c := NewClassifier()

	intents, refKind := c.Classify("what is qkd and where can i find references about it")
	assert.True(t, intents.Has(IntentDefinition))
	assert.True(t, intents.Has(IntentReferences))
	assert.Equal(t, ontology.RefKindAny, refKind)
}

func TestClassifyReferenceSubtypes(t *testing.T) {
	c := NewClassifier()

	t.Run("each kind resolves", func(t *testing.T) {
		tests := []struct {
			text string
			kind ontology.RefKind
		}{
			{"do you have a pdf about qkd", ontology.RefKindPDF},
			{"what is the doi for the qkd paper", ontology.RefKindDOI}, // doi beats paper
			{"give me the url for qkd", ontology.RefKindURL},
			{"where can i find the wiki link for quantum entanglement", ontology.RefKindWiki},
			{"is there an article on entanglement", ontology.RefKindPaper},
		}
		for _, tt := range tests {
			intents, kind := c.Classify(tt.text)
			require.True(t, intents.Has(IntentReferences), "text: %q", tt.text)
			assert.Equal(t, tt.kind, kind, "text: %q", tt.text)
		}
	})

	t.Run("pdf has priority over doi", func(t *testing.T) {
		_, kind := c.Classify("pdf or doi for qkd")
		assert.Equal(t, ontology.RefKindPDF, kind)
	})

	t.Run("general references carry no kind", func(t *testing.T) {
		intents, kind := c.Classify("where can i find information on qkd")
		assert.True(t, intents.Has(IntentReferences))
		assert.Equal(t, ontology.RefKindAny, kind, "no subtype keyword means all kinds")
	})
}

func TestIntentSetOrdered(t *testing.T) {
	s := make(IntentSet)
	s.Add(IntentComments)
	s.Add(IntentDefinition)
	s.Add(IntentReferences)

	assert.Equal(t, []Intent{IntentDefinition, IntentReferences, IntentComments}, s.Ordered())
}
