package ontology_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	qtest "github.com/quantumblockchains/ontochat/internal/testing"
	"github.com/quantumblockchains/ontochat/ontology"
)

const crypto = "http://www.semanticweb.org/quantumblockchains/crypto#"

// seedStore creates an in-memory store populated with a small slice of
// the quantum cryptography ontology.
func seedStore(t *testing.T) *ontology.SQLStore {
	t.Helper()

	conn := qtest.CreateTestDB(t)
	store := ontology.NewSQLStore(conn, nil)

	triples := []ontology.Triple{
		// qkd
		{Subject: crypto + "qkd", Predicate: ontology.PredicateLabel, Object: "qkd"},
		{Subject: crypto + "qkd", Predicate: ontology.PredicateProperLabel, Object: "Quantum Key Distribution"},
		{Subject: crypto + "qkd", Predicate: ontology.PredicateDefinition, Object: "Quantum Key Distribution protocol."},
		{Subject: crypto + "qkd", Predicate: ontology.PredicateComment, Object: "Used for establishing shared secret keys."},
		{Subject: crypto + "qkd", Predicate: ontology.PredicateAcronym, Object: "QKD"},
		{Subject: crypto + "qkd", Predicate: ontology.PredicateAlternativeName, Object: "quantum key exchange"},
		{Subject: crypto + "qkd", Predicate: ontology.PredicateSubClassOf, Object: crypto + "quantum_protocol", ObjectIsIRI: true},
		{Subject: crypto + "qkd", Predicate: ontology.PredicateWikipediaEntry, Object: "https://en.wikipedia.org/wiki/Quantum_key_distribution"},
		{Subject: crypto + "qkd", Predicate: ontology.PredicateDOI, Object: "https://doi.org/10.1000/qkd"},
		{Subject: crypto + "qkd", Predicate: ontology.PredicatePDFLink, Object: "https://quantumblockchains.io/docs/qkd.pdf"},
		{Subject: crypto + "qkd", Predicate: ontology.PredicateRelated, Object: crypto + "entanglement", ObjectIsIRI: true},

		// hierarchy above qkd
		{Subject: crypto + "quantum_protocol", Predicate: ontology.PredicateLabel, Object: "quantum protocol"},
		{Subject: crypto + "quantum_protocol", Predicate: ontology.PredicateSubClassOf, Object: crypto + "protocol", ObjectIsIRI: true},
		{Subject: crypto + "protocol", Predicate: ontology.PredicateLabel, Object: "protocol"},

		// hierarchy below qkd
		{Subject: crypto + "bb84", Predicate: ontology.PredicateLabel, Object: "bb84 protocol"},
		{Subject: crypto + "bb84", Predicate: ontology.PredicateSubClassOf, Object: crypto + "qkd", ObjectIsIRI: true},

		// entanglement
		{Subject: crypto + "entanglement", Predicate: ontology.PredicateLabel, Object: "quantum entanglement"},
		{Subject: crypto + "entanglement", Predicate: ontology.PredicateDefinition, Object: "A correlation between quantum systems."},
		{Subject: crypto + "entanglement", Predicate: ontology.PredicateWikipediaEntry, Object: "https://en.wikipedia.org/wiki/Quantum_entanglement"},
	}

	_, err := store.InsertTriples(context.Background(), triples)
	require.NoError(t, err)
	return store
}
