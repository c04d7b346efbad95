package ask

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumblockchains/ontochat/ontology"
)

// labelStore satisfies just enough of ontology.Store to build a catalog.
type labelStore struct {
	ontology.Store
	labels []string
}

func (s labelStore) AllLabels(ctx context.Context) ([]string, error) {
	return s.labels, nil
}

func testCatalog(t *testing.T, labels ...string) *ontology.Catalog {
	t.Helper()
	catalog, err := ontology.NewCatalog(context.Background(), labelStore{labels: labels})
	require.NoError(t, err)
	return catalog
}

func TestExtractCatalogMatchesWin(t *testing.T) {
	catalog := testCatalog(t, "qkd", "quantum entanglement", "bb84 protocol")
	e := NewExtractor(catalog)

	t.Run("single match", func(t *testing.T) {
		assert.Equal(t, []string{"qkd"}, e.Extract("What is QKD?"))
	})

	t.Run("longest match first", func(t *testing.T) {
		got := e.Extract("how does qkd use quantum entanglement")
		assert.Equal(t, []string{"quantum entanglement", "qkd"}, got)
	})

	t.Run("no heuristic noise alongside a match", func(t *testing.T) {
		got := e.Extract("please explain the bb84 protocol implementation details")
		assert.Equal(t, []string{"bb84 protocol"}, got)
	})
}

func TestExtractHeuristicFallback(t *testing.T) {
	catalog := testCatalog(t, "qkd")
	e := NewExtractor(catalog)

	t.Run("multi-word span", func(t *testing.T) {
		got := e.Extract("What is post-quantum cryptography standardization?")
		require.NotEmpty(t, got)
		assert.Equal(t, "post-quantum cryptography standardization", got[0])
	})

	t.Run("capitalized entity", func(t *testing.T) {
		got := e.Extract("Tell me about BB84 and its security")
		require.NotEmpty(t, got)
		assert.Equal(t, "bb84", got[0], "entities come before loose tokens")
		assert.Contains(t, got, "security")
	})

	t.Run("single content token", func(t *testing.T) {
		got := e.Extract("explain superposition")
		assert.Equal(t, []string{"superposition"}, got)
	})
}

func TestExtractEmptyAndNoise(t *testing.T) {
	catalog := testCatalog(t, "qkd")
	e := NewExtractor(catalog)

	assert.Empty(t, e.Extract(""))
	assert.Empty(t, e.Extract("   "))
	assert.Empty(t, e.Extract("what is it?"), "question and stop words only")
}

func TestExtractDeduplicates(t *testing.T) {
	catalog := testCatalog(t)
	e := NewExtractor(catalog)

	got := e.Extract("tell me about decoherence and more about decoherence")
	assert.Equal(t, []string{"decoherence"}, got)
}
