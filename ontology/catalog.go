package ontology

import (
	"context"
	"sort"
	"strings"
)

// Catalog holds every known concept label, built once at startup and
// immutable thereafter. Safe for concurrent reads.
type Catalog struct {
	labels []string
}

// NewCatalog builds the catalog from the store's full label list.
func NewCatalog(ctx context.Context, store Store) (*Catalog, error) {
	labels, err := store.AllLabels(ctx)
	if err != nil {
		return nil, err
	}

	normalized := make([]string, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		label = NormalizeLabel(label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		normalized = append(normalized, label)
	}
	sort.Strings(normalized)

	return &Catalog{labels: normalized}, nil
}

// Labels returns all cataloged labels in lexicographic order.
// The caller must not modify the returned slice.
func (c *Catalog) Labels() []string {
	return c.labels
}

// Size returns the number of cataloged labels
func (c *Catalog) Size() int {
	return len(c.labels)
}

// ContainsSubstring returns every cataloged label that appears as a
// case-insensitive substring of text, longest label first so that more
// specific concepts win. Ties break lexicographically for determinism.
func (c *Catalog) ContainsSubstring(text string) []string {
	text = strings.ToLower(text)
	if text == "" {
		return nil
	}

	var matches []string
	for _, label := range c.labels {
		if strings.Contains(text, label) {
			matches = append(matches, label)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if len(matches[i]) != len(matches[j]) {
			return len(matches[i]) > len(matches[j])
		}
		return matches[i] < matches[j]
	})
	return matches
}
