package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripAnchors(t *testing.T) {
	in := "🔗 References:\n• Wikipedia Entry: <a href='https://en.wikipedia.org/wiki/QKD' target='_blank'>https://en.wikipedia.org/wiki/QKD</a>"
	want := "🔗 References:\n• Wikipedia Entry: https://en.wikipedia.org/wiki/QKD"
	assert.Equal(t, want, stripAnchors(in))

	assert.Equal(t, "no links here", stripAnchors("no links here"))
}
