package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelWrapping(t *testing.T) {
	err := Wrap(ErrNotFound, "concept lookup")
	assert.True(t, Is(err, ErrNotFound))
	assert.True(t, IsNotFoundError(err))
	assert.False(t, IsQueryFailure(err))
}

func TestWrapQueryFailure(t *testing.T) {
	cause := New("database is locked")
	err := WrapQueryFailure(cause, "definitions lookup")

	assert.True(t, IsQueryFailure(err))
	assert.Contains(t, err.Error(), "definitions lookup")
	assert.Contains(t, err.Error(), "database is locked")
}

func TestIsQueryFailureNil(t *testing.T) {
	assert.False(t, IsQueryFailure(nil))
	assert.False(t, IsNotFoundError(nil))
}

func TestNewInvalidRequestError(t *testing.T) {
	err := NewInvalidRequestError("empty question (%d chars)", 0)
	assert.True(t, Is(err, ErrInvalidRequest))
	assert.Contains(t, err.Error(), "empty question (0 chars)")
}
