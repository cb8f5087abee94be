package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDelegate_NilPassthrough(t *testing.T) {
	assert.NoError(t, Delegate("evaluate", nil))
}

func TestDelegate_WrapsAndUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := Delegate("evaluate", cause)

	assert.True(t, IsDelegate(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "evaluate")

	wrapped := fmt.Errorf("submit turn: %w", err)
	assert.True(t, IsDelegate(wrapped))
}

func TestPersistence_KeepsNotFoundAndConflict(t *testing.T) {
	assert.ErrorIs(t, Persistence("get", ErrNotFound), ErrNotFound)
	assert.False(t, IsPersistence(Persistence("get", ErrNotFound)))

	conflict := &ConflictError{Resource: "session", Message: "stale"}
	assert.True(t, IsConflict(Persistence("advance", conflict)))
	assert.False(t, IsPersistence(Persistence("advance", conflict)))

	err := Persistence("insert", errors.New("disk full"))
	assert.True(t, IsPersistence(err))

	// Already wrapped errors are not double wrapped.
	again := Persistence("outer", err)
	var pe *PersistenceError
	assert.True(t, errors.As(again, &pe))
	assert.Equal(t, "insert", pe.Op)
}

func TestInvalid(t *testing.T) {
	err := Invalid("goal", "is required")
	assert.True(t, IsValidation(err))
	assert.Equal(t, "goal: is required", err.Error())
}
