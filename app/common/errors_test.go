package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("append: %w", NewValidationError("message", "is required"))

	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrMismatch)

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "message", ve.Field)
	assert.Equal(t, "message: is required", ve.Error())
}

func TestTransientKeepsCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := Transient("insert entry", cause)

	assert.ErrorIs(t, err, ErrTransient)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert entry")
}
