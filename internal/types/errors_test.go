package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("lookup: %w", &NotFoundError{Entity: EntityApplication, ID: "abc"})

	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, EntityApplication, nf.Entity)
	assert.Equal(t, "lookup: application not found: abc", err.Error())
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "feedback", Message: "must not be empty"}
	assert.Equal(t, "validation error: feedback - must not be empty", err.Error())
}
