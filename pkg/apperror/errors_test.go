package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	notFound := NewNotFoundError("Customer")
	wrapped := fmt.Errorf("load statement: %w", notFound)

	assert.True(t, IsAppError(wrapped))
	assert.Same(t, notFound, GetAppError(wrapped))
	assert.Equal(t, "Customer not found", GetAppError(wrapped).Error())

	plain := errors.New("connection reset")
	assert.False(t, IsAppError(plain))
	assert.Equal(t, http.StatusInternalServerError, GetAppError(plain).Code)
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError([]FieldError{{Field: "amount", Message: "must be positive"}})

	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Len(t, err.Errors, 1)
	assert.Equal(t, "amount", err.Errors[0].Field)
}
