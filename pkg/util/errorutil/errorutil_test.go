package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	wrapped := fmt.Errorf("lookup: %w", NewNotFound("employee", map[string]any{"id": 4}))
	de := ToDomainError(wrapped)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "employee not found", de.Message)

	internal := ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", internal.Code)
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
	assert.EqualError(t, internal, "internal server error: boom")
}

func TestNewRedirect(t *testing.T) {
	err := NewRedirect("/admin/dashboard", "Select an employee")
	de := ToDomainError(err)
	assert.Equal(t, http.StatusSeeOther, de.HTTPStatus)
	assert.Equal(t, "/admin/dashboard", de.Location)
	assert.True(t, IsCode(err, "REDIRECT"))
	assert.False(t, IsCode(err, "NOT_FOUND"))
}
