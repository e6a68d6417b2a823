package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsIdentity(t *testing.T) {
	sentinel := New(CodeConflict, "email already registered", http.StatusBadRequest)
	cause := errors.New("E11000 duplicate key")

	wrapped := fmt.Errorf("create user: %w", Wrap(cause, sentinel.Code, sentinel.Message, sentinel.HTTPStatus))

	assert.ErrorIs(t, wrapped, sentinel)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, CodeConflict, From(wrapped).Code)
	assert.Contains(t, wrapped.Error(), "E11000")
}

func TestFromFallsBackToInternal(t *testing.T) {
	assert.Same(t, ErrInternal, From(errors.New("boom")))
	assert.Nil(t, Wrap(nil, CodeInternal, "x", http.StatusInternalServerError))
}
