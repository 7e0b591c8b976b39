package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NotFound("patient", nil), http.StatusNotFound},
		{"bad request", BadRequest("bad", nil), http.StatusBadRequest},
		{"validation", FieldError("name", "required"), http.StatusBadRequest},
		{"unauthorized", Unauthorized(nil), http.StatusUnauthorized},
		{"forbidden", Forbidden(""), http.StatusForbidden},
		{"conflict", Conflict("duplicate", nil), http.StatusConflict},
		{"internal", Internal(fmt.Errorf("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	cause := fmt.Errorf("db down")
	wrapped := fmt.Errorf("create patient: %w", Internal(cause))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrInternal, appErr.Code)
	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, Is(wrapped, ErrInternal))
	assert.False(t, Is(wrapped, ErrNotFound))
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("procedure type", nil)
	assert.Equal(t, "procedure type not found", err.Error())
}

func TestFieldError(t *testing.T) {
	err := FieldError("procedure_type_id", "This field is required.")
	assert.Equal(t, []string{"This field is required."}, err.Fields["procedure_type_id"])
}
