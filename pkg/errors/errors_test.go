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
		{"not found", NotFound("appointment", nil), http.StatusNotFound},
		{"bad request", BadRequest("invalid", nil), http.StatusBadRequest},
		{"unauthorized", Unauthorized(nil), http.StatusUnauthorized},
		{"forbidden", Forbidden("nope"), http.StatusForbidden},
		{"conflict", Conflict("terminal"), http.StatusConflict},
		{"unavailable", Unavailable(nil), http.StatusServiceUnavailable},
		{"internal", Internal(nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestFromStatus(t *testing.T) {
	err := FromStatus(http.StatusNotFound, "diet plan not found")
	assert.Equal(t, ErrNotFound, err.Code)
	assert.Equal(t, "diet plan not found", err.Message)

	err = FromStatus(http.StatusTeapot, "")
	assert.Equal(t, ErrInternal, err.Code)
	assert.Equal(t, http.StatusText(http.StatusTeapot), err.Message)
}

func TestIsUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("failed to fetch: %w", NotFound("profile", nil))

	assert.True(t, Is(wrapped, ErrNotFound))
	assert.False(t, Is(wrapped, ErrConflict))
	assert.False(t, Is(fmt.Errorf("plain"), ErrNotFound))
}
