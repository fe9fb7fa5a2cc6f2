package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMapErrorToStatus verifies sentinel and wrapped errors map to the right status.
func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("word: %w", ErrNotFound), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("staff only"), http.StatusForbidden},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("username already exists"), http.StatusConflict},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatus(tc.err))
		})
	}
}

// TestAppErrorMessage verifies the client message wins over the wrapped error text.
func TestAppErrorMessage(t *testing.T) {
	err := NotFound("word not found")
	assert.Equal(t, "word not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
}
