package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", New(Validation, "Email is required"), http.StatusBadRequest},
		{"conflict maps to 400 not 409", New(Conflict, "Email already exists"), http.StatusBadRequest},
		{"auth", New(Auth, "Unauthorized"), http.StatusUnauthorized},
		{"forbidden", New(Forbidden, "Admin access required"), http.StatusForbidden},
		{"not found", New(NotFound, "Order not found"), http.StatusNotFound},
		{"method not allowed", New(MethodNotAllowed, "Method not allowed"), http.StatusMethodNotAllowed},
		{"storage", Wrap(Storage, "failed to fetch user", errors.New("conn refused")), http.StatusInternalServerError},
		{"untagged error treated as storage", errors.New("pq: terminating connection"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestClientMessageHidesStorageDetail(t *testing.T) {
	err := Wrap(Storage, "failed to fetch user", errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	msg := ClientMessage(err)
	assert.Equal(t, "A database error occurred", msg)
	assert.NotContains(t, msg, "10.0.0.5")
}

func TestClientMessageEchoesValidation(t *testing.T) {
	assert.Equal(t, "Email is required", ClientMessage(New(Validation, "Email is required")))
}

func TestKindOfWrappedError(t *testing.T) {
	inner := New(NotFound, "Product not found")
	wrapped := fmt.Errorf("loading product: %w", inner)
	assert.Equal(t, NotFound, KindOf(wrapped))
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(Storage, "failed to save image", errors.New("disk full"))
	assert.Equal(t, "failed to save image: disk full", err.Error())
	assert.ErrorIs(t, err, err.Err)
}
