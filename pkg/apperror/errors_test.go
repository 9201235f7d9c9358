package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppErrorUnwrapsWrapped(t *testing.T) {
	wrapped := fmt.Errorf("load sale: %w", NewNotFoundError("Sale"))

	got := GetAppError(wrapped)

	assert.Equal(t, http.StatusNotFound, got.Code)
	assert.Equal(t, "Sale not found", got.Message)
	assert.True(t, IsAppError(wrapped))
}

func TestGetAppErrorHidesUnknownErrors(t *testing.T) {
	cause := errors.New("pq: connection refused")

	got := GetAppError(cause)

	assert.Equal(t, http.StatusInternalServerError, got.Code)
	assert.Equal(t, "Internal server error", got.Message)
	assert.ErrorIs(t, got, cause)
}

func TestNewRetryableError(t *testing.T) {
	cause := errors.New("timeout")

	err := NewRetryableError("Checkout failed, please retry", cause)

	assert.Equal(t, http.StatusServiceUnavailable, err.Code)
	assert.True(t, err.Retryable)
	assert.ErrorIs(t, err, cause)
}
