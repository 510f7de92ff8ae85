package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidRequest, http.StatusBadRequest},
		{ErrCodeUnknownAction, http.StatusBadRequest},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeRoadmapNotFound, http.StatusNotFound},
		{ErrCodeAllProvidersExhausted, http.StatusBadGateway},
		{ErrCodeInvalidAIResponse, http.StatusBadGateway},
		{ErrCodeConfiguration, http.StatusServiceUnavailable},
		{ErrCodeDatabaseQueryFailed, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestStandardError_Message(t *testing.T) {
	err := NewInvalidRequestError("User ID required")
	assert.Equal(t, "User ID required", err.Error())
	assert.False(t, err.Retryable)

	cause := fmt.Errorf("gemini: HTTP 503")
	exhausted := NewAllProvidersExhaustedError(cause)
	assert.True(t, exhausted.Retryable)
	assert.Contains(t, exhausted.Error(), "HTTP 503")
	assert.ErrorIs(t, exhausted, cause)
}

func TestAsStandardError(t *testing.T) {
	assert.Nil(t, AsStandardError(nil))

	notFound := NewRoadmapNotFoundError("rm-1")
	wrapped := fmt.Errorf("get: %w", notFound)
	assert.Same(t, notFound, AsStandardError(wrapped))

	plain := errors.New("boom")
	got := AsStandardError(plain)
	require.NotNil(t, got)
	assert.Equal(t, ErrCodeInternal, got.Code)
	assert.Equal(t, "boom", got.Details)
}

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantRetries int
	}{
		{"exhausted retried once", NewAllProvidersExhaustedError(errors.New("x")), 1},
		{"database retried", NewDatabaseQueryFailedError(errors.New("x")), 3},
		{"invalid request thrown", NewInvalidRequestError("bad"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ConvertToBPMNError(tt.err)
			assert.Equal(t, string(tt.err.Code), b.Code)
			assert.Equal(t, tt.wantRetries, b.Retries)

			vars := b.ToErrorVariables()
			assert.Equal(t, b.Code, vars["errorCode"])
			assert.Equal(t, tt.err.Retryable, vars["retryable"])
		})
	}
}
