// Package errors provides standardized error handling for the API and the job transport.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfiguration         ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeProviderCallFailed    ErrorCode = "PROVIDER_CALL_FAILED"
	ErrCodeEmptyResponse         ErrorCode = "EMPTY_RESPONSE"
	ErrCodeAllProvidersExhausted ErrorCode = "ALL_PROVIDERS_EXHAUSTED"
	ErrCodeInvalidAIResponse     ErrorCode = "INVALID_AI_RESPONSE"

	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeUnknownAction  ErrorCode = "UNKNOWN_ACTION"
	ErrCodeRateLimited    ErrorCode = "RATE_LIMITED"

	ErrCodeRoadmapNotFound     ErrorCode = "ROADMAP_NOT_FOUND"
	ErrCodeDatabaseQueryFailed ErrorCode = "DATABASE_QUERY_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewConfigurationError reports a missing credential or setting. Never retried.
func NewConfigurationError(details string) *StandardError {
	return newError(ErrCodeConfiguration, "Service is not configured", details, false, nil)
}

// NewProvidersNotConfiguredError is returned when no provider in the chain has a credential.
func NewProvidersNotConfiguredError(err error) *StandardError {
	return newError(ErrCodeConfiguration, "No AI provider is configured", errDetails(err), false, err)
}

// NewAllProvidersExhaustedError is the terminal failure of the provider sequence.
func NewAllProvidersExhaustedError(err error) *StandardError {
	return newError(ErrCodeAllProvidersExhausted,
		"All AI models failed to respond. Please check your API keys and try again.",
		errDetails(err), true, err)
}

// NewInvalidAIResponseError is returned when a provider answered but the payload is unusable.
func NewInvalidAIResponseError(details string, err error) *StandardError {
	return newError(ErrCodeInvalidAIResponse, "Invalid response from AI model", details, true, err)
}

// NewInvalidRequestError uses message verbatim as the user-visible error.
func NewInvalidRequestError(message string) *StandardError {
	return newError(ErrCodeInvalidRequest, message, "", false, nil)
}

func NewUnknownActionError(action string) *StandardError {
	return newError(ErrCodeUnknownAction, fmt.Sprintf("Invalid action: %s", action), "", false, nil)
}

func NewRateLimitedError(userID string) *StandardError {
	return newError(ErrCodeRateLimited, "Too many requests", fmt.Sprintf("userId: %s", userID), true, nil)
}

func NewRoadmapNotFoundError(id string) *StandardError {
	return newError(ErrCodeRoadmapNotFound, "Roadmap not found", fmt.Sprintf("roadmapId: %s", id), false, nil)
}

func NewDatabaseQueryFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseQueryFailed, "Database query failed", errDetails(err), true, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Internal server error", errDetails(err), false, err)
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// AsStandardError extracts a *StandardError from err's chain, wrapping
// anything else as an internal error.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HTTPStatus maps an error code to the status returned by the API endpoint.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeUnknownAction:
		return http.StatusBadRequest
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeRoadmapNotFound:
		return http.StatusNotFound
	case ErrCodeAllProvidersExhausted, ErrCodeInvalidAIResponse,
		ErrCodeProviderCallFailed, ErrCodeEmptyResponse:
		return http.StatusBadGateway
	case ErrCodeConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetRetryCount returns how many job-level retries an error code deserves.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeAllProvidersExhausted, ErrCodeInvalidAIResponse:
		return 1
	case ErrCodeDatabaseQueryFailed:
		return 3
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError for the workflow engine.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        GetRetryCount(stdErr.Code),
		ErrorVariables: stdErr.Metadata,
	}
}
