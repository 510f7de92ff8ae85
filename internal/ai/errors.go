package ai

import (
	"errors"

	apperrors "nanolez-eduai/internal/common/errors"
)

// AsStandardError maps a Caller failure onto the application error codes.
// The result still unwraps to err.
func AsStandardError(err error) *apperrors.StandardError {
	var exhausted *ExhaustedError
	switch {
	case errors.As(err, &exhausted) && exhausted.AllMisconfigured():
		return apperrors.NewProvidersNotConfiguredError(err)
	case errors.Is(err, ErrAllProvidersExhausted):
		return apperrors.NewAllProvidersExhaustedError(err)
	default:
		return apperrors.NewInternalError(err)
	}
}
