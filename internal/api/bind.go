package api

import (
	"context"
	"encoding/json"

	apperrors "nanolez-eduai/internal/common/errors"
)

// ActionFunc runs one action against its raw JSON payload.
type ActionFunc func(ctx context.Context, payload json.RawMessage) (interface{}, error)

type ctxKey int

const userIDKey ctxKey = iota

// WithUserID attaches the caller's user id to ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the id set by WithUserID, or "".
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// Bind adapts a worker's Execute method. prepare hooks run after decoding
// and may fill fields the payload does not carry.
func Bind[I any, O any](exec func(context.Context, *I) (*O, error), prepare ...func(context.Context, *I)) ActionFunc {
	return func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in I
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &in); err != nil {
				return nil, apperrors.NewInvalidRequestError("Invalid request data: " + err.Error())
			}
		}
		for _, p := range prepare {
			p(ctx, &in)
		}
		return exec(ctx, &in)
	}
}
