package handlers

import (
	"encoding/json"
	"fmt"

	"scene-manager/pkg/api"
)

// TypedHandlerFunc works on an already decoded payload.
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc is for intents without data (INIT, UNDO).
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload turns a typed handler into a HandlerFunc. It unmarshals the raw
// payload and runs api.Validator when T implements it.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		var payload T

		if len(raw) == 0 {
			raw = json.RawMessage("{}")
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Result{}, fmt.Errorf("invalid payload format: %w", err)
		}

		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("validation failed: %w", err)
			}
		}

		return handler(ctx, payload)
	}
}

// WithEmptyPayload ignores whatever payload came with the intent.
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (Result, error) {
		return handler(ctx)
	}
}
