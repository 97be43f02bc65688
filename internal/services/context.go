package services

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	actionKey      contextKey = "action"
	sessionPathKey contextKey = "session_path"
	requestIDKey   contextKey = "request_id"
)

// WithAction annotates context with the user action being performed.
func WithAction(ctx context.Context, action string) context.Context {
	if action == "" {
		return ctx
	}
	return context.WithValue(ctx, actionKey, action)
}

// ActionFromContext returns the action name if present.
func ActionFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(actionKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithSessionPath annotates context with the session file being worked on.
func WithSessionPath(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionPathKey, path)
}

// SessionPathFromContext returns the session path if present.
func SessionPathFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(sessionPathKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// WithNewRequestID annotates context with a fresh random correlation identifier.
func WithNewRequestID(ctx context.Context) context.Context {
	return WithRequestID(ctx, uuid.NewString())
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
