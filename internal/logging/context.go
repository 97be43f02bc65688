package logging

import (
	"context"
	"log/slog"

	"auxl/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering (e.g. session_saved).
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to check next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldSessionPath is the standardized structured logging key for .auxl file paths.
	FieldSessionPath = "session_path"
	// FieldSourcePath is the standardized structured logging key for ingested spreadsheets.
	FieldSourcePath = "source_path"
	// FieldRecordID is the standardized structured logging key for record identities.
	FieldRecordID = "record_id"
	// FieldAction is the standardized structured logging key for user actions (open, save, ...).
	FieldAction = "action"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

// contextFields extracts the action, session path and correlation ID carried
// by ctx.
func contextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if action, ok := services.ActionFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldAction, action))
	}
	if path, ok := services.SessionPathFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSessionPath, path))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := contextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
