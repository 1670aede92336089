package logging

import (
	"context"
	"log/slog"

	"clipper/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized key for the batch run identifier.
	FieldRunID = "run_id"
	// FieldLine is the standardized key for the 1-based instruction line number.
	FieldLine = "line"
	// FieldOutput is the standardized key for the requested output name.
	FieldOutput = "output"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the operator's next step.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if line, ok := services.LineFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldLine, line))
	}
	if out, ok := services.OutputFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldOutput, out))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
