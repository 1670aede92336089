package services

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	lineKey   contextKey = "line"
	outputKey contextKey = "output"
)

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithLine annotates context with the 1-based instruction line number.
func WithLine(ctx context.Context, line int) context.Context {
	if line <= 0 {
		return ctx
	}
	return context.WithValue(ctx, lineKey, line)
}

// LineFromContext returns the instruction line number if present.
func LineFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(lineKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// WithOutput annotates context with the requested output name.
func WithOutput(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, outputKey, name)
}

// OutputFromContext returns the output name if present.
func OutputFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(outputKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
