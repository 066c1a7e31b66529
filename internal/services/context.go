package services

import "context"

// contextKey scopes request metadata carried through a pipeline run.
type contextKey int

const (
	stageKey contextKey = iota
	requestIDKey
)

// WithStage records the pipeline stage (download, transcription, dispatch)
// for log correlation.
func WithStage(ctx context.Context, stage string) context.Context {
	return withValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage recorded by WithStage.
func StageFromContext(ctx context.Context) (string, bool) {
	return value(ctx, stageKey)
}

// WithRequestID records the HTTP request id (X-Request-ID) so every log line
// of a transcription carries it as correlation_id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the id recorded by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return value(ctx, requestIDKey)
}

// withValue ignores blank values so callers never mask an outer one.
func withValue(ctx context.Context, key contextKey, v string) context.Context {
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func value(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}
