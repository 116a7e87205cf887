package logging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ctxKey namespaces this package's context values.
type ctxKey string

const (
	loggerKey    ctxKey = "logger"
	requestIDKey ctxKey = "request_id"
)

// WithLogger stores a logger in the context. A nil logger stores the
// default, so callers can pass through optional loggers unchecked.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger carried by ctx, falling back to the
// default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// Ctx is shorthand for FromContext.
func Ctx(ctx context.Context) *zerolog.Logger {
	return FromContext(ctx)
}

// WithRequestID stamps a request ID on the context and on the carried
// logger, so every line logged for one HTTP request can be correlated.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return WithField(ctx, "request_id", requestID)
}

// RequestID returns the request ID stamped by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithField rebinds the context logger with one extra field.
func WithField(ctx context.Context, key string, value any) context.Context {
	logger := applyField(FromContext(ctx).With(), key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithRun adds the sync run number to the logger in the context.
func WithRun(ctx context.Context, run int64) context.Context {
	return WithField(ctx, "run", run)
}

// WithSource adds a record-source name to the logger in the context.
func WithSource(ctx context.Context, source string) context.Context {
	return WithField(ctx, "source", source)
}

// applyField appends one key/value to a logger context, using a concrete
// zerolog type where we can name one.
func applyField(logCtx zerolog.Context, key string, value any) zerolog.Context {
	switch v := value.(type) {
	case string:
		return logCtx.Str(key, v)
	case int:
		return logCtx.Int(key, v)
	case int64:
		return logCtx.Int64(key, v)
	case float64:
		return logCtx.Float64(key, v)
	case bool:
		return logCtx.Bool(key, v)
	case time.Time:
		return logCtx.Time(key, v)
	case error:
		if key == "error" || key == "err" {
			return logCtx.Err(v)
		}
		return logCtx.Str(key, v.Error())
	default:
		return logCtx.Interface(key, v)
	}
}
