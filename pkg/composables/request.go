package composables

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// WithRequestID stores id in ctx. An empty id generates a new one.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// UseRequestID returns the request id in ctx, or an empty string.
func UseRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// UseLogger returns the logger from the context, or fallback when none is set.
func UseLogger(ctx context.Context, fallback *logrus.Entry) *logrus.Entry {
	if logger, ok := ctx.Value(loggerKey).(*logrus.Entry); ok && logger != nil {
		return logger
	}
	return fallback
}
