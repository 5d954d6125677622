package logger

import (
	"context"
	"log/slog"
	"os"
)

type ContextKey string

const (
	UserIDKey     ContextKey = "qa.user.id"
	DocumentIDKey ContextKey = "qa.document.id"
)

// ContextLogger extracts request-scoped identifiers from the context and
// attaches them as structured fields.
type ContextLogger struct {
	logger      *slog.Logger
	serviceName string
}

// NewContextLogger creates a context-aware logger for the named service.
func NewContextLogger(serviceName string) *ContextLogger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)

	return &ContextLogger{
		logger:      slog.New(handler),
		serviceName: serviceName,
	}
}

// WithContext returns a logger with the context's identifiers added as fields.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	log := cl.logger.With("service", cl.serviceName)

	var fields []any
	if userID := ctx.Value(UserIDKey); userID != nil {
		fields = append(fields, "user_id", userID)
	}
	if documentID := ctx.Value(DocumentIDKey); documentID != nil {
		fields = append(fields, "document_id", documentID)
	}

	if len(fields) > 0 {
		log = log.With(fields...)
	}

	return log
}

// WithUserID adds the user id to the context for logging.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithDocumentID adds the document id to the context for logging.
func WithDocumentID(ctx context.Context, documentID string) context.Context {
	return context.WithValue(ctx, DocumentIDKey, documentID)
}
