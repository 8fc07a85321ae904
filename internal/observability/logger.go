package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrService = "service"
	attrEnv     = "env"
	attrMode    = "mode"
	attrRunID   = "run_id"
	attrFile    = "file"
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
)

// RunIdentity names the invocation a log record belongs to.
type RunIdentity struct {
	Service string
	Env     string
	Mode    AppMode
	RunID   string
}

func (id RunIdentity) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String(attrService, id.Service),
		slog.String(attrMode, string(id.Mode)),
	}

	if id.Env != "" {
		attrs = append(attrs, slog.String(attrEnv, id.Env))
	}

	if id.RunID != "" {
		attrs = append(attrs, slog.String(attrRunID, id.RunID))
	}

	return attrs
}

type fileKey struct{}

// WithFile returns a context whose log records name the tree file rel.
func WithFile(ctx context.Context, rel string) context.Context {
	return context.WithValue(ctx, fileKey{}, rel)
}

// RunHandler is an [slog.Handler] that stamps every record with the run
// identity. Records logged with a context also carry the file set by
// [WithFile] and the active span's trace_id and span_id.
type RunHandler struct {
	inner slog.Handler
}

// NewRunHandler wraps inner. Identity attributes are attached before any
// group, so they stay at the top level.
func NewRunHandler(inner slog.Handler, id RunIdentity) *RunHandler {
	return &RunHandler{inner: inner.WithAttrs(id.attrs())}
}

// Enabled delegates to the inner handler.
func (h *RunHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds the context attributes, then delegates.
func (h *RunHandler) Handle(ctx context.Context, record slog.Record) error {
	if rel, ok := ctx.Value(fileKey{}).(string); ok {
		record.AddAttrs(slog.String(attrFile, rel))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	err := h.inner.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("run handler: %w", err)
	}

	return nil
}

// WithAttrs implements [slog.Handler].
func (h *RunHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RunHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup implements [slog.Handler].
func (h *RunHandler) WithGroup(name string) slog.Handler {
	return &RunHandler{inner: h.inner.WithGroup(name)}
}
