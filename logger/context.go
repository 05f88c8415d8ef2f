package logger

import "context"

type ctxKey string

const (
	traceIDKey   ctxKey = "trace_id"
	requestIDKey ctxKey = "request_id"
)

// contextKeys are appended to every *Ctx call, in this order, when present.
var contextKeys = []ctxKey{traceIDKey, requestIDKey}

func (l *Logger) InfowCtx(ctx context.Context, msg string, kv ...any) {
	l.Infow(msg, withContextFields(ctx, kv)...)
}

func (l *Logger) WarnwCtx(ctx context.Context, msg string, kv ...any) {
	l.Warnw(msg, withContextFields(ctx, kv)...)
}

func (l *Logger) ErrorwCtx(ctx context.Context, msg string, kv ...any) {
	l.Errorw(msg, withContextFields(ctx, kv)...)
}

func (l *Logger) DebugwCtx(ctx context.Context, msg string, kv ...any) {
	l.Debugw(msg, withContextFields(ctx, kv)...)
}

func withContextFields(ctx context.Context, kv []any) []any {
	for _, key := range contextKeys {
		if v := stringValue(ctx, key); v != "" {
			kv = append(kv, string(key), v)
		}
	}
	return kv
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return withValue(ctx, traceIDKey, traceID)
}

// ContextWithRequestID tags ctx so *Ctx log calls carry request_id.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return withValue(ctx, requestIDKey, requestID)
}

func TraceIDFromContext(ctx context.Context) string { return stringValue(ctx, traceIDKey) }

func RequestIDFromContext(ctx context.Context) string { return stringValue(ctx, requestIDKey) }

func withValue(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, v)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(key).(string)
	return s
}
