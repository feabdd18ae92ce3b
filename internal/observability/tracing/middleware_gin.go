package tracing

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/tariffdesk/internal/observability/context"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "tariffdesk/http"

// GinMiddleware opens one server span per request. It runs after the request
// logger so the request and session ids are already on the context. Chat
// streams keep their span open until the last SSE frame is written.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer(tracerName)
	return func(c *gin.Context) {
		method := strings.ToUpper(c.Request.Method)
		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, "HTTP "+method, trace.WithSpanKind(trace.SpanKindServer))
		ctx = withRequestBaggage(ctx, span)

		c.Request = c.Request.WithContext(ctx)
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		span.SetName("HTTP " + method + " " + route)
		span.SetAttributes(SafeAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
			attribute.Int64("http.server_duration_ms", time.Since(start).Milliseconds()),
		)...)
		if intent := c.GetString("chat_intent"); intent != "" {
			span.SetAttributes(SafeAttributes(
				attribute.String("chat.intent", intent),
				attribute.Bool("chat.streamed", isEventStream(c.Writer.Header())),
			)...)
		}
		endSpan(span, status, c.Errors.Last())
	}
}

// withRequestBaggage copies the request and session ids onto the span and
// propagates the request id as baggage.
func withRequestBaggage(ctx context.Context, span trace.Span) context.Context {
	if sessionID := obscontext.SessionIDFromContext(ctx); sessionID != "" {
		span.SetAttributes(SafeAttributes(attribute.String("chat.session_id", sessionID))...)
	}
	requestID := obscontext.RequestIDFromContext(ctx)
	if requestID == "" {
		return ctx
	}
	span.SetAttributes(attribute.String("request_id", requestID))
	member, err := baggage.NewMember("request_id", requestID)
	if err != nil {
		return ctx
	}
	bag, err := baggage.New(member)
	if err != nil {
		return ctx
	}
	return baggage.ContextWithBaggage(ctx, bag)
}

// endSpan marks 5xx responses as errors. Rate-limit and validation
// rejections stay unset.
func endSpan(span trace.Span, status int, lastErr *gin.Error) {
	defer span.End()
	if status < http.StatusInternalServerError {
		return
	}
	if lastErr != nil {
		if safeErr := SafeError(lastErr.Err); safeErr != nil {
			span.RecordError(safeErr)
		}
	}
	span.SetStatus(codes.Error, http.StatusText(status))
}

func isEventStream(h http.Header) bool {
	return strings.HasPrefix(h.Get("Content-Type"), "text/event-stream")
}
