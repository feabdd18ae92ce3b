package tracing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/tariffdesk/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTracedEngine(t *testing.T) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := obscontext.WithRequestID(c.Request.Context(), "req-1")
		ctx = obscontext.WithSessionID(ctx, "session:abc")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.Use(GinMiddleware())
	return r, recorder
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestGinMiddlewareStreamedChat(t *testing.T) {
	r, recorder := newTracedEngine(t)
	r.POST("/api/chat", func(c *gin.Context) {
		c.Set("chat_intent", "completion")
		c.Header("Content-Type", "text/event-stream")
		c.String(http.StatusOK, "data: [DONE]\n\n")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "HTTP POST /api/chat", spans[0].Name())

	attrs := spanAttrs(spans[0])
	assert.Equal(t, "completion", attrs["chat.intent"].AsString())
	assert.True(t, attrs["chat.streamed"].AsBool())
	assert.Equal(t, "session:abc", attrs["chat.session_id"].AsString())
	assert.Equal(t, "req-1", attrs["request_id"].AsString())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestGinMiddlewareStatusMapping(t *testing.T) {
	r, recorder := newTracedEngine(t)
	r.GET("/limited", func(c *gin.Context) {
		c.AbortWithStatus(http.StatusTooManyRequests)
	})
	r.GET("/broken", func(c *gin.Context) {
		_ = c.Error(errors.New("docs store offline"))
		c.AbortWithStatus(http.StatusInternalServerError)
	})

	for _, path := range []string{"/limited", "/broken", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	spans := recorder.Ended()
	require.Len(t, spans, 3)

	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	_, hasIntent := spanAttrs(spans[0])["chat.intent"]
	assert.False(t, hasIntent)

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	require.NotEmpty(t, spans[1].Events())
	assert.Equal(t, "exception", spans[1].Events()[0].Name)

	assert.Equal(t, "HTTP GET unknown", spans[2].Name())
}
