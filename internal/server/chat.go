package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	assistantdomain "github.com/smallbiznis/tariffdesk/internal/assistant/domain"
	"github.com/smallbiznis/tariffdesk/internal/assistant/completion"
	"github.com/smallbiznis/tariffdesk/internal/assistant/stream"
	"github.com/smallbiznis/tariffdesk/internal/observability/logger"
	"go.uber.org/zap"
)

const (
	headerSessionID = "X-Session-Id"
	chatIntentKey   = "chat_intent"
)

type sseChunk struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Chat answers calculator and registry intents with a JSON message and
// streams everything else as server-sent events.
func (s *Server) Chat(c *gin.Context) {
	var req assistantdomain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.invalidChatRequest(c, []ValidationError{{
			Field:   "body",
			Code:    "invalid_json",
			Message: err.Error(),
		}})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		if vErr := asValidationErrors(err); vErr != nil {
			s.invalidChatRequest(c, vErr.Errors)
			return
		}
		AbortWithError(c, err)
		return
	}

	reply, err := s.assistantSvc.Dispatch(c.Request.Context(), req)
	if err != nil {
		s.chatFailure(c, err)
		return
	}

	c.Set(chatIntentKey, string(reply.Intent))
	s.httpMetrics.RecordChatIntent(string(reply.Intent))

	if reply.Stream == nil {
		c.JSON(http.StatusOK, gin.H{"message": reply.Message})
		return
	}
	s.streamCompletion(c, reply.Stream)
}

func (s *Server) invalidChatRequest(c *gin.Context, details []ValidationError) {
	_ = c.Error(ErrInvalidRequest)
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request format",
		"details": details,
	})
}

func (s *Server) chatFailure(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context()).Error("chat request failed", zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Failed to process chat request",
		"message": err.Error(),
	})
}

func (s *Server) streamCompletion(c *gin.Context, plan *assistantdomain.StreamPlan) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	task, err := stream.Open(ctx, s.completion, s.completionRequest(plan), stream.WithHeartbeat(s.cfg.StreamHeartbeat))
	if err != nil {
		s.chatFailure(c, err)
		return
	}
	defer task.Abort()

	key := chatSessionKey(c)
	s.sessions.Replace(key, task)
	defer s.sessions.Release(key, task)

	s.obsMetrics.RecordStreamStarted(ctx)
	s.httpMetrics.StreamOpened()
	defer s.httpMetrics.StreamClosed()

	writer := c.Writer
	headers := writer.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	headers.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if plan.Prefix != "" {
		if err := writeSSEData(writer, sseChunk{Content: plan.Prefix}); err != nil {
			return
		}
	}
	writer.Flush()

	for ev := range task.Events() {
		var werr error
		switch ev.Kind {
		case stream.EventHeartbeat:
			_, werr = io.WriteString(writer, ":\n\n")
		case stream.EventContent:
			werr = writeSSEData(writer, sseChunk{Content: ev.Content})
		case stream.EventDone:
			_, werr = io.WriteString(writer, "data: [DONE]\n\n")
		case stream.EventError:
			werr = writeSSEData(writer, sseChunk{Error: streamErrorMessage(ev.Err)})
		}
		if werr != nil {
			log.Debug("chat stream client gone", zap.Error(werr))
			task.Abort()
			break
		}
		writer.Flush()
	}

	final := task.Wait()
	outcome := streamOutcome(final)
	s.obsMetrics.RecordStreamEnded(ctx, outcome)
	if outcome == "error" {
		log.Warn("chat stream failed", zap.Error(final.Err))
	}
}

func (s *Server) completionRequest(plan *assistantdomain.StreamPlan) completion.Request {
	messages := make([]completion.Message, 0, len(plan.Messages))
	for _, msg := range plan.Messages {
		messages = append(messages, completion.Message{Role: string(msg.Role), Content: msg.Content})
	}
	return completion.Request{
		Model:     s.cfg.OpenAI.Model,
		MaxTokens: s.cfg.OpenAI.MaxTokens,
		Messages:  messages,
	}
}

// chatSessionKey scopes stream supersession to the X-Session-Id header, or
// to the client address when the header is absent.
func chatSessionKey(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(headerSessionID)); id != "" {
		return "session:" + id
	}
	return "ip:" + clientIP(c)
}

func streamOutcome(ev stream.Event) string {
	switch {
	case ev.Kind == stream.EventDone:
		return "done"
	case errors.Is(ev.Err, stream.ErrAborted):
		return "aborted"
	default:
		return "error"
	}
}

func streamErrorMessage(err error) string {
	if err == nil {
		return "Stream error"
	}
	return err.Error()
}

// writeSSEData writes one data frame. HTML characters are left unescaped so
// the client sees the model output verbatim.
func writeSSEData(w io.Writer, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "data: %s\n\n", bytes.TrimRight(buf.Bytes(), "\n"))
	return err
}
