package completion

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"github.com/smallbiznis/tariffdesk/internal/config"
)

// OpenAIClient adapts go-openai to Client.
type OpenAIClient struct {
	api       *openai.Client
	model     string
	maxTokens int
}

func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	c := &OpenAIClient{model: cfg.Model, maxTokens: cfg.MaxTokens}
	if cfg.APIKey == "" {
		return c
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	c.api = openai.NewClientWithConfig(clientCfg)
	return c
}

func (c *OpenAIClient) Stream(ctx context.Context, req Request) (Stream, error) {
	if c == nil || c.api == nil {
		return nil, ErrNotConfigured
	}

	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  messages,
		Stream:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("open completion stream: %w", err)
	}
	return &openAIStream{stream: stream}, nil
}

type openAIStream struct {
	stream *openai.ChatCompletionStream
}

// Recv skips chunks without content so callers only see real deltas.
func (s *openAIStream) Recv() (string, error) {
	for {
		resp, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if content := resp.Choices[0].Delta.Content; content != "" {
			return content, nil
		}
	}
}

func (s *openAIStream) Close() error {
	return s.stream.Close()
}
