package assistant

import (
	"github.com/smallbiznis/tariffdesk/internal/assistant/completion"
	"github.com/smallbiznis/tariffdesk/internal/assistant/service"
	"github.com/smallbiznis/tariffdesk/internal/assistant/stream"
	"github.com/smallbiznis/tariffdesk/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("assistant.service",
	fx.Provide(provideCompletionClient),
	fx.Provide(stream.NewSessions),
	fx.Provide(service.New),
)

func provideCompletionClient(cfg config.Config, log *zap.Logger) completion.Client {
	if cfg.OpenAI.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set, chat completions will fail")
	}
	return completion.NewOpenAIClient(cfg.OpenAI)
}
