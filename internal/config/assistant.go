package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const DefaultSystemPrompt = "You are a helpful bilingual (Arabic/English) assistant embedded in an internal Orange business tool.\n" +
	"- Always keep answers concise, numeric when relevant, and provide both Arabic and English in the same reply.\n" +
	"- When the user needs a pro-rata calculation, ask the server tool (already handled externally) and then summarise the returned values clearly.\n" +
	"- When the user wants to open a document, match the title against the docs JSON list and return the best match including the title and URL (or say the link is missing).\n" +
	"- Otherwise, assist normally with friendly, professional tone."

// AssistantConfig tunes the chat assistant without a redeploy.
type AssistantConfig struct {
	SystemPrompt string   `mapstructure:"systemPrompt"`
	NavTriggers  []string `mapstructure:"navTriggers"`
	// KnowledgeLimit caps how many knowledge snippets reach the prompt.
	KnowledgeLimit int `mapstructure:"knowledgeLimit"`
}

func DefaultAssistantConfig() AssistantConfig {
	return AssistantConfig{
		SystemPrompt:   DefaultSystemPrompt,
		KnowledgeLimit: 3,
	}
}

type AssistantConfigHolder struct {
	current atomic.Value // holds AssistantConfig
}

// NewStaticAssistantConfigHolder serves a fixed config. Used in tests.
func NewStaticAssistantConfigHolder(cfg AssistantConfig) *AssistantConfigHolder {
	holder := &AssistantConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

// NewAssistantConfigHolder reads assistant.yml and keeps it hot reloaded.
// A missing file falls back to the built-in defaults.
func NewAssistantConfigHolder(log *zap.Logger) (*AssistantConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("assistant-config")

	v := viper.New()

	v.SetConfigName("assistant")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/tariffdesk")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TARIFFDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultAssistantConfig()
	v.SetDefault("assistant.systemPrompt", defaults.SystemPrompt)
	v.SetDefault("assistant.navTriggers", defaults.NavTriggers)
	v.SetDefault("assistant.knowledgeLimit", defaults.KnowledgeLimit)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileLoaded = false
	}

	cfg, err := decodeAssistantConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticAssistantConfigHolder(cfg)
	if !fileLoaded {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeAssistantConfig(v)
		if err != nil {
			log.Warn("reload rejected", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *AssistantConfigHolder) Get() AssistantConfig {
	return h.current.Load().(AssistantConfig)
}

func decodeAssistantConfig(v *viper.Viper) (AssistantConfig, error) {
	var cfg AssistantConfig
	if err := v.UnmarshalKey("assistant", &cfg); err != nil {
		return AssistantConfig{}, err
	}
	cfg.SystemPrompt = strings.TrimSpace(cfg.SystemPrompt)
	if err := validateAssistantConfig(cfg); err != nil {
		return AssistantConfig{}, err
	}
	return cfg, nil
}

func validateAssistantConfig(cfg AssistantConfig) error {
	if cfg.SystemPrompt == "" {
		return errors.New("assistant.systemPrompt cannot be empty")
	}
	if cfg.KnowledgeLimit < 0 {
		return errors.New("assistant.knowledgeLimit cannot be negative")
	}
	for _, trigger := range cfg.NavTriggers {
		if strings.TrimSpace(trigger) == "" {
			return errors.New("assistant.navTriggers cannot contain blank entries")
		}
	}
	return nil
}
