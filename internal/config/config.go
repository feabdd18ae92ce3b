package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	// ReadOnly disables every registry write. It is forced on for serverless
	// and production deployments where the working tree is immutable.
	ReadOnly bool

	Telemetry TelemetryConfig

	DocsStore string
	DocsFile  string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	OpenAI    OpenAIConfig
	RateLimit RateLimitConfig
	UI        UIConfig

	StreamHeartbeat time.Duration
}

type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

type RateLimitConfig struct {
	Max       int
	Window    time.Duration
	RedisAddr string
}

// TelemetryConfig feeds the logger and the OTLP exporters. OTEL is off
// unless OTEL_ENABLED is set.
type TelemetryConfig struct {
	LogLevel      string
	LogFormat     string
	OTelEnabled   bool
	OTLPEndpoint  string
	OTLPProtocol  string
	SamplingRatio float64
}

type UIConfig struct {
	UseLegacy bool
	Dir       string
	LegacyDir string
}

const (
	DocsStoreFile = "file"
	DocsStoreDB   = "db"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	readOnly := getenvBool("READ_ONLY", false) ||
		strings.TrimSpace(os.Getenv("VERCEL")) != "" ||
		environment == "production"

	cfg := Config{
		AppName:           getenv("APP_SERVICE", "tariffdesk"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       environment,
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		ReadOnly:          readOnly,
		DocsStore:         normalizeDocsStore(getenv("DOCS_STORE", DocsStoreFile)),
		DocsFile:          getenv("DOCS_FILE", "data/docs.json"),
		DBType:            getenv("DATABASE_TYPE", "sqlite"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "tariffdesk.db"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		OpenAI: OpenAIConfig{
			APIKey:    strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
			BaseURL:   strings.TrimSpace(getenv("OPENAI_BASE_URL", "")),
			Model:     getenv("OPENAI_MODEL", "gpt-4o-mini"),
			MaxTokens: getenvInt("OPENAI_MAX_TOKENS", 1024),
		},
		RateLimit: RateLimitConfig{
			Max:       getenvInt("RATE_LIMIT_MAX", 10),
			Window:    getenvDuration("RATE_LIMIT_WINDOW", time.Minute),
			RedisAddr: strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
		},
		UI: UIConfig{
			UseLegacy: getenvBool("USE_LEGACY_UI", false),
			Dir:       getenv("UI_DIR", "web/dist"),
			LegacyDir: getenv("LEGACY_UI_DIR", "web/legacy"),
		},
		Telemetry: TelemetryConfig{
			LogLevel:      strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
			LogFormat:     strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),
			OTelEnabled:   getenvBool("OTEL_ENABLED", false),
			OTLPEndpoint:  strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")),
			OTLPProtocol:  strings.ToLower(strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
			SamplingRatio: getenvRatio("OTEL_SAMPLING_RATIO", 0.1),
		},
		StreamHeartbeat: getenvDuration("STREAM_HEARTBEAT", 25*time.Second),
	}

	return cfg
}

// UIRoot returns the static bundle directory selected by USE_LEGACY_UI.
func (c Config) UIRoot() string {
	if c.UI.UseLegacy {
		return c.UI.LegacyDir
	}
	return c.UI.Dir
}

func normalizeDocsStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case DocsStoreDB, "database", "gorm":
		return DocsStoreDB
	default:
		return DocsStoreFile
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// getenvDuration accepts Go durations ("90s") or plain seconds ("90").
func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

// getenvRatio parses a sampling ratio, clamped to [0, 1].
func getenvRatio(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	switch {
	case parsed < 0:
		return 0
	case parsed > 1:
		return 1
	default:
		return parsed
	}
}
