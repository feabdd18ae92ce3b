package observability

import (
	"strings"

	"github.com/smallbiznis/tariffdesk/internal/config"
)

// Config is the slice of application config the logger, metrics and
// tracing providers read.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
}

func LoadConfig(cfg config.Config) Config {
	name := strings.TrimSpace(cfg.AppName)
	if name == "" {
		name = "tariffdesk"
	}
	tel := cfg.Telemetry
	return Config{
		ServiceName:          name,
		Environment:          strings.TrimSpace(cfg.Environment),
		Version:              strings.TrimSpace(cfg.AppVersion),
		LogLevel:             tel.LogLevel,
		LogFormat:            tel.LogFormat,
		OtelEnabled:          tel.OTelEnabled,
		OtelExporterEndpoint: tel.OTLPEndpoint,
		OtelExporterProtocol: tel.OTLPProtocol,
		OtelSamplingRatio:    tel.SamplingRatio,
	}
}

// Debug turns on development logging and gin debug mode.
func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	switch strings.ToLower(c.Environment) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}
