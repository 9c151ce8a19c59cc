package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every configuration section.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Client ClientConfig
	Log    LogConfig
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	addr, err := normalizeAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	if cfg.AI.HistoryLimit < 0 {
		cfg.AI.HistoryLimit = 0
	}
	if cfg.Client.ViewHeight < 3 {
		cfg.Client.ViewHeight = 3
	}
	if cfg.Client.LogFile == "" {
		cfg.Client.LogFile = filepath.Join(os.TempDir(), "camacho.log")
	}

	return &cfg, nil
}

// ServerConfig describes the HTTP server.
type ServerConfig struct {
	Port        string `env:"PORT" envDefault:"8000"`
	Addr        string
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
}

// normalizeAddr turns PORT into a listen address.
func normalizeAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// ":8000" and "127.0.0.1:8000" are used as given.
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// AIConfig describes the chat model.
type AIConfig struct {
	APIKey       string   `env:"ARK_API_KEY"`
	AccessKey    string   `env:"ARK_ACCESS_KEY"`
	SecretKey    string   `env:"ARK_SECRET_KEY"`
	Model        string   `env:"Model"`
	BaseURL      string   `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	Region       string   `env:"ARK_REGION" envDefault:"cn-beijing"`
	Temperature  *float64 `env:"ARK_TEMPERATURE"`
	TopP         *float64 `env:"ARK_TOP_P"`
	MaxTokens    *int     `env:"ARK_MAX_TOKENS"`
	HistoryLimit int      `env:"AI_HISTORY_LIMIT" envDefault:"10"`
	PersonaID    string   `env:"AI_PERSONA" envDefault:"president-camacho"`
}

// Enabled reports whether a model and credentials are configured.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel creates an Ark chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, errors.New("ark model or credentials missing: set Model with ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

// ClientConfig describes the terminal chat client.
type ClientConfig struct {
	BaseURL    string `env:"CAMACHO_BASE_URL" envDefault:"http://127.0.0.1:8000"`
	Transport  string `env:"CAMACHO_TRANSPORT" envDefault:"http"`
	Seed       uint64 `env:"CAMACHO_SEED" envDefault:"0"`
	ViewHeight int    `env:"CAMACHO_VIEW_HEIGHT" envDefault:"16"`
	LogFile    string `env:"CAMACHO_LOG_FILE"`
}

// LogConfig describes log output.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}
