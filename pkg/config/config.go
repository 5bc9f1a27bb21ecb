package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// ErrNoGenerationProvider is returned when neither gemini nor openai credentials are set
var ErrNoGenerationProvider = errors.New("no generation provider configured, set gemini or openai api key")

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Feed FeedConfig `yaml:"feed" json:"feed" jsonschema:"description=Contributor feed configuration"`

	Schedule struct {
		Cron string `yaml:"cron" json:"cron" jsonschema:"description=Cron expression with seconds for periodic runs (empty runs once)"`
	} `yaml:"schedule" json:"schedule" jsonschema:"description=Scheduler configuration"`

	Generation GenerationConfig `yaml:"generation" json:"generation" jsonschema:"description=Summary generation providers"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Content extraction configuration"`

	Overlay struct {
		Dir string `yaml:"dir" json:"dir" jsonschema:"default=.,description=Directory for rendered overlay files"`
	} `yaml:"overlay" json:"overlay" jsonschema:"description=Overlay output configuration"`

	Audit AuditConfig `yaml:"audit" json:"audit" jsonschema:"description=Audit log configuration"`

	Notify NotifyConfig `yaml:"notify" json:"notify" jsonschema:"description=Notification channels"`
}

// FeedConfig holds feed source settings
type FeedConfig struct {
	URL       string        `yaml:"url" json:"url" jsonschema:"default=https://example.com/sports/feed.xml,description=RSS/Atom feed with contributor posts"`
	MaxItems  int           `yaml:"max_items" json:"max_items" jsonschema:"default=10,minimum=1,description=Maximum entries processed per run"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Feed fetch timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=SportsWatch/1.0,description=User agent for feed requests"`
}

// ProviderConfig holds settings of a single generation provider
type ProviderConfig struct {
	APIKey      string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key, provider is disabled when empty"`
	Endpoint    string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=API endpoint"`
	Model       string        `yaml:"model" json:"model" jsonschema:"description=Model name"`
	Temperature float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.7,description=Temperature for response generation"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=200,description=Maximum tokens in response"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
}

// GenerationConfig holds primary and secondary summary providers
type GenerationConfig struct {
	Gemini           ProviderConfig `yaml:"gemini" json:"gemini" jsonschema:"description=Primary provider (Gemini)"`
	OpenAI           ProviderConfig `yaml:"openai" json:"openai" jsonschema:"description=Secondary provider (OpenAI compatible)"`
	MinSummaryLength int            `yaml:"min_summary_length" json:"min_summary_length" jsonschema:"default=20,description=Summaries must be longer than this many characters"`
	Thumbnails       bool           `yaml:"thumbnails" json:"thumbnails" jsonschema:"default=false,description=Generate thumbnail image descriptions"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Extract full article text for short feed bodies"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=SportsWatch/1.0,description=User agent for HTTP requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=100,description=Bodies shorter than this are extracted from the link"`
}

// AuditConfig holds audit log settings
type AuditConfig struct {
	Type string `yaml:"type" json:"type" jsonschema:"default=file,enum=file,enum=sqlite,description=Audit storage type"`
	Path string `yaml:"path" json:"path" jsonschema:"default=publishing_audit.jsonl,description=Audit file path or sqlite DSN"`
}

// NotifyConfig holds notification channels
type NotifyConfig struct {
	Timeout  time.Duration  `yaml:"timeout" json:"timeout" jsonschema:"default=5s,description=Per request timeout"`
	Telegram TelegramConfig `yaml:"telegram" json:"telegram" jsonschema:"description=Telegram channel"`
	Discord  DiscordConfig  `yaml:"discord" json:"discord" jsonschema:"description=Discord channel"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp" json:"whatsapp" jsonschema:"description=WhatsApp channel"`
}

// TelegramConfig holds telegram bot settings
type TelegramConfig struct {
	Token      string        `yaml:"token" json:"token" jsonschema:"description=Bot token"`
	ChatID     string        `yaml:"chat_id" json:"chat_id" jsonschema:"description=Target chat id"`
	APIURL     string        `yaml:"api_url" json:"api_url" jsonschema:"default=https://api.telegram.org,description=Bot API base URL"`
	ParseMode  string        `yaml:"parse_mode" json:"parse_mode" jsonschema:"default=Markdown,description=Markdown, HTML or empty"`
	Silent     bool          `yaml:"silent" json:"silent" jsonschema:"default=false,description=Send without notification"`
	Retries    int           `yaml:"retries" json:"retries" jsonschema:"default=3,description=Send attempts"`
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=2s,description=Fixed delay between attempts"`
}

// DiscordConfig holds discord webhook settings
type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url" json:"webhook_url" jsonschema:"description=Discord webhook URL"`
}

// WhatsAppConfig holds whatsapp cloud api settings
type WhatsAppConfig struct {
	Token    string `yaml:"token" json:"token" jsonschema:"description=Graph API token"`
	PhoneID  string `yaml:"phone_id" json:"phone_id" jsonschema:"description=Sender phone id"`
	ToNumber string `yaml:"to_number" json:"to_number" jsonschema:"description=Recipient number"`
	APIURL   string `yaml:"api_url" json:"api_url" jsonschema:"default=https://graph.facebook.com/v18.0,description=Graph API base URL"`
}

// envOverrides maps environment variables to config fields, applied after the file is parsed
func envOverrides(cfg *Config) map[string]*string {
	return map[string]*string{
		"GEMINI_API_KEY":      &cfg.Generation.Gemini.APIKey,
		"OPENAI_API_KEY":      &cfg.Generation.OpenAI.APIKey,
		"RSS_FEED_URL":        &cfg.Feed.URL,
		"TELEGRAM_BOT_TOKEN":  &cfg.Notify.Telegram.Token,
		"TELEGRAM_CHAT_ID":    &cfg.Notify.Telegram.ChatID,
		"DISCORD_WEBHOOK_URL": &cfg.Notify.Discord.WebhookURL,
		"WHATSAPP_TOKEN":      &cfg.Notify.WhatsApp.Token,
		"WHATSAPP_PHONE_ID":   &cfg.Notify.WhatsApp.PhoneID,
		"WHATSAPP_TO_NUMBER":  &cfg.Notify.WhatsApp.ToNumber,
	}
}

// Load reads configuration from a YAML file and validates it. Empty path means environment only.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(cfg); err != nil {
		// schema validation is supplementary
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return cfg, nil
}

// Read reads configuration with env overrides and defaults applied, without validation.
// Used by modes not needing generation providers, like signal broadcast.
func Read(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// expand environment variables
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	for env, field := range envOverrides(&cfg) {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}

	setDefaults(&cfg)
	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	if cfg.Feed.URL == "" {
		cfg.Feed.URL = "https://example.com/sports/feed.xml"
	}
	if cfg.Feed.MaxItems == 0 {
		cfg.Feed.MaxItems = 10
	}
	if cfg.Feed.Timeout == 0 {
		cfg.Feed.Timeout = 30 * time.Second
	}
	if cfg.Feed.UserAgent == "" {
		cfg.Feed.UserAgent = "SportsWatch/1.0"
	}

	gen := &cfg.Generation
	if gen.Gemini.Endpoint == "" {
		gen.Gemini.Endpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"
	}
	if gen.OpenAI.Endpoint == "" {
		gen.OpenAI.Endpoint = "https://api.openai.com/v1"
	}
	if gen.OpenAI.Model == "" {
		gen.OpenAI.Model = "gpt-3.5-turbo"
	}
	for _, p := range []*ProviderConfig{&gen.Gemini, &gen.OpenAI} {
		if p.Temperature == 0 {
			p.Temperature = 0.7
		}
		if p.MaxTokens == 0 {
			p.MaxTokens = 200
		}
		if p.Timeout == 0 {
			p.Timeout = 30 * time.Second
		}
	}
	if gen.MinSummaryLength == 0 {
		gen.MinSummaryLength = 20
	}

	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 30 * time.Second
	}
	if cfg.Extraction.UserAgent == "" {
		cfg.Extraction.UserAgent = "SportsWatch/1.0"
	}
	if cfg.Extraction.MinTextLength == 0 {
		cfg.Extraction.MinTextLength = 100
	}

	if cfg.Overlay.Dir == "" {
		cfg.Overlay.Dir = "."
	}

	if cfg.Audit.Type == "" {
		cfg.Audit.Type = "file"
	}
	if cfg.Audit.Path == "" {
		cfg.Audit.Path = "publishing_audit.jsonl"
	}

	n := &cfg.Notify
	if n.Timeout == 0 {
		n.Timeout = 5 * time.Second
	}
	if n.Telegram.APIURL == "" {
		n.Telegram.APIURL = "https://api.telegram.org"
	}
	if n.Telegram.ParseMode == "" {
		n.Telegram.ParseMode = "Markdown"
	}
	if n.Telegram.Retries == 0 {
		n.Telegram.Retries = 3
	}
	if n.Telegram.RetryDelay == 0 {
		n.Telegram.RetryDelay = 2 * time.Second
	}
	if n.WhatsApp.APIURL == "" {
		n.WhatsApp.APIURL = "https://graph.facebook.com/v18.0"
	}
}

// Validate checks configuration for correctness. Missing optional capabilities are reported
// as warnings, only the absence of every generation provider is fatal.
func Validate(cfg *Config) error {
	gen := cfg.Generation
	if gen.Gemini.APIKey == "" && gen.OpenAI.APIKey == "" {
		return ErrNoGenerationProvider
	}
	if gen.Gemini.APIKey == "" {
		lgr.Printf("[WARN] gemini api key not configured, will use openai only")
	}
	if gen.OpenAI.APIKey == "" {
		lgr.Printf("[WARN] openai api key not configured, no fallback available")
	}
	for _, p := range []ProviderConfig{gen.Gemini, gen.OpenAI} {
		if p.Temperature < 0 || p.Temperature > 2 {
			return fmt.Errorf("generation temperature must be between 0 and 2")
		}
	}
	if gen.MinSummaryLength < 0 {
		return fmt.Errorf("generation.min_summary_length must be non-negative")
	}

	if cfg.Feed.MaxItems < 1 {
		return fmt.Errorf("feed.max_items must be at least 1")
	}

	if cfg.Audit.Type != "file" && cfg.Audit.Type != "sqlite" {
		return fmt.Errorf("audit.type must be file or sqlite, got %q", cfg.Audit.Type)
	}

	if cfg.Notify.Telegram.Retries < 1 {
		return fmt.Errorf("notify.telegram.retries must be at least 1")
	}

	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// Secrets returns all configured credentials, used to mask them in logs
func (c *Config) Secrets() []string {
	candidates := []string{
		c.Generation.Gemini.APIKey, c.Generation.OpenAI.APIKey,
		c.Notify.Telegram.Token, c.Notify.WhatsApp.Token, c.Notify.Discord.WebhookURL,
	}
	res := make([]string, 0, len(candidates))
	for _, s := range candidates {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}
