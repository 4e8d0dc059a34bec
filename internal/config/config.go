package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration, loaded once at startup and
// passed by reference into every collaborator. No package-level state.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	LLM          LLMConfig          `yaml:"llm"`
	Line         LineConfig         `yaml:"line"`
	History      HistoryConfig      `yaml:"history"`
	Conversation ConversationConfig `yaml:"conversation"`
	Logging      LoggingConfig      `yaml:"logging"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LLMConfig selects the completion provider.
type LLMConfig struct {
	Provider  string            `yaml:"provider"` // "openai" or "anthropic"
	OpenAI    LLMProviderConfig `yaml:"openai"`
	Anthropic LLMProviderConfig `yaml:"anthropic"`
}

type LLMProviderConfig struct {
	APIKey      string        `yaml:"api_key"`
	APIURL      string        `yaml:"api_url"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// LineConfig covers the messaging platform's reply endpoint.
type LineConfig struct {
	ReplyURL     string        `yaml:"reply_url"`
	ChannelToken string        `yaml:"channel_token"`
	Timeout      time.Duration `yaml:"timeout"`
}

// HistoryConfig selects the conversation-history backend.
type HistoryConfig struct {
	Backend    string `yaml:"backend"` // "redis", "sqlite" or "memory"
	RedisURL   string `yaml:"redis_url"`
	SQLitePath string `yaml:"sqlite_path"`
}

type ConversationConfig struct {
	// Persona is the content of the system turn seeding every history.
	Persona string `yaml:"persona"`
	// Stateless disables history persistence: every message is answered
	// against the seed turn alone, nothing is loaded or written back.
	Stateless bool `yaml:"stateless"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

const (
	defaultPersona  = "you are a capable assistant"
	defaultReplyURL = "https://api.line.me/v2/bot/message/reply"
)

// Load reads the yaml config file and applies environment overrides for
// secrets, so keys never have to live in the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		LLM: LLMConfig{
			Provider: "openai",
			OpenAI: LLMProviderConfig{
				APIURL:  "https://api.openai.com/v1",
				Model:   "gpt-3.5-turbo",
				Timeout: 30 * time.Second,
			},
			Anthropic: LLMProviderConfig{
				APIURL:    "https://api.anthropic.com/v1",
				Model:     "claude-3-5-haiku-latest",
				MaxTokens: 1024,
				Timeout:   30 * time.Second,
			},
		},
		Line: LineConfig{
			ReplyURL: defaultReplyURL,
			Timeout:  60 * time.Second,
		},
		History: HistoryConfig{
			Backend:    "memory",
			SQLitePath: "chatrelay.db",
		},
		Conversation: ConversationConfig{
			Persona: defaultPersona,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// applyEnv overrides secrets from the environment. Env always wins over the
// file so deployments can keep credentials out of mounted configs.
func (c *Config) applyEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.OpenAI.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.LLM.Anthropic.APIKey = key
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		switch c.LLM.Provider {
		case "openai":
			c.LLM.OpenAI.APIKey = key
		case "anthropic":
			c.LLM.Anthropic.APIKey = key
		}
	}
	if token := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"); token != "" {
		c.Line.ChannelToken = token
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		c.History.RedisURL = url
	}
}

// Validate checks everything the process cannot run without.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai":
		if c.LLM.OpenAI.APIKey == "" {
			return fmt.Errorf("openai API key is required (set OPENAI_API_KEY env var or config)")
		}
	case "anthropic":
		if c.LLM.Anthropic.APIKey == "" {
			return fmt.Errorf("anthropic API key is required (set ANTHROPIC_API_KEY env var or config)")
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.LLM.Provider)
	}

	if c.Line.ChannelToken == "" {
		return fmt.Errorf("LINE channel access token is required (set LINE_CHANNEL_ACCESS_TOKEN env var or config)")
	}

	switch c.History.Backend {
	case "redis":
		if c.History.RedisURL == "" {
			return fmt.Errorf("history backend redis requires redis_url (or REDIS_URL env var)")
		}
	case "sqlite":
		if c.History.SQLitePath == "" {
			return fmt.Errorf("history backend sqlite requires sqlite_path")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported history backend: %s", c.History.Backend)
	}

	if c.Conversation.Persona == "" {
		return fmt.Errorf("conversation persona must not be empty")
	}

	return nil
}
