package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds settings for `readmegen serve`.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	PublicURL       string        `yaml:"public_url"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	LLM  LLMConfig  `yaml:"llm"`
	Auth AuthConfig `yaml:"auth"`
}

// LLMConfig configures the completion upstream.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // openai, gemini
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// AuthConfig configures the auth collaborator.
type AuthConfig struct {
	Provider       string `yaml:"provider"` // clerk
	SecretKey      string `yaml:"secret_key"`
	PublishableKey string `yaml:"publishable_key"`
	SignInURL      string `yaml:"sign_in_url"`
}

// DefaultServerConfig returns the defaults applied before the file and env.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":3000",
		ShutdownTimeout: 10 * time.Second,
		LLM: LLMConfig{
			Provider:    "openai",
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4-turbo-preview",
			Temperature: 0.7,
		},
		Auth: AuthConfig{
			Provider: "clerk",
		},
	}
}

// LoadServerConfig reads path (optional) over the defaults, then applies
// environment overrides.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read server config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse server config: %w", err)
		}
	}
	cfg.applyEnv(os.Getenv)
	if cfg.LLM.Provider == "gemini" && cfg.LLM.Model == DefaultServerConfig().LLM.Model {
		cfg.LLM.Model = "gemini-2.0-flash"
	}
	return cfg, nil
}

func (c *ServerConfig) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Addr, "READMEGEN_ADDR")
	set(&c.PublicURL, "READMEGEN_PUBLIC_URL")
	set(&c.LLM.Provider, "LLM_PROVIDER")
	set(&c.LLM.Model, "LLM_MODEL")
	set(&c.LLM.BaseURL, "OPENAI_BASE_URL")
	switch c.LLM.Provider {
	case "gemini":
		set(&c.LLM.APIKey, "GEMINI_API_KEY")
	default:
		set(&c.LLM.APIKey, "OPENAI_API_KEY")
	}
	if v := getenv("LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.LLM.Temperature = f
		}
	}
	set(&c.Auth.SecretKey, "CLERK_SECRET_KEY")
	set(&c.Auth.PublishableKey, "CLERK_PUBLISHABLE_KEY")
	set(&c.Auth.SignInURL, "READMEGEN_SIGN_IN_URL")
}

// Validate reports settings the server cannot start without.
func (c ServerConfig) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm api key is not configured (set OPENAI_API_KEY or GEMINI_API_KEY)")
	}
	switch c.LLM.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}
