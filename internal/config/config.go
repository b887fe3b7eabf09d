package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultServerURL is used when neither the config file nor the environment
// name a generation server.
const DefaultServerURL = "http://localhost:3000"

// User is the signed-in account as reported by the server's /api/me.
type User struct {
	ID             string `json:"id"`
	Email          string `json:"email,omitempty"`
	Name           string `json:"name,omitempty"`
	AvatarURL      string `json:"avatarUrl,omitempty"`
	GitHubUsername string `json:"githubUsername,omitempty"`
}

// DisplayName picks the friendliest label available.
func (u User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.GitHubUsername != "":
		return u.GitHubUsername
	case u.Email != "":
		return u.Email
	default:
		return u.ID
	}
}

// Config represents client settings stored on disk.
type Config struct {
	IsLoggedIn bool   `json:"is_logged_in"`
	Token      string `json:"token,omitempty"`
	User       *User  `json:"user,omitempty"`
	ServerURL  string `json:"server_url,omitempty"`
	OutputDir  string `json:"output_dir,omitempty"`
}

// Dir is where the client keeps its files. Tests point it elsewhere.
var Dir = func() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}
	return filepath.Join(homeDir, ".readmegen"), nil
}

// LoadConfig reads config from ~/.readmegen/config.json (or returns a default if missing).
func LoadConfig() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	configPath := filepath.Join(dir, "config.json")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Config{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes Config to ~/.readmegen/config.json
func SaveConfig(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0o600: the file holds a session token.
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ServerBaseURL returns the generation server URL: env first, then the
// config file, then the local default.
func (c Config) ServerBaseURL() string {
	baseURL := os.Getenv("READMEGEN_SERVER_URL")
	if strings.TrimSpace(baseURL) == "" {
		baseURL = c.ServerURL
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultServerURL
	}
	return strings.TrimRight(baseURL, "/")
}

// SignOut clears the session fields.
func (c Config) SignOut() Config {
	c.IsLoggedIn = false
	c.Token = ""
	c.User = nil
	return c
}
