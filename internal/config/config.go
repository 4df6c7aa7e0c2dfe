// Package config handles configuration for floatchat: the JSON settings file,
// .env loading and resolution of the backend base address.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	apierrors "github.com/diogo/floatchat/internal/errors"
	"github.com/diogo/floatchat/internal/models"
)

// Environment variables consulted for the backend base address, in order
const (
	EnvAPIBase       = "FLOATCHAT_API_BASE"
	EnvLegacyAPIBase = "VITE_API_BASE"
)

// MarkdownConfig configures markdown rendering of assistant replies
type MarkdownConfig struct {
	Style            string `json:"style"`             // "dark", "light", "notty" or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the backend address, e.g. http://127.0.0.1:8000.
	// Empty means "use the environment or the built-in default".
	BaseURL string `json:"base_url,omitempty"`
	// TimeoutSeconds bounds a single backend request at the transport level.
	TimeoutSeconds int `json:"timeout_seconds"`
	// SessionID is forwarded to the backend so it can keep per-conversation memory.
	SessionID string `json:"session_id,omitempty"`
	// ForceSQL asks the backend to skip its agent and go straight to SQL generation.
	ForceSQL        bool           `json:"force_sql,omitempty"`
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	Notify          bool           `json:"notify"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	LogFile         string         `json:"log_file,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		TimeoutSeconds:  300,
		Verbose:         false,
		CopyToClipboard: false,
		Notify:          false,
		TUITheme:        "abyss",
		LogFile:         filepath.Join(os.TempDir(), "floatchat.log"),
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".floatchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultConfig().TimeoutSeconds
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv reads a .env file from the working directory if present.
// Variables already set in the environment win over the file.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ResolveBaseURL picks the backend address once at startup.
// Precedence: flag, FLOATCHAT_API_BASE, VITE_API_BASE, config file, default.
func ResolveBaseURL(flagValue string, cfg Config) (string, error) {
	candidates := []string{
		flagValue,
		os.Getenv(EnvAPIBase),
		os.Getenv(EnvLegacyAPIBase),
		cfg.BaseURL,
		models.DefaultBaseURL,
	}

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		return NormalizeBaseURL(c)
	}

	return models.DefaultBaseURL, nil
}

// NormalizeBaseURL validates a base address and strips trailing slashes
func NormalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apierrors.ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q must start with http:// or https://", apierrors.ErrInvalidBaseURL, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", apierrors.ErrInvalidBaseURL, raw)
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// settable maps `config set` keys to their setters
var settable = map[string]func(*Config, string) error{
	"base_url": func(c *Config, v string) error {
		if v == "" {
			c.BaseURL = ""
			return nil
		}
		normalized, err := NormalizeBaseURL(v)
		if err != nil {
			return err
		}
		c.BaseURL = normalized
		return nil
	},
	"timeout_seconds": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("timeout_seconds must be a positive integer")
		}
		c.TimeoutSeconds = n
		return nil
	},
	"session_id":        func(c *Config, v string) error { c.SessionID = v; return nil },
	"force_sql":         boolSetter(func(c *Config) *bool { return &c.ForceSQL }),
	"verbose":           boolSetter(func(c *Config) *bool { return &c.Verbose }),
	"copy_to_clipboard": boolSetter(func(c *Config) *bool { return &c.CopyToClipboard }),
	"notify":            boolSetter(func(c *Config) *bool { return &c.Notify }),
	"tui_theme":         func(c *Config, v string) error { c.TUITheme = v; return nil },
	"log_file":          func(c *Config, v string) error { c.LogFile = v; return nil },
	"markdown.style":    func(c *Config, v string) error { c.Markdown.Style = v; return nil },
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", v)
		}
		*field(c) = b
		return nil
	}
}

// Set updates a single setting by its JSON key
func (c *Config) Set(key, value string) error {
	setter, ok := settable[key]
	if !ok {
		return fmt.Errorf("unknown setting %q (available: %s)", key, strings.Join(SettableKeys(), ", "))
	}
	return setter(c, value)
}

// SettableKeys returns the keys accepted by Set, sorted
func SettableKeys() []string {
	keys := make([]string, 0, len(settable))
	for k := range settable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
