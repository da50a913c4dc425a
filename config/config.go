// Package config resolves runtime configuration in three layers:
// built-in defaults, then an optional YAML file, then environment
// variables. Later layers win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config stores runtime configuration for the client.
type Config struct {
	API      APIConfig      `yaml:"api,omitempty"`
	Audio    AudioConfig    `yaml:"audio,omitempty"`
	Encoding EncodingConfig `yaml:"encoding,omitempty"`
	UI       UIConfig       `yaml:"ui,omitempty"`
	History  HistoryConfig  `yaml:"history,omitempty"`
}

type APIConfig struct {
	BaseURL      string `yaml:"base_url,omitempty"`
	LanguageHint string `yaml:"language_hint,omitempty"`
}

type AudioConfig struct {
	Device string `yaml:"device,omitempty"`
}

type EncodingConfig struct {
	Preferences []string `yaml:"preferences,omitempty"`
}

type UIConfig struct {
	Theme string `yaml:"theme,omitempty"`
}

type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Path returns the config file location: $VOXIDEA_CONFIG if set,
// otherwise ~/.config/voxidea/config.yaml.
func Path() string {
	if p := strings.TrimSpace(os.Getenv("VOXIDEA_CONFIG")); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "voxidea", "config.yaml")
}

// Load resolves configuration from defaults, the config file if one
// exists, and environment variable overrides.
func Load() (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
		},
		UI: UIConfig{
			Theme: "dark",
		},
	}

	path := Path()
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	cfg.API.BaseURL = envOrDefault("VOXIDEA_API_BASE", cfg.API.BaseURL)
	cfg.API.LanguageHint = envOrDefault("VOXIDEA_LANG", cfg.API.LanguageHint)
	cfg.Audio.Device = envOrDefault("VOXIDEA_DEVICE", cfg.Audio.Device)
	cfg.UI.Theme = envOrDefault("VOXIDEA_THEME", cfg.UI.Theme)
	cfg.History.Path = envOrDefault("VOXIDEA_HISTORY_DB", cfg.History.Path)

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	return cfg, nil
}

// SaveTheme persists a theme change back to the config file, preserving
// any other settings already there.
func SaveTheme(theme string) error {
	path := Path()

	cfg := Config{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	cfg.UI.Theme = theme

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
