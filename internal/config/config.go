package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the Todoist REST v2 base address
const DefaultAPIURL = "https://api.todoist.com/rest/v2"

// Config holds application configuration
type Config struct {
	APIURL        string        `mapstructure:"api_url" yaml:"api_url"`
	APIToken      string        `mapstructure:"api_token" yaml:"api_token"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	DataDir       string        `mapstructure:"data_dir" yaml:"data_dir"`
	Theme         string        `mapstructure:"theme" yaml:"theme"`
	ListenAddr    string        `mapstructure:"listen_addr" yaml:"listen_addr"`
	Notifications bool          `mapstructure:"notifications" yaml:"notifications"`
}

// ErrMissingToken is returned when no API token was configured anywhere
var ErrMissingToken = errors.New("no Todoist API token configured (set api_token or TODOIST_API_TOKEN)")

// DefaultDataDir returns the default data directory path
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".doist"
	}
	return filepath.Join(home, ".local", "share", "doist")
}

// DefaultPath returns the default config file path
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".doist", "config.yaml")
	}
	return filepath.Join(dir, "doist", "config.yaml")
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		APIURL:        DefaultAPIURL,
		Timeout:       15 * time.Second,
		DataDir:       DefaultDataDir(),
		Theme:         "nord",
		ListenAddr:    "127.0.0.1:8080",
		Notifications: true,
	}
}

// DBPath returns the sqlite file inside the data directory
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "doist.db")
}

// LogPath returns the log file used while the TUI owns the terminal
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "doist.log")
}

// Validate checks the fields every remote operation depends on
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIToken) == "" {
		return ErrMissingToken
	}
	if c.APIURL == "" {
		return errors.New("api_url must not be empty")
	}
	return nil
}

// Load reads .env, the config file at path (empty means DefaultPath) and
// DOIST_* environment overrides, in increasing precedence.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DOIST")
	v.AutomaticEnv()

	for key, value := range map[string]any{
		"api_url":       cfg.APIURL,
		"api_token":     cfg.APIToken,
		"timeout":       cfg.Timeout,
		"data_dir":      cfg.DataDir,
		"theme":         cfg.Theme,
		"listen_addr":   cfg.ListenAddr,
		"notifications": cfg.Notifications,
	} {
		v.SetDefault(key, value)
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// The name the Todoist docs use
	if cfg.APIToken == "" {
		cfg.APIToken = os.Getenv("TODOIST_API_TOKEN")
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	return cfg, nil
}

// Write saves cfg as yaml at path, creating parent directories
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// The token is a credential
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
