package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfig     = "OSCALCTL_CONFIG"
	EnvPrefix     = "OSCALCTL_PREFIX"
	EnvLogLevel   = "OSCALCTL_LOG_LEVEL"
	EnvNoProgress = "OSCALCTL_NO_PROGRESS"
)

const (
	DefaultMetadataURL     = "https://repo1.maven.org/maven2/dev/metaschema/oscal/oscal-cli-enhanced/maven-metadata.xml"
	DefaultDownloadBaseURL = "https://repo1.maven.org/maven2/dev/metaschema/oscal/oscal-cli-enhanced"
)

// Config captures user-level settings for oscalctl.
type Config struct {
	Prefix          string `yaml:"prefix" toml:"prefix"`
	LogLevel        string `yaml:"log_level" toml:"log_level"`
	Progress        *bool  `yaml:"progress,omitempty" toml:"progress,omitempty"`
	MetadataURL     string `yaml:"metadata_url" toml:"metadata_url"`
	DownloadBaseURL string `yaml:"download_base_url" toml:"download_base_url"`
	HTTPTimeout     string `yaml:"http_timeout" toml:"http_timeout"`
}

// Default returns the baseline configuration. Prefix is left empty so callers
// can fall back to the Go install prefix.
func Default() Config {
	return Config{
		LogLevel:        "info",
		Progress:        boolPtr(true),
		MetadataURL:     DefaultMetadataURL,
		DownloadBaseURL: DefaultDownloadBaseURL,
		HTTPTimeout:     "5m",
	}
}

// DefaultPath returns the config file location: $OSCALCTL_CONFIG, else
// config.yaml (or config.toml when only that exists) under the user config dir.
func DefaultPath() (string, error) {
	if override := strings.TrimSpace(os.Getenv(EnvConfig)); override != "" {
		return filepath.Abs(override)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("detect user config dir: %w", err)
	}
	dir := filepath.Join(base, "oscalctl")
	yamlPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath, nil
	}
	tomlPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	return yamlPath, nil
}

// Load reads the configuration from disk if it exists, otherwise returns the
// default configuration. The decoder is chosen by file extension.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(contents), &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(contents, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", path)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills fields the file left empty.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.Progress == nil {
		c.Progress = defaults.Progress
	}
	if strings.TrimSpace(c.MetadataURL) == "" {
		c.MetadataURL = defaults.MetadataURL
	}
	if strings.TrimSpace(c.DownloadBaseURL) == "" {
		c.DownloadBaseURL = defaults.DownloadBaseURL
	}
	if strings.TrimSpace(c.HTTPTimeout) == "" {
		c.HTTPTimeout = defaults.HTTPTimeout
	}
}

// ApplyEnv overlays OSCALCTL_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvPrefix)); v != "" {
		c.Prefix = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(EnvNoProgress))); err == nil && v {
		c.Progress = boolPtr(false)
	}
}

// Validate checks the values that would otherwise fail deep inside a command.
func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled", "off":
	default:
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	for name, raw := range map[string]string{
		"metadata_url":      c.MetadataURL,
		"download_base_url": c.DownloadBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s: expected http(s) url, got %q", name, raw)
		}
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	return nil
}

// Timeout returns the parsed HTTP timeout.
func (c Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(c.HTTPTimeout))
	if err != nil {
		return 0, fmt.Errorf("http_timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("http_timeout: must be positive, got %s", c.HTTPTimeout)
	}
	return d, nil
}

// ProgressEnabled returns the effective progress flag applying defaults.
func (c Config) ProgressEnabled() bool {
	if c.Progress == nil {
		return true
	}
	return *c.Progress
}

func boolPtr(v bool) *bool {
	return &v
}
