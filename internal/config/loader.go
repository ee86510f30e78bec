package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/soupmail/internal/content"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".soupmail.yaml"

// File represents the structure of the .soupmail.yaml settings file.
type File struct {
	// Subject overrides the default subject line.
	Subject string `yaml:"subject,omitempty"`

	// Mode is "html" or "text". CONTENT_MODE takes precedence.
	Mode string `yaml:"mode,omitempty"`

	// MaxRetries overrides the mode's attempt count (1-10).
	MaxRetries int `yaml:"max_retries,omitempty"`

	// RetryDelay is the wait between attempts, e.g. "2s".
	RetryDelay *time.Duration `yaml:"retry_delay,omitempty"`

	// RequestTimeout overrides the per-request timeout, e.g. "45s".
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`

	Prompt PromptFile `yaml:"prompt,omitempty"`

	// Fallbacks are appended to the built-in fallback quotes.
	Fallbacks []content.Entry `yaml:"fallbacks,omitempty"`

	History HistoryFile `yaml:"history,omitempty"`
}

// PromptFile holds prompt overrides.
type PromptFile struct {
	System string `yaml:"system,omitempty"`
	User   string `yaml:"user,omitempty"`
}

// HistoryFile holds delivery history settings.
type HistoryFile struct {
	// Enabled defaults to true when omitted.
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &f, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .soupmail.yaml in the current directory
// 3. Look for .soupmail.yaml in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// ApplyFile copies the settings in f onto c. Unset fields leave c unchanged.
func (c *Config) ApplyFile(f *File) error {
	if f == nil {
		return nil
	}
	if s := strings.TrimSpace(f.Subject); s != "" {
		c.Subject = s
	}
	if f.Mode != "" {
		mode, err := content.ParseMode(f.Mode)
		if err != nil {
			return fmt.Errorf("%w: mode=%q", ErrInvalidMode, f.Mode)
		}
		c.Mode = mode
	}
	if f.MaxRetries != 0 {
		c.MaxRetries = f.MaxRetries
	}
	if f.RetryDelay != nil {
		c.RetryDelay = *f.RetryDelay
	}
	if f.RequestTimeout != 0 {
		c.RequestTimeout = f.RequestTimeout
	}
	if f.Prompt.System != "" {
		c.SystemPrompt = f.Prompt.System
	}
	if f.Prompt.User != "" {
		c.UserPrompt = f.Prompt.User
	}
	c.Fallbacks = append(c.Fallbacks, f.Fallbacks...)
	if f.History.Enabled != nil {
		c.HistoryEnabled = *f.History.Enabled
	}
	if f.History.Dir != "" {
		c.HistoryDir = expandHome(f.History.Dir)
	}
	return nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
