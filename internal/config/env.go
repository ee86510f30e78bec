package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nao1215/soupmail/internal/content"
)

// Environment variable names.
const (
	EnvAIConfig        = "AI_CONFIG"
	EnvMailConfig      = "MAIL_CONFIG"
	EnvRecipientEmail  = "RECIPIENT_EMAIL"
	EnvRecipientEmails = "RECIPIENT_EMAILS"
	EnvDebug           = "DEBUG"
	EnvContentMode     = "CONTENT_MODE"
)

// DefaultEnvFile is loaded when present and no --env-file is given.
const DefaultEnvFile = ".env"

// aiConfig mirrors the AI_CONFIG JSON document.
type aiConfig struct {
	APIURL      string   `json:"apiUrl"`
	APIKey      string   `json:"apiKey"`
	Model       string   `json:"model"`
	Provider    string   `json:"provider"`
	MaxTokens   int      `json:"maxTokens"`
	Temperature *float64 `json:"temperature"`
	RateLimit   float64  `json:"rateLimit"`
}

// mailConfig mirrors the MAIL_CONFIG JSON document (nodemailer transport shape).
type mailConfig struct {
	Host   string `json:"host"`
	Port   int    `json:"port"`
	Secure bool   `json:"secure"`
	Auth   struct {
		User string `json:"user"`
		Pass string `json:"pass"`
	} `json:"auth"`
	Sender struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"sender"`
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is an
// error only when required is true.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv fills c from environment variables read through getenv
// (os.Getenv in production).
func (c *Config) ApplyEnv(getenv func(string) string) error {
	raw := strings.TrimSpace(getenv(EnvAIConfig))
	if raw == "" {
		return ErrMissingAIConfig
	}
	var ai aiConfig
	if err := json.Unmarshal([]byte(raw), &ai); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAIConfig, err)
	}
	if ai.Provider != "" {
		c.Provider = strings.ToLower(strings.TrimSpace(ai.Provider))
	}
	c.APIURL = strings.TrimSpace(ai.APIURL)
	c.APIKey = strings.TrimSpace(ai.APIKey)
	c.Model = strings.TrimSpace(ai.Model)
	if ai.MaxTokens > 0 {
		c.MaxTokens = ai.MaxTokens
	}
	if ai.Temperature != nil {
		c.Temperature = *ai.Temperature
	}
	if ai.RateLimit > 0 {
		c.RateLimit = ai.RateLimit
	}

	raw = strings.TrimSpace(getenv(EnvMailConfig))
	if raw == "" {
		return ErrMissingMailConfig
	}
	var mc mailConfig
	if err := json.Unmarshal([]byte(raw), &mc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMailConfig, err)
	}
	c.SMTPHost = strings.TrimSpace(mc.Host)
	c.SMTPSecure = mc.Secure
	switch {
	case mc.Port != 0:
		c.SMTPPort = mc.Port
	case mc.Secure:
		c.SMTPPort = DefaultSecureSMTPPort
	default:
		c.SMTPPort = DefaultSMTPPort
	}
	c.SMTPUser = strings.TrimSpace(mc.Auth.User)
	c.SMTPPass = mc.Auth.Pass
	c.SenderEmail = strings.TrimSpace(mc.Sender.Email)
	c.SenderName = strings.TrimSpace(mc.Sender.Name)

	c.RecipientEmail = getenv(EnvRecipientEmail)
	c.RecipientEmails = getenv(EnvRecipientEmails)

	if v := strings.TrimSpace(getenv(EnvDebug)); v != "" {
		debug, err := strconv.ParseBool(v)
		c.Debug = err == nil && debug
	}

	if v := strings.TrimSpace(getenv(EnvContentMode)); v != "" {
		mode, err := content.ParseMode(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidMode, EnvContentMode, v)
		}
		c.Mode = mode
	}
	return nil
}
