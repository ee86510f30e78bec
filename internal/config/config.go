package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/soupmail/internal/content"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "soupmail"

	// DefaultTemperature matches the sampling temperature of the original
	// daily job.
	DefaultTemperature = 1.0

	// DefaultSMTPPort is used when MAIL_CONFIG.port is omitted and the
	// connection is not secure.
	DefaultSMTPPort = 587

	// DefaultSecureSMTPPort is used when MAIL_CONFIG.port is omitted and
	// secure is true.
	DefaultSecureSMTPPort = 465

	// DefaultRetryDelay is the wait between failed generation attempts.
	DefaultRetryDelay = 2 * time.Second

	// DefaultSMTPTimeout bounds the SMTP dial and each command.
	DefaultSMTPTimeout = 30 * time.Second

	// ProviderOpenAI selects the OpenAI-compatible chat completion client.
	ProviderOpenAI = "openai"

	// ProviderGemini selects the Gemini client.
	ProviderGemini = "gemini"
)

// Config holds all configuration options for soupmail.
// It is built once at startup and passed to constructors; nothing reads
// the environment after that.
type Config struct {
	// Provider is "openai" (any OpenAI-compatible endpoint) or "gemini".
	Provider string

	// APIURL is the full chat completions URL. Optional for Gemini, where it
	// overrides the API base URL.
	APIURL string

	APIKey string
	Model  string

	// MaxTokens is max_tokens for each request. Zero uses the client default.
	MaxTokens int

	Temperature float64

	// RateLimit caps completion requests per second. Zero disables it.
	RateLimit float64

	SMTPHost   string
	SMTPPort   int
	SMTPSecure bool
	SMTPUser   string
	SMTPPass   string

	// SenderEmail and SenderName form the From header. Empty values fall
	// back to SMTPUser and its local part.
	SenderEmail string
	SenderName  string

	// RecipientEmail is a single address (RECIPIENT_EMAIL).
	RecipientEmail string

	// RecipientEmails is a comma-separated list (RECIPIENT_EMAILS). When set
	// it replaces RecipientEmail.
	RecipientEmails string

	// Debug disables email redaction in logs and prints the Message-ID.
	Debug bool

	// Mode selects HTML or plain text generation.
	Mode content.Mode

	// Subject overrides the default subject line when non-empty.
	Subject string

	// MaxRetries overrides the mode's attempt count when non-zero.
	MaxRetries int

	RetryDelay time.Duration

	// RequestTimeout overrides the mode's per-request timeout when non-zero.
	RequestTimeout time.Duration

	SystemPrompt string
	UserPrompt   string

	// Fallbacks are appended to the built-in fallback pool.
	Fallbacks []content.Entry

	// HistoryEnabled records each run in the history database.
	HistoryEnabled bool

	// HistoryDir is where the history database lives.
	// Defaults to XDG data directory (~/.local/share/soupmail on Linux).
	HistoryDir string

	// Verbose enables debug level logging.
	Verbose bool

	// JSONLog switches log output to JSON lines.
	JSONLog bool

	// DryRun composes the message and logs it instead of sending.
	DryRun bool

	// ConfigFilePath is the explicit path given with --config.
	ConfigFilePath string

	// EnvFile is the .env file to load before reading the environment.
	EnvFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		Temperature:    DefaultTemperature,
		SMTPPort:       DefaultSMTPPort,
		Mode:           content.ModeHTML,
		RetryDelay:     DefaultRetryDelay,
		HistoryEnabled: true,
		HistoryDir:     XDGDataDir(),
		EnvFile:        DefaultEnvFile,
	}
}

// XDGDataDir returns the XDG data directory for soupmail.
// On Linux: ~/.local/share/soupmail
// On macOS: ~/Library/Application Support/soupmail
// On Windows: %LOCALAPPDATA%\soupmail
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for soupmail.
// On Linux: ~/.config/soupmail
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is complete enough to run `send`.
// It returns the first problem found.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "", ProviderOpenAI:
		if strings.TrimSpace(c.APIURL) == "" {
			return ErrMissingAPIURL
		}
	case ProviderGemini:
	default:
		return ErrUnknownProvider
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if strings.TrimSpace(c.Model) == "" {
		return ErrMissingModel
	}

	// A dry run never dials, but still needs a From address.
	if !c.DryRun {
		if strings.TrimSpace(c.SMTPHost) == "" {
			return ErrMissingSMTPHost
		}
		if c.SMTPPort < 1 || c.SMTPPort > 65535 {
			return ErrInvalidSMTPPort
		}
	}
	if strings.TrimSpace(c.SenderEmail) == "" && strings.TrimSpace(c.SMTPUser) == "" {
		return ErrMissingSender
	}

	if c.Mode != content.ModeHTML && c.Mode != content.ModeText {
		return ErrInvalidMode
	}
	if c.MaxRetries != 0 && (c.MaxRetries < 1 || c.MaxRetries > 10) {
		return ErrInvalidMaxRetries
	}
	if c.RetryDelay < 0 {
		return ErrInvalidRetryDelay
	}
	if c.RequestTimeout < 0 {
		return ErrInvalidRequestTimeout
	}
	return nil
}

// IsGemini reports whether the Gemini client should be used.
func (c *Config) IsGemini() bool {
	return strings.EqualFold(c.Provider, ProviderGemini)
}

// CheckReportFormats returns ErrConflictingReportFormats when both output
// formats were requested.
func CheckReportFormats(jsonReport, markdownReport bool) error {
	if jsonReport && markdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
