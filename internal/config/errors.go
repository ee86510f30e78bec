package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and the loaders. Callers use
// errors.Is() to tell them apart; every one of them is fatal for a run.
var (
	// ErrMissingAIConfig is returned when AI_CONFIG is not set.
	ErrMissingAIConfig = errors.New("AI_CONFIG is not set")

	// ErrInvalidAIConfig is returned when AI_CONFIG is not valid JSON.
	ErrInvalidAIConfig = errors.New("AI_CONFIG is not valid JSON")

	// ErrMissingMailConfig is returned when MAIL_CONFIG is not set.
	ErrMissingMailConfig = errors.New("MAIL_CONFIG is not set")

	// ErrInvalidMailConfig is returned when MAIL_CONFIG is not valid JSON.
	ErrInvalidMailConfig = errors.New("MAIL_CONFIG is not valid JSON")

	// ErrMissingAPIKey is returned when AI_CONFIG has no apiKey.
	ErrMissingAPIKey = errors.New("AI_CONFIG.apiKey is required")

	// ErrMissingModel is returned when AI_CONFIG has no model.
	ErrMissingModel = errors.New("AI_CONFIG.model is required")

	// ErrMissingAPIURL is returned when AI_CONFIG has no apiUrl and the
	// provider needs one.
	ErrMissingAPIURL = errors.New("AI_CONFIG.apiUrl is required for OpenAI-compatible providers")

	// ErrUnknownProvider is returned for an AI_CONFIG.provider other than
	// "openai" or "gemini".
	ErrUnknownProvider = errors.New("unknown AI provider: want \"openai\" or \"gemini\"")

	// ErrMissingSMTPHost is returned when MAIL_CONFIG has no host.
	ErrMissingSMTPHost = errors.New("MAIL_CONFIG.host is required")

	// ErrInvalidSMTPPort is returned when the SMTP port is outside 1-65535.
	ErrInvalidSMTPPort = errors.New("invalid SMTP port: must be between 1 and 65535")

	// ErrMissingSender is returned when neither sender.email nor auth.user is set.
	ErrMissingSender = errors.New("MAIL_CONFIG needs sender.email or auth.user")

	// ErrInvalidMode is returned for a CONTENT_MODE or mode other than html/text.
	ErrInvalidMode = errors.New("invalid content mode: want \"html\" or \"text\"")

	// ErrInvalidMaxRetries is returned when max_retries is outside 1-10.
	ErrInvalidMaxRetries = errors.New("invalid max_retries: must be between 1 and 10")

	// ErrInvalidRetryDelay is returned when retry_delay is negative.
	ErrInvalidRetryDelay = errors.New("invalid retry_delay: must be non-negative")

	// ErrInvalidRequestTimeout is returned when request_timeout is negative.
	ErrInvalidRequestTimeout = errors.New("invalid request_timeout: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
