package log

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys that should always be sanitized.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization":       true,
	"x-api-key":           true,
	"x-goog-api-key":      true,
	"proxy-authorization": true,

	// Authentication
	"password":     true,
	"pass":         true,
	"passwd":       true,
	"secret":       true,
	"token":        true,
	"api_key":      true,
	"apikey":       true,
	"api-key":      true,
	"access_token": true,

	// Credentials
	"credential":  true,
	"credentials": true,
	"auth":        true,
}

// sensitivePatterns contains regex patterns that indicate sensitive values.
// Values matching these patterns will be sanitized regardless of key name.
var sensitivePatterns = []*regexp.Regexp{
	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Basic auth
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// OpenAI / DeepSeek style secret keys
	regexp.MustCompile(`^sk-[A-Za-z0-9_-]{16,}$`),

	// Google API keys
	regexp.MustCompile(`^AIza[0-9A-Za-z_-]{35}$`),
}

// emailRe finds email-shaped substrings anywhere in a string.
var emailRe = regexp.MustCompile(`[^\s@<>"'()\[\],;:]+@[^\s@<>"'()\[\],;:]+\.[^\s@<>"'()\[\],;:]+`)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// EmailMask replaces email addresses when email redaction is on.
const EmailMask = "[email hidden]"

// SecureHandler wraps an slog.Handler to sanitize sensitive information.
// It intercepts log records and sanitizes attribute values that match
// sensitive key names or value patterns before passing them to the
// underlying handler. With email redaction enabled it also rewrites the
// record message.
type SecureHandler struct {
	// handler is the underlying slog handler that receives sanitized records.
	handler slog.Handler

	redactEmails bool
}

// HandlerOption configures a SecureHandler.
type HandlerOption func(*SecureHandler)

// WithEmailRedaction turns email masking on or off.
func WithEmailRedaction(enabled bool) HandlerOption {
	return func(h *SecureHandler) {
		h.redactEmails = enabled
	}
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, the returned SecureHandler will use slog.Default().Handler().
func NewSecureHandler(handler slog.Handler, opts ...HandlerOption) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	h := &SecureHandler{handler: handler}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it to the underlying handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	msg := r.Message
	if h.redactEmails {
		msg = RedactEmails(msg)
	}
	sanitized := slog.NewRecord(r.Time, r.Level, msg, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are sanitized before being added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitizedAttrs), redactEmails: h.redactEmails}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name), redactEmails: h.redactEmails}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	// Errors and Stringers are rendered so their text can be scrubbed too.
	var strVal string
	switch a.Value.Kind() {
	case slog.KindString:
		strVal = a.Value.String()
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case error:
			strVal = v.Error()
		case []string:
			strVal = strings.Join(v, ", ")
		default:
			return a
		}
	default:
		return a
	}

	if isSensitiveValue(strVal) {
		return slog.String(a.Key, MaskValue)
	}
	strVal = RedactSecrets(strVal)
	if h.redactEmails {
		strVal = RedactEmails(strVal)
	}
	return slog.String(a.Key, strVal)
}

// containsSensitiveKeyword checks if the key contains sensitive keywords.
// The bare "key" keyword is excluded because it matches too much
// ("primary_key", "keyboard"); specific forms live in sensitiveKeys.
func containsSensitiveKeyword(key string) bool {
	sensitiveKeywords := []string{
		"password", "passwd", "secret", "token", "auth", "credential",
	}

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isSensitiveValue checks if a value matches sensitive patterns.
func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// RedactEmails replaces every email-shaped substring in s with EmailMask.
func RedactEmails(s string) string {
	return emailRe.ReplaceAllString(s, EmailMask)
}
