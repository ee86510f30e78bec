package log

import (
	"regexp"
	"strings"
)

var (
	// Matches "Bearer <token>" (JWTs and opaque tokens).
	bearerTokenRe = regexp.MustCompile(`(?i)\bBearer\s+[^\s"']+`)

	// key=value and "key": "value" forms that leak in upstream error bodies.
	apiKeyKVRe = regexp.MustCompile(`(?i)"?\b(api[_-]?key|x-goog-api-key|key)\b"?\s*[:=]\s*"?[^\s"'&,}]+"?`)

	// sk-... secret keys quoted back by OpenAI-compatible gateways.
	secretKeyRe = regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{8,}`)
)

// RedactSecrets removes obvious secret-bearing substrings from error and log
// strings.
func RedactSecrets(s string) string {
	if s == "" {
		return ""
	}
	out := s
	out = bearerTokenRe.ReplaceAllString(out, "Bearer <redacted>")
	out = apiKeyKVRe.ReplaceAllString(out, "<redacted_kv>")
	out = secretKeyRe.ReplaceAllString(out, "sk-<redacted>")
	return strings.TrimSpace(out)
}
