package log

import (
	"strings"
	"testing"
)

func TestRedactSecrets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		leaked  string
		wantSub string
	}{
		{
			name:    "bearer token",
			in:      "request failed: Authorization: Bearer abc.def.ghi rejected",
			leaked:  "abc.def.ghi",
			wantSub: "Bearer <redacted>",
		},
		{
			name:    "api key pair",
			in:      "invalid api_key=XYZ123 provided",
			leaked:  "XYZ123",
			wantSub: "<redacted_kv>",
		},
		{
			name:    "json api key field",
			in:      `{"error":"bad key","api_key":"K-998877"}`,
			leaked:  "K-998877",
			wantSub: "<redacted_kv>",
		},
		{
			name:    "url query key",
			in:      "Post https://generativelanguage.googleapis.com/v1beta/models?key=AIzaSECRET: timeout",
			leaked:  "AIzaSECRET",
			wantSub: "<redacted_kv>",
		},
		{
			name:    "secret key echoed by gateway",
			in:      "Incorrect API key provided: sk-abcdef123456",
			leaked:  "sk-abcdef123456",
			wantSub: "sk-<redacted>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RedactSecrets(tt.in)
			if strings.Contains(got, tt.leaked) {
				t.Errorf("RedactSecrets(%q) = %q still leaks %q", tt.in, got, tt.leaked)
			}
			if !strings.Contains(got, tt.wantSub) {
				t.Errorf("RedactSecrets(%q) = %q, want substring %q", tt.in, got, tt.wantSub)
			}
		})
	}

	t.Run("plain text is unchanged", func(t *testing.T) {
		t.Parallel()
		in := "connection refused"
		if got := RedactSecrets(in); got != in {
			t.Errorf("got %q, want %q", got, in)
		}
	})

	t.Run("empty string", func(t *testing.T) {
		t.Parallel()
		if got := RedactSecrets(""); got != "" {
			t.Errorf("got %q", got)
		}
	})
}

func TestRedactEmails(t *testing.T) {
	t.Parallel()

	got := RedactEmails(`"Bot" <bot@example.com>, a.b+c@mail.example.co.jp`)
	if strings.Contains(got, "@") {
		t.Errorf("expected all addresses hidden, got %q", got)
	}
	if strings.Count(got, EmailMask) != 2 {
		t.Errorf("expected two masks, got %q", got)
	}
}
