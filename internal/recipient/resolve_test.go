package recipient

import (
	"errors"
	"slices"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		single      string
		multiple    string
		want        []string
		wantInvalid []string
		wantNone    bool
	}{
		{
			name:     "list with spaces and trailing comma",
			multiple: "a@b.com, c@d.org , ",
			want:     []string{"a@b.com", "c@d.org"},
		},
		{
			name:        "malformed entry is reported",
			multiple:    "not-an-email, x@y.com",
			wantInvalid: []string{"not-an-email"},
		},
		{
			name:        "every malformed entry is reported",
			multiple:    "bad, a@b.com, also@bad, c@d.io",
			wantInvalid: []string{"bad", "also@bad"},
		},
		{
			name:     "list wins over single",
			single:   "solo@example.com",
			multiple: "a@b.com",
			want:     []string{"a@b.com"},
		},
		{
			name:     "blank list falls back to single",
			single:   "  solo@example.com ",
			multiple: "   ",
			want:     []string{"solo@example.com"},
		},
		{
			name:     "duplicates and order are kept",
			multiple: "b@x.io,a@x.io,b@x.io",
			want:     []string{"b@x.io", "a@x.io", "b@x.io"},
		},
		{
			name:     "nothing configured",
			wantNone: true,
		},
		{
			name:     "list of only separators",
			multiple: " , ,, ",
			wantNone: true,
		},
		{
			name:        "single malformed address",
			single:      "user@localhost",
			wantInvalid: []string{"user@localhost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Resolve(tt.single, tt.multiple)

			switch {
			case tt.wantNone:
				if !errors.Is(err, ErrNoRecipient) {
					t.Fatalf("expected ErrNoRecipient, got %v", err)
				}
			case tt.wantInvalid != nil:
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected *ValidationError, got %v", err)
				}
				if !slices.Equal(verr.Invalid, tt.wantInvalid) {
					t.Errorf("Invalid = %v, want %v", verr.Invalid, tt.wantInvalid)
				}
				if got != nil {
					t.Errorf("expected nil list on error, got %v", got)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !slices.Equal(got, tt.want) {
					t.Errorf("Resolve() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestIsAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{in: "a@b.com", want: true},
		{in: "first.last+tag@mail.example.co.jp", want: true},
		{in: "a@b", want: false},
		{in: "a b@c.com", want: false},
		{in: "@b.com", want: false},
		{in: "a@@b.com", want: false},
	}

	for _, tt := range tests {
		if got := IsAddress(tt.in); got != tt.want {
			t.Errorf("IsAddress(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
