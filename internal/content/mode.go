package content

import (
	"fmt"
	"strings"
)

// Mode selects how generated content is requested and judged.
type Mode string

const (
	// ModeHTML asks the model for a styled HTML fragment and validates it as markup.
	ModeHTML Mode = "html"

	// ModeText asks the model for a short plain sentence and validates it as text.
	ModeText Mode = "text"
)

// ParseMode converts a user-supplied string into a Mode.
// An empty string selects ModeHTML.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeHTML), "markup":
		return ModeHTML, nil
	case string(ModeText), "plain", "plaintext":
		return ModeText, nil
	default:
		return "", fmt.Errorf("unknown content mode %q (want %q or %q)", s, ModeHTML, ModeText)
	}
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	return string(m)
}

// Validator is a pure verdict on an extracted fragment.
type Validator func(fragment string) bool

// ValidatorFor returns the verdict function used in the given mode.
func ValidatorFor(m Mode) Validator {
	if m == ModeText {
		return IsValidPlainText
	}
	return IsValidMarkup
}
