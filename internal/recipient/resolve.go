package recipient

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoRecipient is returned when neither a single nor a list of recipients
// is configured.
var ErrNoRecipient = errors.New("no recipient configured: set RECIPIENT_EMAIL or RECIPIENT_EMAILS")

var addressRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError lists every address that failed the format check.
type ValidationError struct {
	Invalid []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid email address(es): %s", strings.Join(e.Invalid, ", "))
}

// IsAddress reports whether s looks like an email address.
func IsAddress(s string) bool {
	return addressRe.MatchString(s)
}

// Resolve returns the recipient list. A non-empty comma-separated multiple
// wins over single. Order is preserved and duplicates are kept.
func Resolve(single, multiple string) ([]string, error) {
	var list []string
	if strings.TrimSpace(multiple) != "" {
		for _, part := range strings.Split(multiple, ",") {
			if addr := strings.TrimSpace(part); addr != "" {
				list = append(list, addr)
			}
		}
	} else if addr := strings.TrimSpace(single); addr != "" {
		list = []string{addr}
	}

	if len(list) == 0 {
		return nil, ErrNoRecipient
	}

	var invalid []string
	for _, addr := range list {
		if !IsAddress(addr) {
			invalid = append(invalid, addr)
		}
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{Invalid: invalid}
	}
	return list, nil
}
