package pipeline

import (
	"time"

	"github.com/nao1215/soupmail/internal/content"
)

// Bounds accepted for an overridden retry count.
const (
	MinRetries = 1
	MaxRetries = 10
)

// DefaultBackoff is the wait between failed attempts.
const DefaultBackoff = 2 * time.Second

// Policy bundles the retry settings of one content mode.
type Policy struct {
	MaxRetries     int
	RequestTimeout time.Duration
	Backoff        time.Duration
}

// PolicyFor returns the built-in policy for a mode. HTML generations are
// longer and fail validation more often, so they get more time and attempts.
func PolicyFor(m content.Mode) Policy {
	if m == content.ModeText {
		return Policy{MaxRetries: 3, RequestTimeout: 30 * time.Second, Backoff: DefaultBackoff}
	}
	return Policy{MaxRetries: 5, RequestTimeout: 60 * time.Second, Backoff: DefaultBackoff}
}
