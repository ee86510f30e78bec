package llm

import "context"

// Prompt is the system and user message pair sent on every attempt.
type Prompt struct {
	System string
	User   string
}

// Completer returns the raw text of one completion.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Default generation parameters.
const (
	DefaultMaxTokens   = 1024
	DefaultTemperature = 1.0
)
