package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse is returned when the backend answered 2xx but the
	// body does not carry choices[0].message.content (or Gemini text).
	ErrMalformedResponse = errors.New("malformed completion response")

	// ErrMissingAPIKey is returned by constructors when no API key is set.
	ErrMissingAPIKey = errors.New("completion API key is required")

	// ErrMissingModel is returned by constructors when no model is set.
	ErrMissingModel = errors.New("completion model is required")

	// ErrMissingEndpoint is returned by NewChatClient when the URL is empty.
	ErrMissingEndpoint = errors.New("completion API URL is required")
)

// TransportError describes a request that did not produce a usable HTTP
// response: a network failure, a timeout, or a non-2xx status.
type TransportError struct {
	// StatusCode is zero when no response was received.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion request failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("completion request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
