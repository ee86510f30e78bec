package model

import "time"

// Attempt is one Requesting -> Extracting -> Validating cycle.
type Attempt struct {
	// Number is 1-based and never exceeds the generator's retry bound.
	Number int `json:"number"`

	// Outcome is how the attempt ended.
	Outcome Outcome `json:"outcome"`

	// Fragment is the extracted text. Empty for transport errors.
	Fragment string `json:"fragment,omitempty"`

	// Err is the cause for rejected and failed attempts.
	Err error `json:"-"`

	// Duration covers the request and the extract/validate work.
	Duration time.Duration `json:"duration"`
}

// ErrorMessage returns the attempt error text, or an empty string.
func (a Attempt) ErrorMessage() string {
	if a.Err == nil {
		return ""
	}
	return a.Err.Error()
}

// Delivery is the record of one run of the send command.
type Delivery struct {
	// ID is the database row ID. Zero until saved.
	ID int64 `json:"id"`

	// RunID identifies the run in logs.
	RunID string `json:"run_id"`

	// Timestamp is when the run finished.
	Timestamp time.Time `json:"timestamp"`

	// Mode is the content mode ("html" or "text").
	Mode string `json:"mode"`

	// Source tells whether the content was generated or taken from the fallback pool.
	Source Source `json:"source"`

	// Attempts is the number of generation attempts made.
	Attempts int `json:"attempts"`

	// ContentHash is a hex SHA3-256 fingerprint of Content.
	ContentHash string `json:"content_hash"`

	// Content is the fragment that was embedded in the mail.
	Content string `json:"content"`

	// RecipientCount is the number of resolved recipients.
	// Addresses themselves are not stored.
	RecipientCount int `json:"recipient_count"`

	// MessageID is the Message-ID header of the sent mail, if any.
	MessageID string `json:"message_id,omitempty"`

	// Status is the final delivery state.
	Status Status `json:"status"`

	// Error holds the delivery error text for failed runs.
	Error string `json:"error,omitempty"`
}
