package model

// Outcome classifies how a single generation attempt ended.
type Outcome int

const (
	// OutcomeAccepted means the extracted fragment passed validation.
	OutcomeAccepted Outcome = iota

	// OutcomeRejected means a completion arrived but the extracted fragment
	// failed validation.
	OutcomeRejected

	// OutcomeTransportError means the completion request itself failed:
	// unreachable endpoint, timeout, non-2xx status or a malformed body.
	OutcomeTransportError
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Source tells where the delivered content came from.
type Source string

const (
	// SourceGenerated is content produced by the completion endpoint.
	SourceGenerated Source = "generated"

	// SourceFallback is content rendered from the curated fallback pool.
	SourceFallback Source = "fallback"
)

// Status is the final state of a delivery.
type Status string

const (
	// StatusSent means the mail transport accepted the message.
	StatusSent Status = "sent"

	// StatusDryRun means the message was composed and logged but not sent.
	StatusDryRun Status = "dry_run"

	// StatusFailed means the mail transport rejected the message.
	StatusFailed Status = "failed"
)
