// Package pipeline turns completion requests into one accepted piece of
// content.
//
// A Generator runs a bounded loop of attempts. Each attempt moves through
// Requesting (one completion call under a per-request timeout), Extracting
// (content.Extract) and Validating (the mode's content.Validator). An accepted
// fragment ends the run. A failed attempt records its outcome and, after a
// fixed backoff, starts the next one. When every attempt has failed the run is
// Exhausted and a fallback entry is rendered instead; this is a normal result,
// not an error.
//
// Only the most recent fragment is judged. Earlier fragments are kept on their
// Attempt for diagnostics but never reconsidered.
//
// Run observes its context in both places it can block (the request and the
// backoff timer) and returns the context error when interrupted.
package pipeline
