// Package log provides secure logging built on top of the standard slog package.
//
// Two loggers are used by the CLI:
//
//   - the progress logger reports what the run is doing (attempts, fallback,
//     timings). It masks credentials but leaves addresses alone.
//   - the secure logger is used wherever recipient or sender addresses can
//     appear. Unless debugging is enabled it replaces every email-shaped
//     substring with "[email hidden]", in the message and in string attributes.
//
// Both wrap their handler in a SecureHandler, which masks values stored under
// sensitive keys (authorization, password, api_key, ...) and values that look
// like bearer tokens or API keys regardless of key.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, false, true)
//	logger.Info("mail sent to alice@example.com") // "mail sent to [email hidden]"
//
// RedactSecrets is the string-level counterpart for upstream error bodies that
// are logged or persisted verbatim.
package log
