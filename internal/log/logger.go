package log

import (
	"io"
	"log/slog"
)

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewProgressLogger returns the logger for operational progress. It masks
// credentials but does not hide email addresses.
func NewProgressLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(verbose)}
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, opts)))
}

// NewSecureLogger creates a new slog.Logger with secure handling.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Info
//   - redactEmails: If true, email addresses are replaced with "[email hidden]"
func NewSecureLogger(w io.Writer, verbose, redactEmails bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(verbose)}
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, opts), WithEmailRedaction(redactEmails)))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output, for log
// aggregation in scheduled jobs.
func NewSecureJSONLogger(w io.Writer, verbose, redactEmails bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(verbose)}
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, opts), WithEmailRedaction(redactEmails)))
}
