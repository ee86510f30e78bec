package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// LogSender logs messages instead of sending them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender writing to logger.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs m and returns a synthetic Message-ID.
func (s *LogSender) Send(_ context.Context, m Message) (string, error) {
	if len(m.To) == 0 {
		return "", ErrNoRecipients
	}
	id := fmt.Sprintf("<%s@dry-run.soupmail>", uuid.NewString())
	s.logger.Info("dry run: email not sent",
		"from", m.From.String(),
		"to", m.To,
		"subject", m.Subject,
		"html_bytes", len(m.HTML),
	)
	s.logger.Debug("dry run: text body", "text", m.Text)
	return id, nil
}
