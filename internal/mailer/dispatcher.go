package mailer

import (
	"context"
	"log/slog"

	"github.com/nao1215/soupmail/internal/compose"
)

// Sender delivers one message and returns its Message-ID.
type Sender interface {
	Send(ctx context.Context, m Message) (string, error)
}

// Receipt describes a delivered message.
type Receipt struct {
	MessageID  string
	Recipients int
}

// Dispatcher sends the composed document to the resolved recipients.
type Dispatcher struct {
	sender        Sender
	from          Address
	subject       string
	logger        *slog.Logger
	showMessageID bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithSubject overrides DefaultSubject. Empty values are ignored.
func WithSubject(subject string) DispatcherOption {
	return func(d *Dispatcher) {
		if subject != "" {
			d.subject = subject
		}
	}
}

// WithDispatchLogger sets the logger. Addresses appear in its output, so it
// should be the secure logger.
func WithDispatchLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMessageIDLogging logs the Message-ID after a successful send.
func WithMessageIDLogging(show bool) DispatcherOption {
	return func(d *Dispatcher) {
		d.showMessageID = show
	}
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(sender Sender, from Address, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sender:  sender,
		from:    from,
		subject: DefaultSubject,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Dispatch sends document once. Failures are returned as *DeliveryError.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []string, document string) (*Receipt, error) {
	if len(recipients) == 0 {
		return nil, &DeliveryError{Err: ErrNoRecipients}
	}

	m := Message{
		From:    d.from,
		To:      recipients,
		Subject: d.subject,
		HTML:    document,
		Text:    compose.PlainText(document),
	}

	d.logger.Info("sending email", "from", d.from.String(), "to", recipients)

	id, err := d.sender.Send(ctx, m)
	if err != nil {
		d.logger.Error("email delivery failed", "error", err)
		return nil, &DeliveryError{Err: err}
	}

	if d.showMessageID {
		d.logger.Info("email sent", "recipients", len(recipients), "message_id", id)
	} else {
		d.logger.Info("email sent", "recipients", len(recipients))
	}
	return &Receipt{MessageID: id, Recipients: len(recipients)}, nil
}
