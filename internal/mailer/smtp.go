package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds SMTP connection parameters.
type SMTPConfig struct {
	Host string
	Port int

	// Secure selects implicit TLS (usually port 465). Otherwise STARTTLS is
	// used when the server offers it.
	Secure bool

	Username string
	Password string

	// Timeout bounds dialing and each SMTP command. Zero uses go-mail's default.
	Timeout time.Duration
}

// SMTPSender sends messages over SMTP. It dials per send.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates an SMTPSender.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers m and returns its Message-ID.
func (s *SMTPSender) Send(ctx context.Context, m Message) (string, error) {
	msg, err := buildMsg(m)
	if err != nil {
		return "", err
	}

	c, err := mail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return "", fmt.Errorf("create smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return msg.GetMessageID(), nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	if s.cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}
	if s.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.cfg.Timeout))
	}
	return opts
}

// buildMsg converts m into a go-mail message with a generated Message-ID.
func buildMsg(m Message) (*mail.Msg, error) {
	if len(m.To) == 0 {
		return nil, ErrNoRecipients
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(sanitizeHeader(m.From.Name), m.From.Email); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(m.To...); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}
	msg.Subject(sanitizeHeader(m.Subject))
	msg.SetMessageID()
	msg.SetDate()

	if m.Text != "" {
		msg.SetBodyString(mail.TypeTextPlain, m.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, m.HTML)
	} else {
		msg.SetBodyString(mail.TypeTextHTML, m.HTML)
	}
	return msg, nil
}
