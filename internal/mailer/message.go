package mailer

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSubject is the subject line of every daily message.
const DefaultSubject = "今日份的心灵鸡汤请查收 ✨"

// ErrNoSender is returned when neither a sender address nor an SMTP user is set.
var ErrNoSender = errors.New("no sender address: set MAIL_CONFIG.sender.email or MAIL_CONFIG.auth.user")

// ErrNoRecipients is returned when a message has nobody to go to.
var ErrNoRecipients = errors.New("message has no recipients")

// Address is a display name and mailbox pair.
type Address struct {
	Name  string
	Email string
}

// String formats the address as `"Name" <email>`.
func (a Address) String() string {
	return fmt.Sprintf("%q <%s>", a.Name, a.Email)
}

// FromAddress derives the From header. The mailbox is senderEmail, or
// authUser when no sender is configured. The name is senderName, or the
// local part of the mailbox.
func FromAddress(senderEmail, senderName, authUser string) (Address, error) {
	email := strings.TrimSpace(senderEmail)
	if email == "" {
		email = strings.TrimSpace(authUser)
	}
	if email == "" {
		return Address{}, ErrNoSender
	}

	name := strings.TrimSpace(senderName)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return Address{Name: name, Email: email}, nil
}

// Message is one outgoing email.
type Message struct {
	From    Address
	To      []string
	Subject string
	HTML    string
	Text    string
}

// sanitizeHeader strips CR/LF to prevent header injection.
func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

// DeliveryError wraps a failed send.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver email: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
