// Package mailer delivers the composed document.
//
// A Dispatcher builds one Message (HTML body plus a text/plain alternative)
// and hands it to a Sender exactly once. Delivery is not retried: a failed
// send is reported as a *DeliveryError and the run ends.
//
// SMTPSender talks to a real server through github.com/wneessen/go-mail.
// LogSender is used for dry runs and only logs what would have been sent.
//
// Prober connects to the SMTP server and reads its greeting without sending
// anything; `soupmail check` uses it as a health check.
package mailer
