// Package compose wraps accepted content into the email document.
//
// Compose is pure: it trusts its input and never re-validates it. Markup
// fragments are embedded verbatim inside a greeting and sign-off; plain text
// is escaped and shown as a quote. Both share one outer wrapper with a header
// and a footer.
//
// PlainText derives the text/plain alternative from a composed document.
package compose
