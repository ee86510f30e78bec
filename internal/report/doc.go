// Package report renders delivery history for the `soupmail history` command.
//
// Writers exist for three formats:
//   - SimpleWriter: plain text for terminal display
//   - MarkdownWriter: GitHub-flavored Markdown with a source distribution chart
//   - JSONWriter: structured JSON for scripts
//
// All writers implement Writer and accept the deliveries newest first, as
// returned by history.Store.List.
package report
