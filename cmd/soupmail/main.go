// Package main provides the entry point for the soupmail CLI.
//
// soupmail asks a language model for a short uplifting message, checks that
// the answer is usable, falls back to a curated quote when it is not, and
// mails the result to one or more recipients. It is meant to run once a day
// from cron or a CI schedule.
//
// Usage:
//
//	soupmail send
//	soupmail send --dry-run
//	soupmail history --markdown
//
// See --help for all available options.
package main

func main() {
	Execute()
}
