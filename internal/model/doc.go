// Package model defines the value types shared across soupmail.
//
// This package contains the following main types:
//   - Outcome: the classification of a single generation attempt
//   - Attempt: one request/extract/validate cycle of the generator
//   - Delivery: the record of one complete run, as stored in history
//
// Models live in their own package so that pipeline, history and report can
// all use them without importing each other.
package model
