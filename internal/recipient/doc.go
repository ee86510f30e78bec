// Package recipient turns the RECIPIENT_EMAIL / RECIPIENT_EMAILS settings into
// an ordered, validated list of destination addresses.
//
// The address check is deliberately loose (something@something.tld) and does
// not implement RFC 5322.
package recipient
