// Package config provides configuration structures and utilities for soupmail.
//
// Settings come from three places, applied in this order:
//
//  1. NewConfig defaults
//  2. the optional YAML settings file (.soupmail.yaml), see FindConfigFile
//  3. environment variables (AI_CONFIG, MAIL_CONFIG, RECIPIENT_EMAIL,
//     RECIPIENT_EMAILS, DEBUG, CONTENT_MODE), optionally seeded from a .env file
//
// Secrets only ever come from the environment. The settings file holds
// presentation and retry tuning that is safe to commit.
package config
