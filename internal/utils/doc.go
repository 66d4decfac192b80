// Package utils provides shared utility functions for the ahasecret CLI.
//
// # I/O Utilities
//
//   - ReadLimited: reads a bounded amount of input, rejecting empty or oversized data
//   - ReadStdin: reads the secret from standard input
//
// # Terminal Utilities
//
//   - ReadPassphrase: prompts without echo, falling back to the TTY when stdin is piped
//   - Confirm: asks a y/N question
//
// # Retention Utilities
//
//   - ParseRetention: converts "30m", "12h" or "7d" into minutes
//   - FormatMinutes: the inverse, for display
package utils
