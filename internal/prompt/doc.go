// Package prompt implements the interactive questions spam asks.
//
// Passwords and secrets are read without echo when input is a terminal.
// Any other reader is consumed line by line, which is how scripts and
// tests drive the CLI.
package prompt
