// Package cli provides the taskkeeper command-line client.
//
// Run with a subcommand (register, login, whoami) to perform one action and
// exit, or with none to start an interactive REPL. The REPL keeps the token
// from the last login and shows whether the server answers its health
// checks.
package cli
