// Package logging is the logging surface of taskkeeper. Components take a
// Logger and never import log/slog directly; NewJSONLogger is the only
// production implementation.
package logging

import "context"

// Logger writes leveled records with alternating key and value args:
//
//	l.Info(ctx, "credential registered", "username", name, "kdf", alg)
//
// Keys such as "password", "secret" or "token" are redacted by the JSON
// logger, but callers still pass usernames rather than credentials.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With binds args to every record of the returned Logger, e.g. the
	// "module" key each component adds.
	With(args ...any) Logger
}
