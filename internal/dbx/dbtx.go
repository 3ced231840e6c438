// Package dbx lets repositories run against a pool or a transaction alike.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the single call the credential repository makes: every statement
// it runs returns exactly one row (INSERT ... RETURNING, or a lookup by
// username), so *sql.Row and its sql.ErrNoRows are all it needs.
type DBTX interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repositories are built over the pool today; a transaction works the same.
var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
