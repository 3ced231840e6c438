package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// PostgresRepository stores credentials in the credentials table over
// dbx.DBTX (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create relies on the unique username constraint: ON CONFLICT DO NOTHING
// returns no row when the username is taken.
func (r *PostgresRepository) Create(ctx context.Context, c *models.Credential) error {
	query :=
		`INSERT INTO credentials (username, salt, derived_key, kdf_algorithm, kdf_iterations)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (username) DO NOTHING
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		c.UserName, c.Salt, c.DerivedKey, c.KDFAlgorithm, c.KDFIterations).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByUserName(ctx context.Context, userName string) (*models.Credential, error) {
	query :=
		`SELECT id, username, salt, derived_key, kdf_algorithm, kdf_iterations, created_at FROM credentials
		 WHERE username = $1
		 `

	c := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, userName).Scan(
		&c.ID, &c.UserName, &c.Salt, &c.DerivedKey, &c.KDFAlgorithm, &c.KDFIterations, &c.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}
