// Package credentials declares the storage contract for credential records
// and provides in-memory and PostgreSQL implementations.
package credentials

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	// Create stores c if no record with the same username exists. It returns
	// common.ErrorAlreadyExists otherwise and never overwrites. On success
	// c.ID and c.CreatedAt are filled in.
	Create(ctx context.Context, c *models.Credential) error

	// GetByUserName returns common.ErrorNotFound when the username is unknown.
	GetByUserName(ctx context.Context, userName string) (*models.Credential, error)
}
