package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/credentials"
)

// MemoryRepositoryManager hands out one shared in-memory repository per kind
// and ignores the database handle. It backs deployments without a DSN.
type MemoryRepositoryManager struct {
	credentials *credentials.MemoryRepository
}

func NewMemoryRepositoryManager() RepositoryManager {
	return &MemoryRepositoryManager{credentials: credentials.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) Credentials(dbx.DBTX) credentials.Repository {
	return m.credentials
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}
