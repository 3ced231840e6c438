package credentials

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps credentials in a map. A single lock covers the
// existence check and the write in Create, so concurrent registrations of
// one username cannot both succeed.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*models.Credential
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string]*models.Credential),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) Create(ctx context.Context, c *models.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[c.UserName]; ok {
		return common.ErrorAlreadyExists
	}

	c.ID = uuid.NewString()
	c.CreatedAt = r.now()
	r.records[c.UserName] = c.Clone()

	return nil
}

func (r *MemoryRepository) GetByUserName(ctx context.Context, userName string) (*models.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.records[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c.Clone(), nil
}

// Len reports the number of stored records.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
