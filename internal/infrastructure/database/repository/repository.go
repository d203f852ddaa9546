package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories groups the PostgreSQL-backed stores
type Repositories struct {
	Denylist *DenylistRepository
	History  *HistoryRepository
}

// NewRepositories creates all repositories over one pool
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Denylist: NewDenylistRepository(pool),
		History:  NewHistoryRepository(pool),
	}
}
