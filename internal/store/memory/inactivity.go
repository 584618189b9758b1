package memory

import (
	"context"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

type inactivityRepo struct {
	mu sync.Mutex
	c  *gocache.Cache // userID -> repository.InactivityCheck
}

func (r *inactivityRepo) Get(ctx context.Context, userID string) (*repository.InactivityCheck, error) {
	v, ok := r.c.Get(userID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	rec := v.(repository.InactivityCheck)
	return &rec, nil
}

func (r *inactivityRepo) UpsertCounter(ctx context.Context, userID string, lastCheckedAt int) error {
	if lastCheckedAt < 0 {
		lastCheckedAt = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := repository.InactivityCheck{UserID: userID}
	if v, ok := r.c.Get(userID); ok {
		rec = v.(repository.InactivityCheck)
	}
	rec.LastCheckedAt = lastCheckedAt
	r.c.Set(userID, rec, gocache.NoExpiration)
	return nil
}

func (r *inactivityRepo) SetToken(ctx context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := repository.InactivityCheck{UserID: userID, LastCheckedAt: 0}
	if v, ok := r.c.Get(userID); ok {
		rec = v.(repository.InactivityCheck)
	}
	rec.Token = token
	r.c.Set(userID, rec, gocache.NoExpiration)
	return nil
}

// FindByToken hace un scan lineal. Aceptable para este driver; el driver
// postgres usa un índice.
func (r *inactivityRepo) FindByToken(ctx context.Context, token string) (*repository.InactivityCheck, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	for _, item := range r.c.Items() {
		rec := item.Object.(repository.InactivityCheck)
		if rec.Token == token {
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}
