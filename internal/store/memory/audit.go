package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

type auditRepo struct {
	mu sync.Mutex
	c  *gocache.Cache // userID -> []repository.AuditEntry (orden de inserción)
}

func (r *auditRepo) Append(ctx context.Context, entry repository.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []repository.AuditEntry
	if v, ok := r.c.Get(entry.UserID); ok {
		entries = v.([]repository.AuditEntry)
	}
	entries = append(entries, entry)
	r.c.Set(entry.UserID, entries, gocache.NoExpiration)
	return nil
}

func (r *auditRepo) ListByUser(ctx context.Context, userID string, limit int) ([]repository.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.c.Get(userID)
	if !ok {
		return nil, nil
	}
	entries := v.([]repository.AuditEntry)

	// más nuevas primero
	out := make([]repository.AuditEntry, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}
