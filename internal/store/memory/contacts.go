package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

type contactRepo struct {
	mu sync.Mutex
	c  *gocache.Cache // contactID -> repository.TrustedContact
}

func (r *contactRepo) ListByUser(ctx context.Context, userID string) ([]repository.TrustedContact, error) {
	var out []repository.TrustedContact
	for _, item := range r.c.Items() {
		tc := item.Object.(repository.TrustedContact)
		if tc.UserID == userID {
			out = append(out, tc)
		}
	}
	sortContacts(out)
	return out, nil
}

func (r *contactRepo) Insert(ctx context.Context, userID, contactEmail string) (*repository.TrustedContact, error) {
	tc := repository.TrustedContact{
		ID:                 uuid.NewString(),
		UserID:             userID,
		ContactEmail:       contactEmail,
		VerificationStatus: repository.ContactPending,
		CreatedAt:          time.Now().UTC(),
	}
	r.c.Set(tc.ID, tc, gocache.NoExpiration)
	return &tc, nil
}

func (r *contactRepo) FindByEmail(ctx context.Context, contactEmail string) (*repository.TrustedContact, error) {
	var all []repository.TrustedContact
	for _, item := range r.c.Items() {
		tc := item.Object.(repository.TrustedContact)
		if strings.EqualFold(tc.ContactEmail, contactEmail) {
			all = append(all, tc)
		}
	}
	if len(all) == 0 {
		return nil, repository.ErrNotFound
	}
	sortContacts(all)
	return &all[0], nil
}

func (r *contactRepo) SetVerified(ctx context.Context, contactID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.c.Get(contactID)
	if !ok {
		return repository.ErrNotFound
	}
	tc := v.(repository.TrustedContact)
	tc.VerificationStatus = repository.ContactVerified
	r.c.Set(contactID, tc, gocache.NoExpiration)
	return nil
}

func (r *contactRepo) DeleteByEmail(ctx context.Context, userID, contactEmail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.c.Items() {
		tc := item.Object.(repository.TrustedContact)
		if tc.UserID == userID && strings.EqualFold(tc.ContactEmail, contactEmail) {
			r.c.Delete(id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func sortContacts(cs []repository.TrustedContact) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].ID < cs[j].ID
		}
		return cs[i].CreatedAt.Before(cs[j].CreatedAt)
	})
}
