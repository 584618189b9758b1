package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

type vaultRepo struct {
	mu sync.Mutex
	c  *gocache.Cache // itemID -> repository.VaultItem
}

func (r *vaultRepo) ListByUser(ctx context.Context, userID string) ([]repository.VaultItem, error) {
	var out []repository.VaultItem
	for _, item := range r.c.Items() {
		vi := item.Object.(repository.VaultItem)
		if vi.UserID == userID {
			out = append(out, vi)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *vaultRepo) GetByID(ctx context.Context, itemID string) (*repository.VaultItem, error) {
	v, ok := r.c.Get(itemID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	vi := v.(repository.VaultItem)
	return &vi, nil
}

func (r *vaultRepo) Insert(ctx context.Context, input repository.CreateVaultItemInput) (*repository.VaultItem, error) {
	vi := repository.VaultItem{
		ID:                uuid.NewString(),
		UserID:            input.UserID,
		Provider:          input.Provider,
		ProviderAccountID: input.ProviderAccountID,
		Name:              input.Name,
		Metadata:          input.Metadata,
		RecoveryMethods:   input.RecoveryMethods,
		EncryptedPayload:  input.EncryptedPayload,
		RecoveryStatus:    repository.RecoveryUnverified,
		CreatedAt:         time.Now().UTC(),
	}
	r.c.Set(vi.ID, vi, gocache.NoExpiration)
	return &vi, nil
}

func (r *vaultRepo) Update(ctx context.Context, itemID string, input repository.UpdateVaultItemInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.c.Get(itemID)
	if !ok {
		return repository.ErrNotFound
	}
	vi := v.(repository.VaultItem)
	if input.Name != nil {
		vi.Name = *input.Name
	}
	if input.Metadata != nil {
		vi.Metadata = input.Metadata
	}
	if input.RecoveryMethods != nil {
		vi.RecoveryMethods = input.RecoveryMethods
	}
	if input.EncryptedPayload != nil {
		vi.EncryptedPayload = *input.EncryptedPayload
	}
	r.c.Set(itemID, vi, gocache.NoExpiration)
	return nil
}

func (r *vaultRepo) Delete(ctx context.Context, itemID string) error {
	if _, ok := r.c.Get(itemID); !ok {
		return repository.ErrNotFound
	}
	r.c.Delete(itemID)
	return nil
}
