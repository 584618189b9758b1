package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

type userRepo struct {
	mu      sync.Mutex
	c       *gocache.Cache // userID -> repository.User
	idents  *gocache.Cache // userID -> repository.Identity
	byEmail *gocache.Cache // lower(email) -> userID
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, *repository.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.byEmail.Get(strings.ToLower(email))
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	userID := v.(string)
	uv, ok := r.c.Get(userID)
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	u := uv.(repository.User)
	var ident *repository.Identity
	if iv, ok := r.idents.Get(userID); ok {
		i := iv.(repository.Identity)
		ident = &i
	}
	return &u, ident, nil
}

func (r *userRepo) GetByID(ctx context.Context, userID string) (*repository.User, error) {
	v, ok := r.c.Get(userID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := v.(repository.User)
	return &u, nil
}

func (r *userRepo) List(ctx context.Context, filter repository.ListUsersFilter) ([]repository.User, string, error) {
	size := filter.PageSize
	if size <= 0 {
		size = 100
	}

	all := make([]repository.User, 0, r.c.ItemCount())
	for _, item := range r.c.Items() {
		all = append(all, item.Object.(repository.User))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	start := 0
	if filter.Cursor != "" {
		start = sort.Search(len(all), func(i int) bool { return all[i].ID > filter.Cursor })
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	page := all[start:end]

	next := ""
	if end < len(all) && len(page) > 0 {
		next = page[len(page)-1].ID
	}
	return page, next, nil
}

func (r *userRepo) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, *repository.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(input.Email)
	if _, ok := r.byEmail.Get(key); ok {
		return nil, nil, repository.ErrConflict
	}

	now := time.Now().UTC()
	u := repository.User{
		ID:        uuid.NewString(),
		Email:     input.Email,
		Name:      input.Name,
		CreatedAt: now,
	}
	hash := input.PasswordHash
	ident := repository.Identity{
		ID:           uuid.NewString(),
		UserID:       u.ID,
		Provider:     "password",
		Email:        input.Email,
		PasswordHash: &hash,
		CreatedAt:    now,
	}

	r.c.Set(u.ID, u, gocache.NoExpiration)
	r.idents.Set(u.ID, ident, gocache.NoExpiration)
	r.byEmail.Set(key, u.ID, gocache.NoExpiration)
	return &u, &ident, nil
}

func (r *userRepo) CheckPassword(hash *string, password string) bool {
	if hash == nil || *hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) == nil
}
