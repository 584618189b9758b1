package memory

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

type ruleRepo struct {
	c *gocache.Cache // userID -> repository.Rule
}

func (r *ruleRepo) GetByUser(ctx context.Context, userID string) (*repository.Rule, error) {
	v, ok := r.c.Get(userID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	rule := v.(repository.Rule)
	return &rule, nil
}

func (r *ruleRepo) Upsert(ctx context.Context, rule repository.Rule) error {
	r.c.Set(rule.UserID, rule, gocache.NoExpiration)
	return nil
}
