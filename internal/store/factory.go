package store

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/haven/internal/domain/repository"
	"github.com/dropDatabas3/haven/internal/store/memory"
	"github.com/dropDatabas3/haven/internal/store/pg"
)

// Config selecciona e inicializa un driver.
type Config struct {
	Driver string // "memory" | "postgres"
	DSN    string // sólo postgres

	Postgres struct {
		MaxConns int32
	}
}

// New construye el DAL según la configuración.
func New(ctx context.Context, cfg Config) (DataAccessLayer, error) {
	switch cfg.Driver {
	case "", "memory":
		return memory.New(), nil
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("store: postgres driver requires dsn: %w", repository.ErrNoDatabase)
		}
		return pg.New(ctx, cfg.DSN, cfg.Postgres.MaxConns)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
