// AngelaMos | 2026
// backend.go

// Package persistence assembles the repository set for the configured
// store driver.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/stockhub/internal/asset"
	"github.com/carterperez-dev/stockhub/internal/auth"
	"github.com/carterperez-dev/stockhub/internal/cart"
	"github.com/carterperez-dev/stockhub/internal/config"
	"github.com/carterperez-dev/stockhub/internal/core"
	"github.com/carterperez-dev/stockhub/internal/purchase"
	"github.com/carterperez-dev/stockhub/internal/user"
)

// Backend is one consistent set of repositories plus the transactor that
// binds them for checkout.
type Backend struct {
	Driver    string
	Users     user.Repository
	Tokens    auth.Repository
	Assets    asset.Repository
	Cart      cart.Repository
	Purchases purchase.Repository
	Tx        purchase.Transactor

	db *core.Database
}

func Open(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*Backend, error) {
	switch cfg.Store.Driver {
	case "", config.StoreMemory:
		logger.Info("using in-memory store")
		return NewMemory(), nil

	case config.StorePostgres:
		db, err := core.NewDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(ctx); err != nil {
				_ = db.Close() //nolint:errcheck // cleanup after failed migration
				return nil, err
			}
			logger.Info("database migrations applied")
		}
		logger.Info("connected to postgres",
			"max_open_conns", cfg.Database.MaxOpenConns,
		)
		return NewPostgres(db), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Ping reports database reachability. The memory store is always up.
func (b *Backend) Ping(ctx context.Context) error {
	if b.db == nil {
		return nil
	}
	return b.db.Ping(ctx)
}

// DBStats exposes the connection pool counters when backed by postgres.
func (b *Backend) DBStats() (sql.DBStats, bool) {
	if b.db == nil {
		return sql.DBStats{}, false
	}
	return b.db.Stats(), true
}

func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}
