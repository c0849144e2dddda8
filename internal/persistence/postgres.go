// AngelaMos | 2026
// postgres.go

package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/stockhub/internal/asset"
	"github.com/carterperez-dev/stockhub/internal/auth"
	"github.com/carterperez-dev/stockhub/internal/cart"
	"github.com/carterperez-dev/stockhub/internal/config"
	"github.com/carterperez-dev/stockhub/internal/core"
	"github.com/carterperez-dev/stockhub/internal/purchase"
	"github.com/carterperez-dev/stockhub/internal/user"
)

// NewPostgres binds the SQL repositories to db. Foreign keys in the schema
// handle cascading deletes.
func NewPostgres(db *core.Database) *Backend {
	return &Backend{
		Driver:    config.StorePostgres,
		Users:     user.NewRepository(db.DB),
		Tokens:    auth.NewRepository(db.DB),
		Assets:    asset.NewRepository(db.DB),
		Cart:      cart.NewRepository(db.DB),
		Purchases: purchase.NewRepository(db.DB),
		Tx:        sqlTransactor{db: db.DB},
		db:        db,
	}
}

type sqlTransactor struct {
	db *sqlx.DB
}

func (t sqlTransactor) WithinTx(
	ctx context.Context,
	fn func(ctx context.Context, repos purchase.TxRepositories) error,
) error {
	return core.InTxRetry(ctx, t.db, nil, func(tx *sqlx.Tx) error {
		return fn(ctx, purchase.TxRepositories{
			Assets:    asset.NewRepository(tx),
			Cart:      cart.NewRepository(tx),
			Purchases: purchase.NewRepository(tx),
		})
	})
}
