// AngelaMos | 2026
// memory.go

package persistence

import (
	"context"

	"github.com/carterperez-dev/stockhub/internal/asset"
	"github.com/carterperez-dev/stockhub/internal/auth"
	"github.com/carterperez-dev/stockhub/internal/cart"
	"github.com/carterperez-dev/stockhub/internal/config"
	"github.com/carterperez-dev/stockhub/internal/purchase"
	"github.com/carterperez-dev/stockhub/internal/store"
	"github.com/carterperez-dev/stockhub/internal/user"
)

type collections struct {
	users     *store.Collection[user.User]
	assets    *store.Collection[asset.Asset]
	items     *store.Collection[cart.Item]
	purchases *store.Collection[purchase.Purchase]
}

// NewMemory returns a process-local backend. Deletes cascade the same way
// the SQL schema does.
func NewMemory(opts ...store.Option) *Backend {
	c := &collections{
		users:     user.NewCollection(opts...),
		assets:    asset.NewCollection(opts...),
		items:     cart.NewCollection(opts...),
		purchases: purchase.NewCollection(opts...),
	}
	tokens := auth.NewMemoryRepository()

	return &Backend{
		Driver: config.StoreMemory,
		Users: cascadingUsers{
			Repository: user.NewMemoryRepository(c.users),
			c:          c,
			tokens:     tokens,
		},
		Tokens:    tokens,
		Assets:    cascadingAssets{Repository: asset.NewMemoryRepository(c.assets), c: c},
		Cart:      cart.NewMemoryRepository(c.items),
		Purchases: purchase.NewMemoryRepository(c.purchases),
		Tx:        &memoryTransactor{c: c},
	}
}

type memoryTransactor struct {
	tx store.Transactor
	c  *collections
}

func (t *memoryTransactor) WithinTx(
	ctx context.Context,
	fn func(ctx context.Context, repos purchase.TxRepositories) error,
) error {
	return t.tx.Run(ctx, func(j *store.Journal) error {
		return fn(ctx, purchase.TxRepositories{
			Assets:    asset.NewMemoryRepository(t.c.assets),
			Cart:      cart.NewJournaledRepository(t.c.items, j),
			Purchases: purchase.NewJournaledRepository(t.c.purchases, j),
		})
	})
}

// cascadingAssets drops cart items that reference a deleted asset.
// Purchases keep their snapshot.
type cascadingAssets struct {
	asset.Repository
	c *collections
}

func (r cascadingAssets) Delete(ctx context.Context, id int64) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.c.items.DeleteWhere(func(i cart.Item) bool { return i.AssetID == id })
	return nil
}

// cascadingUsers removes everything a deleted user owns.
type cascadingUsers struct {
	user.Repository
	c      *collections
	tokens auth.Repository
}

func (r cascadingUsers) Delete(ctx context.Context, id int64) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}

	if err := r.tokens.RevokeAllForUser(ctx, id); err != nil {
		return err
	}

	owned := make(map[int64]struct{})
	for _, a := range r.c.assets.DeleteWhere(func(a asset.Asset) bool { return a.AuthorID == id }) {
		owned[a.ID] = struct{}{}
	}

	r.c.items.DeleteWhere(func(i cart.Item) bool {
		_, gone := owned[i.AssetID]
		return gone || i.UserID == id
	})
	r.c.purchases.DeleteWhere(func(p purchase.Purchase) bool { return p.UserID == id })

	return nil
}
