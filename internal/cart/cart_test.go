// AngelaMos | 2026
// cart_test.go

package cart

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/stockhub/internal/asset"
	"github.com/carterperez-dev/stockhub/internal/authz"
	"github.com/carterperez-dev/stockhub/internal/core"
	"github.com/carterperez-dev/stockhub/internal/store"
)

var (
	alice = authz.Principal{UserID: 1, Role: authz.RoleUser}
	bob   = authz.Principal{UserID: 2, Role: authz.RoleContributor}
)

type fixture struct {
	svc    *Service
	items  Repository
	assets asset.Repository
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	assets := asset.NewMemoryRepository(asset.NewCollection())
	items := NewMemoryRepository(NewCollection())
	return fixture{
		svc:    NewService(items, assets, authz.DefaultPolicy(), slog.New(slog.DiscardHandler)),
		items:  items,
		assets: assets,
	}
}

func (f fixture) addAsset(t *testing.T, price int64, status string) *asset.Asset {
	t.Helper()
	a := &asset.Asset{
		Title:       "shot",
		Type:        asset.TypePhoto,
		Price:       price,
		AuthorID:    bob.UserID,
		Status:      status,
		LicenseType: asset.LicenseStandard,
	}
	require.NoError(t, f.assets.Create(context.Background(), a))
	return a
}

func TestAddToCartSnapshotsPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addAsset(t, 999, asset.StatusApproved)

	item, err := f.svc.AddToCart(ctx, alice, a.ID, asset.LicenseExtended)
	require.NoError(t, err)
	assert.Equal(t, int64(999), item.Price)
	assert.Equal(t, asset.LicenseExtended, item.LicenseType)

	a.Price = 5000
	require.NoError(t, f.assets.Update(ctx, a))

	c, err := f.svc.ListCart(ctx, alice)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(999), c.Items[0].Price)
}

func TestAddToCartAllowsDuplicatesAndUnapproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addAsset(t, 100, asset.StatusPending)

	for range 2 {
		_, err := f.svc.AddToCart(ctx, alice, a.ID, asset.LicenseStandard)
		require.NoError(t, err)
	}

	c, err := f.svc.ListCart(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, c.Items, 2)
	assert.Equal(t, int64(200), c.Total())
}

func TestAddToCartValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addAsset(t, 100, asset.StatusApproved)

	_, err := f.svc.AddToCart(ctx, alice, 999, asset.LicenseStandard)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = f.svc.AddToCart(ctx, alice, a.ID, "lifetime")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = f.svc.AddToCart(ctx, authz.Anonymous(), a.ID, asset.LicenseStandard)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestRemoveFromCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addAsset(t, 100, asset.StatusApproved)

	item, err := f.svc.AddToCart(ctx, alice, a.ID, asset.LicenseStandard)
	require.NoError(t, err)

	removed, err := f.svc.RemoveFromCart(ctx, bob, item.ID)
	require.NoError(t, err)
	assert.False(t, removed, "foreign item must look absent")

	removed, err = f.svc.RemoveFromCart(ctx, alice, item.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.svc.RemoveFromCart(ctx, alice, item.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestClearCartOnlyTouchesCaller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addAsset(t, 100, asset.StatusApproved)

	for _, p := range []authz.Principal{alice, alice, bob} {
		_, err := f.svc.AddToCart(ctx, p, a.ID, asset.LicenseStandard)
		require.NoError(t, err)
	}

	n, err := f.svc.ClearCart(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	c, err := f.svc.ListCart(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

func TestCartSelect(t *testing.T) {
	c := Cart{Items: []Item{{ID: 1, Price: 10}, {ID: 2, Price: 20}, {ID: 3, Price: 30}}}

	all, ok := c.Select(nil)
	assert.True(t, ok)
	assert.Len(t, all, 3)

	some, ok := c.Select([]int64{3, 1, 3})
	assert.True(t, ok)
	assert.Equal(t, []Item{{ID: 1, Price: 10}, {ID: 3, Price: 30}}, some)

	_, ok = c.Select([]int64{2, 9})
	assert.False(t, ok)
}

func TestCartResponseTotals(t *testing.T) {
	resp := ToCartResponse(&Cart{Items: []Item{{ID: 1, Price: 999}, {ID: 2, Price: 1}}})

	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, int64(1000), resp.Total)
	assert.Equal(t, "10.00", resp.TotalDisplay)
	assert.Equal(t, "9.99", resp.Items[0].PriceDisplay)
}

func TestJournaledRepositoryRollsBack(t *testing.T) {
	items := NewCollection()
	base := NewMemoryRepository(items)
	ctx := context.Background()

	kept := &Item{UserID: 1, AssetID: 1, Price: 10}
	require.NoError(t, base.Create(ctx, kept))

	journal := &store.Journal{}
	tx := NewJournaledRepository(items, journal)

	require.NoError(t, tx.Create(ctx, &Item{UserID: 1, AssetID: 2, Price: 20}))
	n, err := tx.DeleteByIDs(ctx, 1, []int64{kept.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, journal.Len())

	journal.Rollback()

	got, err := base.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, kept.ID, got[0].ID)
}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)INSERT INTO cart_items .*RETURNING id, created_at`).
		WithArgs(int64(1), int64(5), "standard", int64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), now))

	item := &Item{UserID: 1, AssetID: 5, LicenseType: "standard", Price: 999}
	require.NoError(t, repo.Create(context.Background(), item))
	assert.Equal(t, int64(3), item.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDeleteScopesToUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM cart_items WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.Delete(context.Background(), 2, 7)
	require.NoError(t, err)
	assert.False(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDeleteByIDsExpandsList(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM cart_items WHERE user_id = \$1 AND id IN \(\$2, \$3\)`).
		WithArgs(int64(1), int64(4), int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeleteByIDs(context.Background(), 1, []int64{4, 6})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, mock.ExpectationsWereMet())

	n, err = repo.DeleteByIDs(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
