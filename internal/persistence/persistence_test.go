// AngelaMos | 2026
// persistence_test.go

package persistence

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/stockhub/internal/asset"
	"github.com/carterperez-dev/stockhub/internal/auth"
	"github.com/carterperez-dev/stockhub/internal/cart"
	"github.com/carterperez-dev/stockhub/internal/config"
	"github.com/carterperez-dev/stockhub/internal/core"
	"github.com/carterperez-dev/stockhub/internal/purchase"
	"github.com/carterperez-dev/stockhub/internal/user"
)

func seed(t *testing.T, b *Backend) (*user.User, *asset.Asset) {
	t.Helper()
	ctx := context.Background()

	u := &user.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h", Role: "contributor"}
	require.NoError(t, b.Users.Create(ctx, u))

	a := &asset.Asset{
		Title: "x", Type: asset.TypePhoto, URL: "https://cdn/x", Price: 100,
		AuthorID: u.ID, Status: asset.StatusApproved, LicenseType: asset.LicenseStandard,
	}
	require.NoError(t, b.Assets.Create(ctx, a))
	return u, a
}

func TestMemoryTransactorRollsBack(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()
	u, a := seed(t, b)

	item := &cart.Item{UserID: u.ID, AssetID: a.ID, LicenseType: asset.LicenseStandard, Price: 100}
	require.NoError(t, b.Cart.Create(ctx, item))

	boom := errors.New("boom")
	err := b.Tx.WithinTx(ctx, func(ctx context.Context, repos purchase.TxRepositories) error {
		require.NoError(t, repos.Purchases.Create(ctx, &purchase.Purchase{UserID: u.ID, AssetID: a.ID}))
		n, err := repos.Cart.DeleteByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, 1, n)
		return boom
	})
	require.ErrorIs(t, err, boom)

	items, err := b.Cart.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	purchases, err := b.Purchases.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestMemoryTransactorCommits(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()
	u, a := seed(t, b)

	err := b.Tx.WithinTx(ctx, func(ctx context.Context, repos purchase.TxRepositories) error {
		return repos.Purchases.Create(ctx, &purchase.Purchase{UserID: u.ID, AssetID: a.ID, Price: 100})
	})
	require.NoError(t, err)

	totals, err := b.Purchases.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, purchase.Totals{Count: 1, Revenue: 100}, totals)
}

func TestMemoryTransactorHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewMemory().Tx.WithinTx(ctx, func(context.Context, purchase.TxRepositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestMemoryAssetDeleteCascadesToCart(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()
	u, a := seed(t, b)

	require.NoError(t, b.Cart.Create(ctx, &cart.Item{UserID: u.ID, AssetID: a.ID}))
	require.NoError(t, b.Assets.Delete(ctx, a.ID))

	items, err := b.Cart.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, b.Assets.Delete(ctx, a.ID), core.ErrNotFound)
}

func TestMemoryUserDeleteCascades(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()
	u, a := seed(t, b)

	buyer := &user.User{Username: "bob", Email: "bob@example.com", PasswordHash: "h", Role: "user"}
	require.NoError(t, b.Users.Create(ctx, buyer))

	require.NoError(t, b.Cart.Create(ctx, &cart.Item{UserID: buyer.ID, AssetID: a.ID}))
	require.NoError(t, b.Cart.Create(ctx, &cart.Item{UserID: u.ID, AssetID: a.ID}))
	require.NoError(t, b.Purchases.Create(ctx, &purchase.Purchase{UserID: u.ID, AssetID: a.ID}))
	require.NoError(t, b.Tokens.Create(ctx, &auth.RefreshToken{
		ID: "t1", UserID: u.ID, TokenHash: "hash", FamilyID: "f",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, b.Users.Delete(ctx, u.ID))

	_, err := b.Assets.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	items, err := b.Cart.ListByUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "items for the deleted author's assets go too")

	purchases, err := b.Purchases.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, purchases)

	sessions, err := b.Tokens.GetActiveSessionsForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{
		Store: config.StoreConfig{Driver: "bolt"},
	}, slog.New(slog.DiscardHandler))
	assert.Error(t, err)

	b, err := Open(context.Background(), &config.Config{}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Equal(t, config.StoreMemory, b.Driver)
	assert.NoError(t, b.Ping(context.Background()))
	assert.NoError(t, b.Close())

	_, ok := b.DBStats()
	assert.False(t, ok)
}

func newMockBackend(t *testing.T) (*Backend, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgres(&core.Database{DB: sqlx.NewDb(db, "pgx")}), mock
}

func TestPostgresTransactorCommits(t *testing.T) {
	b, mock := newMockBackend(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO purchases`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))
	mock.ExpectExec(`DELETE FROM cart_items WHERE user_id = \$1 AND id IN \(\$2\)`).
		WithArgs(int64(1), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := b.Tx.WithinTx(context.Background(), func(ctx context.Context, repos purchase.TxRepositories) error {
		if err := repos.Purchases.Create(ctx, &purchase.Purchase{UserID: 1, AssetID: 2}); err != nil {
			return err
		}
		_, err := repos.Cart.DeleteByIDs(ctx, 1, []int64{4})
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTransactorRollsBack(t *testing.T) {
	b, mock := newMockBackend(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM assets WHERE id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := b.Tx.WithinTx(context.Background(), func(ctx context.Context, repos purchase.TxRepositories) error {
		_, err := repos.Assets.GetByID(ctx, 9)
		return err
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendPing(t *testing.T) {
	b, mock := newMockBackend(t)

	mock.ExpectPing()
	require.NoError(t, b.Ping(context.Background()))

	_, ok := b.DBStats()
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTransactorRetriesSerializationFailure(t *testing.T) {
	b, mock := newMockBackend(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO purchases`).
		WillReturnError(&pgconn.PgError{Code: "40001"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO purchases`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))
	mock.ExpectCommit()

	attempts := 0
	err := b.Tx.WithinTx(context.Background(), func(ctx context.Context, repos purchase.TxRepositories) error {
		attempts++
		return repos.Purchases.Create(ctx, &purchase.Purchase{UserID: 1, AssetID: 2})
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	require.NoError(t, mock.ExpectationsWereMet())
}
