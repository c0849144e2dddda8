// AngelaMos | 2026
// repository_test.go

package purchase

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/stockhub/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestRepositoryCreatePurchase(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	expiry := now.Add(time.Hour)

	mock.ExpectQuery(`(?s)INSERT INTO purchases .*RETURNING id, created_at`).
		WithArgs(int64(1), int64(5), int64(999), "standard", "https://dl/x", expiry).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), now))

	p := &Purchase{
		UserID: 1, AssetID: 5, Price: 999, LicenseType: "standard",
		DownloadURL: "https://dl/x", ExpiryDate: &expiry,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, int64(12), p.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetPurchaseNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM purchases WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 4)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryTotals(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS count, COALESCE\(SUM\(price\), 0\) AS revenue FROM purchases`).
		WillReturnRows(sqlmock.NewRows([]string{"count", "revenue"}).AddRow(3, int64(4500)))

	totals, err := repo.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Totals{Count: 3, Revenue: 4500}, totals)
}
