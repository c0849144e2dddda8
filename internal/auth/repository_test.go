// AngelaMos | 2026
// repository_test.go

package auth

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

func TestRepositoryFindByHashNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM refresh_tokens\s+WHERE token_hash = \$1`).
		WithArgs("h").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByHash(context.Background(), "h")
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryMarkAsUsedOnlyOnce(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE refresh_tokens\s+SET is_used = true`).
		WithArgs("old", "new").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE refresh_tokens\s+SET is_used = true`).
		WithArgs("old", "newer").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.MarkAsUsed(ctx, "old", "new"))
	assert.ErrorIs(t, repo.MarkAsUsed(ctx, "old", "newer"), core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryRevokeFamilyIgnoresEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`WHERE family_id = \$1 AND revoked_at IS NULL`).
		WithArgs("fam").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.RevokeByFamilyID(context.Background(), "fam"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryActiveSessionsEmptyIsNonNil(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM refresh_tokens\s+WHERE user_id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	tokens, err := repo.GetActiveSessionsForUser(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, tokens)
	assert.Empty(t, tokens)
}

func TestRepositoryDeleteExpired(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM refresh_tokens\s+WHERE expires_at < \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestRepositoryCreateStampsCreatedAt(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO refresh_tokens`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	tok := &RefreshToken{ID: "a", UserID: 1, TokenHash: "h", FamilyID: "f"}
	require.NoError(t, repo.Create(context.Background(), tok))
	assert.Equal(t, now, tok.CreatedAt)
}
