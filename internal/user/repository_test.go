// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
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

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

var userRowColumns = []string{
	"id", "username", "email", "password_hash", "role", "display_name",
	"bio", "avatar_url", "created_at", "updated_at",
}

func TestRepositoryCreateReturnsGeneratedFields(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)INSERT INTO users .*RETURNING id, created_at, updated_at`).
		WithArgs("alice", "alice@example.com", "hash", "user", nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(7), now, now))

	u := &User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash", Role: "user"}
	require.NoError(t, repo.Create(context.Background(), u))

	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, now, u.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`(?s)INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &User{Username: "a", Email: "a@example.com"})
	require.ErrorIs(t, err, core.ErrDuplicateKey)
	assert.Contains(t, err.Error(), "email")
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`(?s)SELECT .* FROM users\s+WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryGetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)SELECT .* FROM users\s+WHERE email = \$1`).
		WithArgs("bob@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(
			int64(3), "bob", "bob@example.com", "hash", "contributor",
			nil, nil, nil, now, now,
		))

	u, err := repo.GetByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "contributor", u.Role)
}

func TestRepositoryDeleteMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 5), core.ErrNotFound)
}

func TestRepositoryListBuildsFilters(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) FROM users WHERE TRUE AND \(email ILIKE \$1 OR username ILIKE \$1\) AND role = \$2`).
		WithArgs("%50\\%%", "admin").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`(?s)SELECT .* FROM users.*LIMIT \$3 OFFSET \$4`).
		WithArgs("%50\\%%", "admin", 10, 10).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(
			int64(1), "root", "root@example.com", "hash", "admin",
			nil, nil, nil, now, now,
		))

	users, total, err := repo.List(context.Background(), ListUsersParams{
		Page:     2,
		PageSize: 10,
		Search:   "50%",
		Role:     "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryWrapsDriverErrors(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("x@example.com").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.ExistsByEmail(context.Background(), "x@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check email exists")
}
