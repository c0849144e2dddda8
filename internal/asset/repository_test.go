// AngelaMos | 2026
// repository_test.go

package asset

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

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

var assetRowColumns = []string{
	"id", "title", "description", "type", "url", "thumbnail_url", "price",
	"author_id", "status", "tags", "categories", "license_type", "width",
	"height", "duration", "file_size", "moderated_by", "moderated_at",
	"rejection_reason", "created_at", "updated_at",
}

func assetRow(rows *sqlmock.Rows, id int64, status string, at time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id, "Sunset Beach", nil, TypePhoto, "https://cdn/x.jpg", "https://cdn/x_t.jpg",
		int64(999), int64(2), status, []byte(`["beach","sunset"]`), []byte(`["nature"]`),
		LicenseStandard, nil, nil, nil, nil, nil, nil, nil, at, at,
	)
}

func TestRepositoryGetByIDScansLabels(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .* FROM assets WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(assetRow(sqlmock.NewRows(assetRowColumns), 5, StatusApproved, now))

	a, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, StringList{"beach", "sunset"}, a.Tags)
	assert.Equal(t, StringList{"nature"}, a.Categories)
	assert.Nil(t, a.Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM assets WHERE id`).
		WillReturnRows(sqlmock.NewRows(assetRowColumns))

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryCreateEncodesLabels(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)INSERT INTO assets .*RETURNING id, created_at, updated_at`).
		WithArgs(
			"Sunset", nil, TypePhoto, "u", "t", int64(10), int64(2), StatusPending,
			[]byte(`["beach"]`), []byte(`[]`), LicenseStandard, nil, nil, nil, nil,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(11), now, now))

	a := &Asset{
		Title: "Sunset", Type: TypePhoto, URL: "u", ThumbnailURL: "t", Price: 10,
		AuthorID: 2, Status: StatusPending, Tags: StringList{"beach"},
		LicenseType: LicenseStandard,
	}
	require.NoError(t, repo.Create(context.Background(), a))

	assert.Equal(t, int64(11), a.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDeleteMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM assets WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 3), core.ErrNotFound)
}

func TestRepositoryCountByStatusFillsZeros(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM assets GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow(StatusApproved, 4))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		StatusPending:  0,
		StatusApproved: 4,
		StatusRejected: 0,
	}, counts)
}

func TestRepositoryTransitionWritesWhenStatusUnchanged(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM assets WHERE id`).
		WillReturnRows(assetRow(sqlmock.NewRows(assetRowColumns), 5, StatusPending, now))
	mock.ExpectQuery(`(?s)UPDATE assets\s+SET status = \$2.*WHERE id = \$1 AND status = \$6`).
		WithArgs(int64(5), StatusApproved, int64(1), sqlmock.AnyArg(), nil, StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	moderator := int64(1)
	a, err := repo.Transition(context.Background(), 5, func(a *Asset) error {
		a.Status = StatusApproved
		a.ModeratedBy = &moderator
		a.ModeratedAt = &now
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, a.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryTransitionGivesUpAfterConcurrentChanges(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	for range maxTransitionAttempts {
		mock.ExpectQuery(`FROM assets WHERE id`).
			WillReturnRows(assetRow(sqlmock.NewRows(assetRowColumns), 5, StatusPending, now))
		mock.ExpectQuery(`(?s)UPDATE assets`).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))
	}

	_, err := repo.Transition(context.Background(), 5, func(a *Asset) error {
		a.Status = StatusRejected
		return nil
	})
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryTransitionAbortsOnApplyError(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM assets WHERE id`).
		WillReturnRows(assetRow(sqlmock.NewRows(assetRowColumns), 5, StatusApproved, now))

	_, err := repo.Transition(context.Background(), 5, func(*Asset) error {
		return core.ErrInvalidTransition
	})
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}
