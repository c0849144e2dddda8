// AngelaMos | 2026
// repository.go

package asset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/stockhub/internal/core"
)

// TransitionFunc mutates a locked copy of the asset. Returning an error
// aborts the write.
type TransitionFunc func(a *Asset) error

type Repository interface {
	Create(ctx context.Context, a *Asset) error
	GetByID(ctx context.Context, id int64) (*Asset, error)
	Update(ctx context.Context, a *Asset) error
	Delete(ctx context.Context, id int64) error
	ListByAuthor(ctx context.Context, authorID int64) ([]Asset, error)
	ListByStatus(
		ctx context.Context,
		status string,
		page Page,
	) ([]Asset, int, error)
	ListApproved(ctx context.Context) ([]Asset, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	Transition(ctx context.Context, id int64, apply TransitionFunc) (*Asset, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const assetColumns = `id, title, description, type, url, thumbnail_url, price,
		author_id, status, tags, categories, license_type, width, height,
		duration, file_size, moderated_by, moderated_at, rejection_reason,
		created_at, updated_at`

func (r *repository) Create(ctx context.Context, a *Asset) error {
	query := `
		INSERT INTO assets (
			title, description, type, url, thumbnail_url, price, author_id,
			status, tags, categories, license_type, width, height, duration,
			file_size
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		a.Title,
		a.Description,
		a.Type,
		a.URL,
		a.ThumbnailURL,
		a.Price,
		a.AuthorID,
		a.Status,
		a.Tags,
		a.Categories,
		a.LicenseType,
		a.Width,
		a.Height,
		a.Duration,
		a.FileSize,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create asset: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	var a Asset
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get asset: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}

	return &a, nil
}

func (r *repository) Update(ctx context.Context, a *Asset) error {
	query := `
		UPDATE assets
		SET title = $2, description = $3, type = $4, url = $5,
			thumbnail_url = $6, price = $7, tags = $8, categories = $9,
			license_type = $10, width = $11, height = $12, duration = $13,
			file_size = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &a.UpdatedAt, query,
		a.ID,
		a.Title,
		a.Description,
		a.Type,
		a.URL,
		a.ThumbnailURL,
		a.Price,
		a.Tags,
		a.Categories,
		a.LicenseType,
		a.Width,
		a.Height,
		a.Duration,
		a.FileSize,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update asset: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete asset: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListByAuthor(ctx context.Context, authorID int64) ([]Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE author_id = $1
		ORDER BY created_at DESC, id`

	var assets []Asset
	if err := r.db.SelectContext(ctx, &assets, query, authorID); err != nil {
		return nil, fmt.Errorf("list assets by author: %w", err)
	}

	return assets, nil
}

func (r *repository) ListByStatus(
	ctx context.Context,
	status string,
	page Page,
) ([]Asset, int, error) {
	page = page.Normalize()

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM assets WHERE status = $1`, status); err != nil {
		return nil, 0, fmt.Errorf("count assets by status: %w", err)
	}

	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE status = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`

	var assets []Asset
	if err := r.db.SelectContext(ctx, &assets, query, status, page.Size, page.Offset()); err != nil {
		return nil, 0, fmt.Errorf("list assets by status: %w", err)
	}

	return assets, total, nil
}

func (r *repository) ListApproved(ctx context.Context) ([]Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE status = 'approved'
		ORDER BY id`

	var assets []Asset
	if err := r.db.SelectContext(ctx, &assets, query); err != nil {
		return nil, fmt.Errorf("list approved assets: %w", err)
	}

	return assets, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT status, COUNT(*) FROM assets GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count assets: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{
		StatusPending:  0,
		StatusApproved: 0,
		StatusRejected: 0,
	}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("count assets: %w", err)
		}
		counts[status] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count assets: %w", err)
	}
	return counts, nil
}

// maxTransitionAttempts bounds the compare-and-swap loop in Transition.
const maxTransitionAttempts = 3

// Transition applies fn to the current row and writes the moderation
// fields back only if the status has not changed since it was read.
func (r *repository) Transition(
	ctx context.Context,
	id int64,
	apply TransitionFunc,
) (*Asset, error) {
	query := `
		UPDATE assets
		SET status = $2, moderated_by = $3, moderated_at = $4,
			rejection_reason = $5, updated_at = NOW()
		WHERE id = $1 AND status = $6
		RETURNING updated_at`

	for range maxTransitionAttempts {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		previous := current.Status
		if err := apply(current); err != nil {
			return nil, err
		}

		err = r.db.GetContext(ctx, &current.UpdatedAt, query,
			id,
			current.Status,
			current.ModeratedBy,
			current.ModeratedAt,
			current.RejectionReason,
			previous,
		)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("transition asset: %w", err)
		}

		return current, nil
	}

	return nil, fmt.Errorf(
		"transition asset: concurrent modification: %w",
		core.ErrInvalidTransition,
	)
}
