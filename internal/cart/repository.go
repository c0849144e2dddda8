// AngelaMos | 2026
// repository.go

package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/stockhub/internal/core"
)

type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	ListByUser(ctx context.Context, userID int64) ([]Item, error)
	// Delete removes the item only if it belongs to userID.
	Delete(ctx context.Context, userID, id int64) (bool, error)
	DeleteByIDs(ctx context.Context, userID int64, ids []int64) (int, error)
	DeleteByUser(ctx context.Context, userID int64) (int, error)
	DeleteByAsset(ctx context.Context, assetID int64) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const itemColumns = `id, user_id, asset_id, license_type, price, created_at`

func (r *repository) Create(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO cart_items (user_id, asset_id, license_type, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		item.UserID,
		item.AssetID,
		item.LicenseType,
		item.Price,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("create cart item: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM cart_items WHERE id = $1`

	var item Item
	err := r.db.GetContext(ctx, &item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get cart item: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get cart item: %w", err)
	}

	return &item, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM cart_items
		WHERE user_id = $1
		ORDER BY id`

	var items []Item
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	return items, nil
}

func (r *repository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	n, err := r.exec(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete cart item: %w", err)
	}
	return n > 0, nil
}

func (r *repository) DeleteByIDs(ctx context.Context, userID int64, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(
		`DELETE FROM cart_items WHERE user_id = ? AND id IN (?)`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete cart items: %w", err)
	}

	n, err := r.exec(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete cart items: %w", err)
	}
	return n, nil
}

func (r *repository) DeleteByUser(ctx context.Context, userID int64) (int, error) {
	n, err := r.exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return n, nil
}

func (r *repository) DeleteByAsset(ctx context.Context, assetID int64) (int, error) {
	n, err := r.exec(ctx, `DELETE FROM cart_items WHERE asset_id = $1`, assetID)
	if err != nil {
		return 0, fmt.Errorf("delete cart items for asset: %w", err)
	}
	return n, nil
}

func (r *repository) exec(ctx context.Context, query string, args ...any) (int, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}
