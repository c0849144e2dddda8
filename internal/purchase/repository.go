// AngelaMos | 2026
// repository.go

package purchase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/stockhub/internal/asset"
	"github.com/carterperez-dev/stockhub/internal/cart"
	"github.com/carterperez-dev/stockhub/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Purchase) error
	GetByID(ctx context.Context, id int64) (*Purchase, error)
	ListByUser(ctx context.Context, userID int64) ([]Purchase, error)
	Totals(ctx context.Context) (Totals, error)
}

// TxRepositories are bound to one open transaction.
type TxRepositories struct {
	Assets    asset.Repository
	Cart      cart.Repository
	Purchases Repository
}

// Transactor runs fn atomically. If fn returns an error every write made
// through the supplied repositories is discarded.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const purchaseColumns = `id, user_id, asset_id, price, license_type,
		download_url, expiry_date, created_at`

func (r *repository) Create(ctx context.Context, p *Purchase) error {
	query := `
		INSERT INTO purchases (
			user_id, asset_id, price, license_type, download_url, expiry_date
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.UserID,
		p.AssetID,
		p.Price,
		p.LicenseType,
		p.DownloadURL,
		p.ExpiryDate,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`

	var p Purchase
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get purchase: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get purchase: %w", err)
	}

	return &p, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]Purchase, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM purchases
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	var purchases []Purchase
	if err := r.db.SelectContext(ctx, &purchases, query, userID); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}

	return purchases, nil
}

func (r *repository) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := r.db.GetContext(ctx, &t,
		`SELECT COUNT(*) AS count, COALESCE(SUM(price), 0) AS revenue FROM purchases`)
	if err != nil {
		return Totals{}, fmt.Errorf("purchase totals: %w", err)
	}
	return t, nil
}
