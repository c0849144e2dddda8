// AngelaMos | 2026
// entity.go

// Package purchase turns cart items into immutable purchase records.
package purchase

import (
	"time"
)

type Purchase struct {
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`
	AssetID     int64      `db:"asset_id"`
	Price       int64      `db:"price"`
	LicenseType string     `db:"license_type"`
	DownloadURL string     `db:"download_url"`
	ExpiryDate  *time.Time `db:"expiry_date"`
	CreatedAt   time.Time  `db:"created_at"`
}

// IsExpired reports whether the download link has lapsed at now.
func (p *Purchase) IsExpired(now time.Time) bool {
	return p.ExpiryDate != nil && !now.Before(*p.ExpiryDate)
}

type Totals struct {
	Count   int   `db:"count"   json:"count"`
	Revenue int64 `db:"revenue" json:"revenue"`
}
