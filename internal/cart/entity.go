// AngelaMos | 2026
// entity.go

// Package cart holds the per-user shopping cart. Each item snapshots the
// asset price at the moment it was added.
package cart

import (
	"time"
)

type Item struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	AssetID     int64     `db:"asset_id"`
	LicenseType string    `db:"license_type"`
	Price       int64     `db:"price"`
	CreatedAt   time.Time `db:"created_at"`
}

// Cart is a user's items in the order they were added.
type Cart struct {
	UserID int64
	Items  []Item
}

// Total is the sum of the item price snapshots in minor units.
func (c Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price
	}
	return total
}

// Select returns the items whose ids are listed, in cart order. ok is
// false when any id does not belong to this cart.
func (c Cart) Select(ids []int64) (selected []Item, ok bool) {
	if len(ids) == 0 {
		return c.Items, true
	}

	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	for _, item := range c.Items {
		if _, hit := want[item.ID]; hit {
			selected = append(selected, item)
			delete(want, item.ID)
		}
	}

	return selected, len(want) == 0
}
