// AngelaMos | 2026
// dto.go

package cart

import (
	"time"

	"github.com/carterperez-dev/stockhub/internal/asset"
)

type AddItemRequest struct {
	AssetID     int64  `json:"asset_id"     validate:"required,gt=0"`
	LicenseType string `json:"license_type" validate:"required,oneof=standard extended premium"`
}

type ItemResponse struct {
	ID           int64     `json:"id"`
	AssetID      int64     `json:"asset_id"`
	LicenseType  string    `json:"license_type"`
	Price        int64     `json:"price"`
	PriceDisplay string    `json:"price_display"`
	CreatedAt    time.Time `json:"created_at"`
}

type CartResponse struct {
	Items        []ItemResponse `json:"items"`
	Count        int            `json:"count"`
	Total        int64          `json:"total"`
	TotalDisplay string         `json:"total_display"`
}

type RemovedResponse struct {
	Removed int `json:"removed"`
}

func ToItemResponse(item *Item) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		AssetID:      item.AssetID,
		LicenseType:  item.LicenseType,
		Price:        item.Price,
		PriceDisplay: asset.PriceDisplay(item.Price),
		CreatedAt:    item.CreatedAt,
	}
}

func ToCartResponse(c *Cart) CartResponse {
	items := make([]ItemResponse, 0, len(c.Items))
	for i := range c.Items {
		items = append(items, ToItemResponse(&c.Items[i]))
	}

	total := c.Total()
	return CartResponse{
		Items:        items,
		Count:        len(items),
		Total:        total,
		TotalDisplay: asset.PriceDisplay(total),
	}
}
