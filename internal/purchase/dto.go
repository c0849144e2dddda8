// AngelaMos | 2026
// dto.go

package purchase

import (
	"time"

	"github.com/carterperez-dev/stockhub/internal/asset"
)

// CheckoutRequest selects cart items to buy. An empty list buys the whole
// cart.
type CheckoutRequest struct {
	ItemIDs []int64 `json:"item_ids" validate:"max=100,dive,gt=0"`
}

type PurchaseResponse struct {
	ID           int64      `json:"id"`
	AssetID      int64      `json:"asset_id"`
	Price        int64      `json:"price"`
	PriceDisplay string     `json:"price_display"`
	LicenseType  string     `json:"license_type"`
	DownloadURL  string     `json:"download_url"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type CheckoutResponse struct {
	Purchases    []PurchaseResponse `json:"purchases"`
	Total        int64              `json:"total"`
	TotalDisplay string             `json:"total_display"`
}

func ToPurchaseResponse(p *Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:           p.ID,
		AssetID:      p.AssetID,
		Price:        p.Price,
		PriceDisplay: asset.PriceDisplay(p.Price),
		LicenseType:  p.LicenseType,
		DownloadURL:  p.DownloadURL,
		ExpiryDate:   p.ExpiryDate,
		CreatedAt:    p.CreatedAt,
	}
}

func ToPurchaseResponseList(purchases []Purchase) []PurchaseResponse {
	out := make([]PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		out = append(out, ToPurchaseResponse(&purchases[i]))
	}
	return out
}

func ToCheckoutResponse(purchases []Purchase) CheckoutResponse {
	var total int64
	for _, p := range purchases {
		total += p.Price
	}
	return CheckoutResponse{
		Purchases:    ToPurchaseResponseList(purchases),
		Total:        total,
		TotalDisplay: asset.PriceDisplay(total),
	}
}
