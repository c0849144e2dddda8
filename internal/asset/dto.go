// AngelaMos | 2026
// dto.go

package asset

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateAssetRequest struct {
	Title        string   `json:"title"         validate:"required,min=1,max=200"`
	Description  *string  `json:"description"   validate:"omitempty,max=5000"`
	Type         string   `json:"type"          validate:"required,oneof=photo video vector illustration music"`
	URL          string   `json:"url"           validate:"required,url,max=2048"`
	ThumbnailURL string   `json:"thumbnail_url" validate:"required,url,max=2048"`
	Price        int64    `json:"price"         validate:"gte=0"`
	Tags         []string `json:"tags"          validate:"max=50,dive,max=50"`
	Categories   []string `json:"categories"    validate:"max=20,dive,max=50"`
	LicenseType  string   `json:"license_type"  validate:"required,oneof=standard extended premium"`
	Width        *int     `json:"width"         validate:"omitempty,gte=0"`
	Height       *int     `json:"height"        validate:"omitempty,gte=0"`
	Duration     *int     `json:"duration"      validate:"omitempty,gte=0"`
	FileSize     *int64   `json:"file_size"     validate:"omitempty,gte=0"`
}

// UpdateAssetRequest is a partial update. Nil fields are left unchanged.
type UpdateAssetRequest struct {
	Title        *string   `json:"title"         validate:"omitempty,min=1,max=200"`
	Description  *string   `json:"description"   validate:"omitempty,max=5000"`
	Type         *string   `json:"type"          validate:"omitempty,oneof=photo video vector illustration music"`
	URL          *string   `json:"url"           validate:"omitempty,url,max=2048"`
	ThumbnailURL *string   `json:"thumbnail_url" validate:"omitempty,url,max=2048"`
	Price        *int64    `json:"price"         validate:"omitempty,gte=0"`
	Tags         *[]string `json:"tags"          validate:"omitempty,max=50,dive,max=50"`
	Categories   *[]string `json:"categories"    validate:"omitempty,max=20,dive,max=50"`
	LicenseType  *string   `json:"license_type"  validate:"omitempty,oneof=standard extended premium"`
	Width        *int      `json:"width"         validate:"omitempty,gte=0"`
	Height       *int      `json:"height"        validate:"omitempty,gte=0"`
	Duration     *int      `json:"duration"      validate:"omitempty,gte=0"`
	FileSize     *int64    `json:"file_size"     validate:"omitempty,gte=0"`
}

type AssetResponse struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	Type            string     `json:"type"`
	URL             string     `json:"url"`
	ThumbnailURL    string     `json:"thumbnail_url"`
	Price           int64      `json:"price"`
	PriceDisplay    string     `json:"price_display"`
	AuthorID        int64      `json:"author_id"`
	Status          string     `json:"status"`
	Tags            []string   `json:"tags"`
	Categories      []string   `json:"categories"`
	LicenseType     string     `json:"license_type"`
	Width           *int       `json:"width,omitempty"`
	Height          *int       `json:"height,omitempty"`
	Duration        *int       `json:"duration,omitempty"`
	FileSize        *int64     `json:"file_size,omitempty"`
	ModeratedBy     *int64     `json:"moderated_by,omitempty"`
	ModeratedAt     *time.Time `json:"moderated_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// PriceDisplay renders minor units as a two-decimal major-unit string.
func PriceDisplay(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

func ToAssetResponse(a *Asset) AssetResponse {
	tags := []string(a.Tags)
	if tags == nil {
		tags = []string{}
	}
	categories := []string(a.Categories)
	if categories == nil {
		categories = []string{}
	}

	return AssetResponse{
		ID:              a.ID,
		Title:           a.Title,
		Description:     a.Description,
		Type:            a.Type,
		URL:             a.URL,
		ThumbnailURL:    a.ThumbnailURL,
		Price:           a.Price,
		PriceDisplay:    PriceDisplay(a.Price),
		AuthorID:        a.AuthorID,
		Status:          a.Status,
		Tags:            tags,
		Categories:      categories,
		LicenseType:     a.LicenseType,
		Width:           a.Width,
		Height:          a.Height,
		Duration:        a.Duration,
		FileSize:        a.FileSize,
		ModeratedBy:     a.ModeratedBy,
		ModeratedAt:     a.ModeratedAt,
		RejectionReason: a.RejectionReason,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func ToAssetResponseList(assets []Asset) []AssetResponse {
	out := make([]AssetResponse, 0, len(assets))
	for i := range assets {
		out = append(out, ToAssetResponse(&assets[i]))
	}
	return out
}

type SearchResult struct {
	Items []Asset
	Total int
	Page  Page
}
