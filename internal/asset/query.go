// AngelaMos | 2026
// query.go

package asset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/carterperez-dev/stockhub/internal/core"
)

const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"

	TypeAll = "all"

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Query is a catalogue search over approved assets. Zero values mean no
// restriction.
type Query struct {
	Text       string
	Type       string
	Categories []string
	MinPrice   *int64
	MaxPrice   *int64
	Sort       string
}

func (q Query) Validate() error {
	switch q.Sort {
	case "", SortNewest, SortOldest, SortPriceAsc, SortPriceDesc:
	default:
		return core.ValidationError(fmt.Sprintf("unknown sort %q", q.Sort))
	}

	if q.Type != "" && q.Type != TypeAll && !ValidType(q.Type) {
		return core.ValidationError(fmt.Sprintf("unknown asset type %q", q.Type))
	}

	if q.MinPrice != nil && *q.MinPrice < 0 {
		return core.ValidationError("min_price must be non-negative")
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return core.ValidationError("max_price must be non-negative")
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return core.ValidationError("min_price must not exceed max_price")
	}

	return nil
}

// Search filters assets to the approved ones matching q and orders them by
// q.Sort. Equal sort keys fall back to ascending id. The input slice is not
// modified.
func Search(assets []Asset, q Query) ([]Asset, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	categories := NormalizeLabels(q.Categories)

	matched := make([]Asset, 0, len(assets))
	for i := range assets {
		a := &assets[i]
		if !a.IsApproved() {
			continue
		}
		if q.Type != "" && q.Type != TypeAll && a.Type != q.Type {
			continue
		}
		if !matchesText(a, text) {
			continue
		}
		if !matchesCategories(a, categories) {
			continue
		}
		if q.MinPrice != nil && a.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && a.Price > *q.MaxPrice {
			continue
		}
		matched = append(matched, *a)
	}

	sort.SliceStable(matched, less(matched, q.Sort))
	return matched, nil
}

func matchesText(a *Asset, text string) bool {
	if text == "" {
		return true
	}
	if strings.Contains(strings.ToLower(a.Title), text) {
		return true
	}
	if a.Description != nil && strings.Contains(strings.ToLower(*a.Description), text) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), text) {
			return true
		}
	}
	return false
}

func matchesCategories(a *Asset, wanted StringList) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, c := range a.Categories {
		if wanted.Contains(strings.ToLower(c)) {
			return true
		}
	}
	return false
}

func less(items []Asset, order string) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := items[i], items[j]
		switch order {
		case SortOldest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		case SortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case SortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	}
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryFacets counts approved assets per category, most common first.
func CategoryFacets(assets []Asset) []CategoryCount {
	counts := make(map[string]int)
	for i := range assets {
		if !assets[i].IsApproved() {
			continue
		}
		for _, c := range NormalizeLabels(assets[i].Categories) {
			counts[c]++
		}
	}

	facets := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		facets = append(facets, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(facets, func(i, j int) bool {
		if facets[i].Count != facets[j].Count {
			return facets[i].Count > facets[j].Count
		}
		return facets[i].Category < facets[j].Category
	})
	return facets
}

// Page is a window over an ordered result.
type Page struct {
	Number int
	Size   int
}

// maxPageNumber keeps Offset from overflowing at the largest page size.
const maxPageNumber = math.MaxInt32 / MaxPageSize

func (p Page) Normalize() Page {
	p.Number = min(max(p.Number, 1), maxPageNumber)
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Paginate returns the slice of items covered by p.
func Paginate(items []Asset, p Page) []Asset {
	p = p.Normalize()
	start := min(p.Offset(), len(items))
	end := min(start+p.Size, len(items))
	return items[start:end]
}
