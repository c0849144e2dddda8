// AngelaMos | 2026
// memory.go

package asset

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/carterperez-dev/stockhub/internal/core"
	"github.com/carterperez-dev/stockhub/internal/store"
)

func NewCollection(opts ...store.Option) *store.Collection[Asset] {
	return store.NewCollection(store.Meta[Asset]{
		ID: func(a Asset) int64 { return a.ID },
		Stamp: func(a *Asset, id int64, at time.Time) {
			a.ID = id
			a.CreatedAt = at
			a.UpdatedAt = at
		},
		Clone: Asset.Clone,
	}, opts...)
}

type memoryRepository struct {
	assets *store.Collection[Asset]
}

func NewMemoryRepository(assets *store.Collection[Asset]) Repository {
	return &memoryRepository{assets: assets}
}

func (r *memoryRepository) Create(_ context.Context, a *Asset) error {
	*a = r.assets.Create(*a)
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*Asset, error) {
	a, ok := r.assets.Get(id)
	if !ok {
		return nil, fmt.Errorf("get asset: %w", core.ErrNotFound)
	}
	return &a, nil
}

func (r *memoryRepository) Update(_ context.Context, a *Asset) error {
	now := r.assets.Now()
	updated, ok := r.assets.Update(a.ID, func(stored *Asset) {
		stored.Title = a.Title
		stored.Description = a.Description
		stored.Type = a.Type
		stored.URL = a.URL
		stored.ThumbnailURL = a.ThumbnailURL
		stored.Price = a.Price
		stored.Tags = a.Tags
		stored.Categories = a.Categories
		stored.LicenseType = a.LicenseType
		stored.Width = a.Width
		stored.Height = a.Height
		stored.Duration = a.Duration
		stored.FileSize = a.FileSize
		stored.UpdatedAt = now
	})
	if !ok {
		return fmt.Errorf("update asset: %w", core.ErrNotFound)
	}

	a.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	if !r.assets.Delete(id) {
		return fmt.Errorf("delete asset: %w", core.ErrNotFound)
	}
	return nil
}

func (r *memoryRepository) ListByAuthor(_ context.Context, authorID int64) ([]Asset, error) {
	assets := r.assets.Filter(func(a Asset) bool { return a.AuthorID == authorID })
	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].CreatedAt.After(assets[j].CreatedAt)
	})
	return assets, nil
}

func (r *memoryRepository) ListByStatus(
	_ context.Context,
	status string,
	page Page,
) ([]Asset, int, error) {
	assets := r.assets.Filter(func(a Asset) bool { return a.Status == status })
	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].CreatedAt.Before(assets[j].CreatedAt)
	})
	return Paginate(assets, page), len(assets), nil
}

func (r *memoryRepository) ListApproved(_ context.Context) ([]Asset, error) {
	return r.assets.Filter(func(a Asset) bool { return a.IsApproved() }), nil
}

func (r *memoryRepository) CountByStatus(_ context.Context) (map[string]int, error) {
	counts := map[string]int{
		StatusPending:  0,
		StatusApproved: 0,
		StatusRejected: 0,
	}
	for _, a := range r.assets.Filter(nil) {
		counts[a.Status]++
	}
	return counts, nil
}

func (r *memoryRepository) Transition(
	_ context.Context,
	id int64,
	apply TransitionFunc,
) (*Asset, error) {
	now := r.assets.Now()
	updated, _, err := r.assets.Modify(id, func(a *Asset) error {
		if err := apply(a); err != nil {
			return err
		}
		a.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("transition asset: %w", err)
	}
	return &updated, nil
}
