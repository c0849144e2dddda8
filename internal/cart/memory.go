// AngelaMos | 2026
// memory.go

package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/stockhub/internal/core"
	"github.com/carterperez-dev/stockhub/internal/store"
)

func NewCollection(opts ...store.Option) *store.Collection[Item] {
	return store.NewCollection(store.Meta[Item]{
		ID: func(i Item) int64 { return i.ID },
		Stamp: func(i *Item, id int64, at time.Time) {
			i.ID = id
			i.CreatedAt = at
		},
	}, opts...)
}

type memoryRepository struct {
	items   *store.Collection[Item]
	journal *store.Journal
}

func NewMemoryRepository(items *store.Collection[Item]) Repository {
	return &memoryRepository{items: items}
}

// NewJournaledRepository records an undo action for every mutation so a
// failed transaction can restore the collection.
func NewJournaledRepository(items *store.Collection[Item], journal *store.Journal) Repository {
	return &memoryRepository{items: items, journal: journal}
}

func (r *memoryRepository) Create(_ context.Context, item *Item) error {
	*item = r.items.Create(*item)

	id := item.ID
	r.journal.Record(func() { r.items.Delete(id) })
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*Item, error) {
	item, ok := r.items.Get(id)
	if !ok {
		return nil, fmt.Errorf("get cart item: %w", core.ErrNotFound)
	}
	return &item, nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID int64) ([]Item, error) {
	return r.items.Filter(func(i Item) bool { return i.UserID == userID }), nil
}

func (r *memoryRepository) Delete(_ context.Context, userID, id int64) (bool, error) {
	removed := r.remove(func(i Item) bool { return i.ID == id && i.UserID == userID })
	return removed > 0, nil
}

func (r *memoryRepository) DeleteByIDs(_ context.Context, userID int64, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	return r.remove(func(i Item) bool {
		_, hit := want[i.ID]
		return hit && i.UserID == userID
	}), nil
}

func (r *memoryRepository) DeleteByUser(_ context.Context, userID int64) (int, error) {
	return r.remove(func(i Item) bool { return i.UserID == userID }), nil
}

func (r *memoryRepository) DeleteByAsset(_ context.Context, assetID int64) (int, error) {
	return r.remove(func(i Item) bool { return i.AssetID == assetID }), nil
}

func (r *memoryRepository) remove(pred func(Item) bool) int {
	removed := r.items.DeleteWhere(pred)
	if len(removed) > 0 {
		r.journal.Record(func() {
			for _, item := range removed {
				r.items.Restore(item)
			}
		})
	}
	return len(removed)
}
