// AngelaMos | 2026
// memory.go

package purchase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/carterperez-dev/stockhub/internal/core"
	"github.com/carterperez-dev/stockhub/internal/store"
)

func NewCollection(opts ...store.Option) *store.Collection[Purchase] {
	return store.NewCollection(store.Meta[Purchase]{
		ID: func(p Purchase) int64 { return p.ID },
		Stamp: func(p *Purchase, id int64, at time.Time) {
			p.ID = id
			p.CreatedAt = at
		},
	}, opts...)
}

type memoryRepository struct {
	purchases *store.Collection[Purchase]
	journal   *store.Journal
}

func NewMemoryRepository(purchases *store.Collection[Purchase]) Repository {
	return &memoryRepository{purchases: purchases}
}

func NewJournaledRepository(
	purchases *store.Collection[Purchase],
	journal *store.Journal,
) Repository {
	return &memoryRepository{purchases: purchases, journal: journal}
}

func (r *memoryRepository) Create(_ context.Context, p *Purchase) error {
	*p = r.purchases.Create(*p)

	id := p.ID
	r.journal.Record(func() { r.purchases.Delete(id) })
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*Purchase, error) {
	p, ok := r.purchases.Get(id)
	if !ok {
		return nil, fmt.Errorf("get purchase: %w", core.ErrNotFound)
	}
	return &p, nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID int64) ([]Purchase, error) {
	purchases := r.purchases.Filter(func(p Purchase) bool { return p.UserID == userID })
	sort.SliceStable(purchases, func(i, j int) bool {
		return purchases[i].ID > purchases[j].ID
	})
	return purchases, nil
}

func (r *memoryRepository) Totals(_ context.Context) (Totals, error) {
	var t Totals
	for _, p := range r.purchases.Filter(nil) {
		t.Count++
		t.Revenue += p.Price
	}
	return t, nil
}
