package memory

import (
	"context"
	"sort"
	"sync"

	domain "github.com/atpyprog/supermarket-checkout-simulation/internal/domain/stock"
)

// StockRepository keeps the catalog in process memory. Items are cloned
// on the way in and out so domain mutations only land via Save.
type StockRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Item
}

func NewStockRepository(seed ...*domain.Item) *StockRepository {
	r := &StockRepository{
		items: make(map[string]*domain.Item, len(seed)),
	}
	for _, item := range seed {
		if item == nil {
			continue
		}
		r.items[item.Name] = cloneItem(item)
	}
	return r
}

func (r *StockRepository) Get(ctx context.Context, name string) (*domain.Item, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[domain.Normalize(name)]
	if !ok {
		return nil, domain.ErrUnknownProduct
	}
	return cloneItem(item), nil
}

func (r *StockRepository) Save(ctx context.Context, item *domain.Item) error {
	_ = ctx
	if item == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.Name] = cloneItem(item)
	return nil
}

func (r *StockRepository) List(ctx context.Context) ([]*domain.Item, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Item, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneItem(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func cloneItem(item *domain.Item) *domain.Item {
	if item == nil {
		return nil
	}
	clone := *item
	return &clone
}
