package stock

import "context"

type Repository interface {
	// Get returns the item for the normalized product name,
	// or ErrUnknownProduct.
	Get(ctx context.Context, name string) (*Item, error)
	Save(ctx context.Context, item *Item) error
	// List returns every item sorted by name.
	List(ctx context.Context) ([]*Item, error)
}
