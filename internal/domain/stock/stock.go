package stock

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrUnknownProduct    = errors.New("stock: unknown product")
	ErrInvalidQuantity   = errors.New("stock: quantity must be greater than zero")
	ErrInsufficientStock = errors.New("stock: insufficient stock")
	ErrInvalidPrice      = errors.New("stock: unit price must be zero or greater")
)

// Item is one stock entry. Name is the unique key, lowercase.
// UnitPriceCents keeps money in integer cents.
type Item struct {
	Name           string
	UnitPriceCents int64
	Quantity       int
	UpdatedAt      time.Time
}

func NewItem(name string, unitPriceCents int64, quantity int) (*Item, error) {
	name = Normalize(name)
	if name == "" {
		return nil, ErrUnknownProduct
	}
	if unitPriceCents < 0 {
		return nil, ErrInvalidPrice
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	return &Item{
		Name:           name,
		UnitPriceCents: unitPriceCents,
		Quantity:       quantity,
		UpdatedAt:      time.Now().UTC(),
	}, nil
}

// Deduct removes quantity units, guarding the non-negative invariant.
// On error the item is left untouched.
func (i *Item) Deduct(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > i.Quantity {
		return ErrInsufficientStock
	}
	i.Quantity -= quantity
	i.touch()
	return nil
}

// Depleted reports whether nothing is left to sell.
func (i *Item) Depleted() bool { return i.Quantity <= 0 }

func (i *Item) touch() {
	i.UpdatedAt = time.Now().UTC()
}

// Normalize maps user input to the catalog key form.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
