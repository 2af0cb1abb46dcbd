package cart

import (
	"errors"
	"time"
)

var (
	ErrInvalidQuantity = errors.New("cart: quantity must be greater than zero")
	ErrInvalidPrice    = errors.New("cart: unit price must be zero or greater")
)

// Line is one successful purchase: quantity units of a product at the
// unit price in effect when it was added.
type Line struct {
	ID             string
	Product        string
	Quantity       int
	UnitPriceCents int64
	AddedAt        time.Time
}

func NewLine(id, product string, quantity int, unitPriceCents int64) (*Line, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unitPriceCents < 0 {
		return nil, ErrInvalidPrice
	}
	return &Line{
		ID:             id,
		Product:        product,
		Quantity:       quantity,
		UnitPriceCents: unitPriceCents,
		AddedAt:        time.Now().UTC(),
	}, nil
}

// TotalCents is quantity times unit price.
func (l *Line) TotalCents() int64 {
	return int64(l.Quantity) * l.UnitPriceCents
}

// Cart accumulates purchase lines for a single session. It lives only
// for the lifetime of the process.
type Cart struct {
	lines []*Line
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) Add(line *Line) {
	if line == nil {
		return
	}
	c.lines = append(c.lines, line)
}

// Lines returns the purchase lines in insertion order. The returned
// slice is a copy; the lines themselves are shared.
func (c *Cart) Lines() []*Line {
	out := make([]*Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) TotalCents() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.TotalCents()
	}
	return total
}
