package stock

import "time"

// StockDepletedEvent is emitted when a purchase takes the last units
// of a product.
type StockDepletedEvent struct {
	Product    string
	OccurredAt time.Time
}

func (StockDepletedEvent) EventName() string { return "stock.depleted" }

func NewStockDepletedEvent(product string) StockDepletedEvent {
	return StockDepletedEvent{
		Product:    product,
		OccurredAt: time.Now().UTC(),
	}
}
