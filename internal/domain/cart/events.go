package cart

import "time"

// LineAddedEvent is emitted after a purchase line lands in the cart and
// stock has been decremented.
type LineAddedEvent struct {
	LineID         string
	Product        string
	Quantity       int
	UnitPriceCents int64
	OccurredAt     time.Time
}

func (LineAddedEvent) EventName() string { return "cart.line_added" }

func NewLineAddedEvent(l *Line) LineAddedEvent {
	return LineAddedEvent{
		LineID:         l.ID,
		Product:        l.Product,
		Quantity:       l.Quantity,
		UnitPriceCents: l.UnitPriceCents,
		OccurredAt:     time.Now().UTC(),
	}
}

// CheckoutCompletedEvent is emitted when the session ends and the
// receipt is produced.
type CheckoutCompletedEvent struct {
	Lines      int
	TotalCents int64
	OccurredAt time.Time
}

func (CheckoutCompletedEvent) EventName() string { return "cart.checkout_completed" }

func NewCheckoutCompletedEvent(c *Cart) CheckoutCompletedEvent {
	return CheckoutCompletedEvent{
		Lines:      c.Len(),
		TotalCents: c.TotalCents(),
		OccurredAt: time.Now().UTC(),
	}
}
