package audit

import (
	"context"

	"github.com/atpyprog/supermarket-checkout-simulation/internal/domain/cart"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/domain/event"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/domain/stock"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/observability"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/observability/logctx"
)

const workerService = "audit_worker"

// Worker subscribes to the session's domain events and records an audit
// trail: one structured log line and one counter increment per event.
type Worker struct {
	subscriber event.Subscriber

	log          observability.Logger
	eventCounter observability.Counter // checkout_events_total{event}
}

func New(subscriber event.Subscriber, tel observability.Observability) *Worker {
	baseLogger := observability.NopLogger()
	metricsProvider := observability.NopMetrics()
	if tel != nil {
		baseLogger = tel.Logger()
		metricsProvider = tel.Metrics()
	}
	return &Worker{
		subscriber:   subscriber,
		log:          baseLogger.With(observability.F("service", workerService)),
		eventCounter: metricsProvider.Counter(observability.MCheckoutEvents),
	}
}

func (w *Worker) Start() {
	if w.subscriber == nil {
		return
	}
	w.subscriber.Subscribe(cart.LineAddedEvent{}.EventName(), w.handle)
	w.subscriber.Subscribe(cart.CheckoutCompletedEvent{}.EventName(), w.handle)
	w.subscriber.Subscribe(stock.StockDepletedEvent{}.EventName(), w.handle)
}

func (w *Worker) handle(ctx context.Context, e event.Event) error {
	name := e.EventName()
	if w.eventCounter != nil {
		w.eventCounter.Add(1, observability.L("event", name))
	}

	logger := logctx.FromOr(ctx, w.log)

	fields := []observability.Field{
		observability.F("event", name),
	}
	switch evt := e.(type) {
	case cart.LineAddedEvent:
		fields = append(fields,
			observability.F("line_id", evt.LineID),
			observability.F("product", evt.Product),
			observability.F("quantity", evt.Quantity),
			observability.F("unit_price_cents", evt.UnitPriceCents),
		)
	case cart.CheckoutCompletedEvent:
		fields = append(fields,
			observability.F("lines", evt.Lines),
			observability.F("total_cents", evt.TotalCents),
		)
	case stock.StockDepletedEvent:
		fields = append(fields,
			observability.F("product", evt.Product),
		)
	}

	logger.Info("audit_event", fields...)
	return nil
}
