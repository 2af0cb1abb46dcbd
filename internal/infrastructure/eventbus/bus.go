package eventbus

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/atpyprog/supermarket-checkout-simulation/internal/domain/event"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/observability"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/observability/logctx"
)

const componentBus = "event_bus"

// Bus is a synchronous in-process event bus. The checkout session is
// strictly sequential, so handlers run inline at publish time; a
// panicking handler is recovered and logged, and handler errors are
// logged without failing the publish.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]event.Handler
	log  observability.Logger
}

func New(logger observability.Logger) *Bus {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Bus{
		subs: make(map[string][]event.Handler),
		log:  logger.With(observability.F("component", componentBus)),
	}
}

func (b *Bus) Subscribe(eventName string, h event.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventName] = append(b.subs[eventName], h)
}

func (b *Bus) Publish(ctx context.Context, e event.Event) error {
	if e == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	name := e.EventName()

	b.mu.RLock()
	handlers := append([]event.Handler(nil), b.subs[name]...)
	b.mu.RUnlock()

	logger := logctx.FromOr(ctx, b.log).With(observability.F("event", name))
	if len(handlers) == 0 {
		logger.Debug("event_dropped_no_subscriber")
		return nil
	}

	// Handlers inherit the event-scoped logger through the context.
	ctx = logctx.With(ctx, logger)

	for _, h := range handlers {
		b.deliver(ctx, logger, h, e)
	}

	logger.Debug("event_dispatched",
		observability.F("handlers", len(handlers)),
	)
	return nil
}

func (b *Bus) deliver(ctx context.Context, logger observability.Logger, h event.Handler, e event.Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event_handler_panic",
				observability.F("panic", r),
				observability.F("stack", string(debug.Stack())),
			)
		}
	}()

	if err := h(ctx, e); err != nil {
		logger.Warn("event_handler_error",
			observability.F("error", err),
		)
	}
}
