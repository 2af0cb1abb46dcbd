package checkout

import (
	"context"
	"fmt"

	domcart "github.com/atpyprog/supermarket-checkout-simulation/internal/domain/cart"
	domevent "github.com/atpyprog/supermarket-checkout-simulation/internal/domain/event"
	domstock "github.com/atpyprog/supermarket-checkout-simulation/internal/domain/stock"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/observability"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	checkoutService = "checkout-service"
	useCaseCheckout = "checkout.complete"
	checkoutSpan    = "Checkout"
)

// IDGenerator issues identifiers for new cart lines.
type IDGenerator interface {
	NewID() string
}

// Service covers the read side of the session: stock listing, product
// name resolution with suggestions, and the final receipt.
type Service struct {
	stockRepo domstock.Repository
	cart      *domcart.Cart
	publisher domevent.Publisher
	log       observability.Logger
	tracer    observability.Tracer
}

func NewService(stockRepo domstock.Repository, c *domcart.Cart, publisher domevent.Publisher, tel observability.Observability) *Service {
	baseLog := observability.NopLogger()
	tracer := observability.NopTracer()
	if tel != nil {
		baseLog = tel.Logger()
		tracer = tel.Tracer()
	}
	return &Service{
		stockRepo: stockRepo,
		cart:      c,
		publisher: publisher,
		log:       baseLog.With(observability.F("service", checkoutService)),
		tracer:    tracer,
	}
}

// ListStock returns the catalog sorted by product name.
func (s *Service) ListStock(ctx context.Context) ([]*domstock.Item, error) {
	items, err := s.stockRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("checkout: list stock: %w", err)
	}
	return items, nil
}

// ResolveProduct maps user input to a catalog item. Lookup is
// case-insensitive; when there is no exact match but close candidates
// exist, the returned error is a *stock.SuggestionError carrying them
// (it still matches stock.ErrUnknownProduct via errors.Is).
func (s *Service) ResolveProduct(ctx context.Context, input string) (*domstock.Item, error) {
	name := domstock.Normalize(input)
	if name == "" {
		return nil, domstock.ErrUnknownProduct
	}

	item, err := s.stockRepo.Get(ctx, name)
	if err == nil {
		return item, nil
	}

	items, listErr := s.stockRepo.List(ctx)
	if listErr != nil {
		return nil, fmt.Errorf("checkout: resolve %q: %w", input, listErr)
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}

	matches := domstock.Closest(name, names, domstock.SuggestionLimit, domstock.SuggestionCutoff)
	logctx.FromOr(ctx, s.log).Debug("product_not_found",
		observability.F("input", input),
		observability.F("suggestions", matches),
	)
	if len(matches) == 0 {
		return nil, domstock.ErrUnknownProduct
	}
	return nil, &domstock.SuggestionError{Input: input, Suggestions: matches}
}

// CartLines returns the purchase lines accumulated so far.
func (s *Service) CartLines() []*domcart.Line {
	return s.cart.Lines()
}

// CartTotalCents returns the running total.
func (s *Service) CartTotalCents() int64 {
	return s.cart.TotalCents()
}

// Receipt is the end-of-session summary.
type Receipt struct {
	Lines      []*domcart.Line
	TotalCents int64
}

// Checkout produces the receipt and announces the completed session.
func (s *Service) Checkout(ctx context.Context) (_ *Receipt, err error) {
	logger := logctx.FromOr(ctx, s.log).With(observability.F("use_case", useCaseCheckout))

	ctx, span := s.tracer.Start(ctx, spanPrefix+checkoutSpan,
		attribute.String("use_case", useCaseCheckout),
		attribute.Int("cart.lines", s.cart.Len()),
	)
	defer func() {
		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "CHECKOUT_FAILED")
			} else {
				span.SetStatus(codes.Ok, "OK")
			}
			span.End()
		}
	}()

	receipt := &Receipt{
		Lines:      s.cart.Lines(),
		TotalCents: s.cart.TotalCents(),
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, domcart.NewCheckoutCompletedEvent(s.cart)); err != nil {
			logger.Warn("checkout_event_publish_failed",
				observability.F("error", err),
			)
		}
	}

	fields := []observability.Field{
		observability.F("lines", len(receipt.Lines)),
		observability.F("total_cents", receipt.TotalCents),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	logger.Info("checkout_completed", fields...)
	return receipt, nil
}
