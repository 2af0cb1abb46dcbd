package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

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
	useCaseAddItem = "checkout.add_item"
	spanPrefix     = "UC."
	addItemSpan    = "AddItem"
)

type AddItemInput struct {
	Product  string
	Quantity int
}

type AddItemResult struct {
	LineID         string
	Product        string
	Quantity       int
	UnitPriceCents int64
	LineTotalCents int64
	Remaining      int
	CartTotalCents int64
}

// AddItemUseCase validates a purchase request, decrements stock, and
// appends the line to the cart. Rejected requests mutate nothing.
type AddItemUseCase struct {
	stockRepo   domstock.Repository
	cart        *domcart.Cart
	idGenerator IDGenerator
	publisher   domevent.Publisher

	log          observability.Logger
	tracer       observability.Tracer
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
}

func NewAddItemUseCase(
	stockRepo domstock.Repository,
	c *domcart.Cart,
	idGen IDGenerator,
	publisher domevent.Publisher,
	tel observability.Observability,
) *AddItemUseCase {
	baseLog := observability.NopLogger()
	tracer := observability.NopTracer()
	metricsProvider := observability.NopMetrics()
	if tel != nil {
		baseLog = tel.Logger()
		tracer = tel.Tracer()
		metricsProvider = tel.Metrics()
	}

	return &AddItemUseCase{
		stockRepo:    stockRepo,
		cart:         c,
		idGenerator:  idGen,
		publisher:    publisher,
		log:          baseLog.With(observability.F("service", checkoutService)),
		tracer:       tracer,
		reqCounter:   metricsProvider.Counter(observability.MUsecaseRequests),
		durHistogram: metricsProvider.Histogram(observability.MUsecaseDuration),
	}
}

// Execute performs the add-to-cart flow.
func (uc *AddItemUseCase) Execute(ctx context.Context, cmd AddItemInput) (_ *AddItemResult, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(
		observability.F("use_case", useCaseAddItem),
		observability.F("product", cmd.Product),
		observability.F("quantity", cmd.Quantity),
	)

	ctx, span := uc.tracer.Start(ctx, spanPrefix+addItemSpan,
		attribute.String("use_case", useCaseAddItem),
		attribute.String("product.name", cmd.Product),
		attribute.Int("product.quantity", cmd.Quantity),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"

	defer func() {
		lat := time.Since(start).Seconds()

		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}

		if uc.reqCounter != nil {
			uc.reqCounter.Add(1,
				observability.L("use_case", useCaseAddItem),
				observability.L("outcome", outcome),
			)
		}
		if uc.durHistogram != nil {
			uc.durHistogram.Observe(lat,
				observability.L("use_case", useCaseAddItem),
			)
		}

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}()

	if cmd.Quantity <= 0 {
		outcome, statusText = "error", "QUANTITY_INVALID"
		return nil, fmt.Errorf("checkout: add item: %w", domstock.ErrInvalidQuantity)
	}
	if err := ctx.Err(); err != nil {
		outcome, statusText = "error", "CONTEXT_CANCELED"
		return nil, err
	}

	item, err := uc.stockRepo.Get(ctx, cmd.Product)
	if err != nil {
		outcome, statusText = "error", "PRODUCT_UNKNOWN"
		return nil, fmt.Errorf("checkout: add item: %w", err)
	}

	if err = item.Deduct(cmd.Quantity); err != nil {
		outcome, statusText = "error", "DEDUCT_FAILED"
		if errors.Is(err, domstock.ErrInsufficientStock) {
			statusText = "INSUFFICIENT_STOCK"
		}
		return nil, fmt.Errorf("checkout: add item: %w", err)
	}

	if err = uc.stockRepo.Save(ctx, item); err != nil {
		outcome, statusText = "error", "REPO_SAVE_FAILED"
		return nil, fmt.Errorf("checkout: save stock: %w", err)
	}

	line, err := domcart.NewLine(uc.idGenerator.NewID(), item.Name, cmd.Quantity, item.UnitPriceCents)
	if err != nil {
		outcome, statusText = "error", "LINE_CONSTRUCTION_FAILED"
		return nil, fmt.Errorf("checkout: new line: %w", err)
	}
	uc.cart.Add(line)

	if span != nil {
		span.AddEvent("cart.line_added",
			trace.WithAttributes(
				attribute.String("line.id", line.ID),
				attribute.String("product.name", line.Product),
			),
		)
	}

	uc.publish(ctx, logger, domcart.NewLineAddedEvent(line))
	if item.Depleted() {
		uc.publish(ctx, logger, domstock.NewStockDepletedEvent(item.Name))
	}

	return &AddItemResult{
		LineID:         line.ID,
		Product:        line.Product,
		Quantity:       line.Quantity,
		UnitPriceCents: line.UnitPriceCents,
		LineTotalCents: line.TotalCents(),
		Remaining:      item.Quantity,
		CartTotalCents: uc.cart.TotalCents(),
	}, nil
}

func (uc *AddItemUseCase) publish(ctx context.Context, logger observability.Logger, e domevent.Event) {
	if uc.publisher == nil || e == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, e); err != nil {
		logger.Warn("event_publish_failed",
			observability.F("event", e.EventName()),
			observability.F("error", err),
		)
	}
}
