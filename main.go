package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/atpyprog/supermarket-checkout-simulation/internal/application/checkout"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/config"
	domcart "github.com/atpyprog/supermarket-checkout-simulation/internal/domain/cart"
	domstock "github.com/atpyprog/supermarket-checkout-simulation/internal/domain/stock"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/infrastructure/audit"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/infrastructure/eventbus"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/infrastructure/id"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/infrastructure/memory"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/infrastructure/observability/oteltrace"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/infrastructure/observability/prometrics"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/infrastructure/observability/telemetry"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/infrastructure/observability/zaplogger"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/observability"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/presentation/cli"
)

// seedCatalog is the fixed stock list the session starts from.
func seedCatalog() []*domstock.Item {
	type entry struct {
		name       string
		priceCents int64
		quantity   int
	}
	entries := []entry{
		{"rice", 550, 10},
		{"beans", 720, 8},
		{"pasta", 380, 15},
		{"oil", 600, 5},
	}
	items := make([]*domstock.Item, 0, len(entries))
	for _, e := range entries {
		item, err := domstock.NewItem(e.name, e.priceCents, e.quantity)
		if err != nil {
			panic(err)
		}
		items = append(items, item)
	}
	return items
}

func main() {
	cfg := config.Load()

	logger := zaplogger.New(
		observability.F("service", cfg.ServiceName),
		observability.F("env", cfg.Env),
	)

	registry := prometrics.New(cfg.ServiceName, "")
	counters := map[observability.MetricKey]observability.Counter{
		observability.MUsecaseRequests: registry.Counter(observability.MUsecaseRequests,
			"Total number of use case invocations.", "use_case", "outcome"),
		observability.MCheckoutEvents: registry.Counter(observability.MCheckoutEvents,
			"Count of domain events observed during the session.", "event"),
	}
	histograms := map[observability.MetricKey]observability.Histogram{
		observability.MUsecaseDuration: registry.Histogram(observability.MUsecaseDuration,
			"Duration of use case execution in seconds.", nil, "use_case"),
	}

	tel := telemetry.New(oteltrace.New(cfg.ServiceName), logger, counters, histograms)

	stockRepo := memory.NewStockRepository(seedCatalog()...)
	sessionCart := domcart.New()
	idGenerator := id.NewUUIDGenerator()

	bus := eventbus.New(logger)
	auditWorker := audit.New(bus, tel)
	auditWorker.Start()

	service := checkout.NewService(stockRepo, sessionCart, bus, tel)
	addItem := checkout.NewAddItemUseCase(stockRepo, sessionCart, idGenerator, bus, tel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repl := cli.New(os.Stdin, os.Stdout, service, addItem, registry, cfg.Currency, logger)

	logger.Info("session_start")
	code, err := repl.Run(ctx)
	if err != nil {
		logger.Error("session_failed", observability.F("error", err))
	} else {
		logger.Info("session_end", observability.F("exit_code", code))
	}

	if s, ok := logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	stop()
	os.Exit(code)
}
