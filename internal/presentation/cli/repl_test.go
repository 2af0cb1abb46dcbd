package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/atpyprog/supermarket-checkout-simulation/internal/application/checkout"
	domcart "github.com/atpyprog/supermarket-checkout-simulation/internal/domain/cart"
	domstock "github.com/atpyprog/supermarket-checkout-simulation/internal/domain/stock"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/infrastructure/id"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/infrastructure/memory"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/observability"
)

type fixture struct {
	repo *memory.StockRepository
	cart *domcart.Cart
	repl *REPL
	out  *bytes.Buffer
}

func newFixture(t *testing.T, script string, items ...*domstock.Item) *fixture {
	t.Helper()
	repo := memory.NewStockRepository(items...)
	c := domcart.New()
	service := checkout.NewService(repo, c, nil, observability.Nop())
	addItem := checkout.NewAddItemUseCase(repo, c, id.NewUUIDGenerator(), nil, observability.Nop())

	out := &bytes.Buffer{}
	repl := New(strings.NewReader(script), out, service, addItem, nil, "€", nil)
	return &fixture{repo: repo, cart: c, repl: repl, out: out}
}

func mustItem(t *testing.T, name string, price int64, qty int) *domstock.Item {
	t.Helper()
	item, err := domstock.NewItem(name, price, qty)
	if err != nil {
		t.Fatalf("item %s: %v", name, err)
	}
	return item
}

func (f *fixture) mustContain(t *testing.T, wants ...string) {
	t.Helper()
	got := f.out.String()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestSessionHappyPathWithSuggestion(t *testing.T) {
	script := strings.Join([]string{
		"1",    // show stock
		"2",    // add product
		"rixe", // typo
		"1",    // pick first suggestion (rice)
		"3",    // quantity
		"3",    // checkout (show total)
		"0",    // exit
	}, "\n") + "\n"

	f := newFixture(t, script, mustItem(t, "rice", 550, 10))

	code, err := f.repl.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code != ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}

	f.mustContain(t,
		"=== AVAILABLE STOCK ===",
		"Rice - Price: € 5.50 | Quantity: 10",
		"Did you mean",
		"1) Rice",
		"3x rice added to cart!",
		"Rice x3 - € 16.50",
		"Total purchase value: € 16.50",
		"=== RECEIPT ===",
		"Rice - Price: € 5.50 | Quantity: 7",
		"Exiting system...",
	)

	item, _ := f.repo.Get(context.Background(), "rice")
	if item.Quantity != 7 {
		t.Fatalf("stock after session = %d", item.Quantity)
	}
	if f.cart.TotalCents() != 1650 {
		t.Fatalf("total after session = %d", f.cart.TotalCents())
	}
}

func TestSessionInvalidThenInsufficientQuantity(t *testing.T) {
	script := strings.Join([]string{
		"2",
		"rice",
		"abc", // not an integer
		"0",   // below minimum
		"3",   // valid
		"2",
		"rice",
		"8", // only 7 left
		"0",
	}, "\n") + "\n"

	f := newFixture(t, script, mustItem(t, "rice", 500, 10))

	code, err := f.repl.Run(context.Background())
	if err != nil || code != ExitSuccess {
		t.Fatalf("run: code=%d err=%v", code, err)
	}

	f.mustContain(t,
		"Invalid input: please enter an integer.",
		"Attention: please enter an integer >= 1.",
		"3x rice added to cart!",
		"Not enough stock. Only 7 left.",
		"Total purchase value: € 15.00",
	)

	item, _ := f.repo.Get(context.Background(), "rice")
	if item.Quantity != 7 {
		t.Fatalf("rejection mutated stock: %d", item.Quantity)
	}
	if f.cart.TotalCents() != 1500 {
		t.Fatalf("rejection changed total: %d", f.cart.TotalCents())
	}
}

func TestSessionUnknownProductNoSuggestions(t *testing.T) {
	script := strings.Join([]string{
		"2",
		"zzzzzzz",
		"0", // cancel product entry
		"0", // exit
	}, "\n") + "\n"

	f := newFixture(t, script, mustItem(t, "rice", 550, 10))

	code, err := f.repl.Run(context.Background())
	if err != nil || code != ExitSuccess {
		t.Fatalf("run: code=%d err=%v", code, err)
	}
	f.mustContain(t,
		"Product not found and no suggestions.",
		"No product selected.",
	)
	if f.cart.Len() != 0 {
		t.Fatalf("cart changed: %d", f.cart.Len())
	}
}

func TestSessionSuggestionNoneOfThese(t *testing.T) {
	script := strings.Join([]string{
		"2",
		"rixe",
		"0",    // none of these, type again
		"rice", // exact this time
		"2",
		"0",
	}, "\n") + "\n"

	f := newFixture(t, script, mustItem(t, "rice", 550, 10))

	code, err := f.repl.Run(context.Background())
	if err != nil || code != ExitSuccess {
		t.Fatalf("run: code=%d err=%v", code, err)
	}
	f.mustContain(t, "0) None of these (type again)", "2x rice added to cart!")
}

func TestSessionOutOfStockProduct(t *testing.T) {
	script := strings.Join([]string{
		"2",
		"oil",
		"0",
	}, "\n") + "\n"

	f := newFixture(t, script, mustItem(t, "oil", 600, 0))

	code, err := f.repl.Run(context.Background())
	if err != nil || code != ExitSuccess {
		t.Fatalf("run: code=%d err=%v", code, err)
	}
	f.mustContain(t, `No stock available for "oil".`)
}

func TestSessionOverlongInputLineStaysRecoverable(t *testing.T) {
	// Longer than bufio.Scanner's 64KB default token limit; the session
	// must treat it as an unknown product rather than ending early.
	long := strings.Repeat("x", 100_000)
	script := strings.Join([]string{
		"2",
		long,
		"0", // cancel product entry
		"2",
		"rice",
		"1",
		"0",
	}, "\n") + "\n"

	f := newFixture(t, script, mustItem(t, "rice", 550, 10))

	code, err := f.repl.Run(context.Background())
	if err != nil || code != ExitSuccess {
		t.Fatalf("run: code=%d err=%v", code, err)
	}
	f.mustContain(t,
		"Product not found and no suggestions.",
		"1x rice added to cart!",
	)
	if f.cart.Len() != 1 {
		t.Fatalf("session did not continue past long line: %d lines", f.cart.Len())
	}
}

func TestSessionEOFPrintsReceipt(t *testing.T) {
	f := newFixture(t, "", mustItem(t, "rice", 550, 10))

	code, err := f.repl.Run(context.Background())
	if err != nil || code != ExitSuccess {
		t.Fatalf("run: code=%d err=%v", code, err)
	}
	f.mustContain(t, "=== RECEIPT ===", "Your cart is empty.", "Exiting system...")
}

func TestSessionInvalidMenuOption(t *testing.T) {
	script := "9\n0\n"
	f := newFixture(t, script, mustItem(t, "rice", 550, 10))

	code, err := f.repl.Run(context.Background())
	if err != nil || code != ExitSuccess {
		t.Fatalf("run: code=%d err=%v", code, err)
	}
	f.mustContain(t, "Invalid option! Try again.")
}

type staticStats struct{ families []observability.MetricFamily }

func (s staticStats) Snapshot() ([]observability.MetricFamily, error) {
	return s.families, nil
}

func TestSessionStats(t *testing.T) {
	repo := memory.NewStockRepository(mustItem(t, "rice", 550, 10))
	c := domcart.New()
	service := checkout.NewService(repo, c, nil, observability.Nop())
	addItem := checkout.NewAddItemUseCase(repo, c, id.NewUUIDGenerator(), nil, observability.Nop())

	stats := staticStats{families: []observability.MetricFamily{{
		Name: "checkout_events_total",
		Samples: []observability.MetricSample{{
			Labels: []observability.Label{observability.L("event", "cart.line_added")},
			Value:  3,
		}},
	}}}

	out := &bytes.Buffer{}
	repl := New(strings.NewReader("5\n0\n"), out, service, addItem, stats, "€", nil)

	code, err := repl.Run(context.Background())
	if err != nil || code != ExitSuccess {
		t.Fatalf("run: code=%d err=%v", code, err)
	}
	if !strings.Contains(out.String(), "checkout_events_total") {
		t.Fatalf("stats family missing:\n%s", out.String())
	}
	if !strings.Contains(out.String(), `{event="cart.line_added"} 3`) {
		t.Fatalf("stats sample missing:\n%s", out.String())
	}
}

func TestSessionCanceledContextEndsWithReceipt(t *testing.T) {
	f := newFixture(t, "1\n1\n1\n", mustItem(t, "rice", 550, 10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code, err := f.repl.Run(ctx)
	if err != nil || code != ExitSuccess {
		t.Fatalf("run: code=%d err=%v", code, err)
	}
	f.mustContain(t, "=== RECEIPT ===")
}
