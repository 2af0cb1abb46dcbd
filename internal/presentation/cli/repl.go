package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atpyprog/supermarket-checkout-simulation/internal/application"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/application/checkout"
	domstock "github.com/atpyprog/supermarket-checkout-simulation/internal/domain/stock"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/observability"
)

const (
	ExitSuccess       = 0
	ExitInternalError = 1
)

const componentREPL = "repl"

// maxInputLine bounds a single line of user input well above anything a
// product name or menu choice needs, so pasted junk ends a prompt, not
// the scanner.
const maxInputLine = 1 << 20

// REPL drives the interactive checkout session over the supplied
// reader/writer pair, which keeps scripted sessions testable without a
// real terminal.
type REPL struct {
	in       *bufio.Scanner
	out      io.Writer
	service  *checkout.Service
	addItem  application.UseCase[checkout.AddItemInput, *checkout.AddItemResult]
	stats    observability.MetricsReader
	currency string
	log      observability.Logger
}

func New(
	in io.Reader,
	out io.Writer,
	service *checkout.Service,
	addItem application.UseCase[checkout.AddItemInput, *checkout.AddItemResult],
	stats observability.MetricsReader,
	currency string,
	logger observability.Logger,
) *REPL {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if currency == "" {
		currency = "€"
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxInputLine)
	return &REPL{
		in:       scanner,
		out:      out,
		service:  service,
		addItem:  addItem,
		stats:    stats,
		currency: currency,
		log:      logger.With(observability.F("component", componentREPL)),
	}
}

// Run loops on the menu until the user exits, input ends, or the
// context is canceled. The closing receipt and final stock table are
// printed on every exit path; the exit code is ExitSuccess on a normal
// session end.
func (r *REPL) Run(ctx context.Context) (int, error) {
	for {
		if ctx.Err() != nil {
			return r.finish(context.WithoutCancel(ctx))
		}

		r.printMenu()
		option, ok := r.readLine()
		if !ok {
			return r.finish(ctx)
		}

		switch strings.TrimSpace(option) {
		case "1", "4":
			r.showStock(ctx)
		case "2":
			r.addProduct(ctx)
		case "3":
			r.showCart()
		case "5":
			r.showStats()
		case "0", "exit", "quit":
			return r.finish(ctx)
		default:
			r.printf("Invalid option! Try again.\n")
		}
	}
}

func (r *REPL) printMenu() {
	r.printf("\n=== MENU ===\n")
	r.printf("1) Show stock\n")
	r.printf("2) Add product to cart\n")
	r.printf("3) Checkout (show total)\n")
	r.printf("4) Show final stock\n")
	r.printf("5) Session stats\n")
	r.printf("0) Exit\n")
	r.printf("Choose an option: ")
}

func (r *REPL) addProduct(ctx context.Context) {
	item, ok := r.chooseProduct(ctx)
	if !ok {
		r.printf("No product selected.\n")
		return
	}

	if item.Depleted() {
		r.printf("No stock available for %q.\n", item.Name)
		return
	}

	quantity, ok := r.readPositiveInt(
		fmt.Sprintf("Enter the desired quantity (available: %d): ", item.Quantity), 1)
	if !ok {
		r.printf("No quantity entered.\n")
		return
	}

	result, err := r.addItem.Execute(ctx, checkout.AddItemInput{
		Product:  item.Name,
		Quantity: quantity,
	})
	switch {
	case err == nil:
		r.printf("%dx %s added to cart!\n", result.Quantity, result.Product)
	case errors.Is(err, domstock.ErrInsufficientStock):
		r.printf("Not enough stock. Only %d left.\n", item.Quantity)
	case errors.Is(err, domstock.ErrInvalidQuantity):
		r.printf("Invalid input: please enter an integer greater than zero.\n")
	case errors.Is(err, domstock.ErrUnknownProduct):
		r.printf("Product not found. Use 'Show stock' to see available products.\n")
	default:
		r.log.Error("add_item_failed", observability.F("error", err))
		r.printf("Unexpected error. The system will continue running.\n")
	}
}

// chooseProduct asks for a product name; on a near miss it offers the
// close matches as a numbered pick list. Returns false when the user
// cancels or input ends.
func (r *REPL) chooseProduct(ctx context.Context) (*domstock.Item, bool) {
	for {
		r.printf("Enter the product name (or 0 to cancel): ")
		input, ok := r.readLine()
		if !ok {
			return nil, false
		}
		input = strings.TrimSpace(input)
		if input == "" || input == "0" {
			return nil, false
		}

		item, err := r.service.ResolveProduct(ctx, input)
		if err == nil {
			return item, true
		}

		var suggestion *domstock.SuggestionError
		if errors.As(err, &suggestion) {
			picked, ok, retry := r.pickSuggestion(ctx, suggestion.Suggestions)
			if retry {
				continue
			}
			if !ok {
				return nil, false
			}
			return picked, true
		}

		if errors.Is(err, domstock.ErrUnknownProduct) {
			r.printf("Product not found and no suggestions. Use 'Show stock' to see available products.\n")
			continue
		}

		r.log.Error("resolve_product_failed", observability.F("error", err))
		r.printf("Unexpected error. The system will continue running.\n")
		return nil, false
	}
}

// pickSuggestion renders the numbered suggestion list. retry means the
// user picked "none of these" and wants to type the name again.
func (r *REPL) pickSuggestion(ctx context.Context, suggestions []string) (item *domstock.Item, ok bool, retry bool) {
	r.printf("\nProduct not found. Did you mean:\n")
	for i, s := range suggestions {
		r.printf("%d) %s\n", i+1, capitalize(s))
	}
	r.printf("0) None of these (type again)\n")

	choice, entered := r.readBoundedInt("Choose an option: ", 0, len(suggestions))
	if !entered {
		return nil, false, false
	}
	if choice == 0 {
		return nil, false, true
	}

	resolved, err := r.service.ResolveProduct(ctx, suggestions[choice-1])
	if err != nil {
		r.log.Error("resolve_suggestion_failed", observability.F("error", err))
		return nil, false, true
	}
	return resolved, true, false
}

func (r *REPL) showCart() {
	r.printf("\n=== SHOPPING CART ===\n")
	lines := r.service.CartLines()
	if len(lines) == 0 {
		r.printf("Your cart is empty.\n")
		return
	}

	for _, line := range lines {
		r.printf("%s x%d - %s\n", capitalize(line.Product), line.Quantity, r.money(line.TotalCents()))
	}
	r.printf("\nTotal purchase value: %s\n", r.money(r.service.CartTotalCents()))
}

func (r *REPL) showStock(ctx context.Context) {
	items, err := r.service.ListStock(ctx)
	if err != nil {
		r.log.Error("list_stock_failed", observability.F("error", err))
		r.printf("Unexpected error. The system will continue running.\n")
		return
	}
	r.renderStock(items)
}

func (r *REPL) showStats() {
	r.printf("\n=== SESSION STATS ===\n")
	if r.stats == nil {
		r.printf("No stats collected.\n")
		return
	}
	families, err := r.stats.Snapshot()
	if err != nil {
		r.log.Error("stats_snapshot_failed", observability.F("error", err))
		r.printf("Unexpected error. The system will continue running.\n")
		return
	}
	if len(families) == 0 {
		r.printf("No stats collected.\n")
		return
	}
	r.renderStats(families)
}

// finish emits the receipt and final stock table, then ends the session.
func (r *REPL) finish(ctx context.Context) (int, error) {
	receipt, err := r.service.Checkout(ctx)
	if err != nil {
		r.log.Error("checkout_failed", observability.F("error", err))
		return ExitInternalError, err
	}

	r.renderReceipt(receipt)
	r.showStock(ctx)
	r.printf("\nExiting system...\n")
	return ExitSuccess, nil
}

func (r *REPL) readLine() (string, bool) {
	if !r.in.Scan() {
		// A scanner error (oversized line, broken pipe) is not EOF;
		// report it before the session winds down with the receipt.
		if err := r.in.Err(); err != nil {
			r.log.Error("input_read_failed", observability.F("error", err))
			r.printf("Input could not be read. Closing the session.\n")
		}
		return "", false
	}
	return r.in.Text(), true
}

// readPositiveInt retries until the user enters an integer >= minimum.
// Returns false when input ends.
func (r *REPL) readPositiveInt(prompt string, minimum int) (int, bool) {
	for {
		r.printf("%s", prompt)
		raw, ok := r.readLine()
		if !ok {
			return 0, false
		}
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			r.printf("Invalid input: please enter an integer.\n")
			continue
		}
		if value < minimum {
			r.printf("Attention: please enter an integer >= %d.\n", minimum)
			continue
		}
		return value, true
	}
}

// readBoundedInt retries until the user enters an integer in
// [minimum, maximum]. Returns false when input ends.
func (r *REPL) readBoundedInt(prompt string, minimum, maximum int) (int, bool) {
	for {
		r.printf("%s", prompt)
		raw, ok := r.readLine()
		if !ok {
			return 0, false
		}
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			r.printf("Invalid input: please enter an integer.\n")
			continue
		}
		if value < minimum {
			r.printf("Attention: please enter an integer >= %d.\n", minimum)
			continue
		}
		if value > maximum {
			r.printf("Attention: the maximum allowed is %d.\n", maximum)
			continue
		}
		return value, true
	}
}

func (r *REPL) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}
