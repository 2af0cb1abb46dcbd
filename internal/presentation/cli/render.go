package cli

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/atpyprog/supermarket-checkout-simulation/internal/application/checkout"
	domstock "github.com/atpyprog/supermarket-checkout-simulation/internal/domain/stock"
	"github.com/atpyprog/supermarket-checkout-simulation/internal/observability"
)

func (r *REPL) renderStock(items []*domstock.Item) {
	r.printf("\n=== AVAILABLE STOCK ===\n")
	if len(items) == 0 {
		r.printf("No products available.\n")
		return
	}
	for _, item := range items {
		r.printf("%s - Price: %s | Quantity: %d\n",
			capitalize(item.Name), r.money(item.UnitPriceCents), item.Quantity)
	}
}

func (r *REPL) renderReceipt(receipt *checkout.Receipt) {
	r.printf("\n=== RECEIPT ===\n")
	if len(receipt.Lines) == 0 {
		r.printf("Your cart is empty.\n")
		return
	}
	for _, line := range receipt.Lines {
		r.printf("%s x%d - %s\n", capitalize(line.Product), line.Quantity, r.money(line.TotalCents()))
	}
	r.printf("\nTotal purchase value: %s\n", r.money(receipt.TotalCents))
}

func (r *REPL) renderStats(families []observability.MetricFamily) {
	for _, fam := range families {
		r.printf("%s\n", fam.Name)
		for _, sample := range fam.Samples {
			r.printf("  %s %s\n", formatLabels(sample.Labels),
				strconv.FormatFloat(sample.Value, 'g', -1, 64))
		}
	}
}

func formatLabels(labels []observability.Label) string {
	if len(labels) == 0 {
		return "{}"
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l.Key + "=" + strconv.Quote(l.Value)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// money renders integer cents as "€ 5.50".
func (r *REPL) money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return r.currency + " " + sign +
		strconv.FormatInt(cents/100, 10) + "." +
		pad2(cents%100)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
