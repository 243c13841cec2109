// Package format renders amounts and dates according to user settings.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Veraticus/spendsense/internal/model"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var symbols = map[string]string{
	"USD": "$",
	"CAD": "CA$",
	"AUD": "A$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"CHF": "CHF ",
}

// Formatter renders money and dates.
type Formatter struct {
	printer    *message.Printer
	code       string
	symbol     string
	dateLayout string
	scale      int
}

// New builds a formatter for the settings' currency and date format.
// Unknown currencies fall back to USD.
func New(settings model.Settings) *Formatter {
	unit, err := currency.ParseISO(settings.Currency)
	if err != nil {
		unit = currency.USD
	}
	code := unit.String()
	scale, _ := currency.Standard.Rounding(unit)

	symbol, ok := symbols[code]
	if !ok {
		symbol = code + " "
	}

	return &Formatter{
		printer:    message.NewPrinter(language.English),
		code:       code,
		symbol:     symbol,
		scale:      scale,
		dateLayout: settings.DateLayout(),
	}
}

// Default formats USD with US dates.
func Default() *Formatter {
	return New(model.DefaultSettings())
}

// Currency returns the ISO code in use.
func (f *Formatter) Currency() string {
	return f.code
}

// Money formats an amount with symbol and digit grouping, e.g. "$1,234.50".
func (f *Formatter) Money(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = math.Abs(amount)
	}
	return sign + f.symbol + f.printer.Sprintf(fmt.Sprintf("%%.%df", f.scale), amount)
}

// Percent formats a percentage with one decimal.
func (f *Formatter) Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// Date formats a calendar date in the configured layout.
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(f.dateLayout)
}

// Truncate shortens s to width runes, adding an ellipsis.
func Truncate(s string, width int) string {
	runes := []rune(strings.TrimSpace(s))
	if width <= 0 || len(runes) <= width {
		return string(runes)
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
