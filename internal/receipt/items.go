package receipt

import (
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/Veraticus/spendsense/internal/model"
	"github.com/shopspring/decimal"
)

// itemSpec prices a line either at a fixed amount or as a share of the total.
type itemSpec struct {
	name  string
	fixed string
	share string
}

var itemsByKind = map[string][]itemSpec{
	"restaurant": {
		{name: "Grande Caffe Latte", fixed: "5.75"},
		{name: "Blueberry Muffin", fixed: "3.25"},
		{name: "Breakfast Sandwich", fixed: "6.50"},
		{name: "Tax", fixed: "1.25"},
	},
	"grocery": {
		{name: "Organic Bananas", fixed: "4.99"},
		{name: "Whole Milk 1 Gal", fixed: "3.79"},
		{name: "Artisan Bread", fixed: "5.49"},
		{name: "Tax", fixed: "1.15"},
	},
	"fuel": {
		{name: "Regular Unleaded", share: "0.94"},
		{name: "Car Wash", fixed: "8.00"},
		{name: "Tax", share: "0.06"},
	},
	"service": {
		{name: "Uber Ride", share: "0.85"},
		{name: "Service Fee", share: "0.10"},
		{name: "Tax", share: "0.05"},
	},
	"retail": {
		{name: "Various Items", share: "0.90"},
		{name: "Discount Applied", share: "-0.05"},
		{name: "Tax", share: "0.15"},
	},
	"electronics": {
		{name: "USB Cable", fixed: "12.99"},
		{name: "Phone Case", fixed: "19.99"},
		{name: "Screen Protector", fixed: "9.99"},
		{name: "Tax", fixed: "3.43"},
	},
}

var genericItems = []itemSpec{
	{name: "Item 1", share: "0.60"},
	{name: "Item 2", share: "0.30"},
	{name: "Tax", share: "0.10"},
}

// lineItems builds the receipt lines for a merchant kind.
func lineItems(kind string, total float64) []model.ReceiptItem {
	specs, ok := itemsByKind[kind]
	if !ok {
		specs = genericItems
	}

	amount := decimal.NewFromFloat(total)
	items := make([]model.ReceiptItem, 0, len(specs))
	for _, s := range specs {
		var price decimal.Decimal
		if s.fixed != "" {
			price = decimal.RequireFromString(s.fixed)
		} else {
			price = amount.Mul(decimal.RequireFromString(s.share)).Round(2)
		}
		items = append(items, model.ReceiptItem{Name: s.name, Price: price.InexactFloat64()})
	}
	return items
}

const taxRate = "0.08"

var transcriptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"pad":   func(s string) string { return padRight(s, 20) },
	"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
	"price": func(f float64) string { return "$" + decimal.NewFromFloat(f).StringFixed(2) },
}).Parse(`================================
{{.Header}}
Store #1234 - AI Enhanced Receipt
123 Main Street, Suite 100
Smart City, AI 12345
Phone: (555) 123-4567
================================

Date: {{.Date}}
Time: {{.Time}}
Transaction ID: {{.TransactionID}}

ITEMS PURCHASED:
--------------------------------
{{range .Items}}{{pad .Name}} {{price .Price}}
{{end}}--------------------------------
{{pad "SUBTOTAL"}} {{money .Subtotal}}
{{pad "TAX"}} {{money .Tax}}
================================
{{pad "TOTAL"}} {{money .Total}}
================================

PAYMENT METHOD: CREDIT CARD ****1234
APPROVAL CODE: AI789456

Thank you for choosing {{.Merchant}}!
Visit us again soon!

AI Receipt Processing: COMPLETED
Smart Categorization: ACTIVE
================================`))

type transcriptData struct {
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Header        string
	Merchant      string
	Date          string
	Time          string
	TransactionID string
	Items         []model.ReceiptItem
}

// transcript renders the plain-text receipt. Tax is a flat share of the total.
func transcript(merchant string, total float64, items []model.ReceiptItem, at time.Time) string {
	amount := decimal.NewFromFloat(total)
	tax := amount.Mul(decimal.RequireFromString(taxRate))

	data := transcriptData{
		Header:        strings.ToUpper(merchant),
		Merchant:      merchant,
		Date:          at.Format("1/2/2006"),
		Time:          at.Format("3:04:05 PM"),
		TransactionID: "AI" + lastDigits(at.UnixMilli(), 6),
		Items:         items,
		Subtotal:      amount.Sub(tax),
		Tax:           tax,
		Total:         amount,
	}

	var b strings.Builder
	if err := transcriptTemplate.Execute(&b, data); err != nil {
		return strings.ToUpper(merchant) + "\nTOTAL $" + amount.StringFixed(2)
	}
	return b.String()
}

func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func lastDigits(n int64, count int) string {
	s := strconv.FormatInt(n, 10)
	if len(s) > count {
		return s[len(s)-count:]
	}
	return s
}
