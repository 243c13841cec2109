// Package model defines the core domain models used throughout the application.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date layout used for stored expense dates.
const DateLayout = "2006-01-02"

// Source records how an expense entered the store.
type Source string

// Expense sources.
const (
	SourceManual  Source = "manual"
	SourceReceipt Source = "ai_receipt_upload"
	SourceOFX     Source = "ofx_import"
	SourceSample  Source = "sample"
)

// Validation errors for expenses.
var (
	ErrMissingDescription = errors.New("description is required")
	ErrInvalidAmount      = errors.New("amount must be a finite non-negative number")
	ErrMissingDate        = errors.New("date is required")
	ErrInvalidConfidence  = errors.New("confidence must be between 0 and 100")
)

// Date is a calendar date that serializes as "2006-01-02".
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

// ParseDate parses a date-only or RFC 3339 string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, time.Local); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t.In(time.Local)), nil
}

// String returns the date in DateLayout.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ReceiptItem is a single line on a scanned receipt.
type ReceiptItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Expense is one user-entered, imported or receipt-derived transaction.
type Expense struct {
	CreatedAt    time.Time     `json:"createdAt"`
	Date         Date          `json:"date"`
	Description  string        `json:"description"`
	Category     Category      `json:"category"`
	Merchant     string        `json:"merchant,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	Source       Source        `json:"source,omitempty"`
	ReceiptItems []ReceiptItem `json:"receiptItems,omitempty"`
	ID           int64         `json:"id"`
	Amount       float64       `json:"amount"`
	Confidence   int           `json:"confidence,omitempty"`
	AIScore      int           `json:"aiScore,omitempty"`
	AISuggested  bool          `json:"aiSuggested"`
	AIEnhanced   bool          `json:"aiEnhanced,omitempty"`
	OCRProcessed bool          `json:"ocrProcessed,omitempty"`
}

// AIAssisted reports whether any automated step chose or refined the category.
func (e *Expense) AIAssisted() bool {
	return e.AISuggested || e.AIEnhanced
}

// Validate checks the fields entry forms enforce.
func (e *Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrMissingDescription
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) || e.Amount < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, e.Amount)
	}
	if e.Date.IsZero() {
		return ErrMissingDate
	}
	if e.Confidence < 0 || e.Confidence > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidConfidence, e.Confidence)
	}
	return nil
}

// Timestamp returns the moment used for time-of-day analysis: the creation
// time when set, otherwise the start of the expense date.
func (e *Expense) Timestamp() time.Time {
	if !e.CreatedAt.IsZero() {
		return e.CreatedAt
	}
	return e.Date.Time
}

// MerchantKey is the lowercase merchant name used for learning counters.
func (e *Expense) MerchantKey() string {
	return strings.ToLower(strings.TrimSpace(e.Merchant))
}
