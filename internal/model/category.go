package model

import "strings"

// Category is one of the fixed expense categories.
type Category string

// Expense categories.
const (
	CategoryFood          Category = "Food & Dining"
	CategoryTransport     Category = "Transportation"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryBills         Category = "Bills & Utilities"
	CategoryHealthcare    Category = "Healthcare"
	CategoryEducation     Category = "Education"
	CategoryTravel        Category = "Travel"
	CategoryBusiness      Category = "Business"
	CategoryOther         Category = "Other"
)

var allCategories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryEntertainment,
	CategoryBills,
	CategoryHealthcare,
	CategoryEducation,
	CategoryTravel,
	CategoryBusiness,
	CategoryOther,
}

// categoryAliases maps lowercase spellings used by older records and the
// receipt tables onto the canonical names.
var categoryAliases = map[string]Category{
	"food and dining":     CategoryFood,
	"food":                CategoryFood,
	"dining":              CategoryFood,
	"bills and utilities": CategoryBills,
	"bills":               CategoryBills,
	"utilities":           CategoryBills,
	"transport":           CategoryTransport,
	"health":              CategoryHealthcare,
}

// Categories returns the fixed category set in display order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// IsValid reports whether c is a member of the fixed set.
func (c Category) IsValid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// NormalizeCategory maps a free-form category name to the fixed set.
// Unknown or empty values fall into Other.
func NormalizeCategory(name string) Category {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return CategoryOther
	}

	lower := strings.ToLower(trimmed)
	for _, known := range allCategories {
		if strings.ToLower(string(known)) == lower {
			return known
		}
	}

	if alias, ok := categoryAliases[lower]; ok {
		return alias
	}

	return CategoryOther
}
