package categorize

import "github.com/Veraticus/spendsense/internal/model"

// Rule maps a keyword list to a category guess.
type Rule struct {
	Category    model.Category
	Subcategory string
	Keywords    []string
	Confidence  int
}

// DefaultRules is evaluated in order and the first rule with a keyword
// contained in the text wins. Dining keywords must stay ahead of shopping
// and fuel keywords ("food" before "costco", "cafe" before "gas").
var DefaultRules = []Rule{
	{
		Keywords:    []string{"starbucks", "dunkin", "coffee", "cafe", "bistro"},
		Category:    model.CategoryFood,
		Confidence:  98,
		Subcategory: "Coffee & Beverages",
	},
	{
		Keywords:    []string{"mcdonald", "burger", "pizza", "restaurant", "dining", "food"},
		Category:    model.CategoryFood,
		Confidence:  95,
		Subcategory: "Restaurants",
	},
	{
		Keywords:    []string{"uber", "lyft", "taxi", "cab"},
		Category:    model.CategoryTransport,
		Confidence:  97,
		Subcategory: "Rideshare",
	},
	{
		Keywords:    []string{"shell", "exxon", "chevron", "gas", "fuel", "gasoline"},
		Category:    model.CategoryTransport,
		Confidence:  96,
		Subcategory: "Fuel",
	},
	{
		Keywords:    []string{"amazon", "ebay", "walmart", "target", "costco"},
		Category:    model.CategoryShopping,
		Confidence:  94,
		Subcategory: "Online Shopping",
	},
	{
		Keywords:    []string{"netflix", "spotify", "hulu", "disney", "subscription"},
		Category:    model.CategoryEntertainment,
		Confidence:  99,
		Subcategory: "Streaming Services",
	},
	{
		Keywords:    []string{"electric", "pge", "utility", "water", "internet", "phone", "cell"},
		Category:    model.CategoryBills,
		Confidence:  98,
		Subcategory: "Monthly Bills",
	},
}
