// Package categorize guesses expense categories from free text, amount and
// time of day using an ordered keyword table.
package categorize

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/spendsense/internal/model"
)

// Reasons and subcategories attached to non-keyword guesses.
const (
	ReasonNoPattern      = "No AI pattern found"
	ReasonWeekendBoost   = " (weekend entertainment boost)"
	SubcategoryDinner    = "Dinner"
	SubcategoryUnmatched = "Uncategorized"
)

const (
	weekendEntertainmentBoost = 5
	eveningDiningBoost        = 3
)

// Booster supplies the learned confidence boost for a lowercase merchant.
type Booster interface {
	Boost(merchantKey string) int
}

// Options tunes a Categorizer.
type Options struct {
	// Memory provides learned per-merchant boosts. Nil means no boost.
	Memory Booster
	// Rules overrides DefaultRules.
	Rules []Rule
	// DisableHeuristics skips the amount and time-of-day fallback.
	DisableHeuristics bool
}

// Categorizer is safe for concurrent use; it holds no mutable state.
type Categorizer struct {
	memory            Booster
	rules             []Rule
	disableHeuristics bool
}

// New creates a categorizer.
func New(opts Options) *Categorizer {
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules
	}
	return &Categorizer{
		rules:             rules,
		memory:            opts.Memory,
		disableHeuristics: opts.DisableHeuristics,
	}
}

// Categorize returns the best guess for an expense. The hour and weekday
// are read from at in its own location.
func (c *Categorizer) Categorize(description, merchant string, amount float64, at time.Time) model.Suggestion {
	text := strings.ToLower(description + " " + merchant)

	suggestion, matched := c.matchKeywords(text, strings.ToLower(strings.TrimSpace(merchant)))
	if !matched && !c.disableHeuristics {
		suggestion, matched = amountHeuristic(amount, at), true
	}
	if !matched {
		return model.Suggestion{
			Category:    model.CategoryOther,
			Confidence:  50,
			Reason:      ReasonNoPattern,
			Subcategory: SubcategoryUnmatched,
		}
	}

	suggestion = adjustForTime(suggestion, at)
	suggestion.Confidence = clamp(suggestion.Confidence)
	return suggestion
}

func (c *Categorizer) matchKeywords(text, merchantKey string) (model.Suggestion, bool) {
	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if !strings.Contains(text, keyword) {
				continue
			}
			boost := 0
			if c.memory != nil {
				boost = c.memory.Boost(merchantKey)
			}
			return model.Suggestion{
				Category:    rule.Category,
				Confidence:  min(100, rule.Confidence+boost),
				Subcategory: rule.Subcategory,
				Reason:      fmt.Sprintf("AI matched %q with %d%% learning boost", keyword, boost),
				AIEnhanced:  boost > 0,
			}, true
		}
	}
	return model.Suggestion{}, false
}

func amountHeuristic(amount float64, at time.Time) model.Suggestion {
	hour := at.Hour()

	switch {
	case amount > 1000:
		return model.Suggestion{Category: model.CategoryTravel, Confidence: 75,
			Reason: "High amount suggests major expense", Subcategory: "Major Purchase"}
	case amount > 500:
		return model.Suggestion{Category: model.CategoryShopping, Confidence: 70,
			Reason: "Medium-high amount suggests shopping", Subcategory: "Major Shopping"}
	case amount < 15 && hour >= 6 && hour <= 11:
		return model.Suggestion{Category: model.CategoryFood, Confidence: 80,
			Reason: "Small morning amount suggests breakfast", Subcategory: "Breakfast"}
	case amount < 20 && hour >= 11 && hour <= 14:
		return model.Suggestion{Category: model.CategoryFood, Confidence: 75,
			Reason: "Small lunch-time amount", Subcategory: "Lunch"}
	default:
		return model.Suggestion{Category: model.CategoryOther, Confidence: 60,
			Reason: "Amount-based estimation", Subcategory: "General"}
	}
}

func adjustForTime(s model.Suggestion, at time.Time) model.Suggestion {
	weekday := at.Weekday()
	if (weekday == time.Saturday || weekday == time.Sunday) && s.Category == model.CategoryEntertainment {
		s.Confidence = min(100, s.Confidence+weekendEntertainmentBoost)
		s.Reason += ReasonWeekendBoost
	}

	hour := at.Hour()
	if hour >= 17 && hour <= 21 && s.Category == model.CategoryFood {
		s.Confidence = min(100, s.Confidence+eveningDiningBoost)
		s.Subcategory = SubcategoryDinner
	}
	return s
}

func clamp(confidence int) int {
	return max(0, min(100, confidence))
}
