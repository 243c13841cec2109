package model

import "time"

// MaxMerchantBoost caps the learned confidence boost per merchant.
const MaxMerchantBoost = 5

// Memory holds the learning counters derived from past AI-suggested expenses.
type Memory struct {
	LastAnalysis     time.Time            `json:"lastAnalysis"`
	MerchantLearning map[string]int       `json:"merchantLearning"`
	CategoryAccuracy map[Category]float64 `json:"categoryAccuracy"`
}

// NewMemory returns an empty memory.
func NewMemory() Memory {
	return Memory{
		MerchantLearning: make(map[string]int),
		CategoryAccuracy: make(map[Category]float64),
	}
}

// Boost returns the learned boost for a lowercase merchant key.
func (m Memory) Boost(merchantKey string) int {
	if m.MerchantLearning == nil || merchantKey == "" {
		return 0
	}
	return m.MerchantLearning[merchantKey]
}

// Clone returns a deep copy.
func (m Memory) Clone() Memory {
	out := Memory{
		LastAnalysis:     m.LastAnalysis,
		MerchantLearning: make(map[string]int, len(m.MerchantLearning)),
		CategoryAccuracy: make(map[Category]float64, len(m.CategoryAccuracy)),
	}
	for k, v := range m.MerchantLearning {
		out.MerchantLearning[k] = v
	}
	for k, v := range m.CategoryAccuracy {
		out.CategoryAccuracy[k] = v
	}
	return out
}
