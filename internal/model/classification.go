package model

// Suggestion is an automated category guess for an expense.
type Suggestion struct {
	Category    Category `json:"category"`
	Reason      string   `json:"reason"`
	Subcategory string   `json:"subcategory,omitempty"`
	Confidence  int      `json:"confidence"`
	AIEnhanced  bool     `json:"aiEnhanced,omitempty"`
}

// Apply copies the suggestion onto an expense and marks it AI-suggested.
func (s Suggestion) Apply(e *Expense) {
	e.Category = s.Category
	e.Confidence = s.Confidence
	e.AISuggested = true
	e.AIEnhanced = e.AIEnhanced || s.AIEnhanced
}
