package synthesis

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"

	"pitch-workers/internal/models"
)

// Source tells whether a section came from the service or from a template.
type Source string

const (
	SourceAuthoritative Source = "authoritative"
	SourceSynthesized   Source = "synthesized"
)

type BudgetItem struct {
	Label    string          `json:"label"`
	Fraction decimal.Decimal `json:"fraction"`
	Amount   decimal.Decimal `json:"amount"`
	Display  string          `json:"display"`
}

type BudgetCategory struct {
	Name  string       `json:"name"`
	Items []BudgetItem `json:"items"`
}

// Budget is either the service's own budget_breakdown, untouched, or a breakdown
// rendered from the category template.
type Budget struct {
	Source        Source
	Authoritative json.RawMessage
	Category      models.BusinessCategory
	TotalFunding  decimal.Decimal
	Categories    []BudgetCategory
}

// SynthesizeBudget returns the document's budget_breakdown as-is when present.
// Otherwise it splits the estimated total funding across the category template.
func SynthesizeBudget(idea string, doc *models.PitchDocument) Budget {
	if doc.HasBudgetBreakdown() {
		return Budget{Source: SourceAuthoritative, Authoritative: doc.BudgetBreakdown}
	}

	category := Classify(idea, doc)
	total := EstimateTotalFunding(idea, doc)
	return Budget{
		Source:       SourceSynthesized,
		Category:     category,
		TotalFunding: total,
		Categories:   renderBudget(category, total),
	}
}

func renderBudget(category models.BusinessCategory, total decimal.Decimal) []BudgetCategory {
	sections, ok := budgetTemplates[category]
	if !ok {
		sections = budgetTemplates[models.CategoryGeneral]
	}

	out := make([]BudgetCategory, 0, len(sections))
	for _, section := range sections {
		items := make([]BudgetItem, 0, len(section.items))
		for _, li := range section.items {
			amount := total.Mul(li.fraction)
			items = append(items, BudgetItem{
				Label:    li.label,
				Fraction: li.fraction,
				Amount:   amount,
				Display:  li.label + ": " + FormatCurrency(amount),
			})
		}
		out = append(out, BudgetCategory{Name: section.name, Items: items})
	}
	return out
}

// Lines returns the rendered items per category in template order.
func (b Budget) Lines() map[string][]string {
	out := make(map[string][]string, len(b.Categories))
	for _, c := range b.Categories {
		lines := make([]string, 0, len(c.Items))
		for _, item := range c.Items {
			lines = append(lines, item.Display)
		}
		out[c.Name] = lines
	}
	return out
}

// MarshalJSON emits the authoritative bytes verbatim, or an object of
// category -> rendered lines that keeps template order.
func (b Budget) MarshalJSON() ([]byte, error) {
	if b.Source == SourceAuthoritative {
		return b.Authoritative, nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range b.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		lines := make([]string, 0, len(c.Items))
		for _, item := range c.Items {
			lines = append(lines, item.Display)
		}
		value, err := json.Marshal(lines)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
