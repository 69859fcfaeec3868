package synthesis

import (
	"github.com/shopspring/decimal"

	"pitch-workers/internal/models"
)

type FinancialRow struct {
	Year    int    `json:"year"`
	Revenue string `json:"revenue"`
	Cost    string `json:"cost"`
	Profit  string `json:"profit"`
}

// Report is everything a presenter needs besides the narrative fields.
type Report struct {
	Category            models.BusinessCategory `json:"category"`
	TotalFunding        decimal.Decimal         `json:"total_funding"`
	TotalFundingDisplay string                  `json:"total_funding_display"`
	BudgetSource        Source                  `json:"budget_source"`
	Budget              Budget                  `json:"budget_breakdown"`
	ProfitSource        Source                  `json:"profit_source"`
	ProfitModel         ProfitModel             `json:"profit_basis"`
	Financials          []FinancialRow          `json:"financials,omitempty"`
}

func Reconcile(idea string, doc *models.PitchDocument) Report {
	total := EstimateTotalFunding(idea, doc)
	budget := SynthesizeBudget(idea, doc)
	profit := SynthesizeProfitModel(idea, doc)

	report := Report{
		Category:            Classify(idea, doc),
		TotalFunding:        total,
		TotalFundingDisplay: FormatCurrency(total),
		BudgetSource:        budget.Source,
		Budget:              budget,
		ProfitSource:        profit.Source,
		ProfitModel:         profit,
	}

	if doc != nil {
		for _, fy := range doc.Financials {
			report.Financials = append(report.Financials, FinancialRow{
				Year:    fy.Year,
				Revenue: FormatNullCurrency(fy.Revenue),
				Cost:    FormatNullCurrency(fy.Cost),
				Profit:  FormatNullCurrency(fy.Profit),
			})
		}
	}
	return report
}
