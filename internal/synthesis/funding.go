package synthesis

import (
	"github.com/shopspring/decimal"

	"pitch-workers/internal/models"
)

var (
	// FundingFloor is the smallest Year 1 cost accepted as a funding figure.
	FundingFloor = decimal.NewFromInt(1_000)

	// DefaultFunding applies when the document carries no financials at all.
	DefaultFunding = decimal.NewFromInt(500_000)

	baseFunding = map[models.BusinessCategory]decimal.Decimal{
		models.CategoryManufacturing: decimal.NewFromInt(700_000),
		models.CategoryAgriculture:   decimal.NewFromInt(500_000),
		models.CategoryGreenEnergy:   decimal.NewFromInt(1_200_000),
		models.CategoryHealthcare:    decimal.NewFromInt(800_000),
		models.CategoryEducation:     decimal.NewFromInt(400_000),
		models.CategoryEcommerce:     decimal.NewFromInt(300_000),
		models.CategoryTech:          decimal.NewFromInt(500_000),
		models.CategoryGeneral:       decimal.NewFromInt(500_000),
	}
)

// BaseFunding returns the fixed funding amount for a category.
func BaseFunding(category models.BusinessCategory) decimal.Decimal {
	if amount, ok := baseFunding[category]; ok {
		return amount
	}
	return baseFunding[models.CategoryGeneral]
}

// EstimateTotalFunding takes Year 1 cost as the total funding required. Generated
// numbers are sometimes degenerate, so a cost under FundingFloor (or a missing one)
// is replaced by the category's base amount.
func EstimateTotalFunding(idea string, doc *models.PitchDocument) decimal.Decimal {
	if doc == nil || len(doc.Financials) == 0 {
		return DefaultFunding
	}

	cost := yearOne(doc.Financials).Cost
	if cost.Valid && cost.Decimal.GreaterThanOrEqual(FundingFloor) {
		return cost.Decimal
	}
	return BaseFunding(Classify(idea, doc))
}

func yearOne(years []models.FinancialYear) models.FinancialYear {
	for _, y := range years {
		if y.Year == 1 {
			return y
		}
	}
	return years[0]
}
