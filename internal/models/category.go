// internal/models/category.go
package models

// BusinessCategory drives template selection for budget and profit synthesis.
type BusinessCategory string

const (
	CategoryTech          BusinessCategory = "tech"
	CategoryManufacturing BusinessCategory = "manufacturing"
	CategoryAgriculture   BusinessCategory = "agriculture"
	CategoryGreenEnergy   BusinessCategory = "green_energy"
	CategoryHealthcare    BusinessCategory = "healthcare"
	CategoryEducation     BusinessCategory = "education"
	CategoryEcommerce     BusinessCategory = "ecommerce"
	CategoryGeneral       BusinessCategory = "general"
)

// BusinessCategories lists every category in classification priority order.
var BusinessCategories = []BusinessCategory{
	CategoryTech,
	CategoryManufacturing,
	CategoryAgriculture,
	CategoryGreenEnergy,
	CategoryHealthcare,
	CategoryEducation,
	CategoryEcommerce,
	CategoryGeneral,
}

func (c BusinessCategory) Valid() bool {
	for _, known := range BusinessCategories {
		if c == known {
			return true
		}
	}
	return false
}
