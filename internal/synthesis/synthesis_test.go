package synthesis

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitch-workers/internal/models"
)

func decodeDoc(t *testing.T, raw string) *models.PitchDocument {
	t.Helper()
	var doc models.PitchDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return &doc
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		idea string
		want models.BusinessCategory
	}{
		{name: "tech", idea: "AI chatbot platform for customer support", want: models.CategoryTech},
		{name: "manufacturing", idea: "Brick factory producing fly ash blocks for construction", want: models.CategoryManufacturing},
		{name: "agriculture", idea: "Organic farm growing vegetables for local markets", want: models.CategoryAgriculture},
		{name: "green energy", idea: "Solar rooftop installations for rural homes", want: models.CategoryGreenEnergy},
		{name: "healthcare", idea: "Network of rural clinics offering affordable patient care", want: models.CategoryHealthcare},
		{name: "education", idea: "Coding courses for school students in small towns", want: models.CategoryEducation},
		{name: "ecommerce", idea: "Handmade jewellery sold through an online store", want: models.CategoryEcommerce},
		{name: "general fallback", idea: "Premium dog grooming salon", want: models.CategoryGeneral},
		{name: "tech outranks ecommerce", idea: "Marketplace platform for local artisans", want: models.CategoryTech},
		{name: "bare manufacturing word does not match", idea: "Manufacturing of cotton textiles", want: models.CategoryGeneral},
		{name: "make and product together", idea: "We make a durable product for kitchens", want: models.CategoryManufacturing},
		{name: "case insensitive", idea: "SOLAR ROOFTOP KITS", want: models.CategoryGreenEnergy},
		{name: "empty idea", idea: "", want: models.CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.idea, nil))
		})
	}
}

func TestClassify_UsesDocumentText(t *testing.T) {
	doc := decodeDoc(t, `{"elevator_pitch":"Rooftop solar for every home","slides":[{"title":"Market"}]}`)
	assert.Equal(t, models.CategoryGreenEnergy, Classify("Premium dog grooming salon", doc))

	// Text nested anywhere in the document counts too.
	nested := decodeDoc(t, `{"slides":[{"title":"Ops","bullets":["Partner clinic in every district"]}]}`)
	assert.Equal(t, models.CategoryHealthcare, Classify("Premium dog grooming salon", nested))
}

func TestClassify_ReadsUndeclaredKeys(t *testing.T) {
	doc := decodeDoc(t, `{"tagline":"Fresh from the field","target_market":"livestock owners in rural districts"}`)
	assert.Equal(t, models.CategoryAgriculture, Classify("Fresh milk subscription", doc))

	assert.Equal(t, models.CategoryGeneral, Classify("Fresh milk subscription", &models.PitchDocument{Tagline: "Fresh from the field"}))
}

func TestBuildCorpus_NoHTMLEscaping(t *testing.T) {
	corpus := buildCorpus("", &models.PitchDocument{Tagline: "R&D <Lab>"})
	assert.Contains(t, corpus, "r&d <lab>")
	assert.NotContains(t, corpus, `\u0026`)
}

func TestClassify_Deterministic(t *testing.T) {
	doc := decodeDoc(t, `{"tagline":"Farm fresh","financials":[{"year":1,"revenue":0,"cost":20,"profit":-20}]}`)
	first := Classify("Organic farm growing vegetables", doc)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify("Organic farm growing vegetables", doc))
	}
}

func TestEstimateTotalFunding(t *testing.T) {
	tests := []struct {
		name string
		idea string
		doc  string
		want int64
	}{
		{name: "no document", idea: "Brick factory", want: 500_000},
		{name: "no financials", idea: "Brick factory", doc: `{"tagline":"t"}`, want: 500_000},
		{name: "plausible cost wins", idea: "Brick factory", doc: `{"financials":[{"year":1,"cost":850000}]}`, want: 850_000},
		{name: "cost at floor", idea: "Premium dog grooming salon", doc: `{"financials":[{"year":1,"cost":1000}]}`, want: 1_000},
		{name: "degenerate cost uses manufacturing base", idea: "Brick factory", doc: `{"financials":[{"year":1,"cost":20}]}`, want: 700_000},
		{name: "degenerate cost uses green energy base", idea: "Solar rooftop installations", doc: `{"financials":[{"year":1,"cost":999}]}`, want: 1_200_000},
		{name: "null cost", idea: "Coding courses for students", doc: `{"financials":[{"year":1,"cost":null}]}`, want: 400_000},
		{name: "negative cost", idea: "Handmade jewellery sold through an online store", doc: `{"financials":[{"year":1,"cost":-5000}]}`, want: 300_000},
		{name: "year one picked out of order", idea: "Brick factory", doc: `{"financials":[{"year":2,"cost":5000000},{"year":1,"cost":20000}]}`, want: 20_000},
		{name: "first entry when no year one", idea: "Brick factory", doc: `{"financials":[{"year":2,"cost":64000},{"year":3,"cost":90000}]}`, want: 64_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc *models.PitchDocument
			if tt.doc != "" {
				doc = decodeDoc(t, tt.doc)
			}
			got := EstimateTotalFunding(tt.idea, doc)
			assert.True(t, decimal.NewFromInt(tt.want).Equal(got), "got %s", got)
			assert.True(t, got.GreaterThanOrEqual(FundingFloor))
		})
	}
}

func TestBudgetTemplates_FractionsSumToOne(t *testing.T) {
	for _, category := range models.BusinessCategories {
		sections, ok := budgetTemplates[category]
		require.True(t, ok, "missing template for %s", category)
		assert.Len(t, sections, 4, category)

		sum := decimal.Zero
		for _, section := range sections {
			assert.GreaterOrEqual(t, len(section.items), 3, section.name)
			assert.LessOrEqual(t, len(section.items), 4, section.name)
			for _, item := range section.items {
				sum = sum.Add(item.fraction)
			}
		}
		assert.True(t, sum.Equal(decimal.NewFromInt(1)), "%s sums to %s", category, sum)
	}
}

func TestSynthesizeBudget_ChatbotExample(t *testing.T) {
	doc := decodeDoc(t, `{"financials":[{"year":1,"revenue":0,"cost":20,"profit":-20}]}`)

	budget := SynthesizeBudget("AI chatbot platform for customer support", doc)
	require.Equal(t, SourceSynthesized, budget.Source)
	assert.Equal(t, models.CategoryTech, budget.Category)
	assert.True(t, decimal.NewFromInt(500_000).Equal(budget.TotalFunding))

	require.NotEmpty(t, budget.Categories)
	first := budget.Categories[0]
	assert.Equal(t, "product_development", first.Name)
	assert.Equal(t, "Platform/App Development: ₹1.8 L", first.Items[0].Display)
	assert.True(t, decimal.NewFromInt(175_000).Equal(first.Items[0].Amount))

	total := decimal.Zero
	for _, c := range budget.Categories {
		for _, item := range c.Items {
			total = total.Add(item.Amount)
		}
	}
	assert.True(t, total.Equal(budget.TotalFunding))
}

func TestSynthesizeBudget_Passthrough(t *testing.T) {
	raw := `{"budget_breakdown": {"marketing": ["Ads: ₹2 L",  "Events"], "ops": []}}`
	doc := decodeDoc(t, raw)

	budget := SynthesizeBudget("AI chatbot platform", doc)
	assert.Equal(t, SourceAuthoritative, budget.Source)
	assert.Empty(t, budget.Categories)
	assert.True(t, bytes.Equal(doc.BudgetBreakdown, budget.Authoritative))

	out, err := budget.MarshalJSON()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(doc.BudgetBreakdown, out))
}

func TestSynthesizeBudget_NullBreakdownIsSynthesized(t *testing.T) {
	doc := decodeDoc(t, `{"budget_breakdown":null}`)
	budget := SynthesizeBudget("Premium dog grooming salon", doc)
	assert.Equal(t, SourceSynthesized, budget.Source)
	assert.Equal(t, models.CategoryGeneral, budget.Category)
	assert.Equal(t, "setup_infrastructure", budget.Categories[0].Name)
}

func TestBudget_MarshalJSONKeepsOrder(t *testing.T) {
	budget := SynthesizeBudget("Brick factory", nil)
	out, err := json.Marshal(budget)
	require.NoError(t, err)

	equipment := bytes.Index(out, []byte(`"equipment_infrastructure"`))
	sales := bytes.Index(out, []byte(`"sales_working_capital"`))
	require.NotEqual(t, -1, equipment)
	assert.Less(t, equipment, sales)
	assert.Contains(t, string(out), "Machinery \\u0026 Equipment: ₹1.3 L")

	lines := budget.Lines()
	assert.Len(t, lines, 4)
	assert.Len(t, lines["operations_workforce"], 4)
}

func TestSynthesizeProfitModel(t *testing.T) {
	model := SynthesizeProfitModel("Solar rooftop installations for rural homes", nil)
	require.Equal(t, SourceSynthesized, model.Source)
	assert.Equal(t, models.CategoryGreenEnergy, model.Category)

	require.Len(t, model.Aspects, 4)
	for i, name := range ProfitAspects {
		assert.Equal(t, name, model.Aspects[i].Name)
		assert.NotEmpty(t, model.Aspects[i].Statements)
	}
	margins := model.Aspect(AspectProfitMargins)
	require.Len(t, margins, 3)
	assert.Equal(t, "Year 1: -25% to -5% due to upfront capital expenditure", margins[0])

	// Callers may not alter the shared template through the result.
	margins[0] = "changed"
	again := SynthesizeProfitModel("Solar rooftop installations for rural homes", nil)
	assert.NotEqual(t, "changed", again.Aspect(AspectProfitMargins)[0])
}

func TestSynthesizeProfitModel_Passthrough(t *testing.T) {
	doc := decodeDoc(t, `{"profit_basis":{"revenue_streams":"Subscriptions",   "profit_margins":["20%"]}}`)

	model := SynthesizeProfitModel("Premium dog grooming salon", doc)
	assert.Equal(t, SourceAuthoritative, model.Source)
	assert.Nil(t, model.Aspects)

	out, err := model.MarshalJSON()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(doc.ProfitBasis, out))
}

func TestProfitTemplates_Complete(t *testing.T) {
	for _, category := range models.BusinessCategories {
		template, ok := profitTemplates[category]
		require.True(t, ok, category)
		for _, aspect := range ProfitAspects {
			assert.NotEmpty(t, template[aspect], "%s/%s", category, aspect)
		}
		assert.Len(t, template[AspectProfitMargins], 3, category)
	}
}

func TestReconcile(t *testing.T) {
	doc := decodeDoc(t, `{
		"financials":[
			{"year":1,"revenue":0,"cost":20,"profit":-20},
			{"year":2,"revenue":2500000,"cost":1800000,"profit":700000},
			{"year":3,"revenue":"1,20,00,000","cost":null,"profit":null}
		],
		"profit_basis":{"revenue_streams":["Subscriptions"]}
	}`)

	report := Reconcile("AI chatbot platform for customer support", doc)
	assert.Equal(t, models.CategoryTech, report.Category)
	assert.Equal(t, "₹5.0 L", report.TotalFundingDisplay)
	assert.Equal(t, SourceSynthesized, report.BudgetSource)
	assert.Equal(t, SourceAuthoritative, report.ProfitSource)

	require.Len(t, report.Financials, 3)
	assert.Equal(t, FinancialRow{Year: 1, Revenue: "₹0", Cost: "₹20", Profit: "₹-20"}, report.Financials[0])
	assert.Equal(t, "₹25.0 L", report.Financials[1].Revenue)
	assert.Equal(t, "₹1.2 Cr", report.Financials[2].Revenue)
	assert.Equal(t, "₹0", report.Financials[2].Cost)

	out, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"profit_basis":{"revenue_streams":["Subscriptions"]}`)
	assert.Contains(t, string(out), `"budget_source":"synthesized"`)
}

func TestReconcile_NilDocument(t *testing.T) {
	report := Reconcile("Premium dog grooming salon", nil)
	assert.Equal(t, models.CategoryGeneral, report.Category)
	assert.True(t, DefaultFunding.Equal(report.TotalFunding))
	assert.Empty(t, report.Financials)
	assert.Equal(t, SourceSynthesized, report.ProfitSource)
}
