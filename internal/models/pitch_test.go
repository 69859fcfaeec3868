package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinancialYear_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantYear    int
		wantCost    string
		costIsValid bool
	}{
		{name: "plain numbers", input: `{"year":1,"revenue":0,"cost":20,"profit":-20}`, wantYear: 1, wantCost: "20", costIsValid: true},
		{name: "grouped string", input: `{"year":"2","revenue":"12,00,000","cost":"₹ 8,50,000","profit":null}`, wantYear: 2, wantCost: "850000", costIsValid: true},
		{name: "labelled year", input: `{"year":"Year 3","cost":1500000.5}`, wantYear: 3, wantCost: "1500000.5", costIsValid: true},
		{name: "unparseable cost", input: `{"year":1,"cost":"about ten lakh"}`, wantYear: 1},
		{name: "missing cost", input: `{"year":1,"revenue":100}`, wantYear: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fy FinancialYear
			require.NoError(t, json.Unmarshal([]byte(tt.input), &fy))
			assert.Equal(t, tt.wantYear, fy.Year)
			assert.Equal(t, tt.costIsValid, fy.Cost.Valid)
			if tt.costIsValid {
				assert.Equal(t, tt.wantCost, fy.Cost.Decimal.String())
			}
		})
	}
}

func TestFinancialYear_MarshalJSON(t *testing.T) {
	var fy FinancialYear
	require.NoError(t, json.Unmarshal([]byte(`{"year":1,"revenue":500000,"cost":null,"profit":-20}`), &fy))

	data, err := json.Marshal(fy)
	require.NoError(t, err)
	assert.JSONEq(t, `{"year":1,"revenue":500000,"cost":null,"profit":-20}`, string(data))
}

func TestPitchDocument_AuthoritativeFields(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantBudget bool
		wantProfit bool
	}{
		{name: "absent", input: `{"tagline":"x"}`},
		{name: "explicit null", input: `{"budget_breakdown":null,"profit_basis":null}`},
		{name: "present", input: `{"budget_breakdown":{"a":["b"]},"profit_basis":{"revenue_streams":"ads"}}`, wantBudget: true, wantProfit: true},
		{name: "empty object still counts", input: `{"budget_breakdown":{}}`, wantBudget: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc PitchDocument
			require.NoError(t, json.Unmarshal([]byte(tt.input), &doc))
			assert.Equal(t, tt.wantBudget, doc.HasBudgetBreakdown())
			assert.Equal(t, tt.wantProfit, doc.HasProfitBasis())
		})
	}

	var nilDoc *PitchDocument
	assert.False(t, nilDoc.HasBudgetBreakdown())
	assert.False(t, nilDoc.HasProfitBasis())
}

func TestPitchDocument_IsPartial(t *testing.T) {
	var doc PitchDocument
	require.NoError(t, json.Unmarshal([]byte(`{"tagline":"t","_note":"Partial response - LLM output was truncated"}`), &doc))
	assert.True(t, doc.IsPartial())

	var fallback PitchDocument
	require.NoError(t, json.Unmarshal([]byte(`{"raw_response":"not json","note":"Could not parse"}`), &fallback))
	assert.True(t, fallback.IsPartial())

	var complete PitchDocument
	require.NoError(t, json.Unmarshal([]byte(`{"tagline":"t"}`), &complete))
	assert.False(t, complete.IsPartial())
}

func TestPitchDocument_LenientSections(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		wantTagline     string
		wantSlides      int
		wantBullets     []string
		wantYears       int
		wantAssumptions []string
	}{
		{
			name:        "string bullets become a list",
			input:       `{"tagline":"t","slides":[{"title":"Problem","bullets":"single string bullet"}]}`,
			wantTagline: "t",
			wantSlides:  1,
			wantBullets: []string{"single string bullet"},
		},
		{
			name:        "non text bullets are skipped",
			input:       `{"slides":[{"title":"Plan","bullets":["ship",{"x":1},null,3]}]}`,
			wantSlides:  1,
			wantBullets: []string{"ship", "3"},
		},
		{
			name:       "bad slide items are dropped",
			input:      `{"slides":["intro",null,{"title":"Ask"}],"financials":[{"year":1,"cost":10}]}`,
			wantSlides: 1,
			wantYears:  1,
		},
		{
			name:       "wrong shaped financials are dropped",
			input:      `{"financials":"three years","slides":{"title":"Only"}}`,
			wantSlides: 1,
		},
		{
			name:      "single financial year object",
			input:     `{"financials":{"year":1,"cost":500000}}`,
			wantYears: 1,
		},
		{
			name:            "assumptions as a sentence",
			input:           `{"tagline":{"text":"nested"},"assumptions":"Prices stay flat"}`,
			wantAssumptions: []string{"Prices stay flat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc PitchDocument
			require.NoError(t, json.Unmarshal([]byte(tt.input), &doc))
			assert.Equal(t, tt.wantTagline, doc.Tagline)
			assert.Len(t, doc.Slides, tt.wantSlides)
			if tt.wantBullets != nil {
				assert.Equal(t, tt.wantBullets, doc.Slides[0].Bullets)
			}
			assert.Len(t, doc.Financials, tt.wantYears)
			assert.Equal(t, tt.wantAssumptions, doc.Assumptions)
		})
	}
}

func TestPitchDocument_RejectsNonObjects(t *testing.T) {
	for _, input := range []string{`[1,2]`, `"text"`, `{"tagline":`} {
		var doc PitchDocument
		assert.Error(t, json.Unmarshal([]byte(input), &doc), input)
	}
}

func TestPitchDocument_KeepsRawBody(t *testing.T) {
	body := `{"tagline":"R&D <lab>","target_market":"livestock owners"}`
	var doc PitchDocument
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, body, string(doc.Raw()))

	passthrough := `{"Team": ["Engineers: ₹4.0 L"]}`
	require.NoError(t, json.Unmarshal([]byte(`{"budget_breakdown": `+passthrough+`}`), &doc))
	assert.Equal(t, passthrough, string(doc.BudgetBreakdown))

	var built *PitchDocument
	assert.Nil(t, built.Raw())
	assert.Nil(t, (&PitchDocument{Tagline: "x"}).Raw())
}

func TestIdea_WithDefaults(t *testing.T) {
	idea := Idea{Idea: "  solar kiosks  "}.WithDefaults()
	assert.Equal(t, "solar kiosks", idea.Idea)
	assert.Equal(t, AudienceInvestors, idea.Audience)
	assert.Equal(t, ToneProfessional, idea.Tone)

	assert.True(t, JobStatusDone.IsTerminal())
	assert.True(t, JobStatusError.IsTerminal())
	assert.False(t, JobStatusRunning.IsTerminal())
}
