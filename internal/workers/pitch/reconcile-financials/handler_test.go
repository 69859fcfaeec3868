// internal/workers/pitch/reconcile-financials/handler_test.go
package reconcilefinancials

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitch-workers/internal/common/config"
	apperrors "pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/models"
	"pitch-workers/internal/synthesis"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, nil, logger.NewTestLogger(t))
}

func TestExecute(t *testing.T) {
	authoritativeBudget := `{"Team": ["Engineers: ₹4.0 L"], "Cloud": ["Hosting: ₹1.0 L"]}`

	tests := []struct {
		name           string
		input          Input
		wantCategory   models.BusinessCategory
		wantFunding    string
		wantBudgetFrom synthesis.Source
		wantPartial    bool
	}{
		{
			name:           "idea only",
			input:          Input{Idea: "An AI chatbot for clinics"},
			wantCategory:   models.CategoryTech,
			wantFunding:    "₹5.0 L",
			wantBudgetFrom: synthesis.SourceSynthesized,
		},
		{
			name: "document with financials",
			input: Input{
				Idea:  "Organic farm produce boxes",
				Pitch: json.RawMessage(`{"financials":[{"year":1,"revenue":"₹6,00,000","cost":"800000","profit":-200000}]}`),
			},
			wantCategory:   models.CategoryAgriculture,
			wantFunding:    "₹8.0 L",
			wantBudgetFrom: synthesis.SourceSynthesized,
		},
		{
			name: "authoritative budget",
			input: Input{
				Idea:  "An AI chatbot for clinics",
				Pitch: json.RawMessage(`{"budget_breakdown":` + authoritativeBudget + `}`),
			},
			wantCategory:   models.CategoryTech,
			wantFunding:    "₹5.0 L",
			wantBudgetFrom: synthesis.SourceAuthoritative,
		},
		{
			name: "partial document",
			input: Input{
				Idea:  "Online store for handmade toys",
				Pitch: json.RawMessage(`{"_note":"model output truncated","raw_response":"{\"tagline\":"}`),
			},
			wantCategory:   models.CategoryEcommerce,
			wantFunding:    "₹5.0 L",
			wantBudgetFrom: synthesis.SourceSynthesized,
			wantPartial:    true,
		},
		{
			name:           "null pitch",
			input:          Input{Idea: "Neighbourhood bakery", Pitch: json.RawMessage(`null`)},
			wantCategory:   models.CategoryGeneral,
			wantFunding:    "₹5.0 L",
			wantBudgetFrom: synthesis.SourceSynthesized,
		},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCategory, out.Report.Category)
			assert.Equal(t, tt.wantFunding, out.Report.TotalFundingDisplay)
			assert.Equal(t, tt.wantBudgetFrom, out.Report.BudgetSource)
			assert.Equal(t, tt.wantPartial, out.Partial)
		})
	}
}

func TestExecute_AuthoritativeBudgetPassesThrough(t *testing.T) {
	budget := `{"Team": ["Engineers: ₹4.0 L"]}`
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{
		Idea:  "An AI chatbot for clinics",
		Pitch: json.RawMessage(`{"budget_breakdown": ` + budget + `}`),
	})
	require.NoError(t, err)
	assert.True(t, bytes.Equal([]byte(budget), out.Report.Budget.Authoritative))

	encoded, err := json.Marshal(out)
	require.NoError(t, err)

	var decoded struct {
		Report struct {
			Budget map[string][]string `json:"budget_breakdown"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, map[string][]string{"Team": {"Engineers: ₹4.0 L"}}, decoded.Report.Budget)
}

func TestExecute_OffSchemaSectionsDegrade(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{
		Idea: "Neighbourhood bakery",
		Pitch: json.RawMessage(`{
			"slides": [{"title": "Problem", "bullets": "single string bullet"}, "not a slide"],
			"financials": [{"year": 1, "revenue": 900000, "cost": 1500000, "profit": -600000}],
			"assumptions": "one assumption"
		}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "₹15.0 L", out.Report.TotalFundingDisplay)
	require.Len(t, out.Report.Financials, 1)
	assert.Equal(t, "₹9.0 L", out.Report.Financials[0].Revenue)

	out, err = h.Execute(context.Background(), &Input{
		Idea:  "Neighbourhood bakery",
		Pitch: json.RawMessage(`{"financials":"lots"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "₹5.0 L", out.Report.TotalFundingDisplay)
	assert.Empty(t, out.Report.Financials)
}

func TestExecute_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{name: "nothing to classify", input: Input{Idea: "   "}, wantErr: apperrors.ErrInvalidIdea},
		{name: "broken json", input: Input{Idea: "x", Pitch: json.RawMessage(`{"tagline":`)}, wantErr: apperrors.ErrInvalidDocument},
		{name: "not an object", input: Input{Idea: "x", Pitch: json.RawMessage(`[1,2]`)}, wantErr: apperrors.ErrInvalidDocument},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Execute(context.Background(), &tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg := &config.Config{Workers: map[string]config.WorkerConfig{TaskType: {Enabled: true, Timeout: 5000}}}
	assert.Equal(t, 5*time.Second, LoadConfig(cfg).Timeout)
	assert.Equal(t, 30*time.Second, LoadConfig(&config.Config{}).Timeout)
}
