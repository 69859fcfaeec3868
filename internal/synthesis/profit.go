package synthesis

import (
	"bytes"
	"encoding/json"

	"pitch-workers/internal/models"
)

type ProfitAspect struct {
	Name       string   `json:"name"`
	Statements []string `json:"statements"`
}

// ProfitModel mirrors Budget: the service's profit_basis verbatim, or the
// category template.
type ProfitModel struct {
	Source        Source
	Authoritative json.RawMessage
	Category      models.BusinessCategory
	Aspects       []ProfitAspect
}

// SynthesizeProfitModel returns profit_basis untouched when the document has one,
// otherwise the canned narrative for the classified category.
func SynthesizeProfitModel(idea string, doc *models.PitchDocument) ProfitModel {
	if doc.HasProfitBasis() {
		return ProfitModel{Source: SourceAuthoritative, Authoritative: doc.ProfitBasis}
	}

	category := Classify(idea, doc)
	return ProfitModel{
		Source:   SourceSynthesized,
		Category: category,
		Aspects:  renderProfitModel(category),
	}
}

func renderProfitModel(category models.BusinessCategory) []ProfitAspect {
	template, ok := profitTemplates[category]
	if !ok {
		template = profitTemplates[models.CategoryGeneral]
	}

	aspects := make([]ProfitAspect, 0, len(ProfitAspects))
	for _, name := range ProfitAspects {
		statements := make([]string, len(template[name]))
		copy(statements, template[name])
		aspects = append(aspects, ProfitAspect{Name: name, Statements: statements})
	}
	return aspects
}

// Aspect returns the statements of one aspect of a synthesized model.
func (p ProfitModel) Aspect(name string) []string {
	for _, a := range p.Aspects {
		if a.Name == name {
			return a.Statements
		}
	}
	return nil
}

func (p ProfitModel) MarshalJSON() ([]byte, error) {
	if p.Source == SourceAuthoritative {
		return p.Authoritative, nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range p.Aspects {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(a.Statements)
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
