// internal/models/idea.go
package models

import "strings"

type Audience string

const (
	AudienceInvestors Audience = "investors"
	AudienceCustomers Audience = "customers"
	AudiencePartners  Audience = "partners"
)

type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneConcise      Tone = "concise"
	ToneVisionary    Tone = "visionary"
	ToneEnthusiastic Tone = "enthusiastic"
)

var (
	Audiences = []Audience{AudienceInvestors, AudienceCustomers, AudiencePartners}
	Tones     = []Tone{ToneProfessional, ToneCasual, ToneConcise, ToneVisionary, ToneEnthusiastic}
)

// Idea is the user's submission. It is never modified after Submit.
type Idea struct {
	Idea     string   `json:"idea"`
	Audience Audience `json:"audience"`
	Tone     Tone     `json:"tone"`
	// UseMockLLM asks the service for its canned local generator.
	UseMockLLM bool `json:"use_mock_llm,omitempty"`
}

// WithDefaults fills an empty audience and tone the same way the pitch service does.
func (i Idea) WithDefaults() Idea {
	i.Idea = strings.TrimSpace(i.Idea)
	if i.Audience == "" {
		i.Audience = AudienceInvestors
	}
	if i.Tone == "" {
		i.Tone = ToneProfessional
	}
	return i
}
