// internal/workers/pitch/generate-pitch/models.go
package generatepitch

import (
	"pitch-workers/internal/models"
	"pitch-workers/internal/synthesis"
)

type Input struct {
	Idea       string `json:"idea"`
	Audience   string `json:"audience"`
	Tone       string `json:"tone"`
	UseMockLLM *bool  `json:"useMockLlm,omitempty"`
}

func (in *Input) toIdea(defaultMock bool) models.Idea {
	mock := defaultMock
	if in.UseMockLLM != nil {
		mock = *in.UseMockLLM
	}
	return models.Idea{
		Idea:       in.Idea,
		Audience:   models.Audience(in.Audience),
		Tone:       models.Tone(in.Tone),
		UseMockLLM: mock,
	}.WithDefaults()
}

type Output struct {
	JobID         string                `json:"pitchJobId"`
	SessionID     string                `json:"trackingSessionId"`
	Attempts      int                   `json:"pollAttempts"`
	Resumed       bool                  `json:"resumed"`
	DownloadURL   string                `json:"downloadUrl,omitempty"`
	DocumentReady bool                  `json:"documentReady"`
	DocumentError string                `json:"documentError,omitempty"`
	Pitch         *models.PitchDocument `json:"pitch,omitempty"`
	Report        synthesis.Report      `json:"report"`
}
