// internal/workers/pitch/generate-pitch/config.go
package generatepitch

import (
	"time"

	"pitch-workers/internal/common/config"
	"pitch-workers/internal/tracker"
)

type Config struct {
	// Timeout bounds one job activation. A tracking session cut short by it is
	// resumed on the next retry.
	Timeout    time.Duration
	Tracker    tracker.Config
	UseMockLLM bool
}

// LoadConfig derives the worker config from the application config.
func LoadConfig(cfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(cfg, TaskType)
	ps := cfg.PitchService

	return &Config{
		Timeout: config.GetDuration(wcfg.Timeout),
		Tracker: tracker.Config{
			PollInterval:         config.GetDuration(ps.PollInterval),
			MaxAttempts:          ps.MaxPollAttempts,
			MaxConsecutiveErrors: ps.MaxConsecutiveErrors,
		},
		UseMockLLM: ps.UseMockLLM,
	}
}
