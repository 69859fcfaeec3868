// internal/workers/pitch/reconcile-financials/config.go
package reconcilefinancials

import (
	"time"

	"pitch-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
