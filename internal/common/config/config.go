// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Database     DatabaseConfig          `mapstructure:"database"`
	PitchService PitchServiceConfig      `mapstructure:"pitch_service"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Logging      LoggingConfig           `mapstructure:"logging"`
	Metrics      MetricsConfig           `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	// ActivityRegistry is the JSON file documenting the task types served here.
	ActivityRegistry string `mapstructure:"activity_registry"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	Plaintext      bool   `mapstructure:"plaintext"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PitchServiceConfig points at the generation service and bounds how long a
// job is followed.
type PitchServiceConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	RequestTimeout       int    `mapstructure:"request_timeout"` // milliseconds
	PollInterval         int    `mapstructure:"poll_interval"`   // milliseconds
	MaxPollAttempts      int    `mapstructure:"max_poll_attempts"`
	MaxConsecutiveErrors int    `mapstructure:"max_consecutive_errors"`
	JobRegistryTTL       int    `mapstructure:"job_registry_ttl"` // milliseconds
	UseMockLLM           bool   `mapstructure:"use_mock_llm"`
}

// TrackingTimeout is the longest a full tracking session can take with the
// configured poll budget.
func (p PitchServiceConfig) TrackingTimeout() time.Duration {
	perAttempt := GetDuration(p.PollInterval) + GetDuration(p.RequestTimeout)
	return time.Duration(p.MaxPollAttempts) * perAttempt
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}
