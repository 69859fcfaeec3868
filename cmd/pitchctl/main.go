// cmd/pitchctl/main.go
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/pitchapi"
)

// settings resolve flag > PITCH_* environment > default.
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "pitchctl",
	Short: "Submit pitch ideas and reconcile their financials",
	Long: `pitchctl drives the pitch generation service from a terminal.

Available subcommands:
  generate  - Submit an idea and follow the job to completion
  status    - Show the status of a submitted job
  reconcile - Fill budget and profit sections of a pitch document
  health    - Check the pitch service`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("api-url", "http://localhost:8000", "pitch service base URL")
	pf.Duration("request-timeout", 10*time.Second, "timeout for a single request")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.Bool("json", false, "print machine readable JSON")

	settings.SetEnvPrefix("PITCH")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	_ = settings.BindPFlags(pf)

	rootCmd.AddCommand(generateCmd, statusCmd, reconcileCmd, healthCmd)
}

func newLogger() logger.Logger {
	return logger.NewStructured(settings.GetString("log-level"), "console", "stderr")
}

func newAPIClient(log logger.Logger) (*pitchapi.Client, error) {
	return pitchapi.NewClient(settings.GetString("api-url"), settings.GetDuration("request-timeout"), log)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
