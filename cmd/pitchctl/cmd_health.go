// cmd/pitchctl/cmd_health.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the pitch service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPIClient(newLogger())
		if err != nil {
			return err
		}
		health, err := api.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("pitch service unreachable: %w", err)
		}
		if settings.GetBool("json") {
			return renderJSON(cmd.OutOrStdout(), health)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", health.Status, settings.GetString("api-url"))
		return nil
	},
}
