// cmd/pitchctl/cmd_status.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pitch-workers/internal/common/pitchapi"
)

var statusCmd = &cobra.Command{
	Use:   "status <job_id>",
	Short: "Show the status of a submitted job",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	api, err := newAPIClient(newLogger())
	if err != nil {
		return err
	}

	status, err := api.Status(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if status.JobID == "" {
		status.JobID = args[0]
	}

	w := cmd.OutOrStdout()
	if settings.GetBool("json") {
		return renderJSON(w, status)
	}

	fmt.Fprintf(w, "Job:     %s\n", status.JobID)
	fmt.Fprintf(w, "Status:  %s\n", status.Status)
	if status.Error != "" {
		fmt.Fprintf(w, "Error:   %s\n", status.Error)
	}
	if ref := pitchapi.DownloadRef(status); ref != "" {
		if abs, err := api.ResolveURL(ref); err == nil {
			ref = abs
		}
		fmt.Fprintf(w, "Download: %s\n", ref)
	}
	return nil
}
