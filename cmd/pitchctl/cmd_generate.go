// cmd/pitchctl/cmd_generate.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pitch-workers/internal/models"
	"pitch-workers/internal/synthesis"
	"pitch-workers/internal/tracker"
)

var generateCmd = &cobra.Command{
	Use:   "generate [idea]",
	Short: "Submit an idea and follow the job to completion",
	Long: `Submits a business idea to the pitch service, polls the job until it
finishes and prints the reconciled budget, profit model and financials.

Interrupting the command stops polling; the job keeps running on the service
and can be inspected later with "pitchctl status".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.String("idea", "", "business idea (or pass it as the argument)")
	f.String("audience", string(models.AudienceInvestors), "target audience")
	f.String("tone", string(models.ToneProfessional), "presentation tone")
	f.Bool("mock", false, "ask the service for its local mock generator")
	f.StringP("out", "o", "", "save the generated pptx to this path")
	f.Duration("poll-interval", tracker.DefaultPollInterval, "delay between status checks")
	f.Int("max-attempts", tracker.DefaultMaxAttempts, "status checks before giving up")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	idea, _ := cmd.Flags().GetString("idea")
	if idea == "" && len(args) > 0 {
		idea = args[0]
	}
	if strings.TrimSpace(idea) == "" {
		return fmt.Errorf("an idea is required")
	}
	audience, _ := cmd.Flags().GetString("audience")
	tone, _ := cmd.Flags().GetString("tone")
	mock, _ := cmd.Flags().GetBool("mock")
	out, _ := cmd.Flags().GetString("out")
	interval, _ := cmd.Flags().GetDuration("poll-interval")
	attempts, _ := cmd.Flags().GetInt("max-attempts")

	log := newLogger()
	api, err := newAPIClient(log)
	if err != nil {
		return err
	}

	cfg := tracker.DefaultConfig()
	cfg.PollInterval = interval
	cfg.MaxAttempts = attempts
	supervisor := tracker.NewSupervisor(tracker.New(api, cfg, log), log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := cmd.ErrOrStderr()
	job, err := supervisor.Start(ctx, models.Idea{
		Idea:       idea,
		Audience:   models.Audience(audience),
		Tone:       models.Tone(tone),
		UseMockLLM: mock,
	}, func(u tracker.Update) {
		renderUpdate(progress, u, attempts)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(progress, "submitted job %s\n", job.ID)

	outcome, ok := supervisor.Wait()
	if !ok || outcome.Cancelled {
		return fmt.Errorf("stopped following job %s; check it later with: pitchctl status %s", job.ID, job.ID)
	}
	if !outcome.Completed() {
		return outcome.Err
	}
	if outcome.Err != nil {
		fmt.Fprintf(progress, "warning: pitch document unavailable: %v\n", outcome.Err)
	}

	report := synthesis.Reconcile(idea, outcome.Document)
	result := generateResult{
		JobID:    job.ID,
		Attempts: outcome.Attempts,
		Duration: outcome.Duration.Round(time.Millisecond).String(),
		Report:   report,
	}
	if outcome.DownloadRef != "" {
		result.DownloadURL, _ = api.ResolveURL(outcome.DownloadRef)
	}

	if out != "" && outcome.DownloadRef != "" {
		if err := savePPTX(ctx, api, outcome.DownloadRef, out); err != nil {
			return err
		}
		result.SavedTo = out
		fmt.Fprintf(progress, "saved presentation to %s\n", out)
	}

	w := cmd.OutOrStdout()
	if settings.GetBool("json") {
		return renderJSON(w, result)
	}
	if result.DownloadURL != "" {
		fmt.Fprintf(w, "Download:       %s\n", result.DownloadURL)
	}
	return renderReport(w, report)
}

type generateResult struct {
	JobID       string           `json:"job_id"`
	Attempts    int              `json:"attempts"`
	Duration    string           `json:"duration"`
	DownloadURL string           `json:"download_url,omitempty"`
	SavedTo     string           `json:"saved_to,omitempty"`
	Report      synthesis.Report `json:"report"`
}

type downloader interface {
	Download(ctx context.Context, ref string, w io.Writer) (int64, error)
}

func savePPTX(ctx context.Context, api downloader, ref, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := api.Download(ctx, ref, f); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("download presentation: %w", err)
	}
	return f.Close()
}
