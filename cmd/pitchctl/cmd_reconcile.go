// cmd/pitchctl/cmd_reconcile.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pitch-workers/internal/common/validation"
	"pitch-workers/internal/models"
	"pitch-workers/internal/synthesis"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Fill budget and profit sections of a pitch document",
	Long: `Classifies the idea, estimates total funding and prints the budget and
profit model. Sections the document already carries are printed as-is.

Without --file only the idea is used.`,
	Example: `  pitchctl reconcile --idea "Solar kiosks for villages"
  pitchctl reconcile --idea "Solar kiosks" --file pitch.json
  curl -s $API/api/v1/pitches/$JOB/pitch | pitchctl reconcile --file -`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().String("idea", "", "business idea")
	reconcileCmd.Flags().StringP("file", "f", "", `pitch document JSON ("-" for stdin)`)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	idea, _ := cmd.Flags().GetString("idea")
	file, _ := cmd.Flags().GetString("file")

	doc, err := readDocument(cmd.InOrStdin(), file)
	if err != nil {
		return err
	}
	if strings.TrimSpace(idea) == "" && doc == nil {
		return fmt.Errorf("--idea or --file is required")
	}

	report := synthesis.Reconcile(strings.TrimSpace(idea), doc)
	if doc.IsPartial() {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: document is a partial model response")
	}

	if settings.GetBool("json") {
		return renderJSON(cmd.OutOrStdout(), report)
	}
	return renderReport(cmd.OutOrStdout(), report)
}

// readDocument loads and validates a pitch document. An empty path means none.
func readDocument(stdin io.Reader, path string) (*models.PitchDocument, error) {
	var (
		raw []byte
		err error
	)
	switch path {
	case "":
		return nil, nil
	case "-":
		raw, err = io.ReadAll(stdin)
	default:
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	result, err := validation.Validate(validation.PitchDocumentSchema, json.RawMessage(raw))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid pitch document: %s", strings.Join(result.GetErrorMessages(), "; "))
	}

	var doc models.PitchDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid pitch document: %w", err)
	}
	return &doc, nil
}
