// cmd/pitchctl/render.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pitch-workers/internal/synthesis"
	"pitch-workers/internal/tracker"
)

var titleCase = cases.Title(language.English)

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func renderReport(w io.Writer, report synthesis.Report) error {
	fmt.Fprintf(w, "Category:       %s\n", report.Category)
	fmt.Fprintf(w, "Total funding:  %s\n", report.TotalFundingDisplay)

	fmt.Fprintf(w, "\nBudget breakdown (%s)\n", report.BudgetSource)
	if report.Budget.Source == synthesis.SourceAuthoritative {
		writeRaw(w, report.Budget.Authoritative)
	} else {
		for _, c := range report.Budget.Categories {
			fmt.Fprintf(w, "  %s\n", sectionTitle(c.Name))
			for _, item := range c.Items {
				fmt.Fprintf(w, "    - %s\n", item.Display)
			}
		}
	}

	fmt.Fprintf(w, "\nProfit model (%s)\n", report.ProfitSource)
	if report.ProfitModel.Source == synthesis.SourceAuthoritative {
		writeRaw(w, report.ProfitModel.Authoritative)
	} else {
		for _, a := range report.ProfitModel.Aspects {
			fmt.Fprintf(w, "  %s\n", sectionTitle(a.Name))
			for _, s := range a.Statements {
				fmt.Fprintf(w, "    - %s\n", s)
			}
		}
	}

	if len(report.Financials) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nFinancials")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  YEAR\tREVENUE\tCOST\tPROFIT")
	for _, row := range report.Financials {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", row.Year, row.Revenue, row.Cost, row.Profit)
	}
	return tw.Flush()
}

// writeRaw prints an authoritative section indented, or verbatim when it is
// not valid JSON.
func writeRaw(w io.Writer, raw json.RawMessage) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "  ", "  "); err != nil {
		fmt.Fprintf(w, "  %s\n", raw)
		return
	}
	fmt.Fprintf(w, "  %s\n", buf.String())
}

func sectionTitle(name string) string {
	return titleCase.String(strings.ReplaceAll(name, "_", " "))
}

func renderUpdate(w io.Writer, u tracker.Update, maxAttempts int) {
	switch {
	case u.State == tracker.StatePolling && u.Err != nil:
		fmt.Fprintf(w, "[%d/%d] status check failed, retrying: %v\n", u.Attempt, maxAttempts, u.Err)
	case u.State == tracker.StatePolling:
		fmt.Fprintf(w, "[%d/%d] %s\n", u.Attempt, maxAttempts, u.Status)
	default:
		fmt.Fprintf(w, "[%d/%d] %s\n", u.Attempt, maxAttempts, strings.ReplaceAll(string(u.State), "_", " "))
	}
}
