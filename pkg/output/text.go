package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sambabib/env-checker/pkg/validator"
)

// PrintTextSummary prints the run summary in a tabular text format: one row
// per validation step, then one row per critical-package finding.
func PrintTextSummary(w io.Writer, summary validator.Summary) {
	const notesLimit = 60 // Max characters for notes column

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) // minwidth, tabwidth, padding, padchar, flags

	fmt.Fprintln(tw, "STEP\tRESULT\tDETAIL")
	fmt.Fprintln(tw, "----\t------\t------")
	for _, r := range []validator.Result{summary.Conflicts, summary.Versions, summary.Report} {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Step, passFail(r.Passed), r.Message)
	}
	tw.Flush()

	if len(summary.Versions.Findings) == 0 {
		return
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tINSTALLED\tMINIMUM\tMAXIMUM\tSTATUS\tSEVERITY\tNOTES")
	fmt.Fprintln(tw, "----\t---------\t-------\t-------\t------\t--------\t-----")

	for _, f := range summary.Versions.Findings {
		notes := f.Notes
		if len(notes) > notesLimit {
			notes = notes[:notesLimit-3] + "..."
		}
		notes = strings.ReplaceAll(notes, "\t", " ") // Replace tabs to avoid breaking alignment

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			f.Name,
			orDash(f.InstalledVersion),
			orDash(f.MinVersion),
			orDash(f.MaxVersion),
			f.Status,
			f.Severity,
			notes,
		)
	}

	tw.Flush()
}

func passFail(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
