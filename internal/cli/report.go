package cli

import (
	"fmt"
	"io"

	"github.com/tsqlmod/tsqlmod/internal/migrate"
)

// UnitReport is the per-unit slice of a scan or apply result, shaped for
// JSON output.
type UnitReport struct {
	Unit        string   `json:"unit"`
	Changed     bool     `json:"changed"`
	Committed   bool     `json:"committed,omitempty"`
	BackupID    int64    `json:"backup_id,omitempty"`
	Issues      []string `json:"issues,omitempty"`
	NeedsReview bool     `json:"needs_review,omitempty"`
}

// ScanReport is the full result envelope of preview/apply/batch.
type ScanReport struct {
	Summary migrate.Summary `json:"summary"`
	Units   []UnitReport    `json:"units,omitempty"`
}

func buildScanReport(summary migrate.Summary, results []migrate.UnitResult) ScanReport {
	report := ScanReport{Summary: summary}
	for _, res := range results {
		ur := UnitReport{
			Unit:      res.Unit.String(),
			Changed:   res.Changed,
			Committed: res.Committed,
			BackupID:  res.BackupID,
		}
		if res.Report != nil {
			for _, issue := range res.Report.Issues {
				ur.Issues = append(ur.Issues, string(issue))
			}
			ur.NeedsReview = res.Report.NeedsReview()
		}
		report.Units = append(report.Units, ur)
	}
	return report
}

// render writes the report in the formatter's configured format. Text mode
// lists only units with findings, then the summary line.
func (r ScanReport) render(f *OutputFormatter) error {
	if f.Format == "json" {
		return f.Success(r)
	}
	return r.renderText(f.Writer)
}

func (r ScanReport) renderText(w io.Writer) error {
	for _, u := range r.Units {
		if !u.Changed && !u.NeedsReview {
			continue
		}
		fmt.Fprintf(w, "%s:\n", u.Unit)
		for _, issue := range u.Issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
		switch {
		case u.Committed:
			fmt.Fprintf(w, "  committed (backup %d)\n", u.BackupID)
		case u.BackupID != 0:
			fmt.Fprintf(w, "  backed up, not committed (backup %d)\n", u.BackupID)
		}
	}
	fmt.Fprintf(w, "examined %d, changed %d, committed %d, failed %d, needs review %d\n",
		r.Summary.Examined, r.Summary.Changed, r.Summary.Committed, r.Summary.Failed, r.Summary.NeedsReview)
	return nil
}
