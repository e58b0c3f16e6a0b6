package runs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
)

// ValidateArtifacts cross-checks a run directory: every fact serialized in
// analysis_summary.json must appear in consulting_report.md the way the
// renderer writes it, and every referenced chart file must exist on disk.
// Returned strings describe mismatches; an error means the artifacts could
// not be read at all.
func ValidateArtifacts(dir string) ([]string, error) {
	summaryPath := filepath.Join(dir, SummaryFilename)
	data, err := os.ReadFile(summaryPath)
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}
	var result analysis.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}

	reportBytes, err := os.ReadFile(filepath.Join(dir, ReportFilename))
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	report := string(reportBytes)

	var failures []string
	for _, kpi := range result.KPIs {
		line := fmt.Sprintf("**%s**: %s", kpi.Name, analysis.FormatNumber(kpi.Value))
		if !strings.Contains(report, line) {
			failures = append(failures, fmt.Sprintf("KPI %q formatted as %q not found in report", kpi.Name, line))
		}
	}
	for _, t := range result.Tables {
		if !strings.Contains(report, "### "+t.Title) {
			failures = append(failures, fmt.Sprintf("table %q not found in report", t.Title))
		}
	}
	for _, c := range result.Charts {
		if !strings.Contains(report, "`"+c.Filename+"`") {
			failures = append(failures, fmt.Sprintf("chart reference %q missing from report", c.Filename))
		}
		if _, err := os.Stat(filepath.Join(dir, c.Filename)); err != nil {
			failures = append(failures, fmt.Sprintf("chart file missing on disk: %s", c.Filename))
		}
	}
	if m := result.Metadata; m != nil {
		if m.Model != "" && !strings.Contains(report, m.Model) {
			failures = append(failures, fmt.Sprintf("model %q missing from report", m.Model))
		}
		for _, f := range m.InputFiles {
			digest := f.SHA256
			if len(digest) > 12 {
				digest = digest[:12]
			}
			if !strings.Contains(report, digest) {
				failures = append(failures, fmt.Sprintf("input digest for %s missing from report", f.Filename))
			}
		}
	}
	return failures, nil
}
