package runs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bryanwahyu/consulting-factory/internal/application/analyze"
	"github.com/bryanwahyu/consulting-factory/internal/application/insights"
	"github.com/bryanwahyu/consulting-factory/internal/application/plan"
	"github.com/bryanwahyu/consulting-factory/internal/application/slides"
	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/domain/dataset"
	"github.com/bryanwahyu/consulting-factory/internal/infra/dataset/csvdir"
)

const (
	SummaryFilename = "analysis_summary.json"
	ReportFilename  = "consulting_report.md"
	SlidesFilename  = "slide_outline.json"
)

// PhaseError tags a pipeline failure with the phase it happened in, so the
// caller can persist a precise error record.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string { return fmt.Sprintf("%s: %v", e.Phase, e.Err) }
func (e *PhaseError) Unwrap() error { return e.Err }

func phaseErr(phase string, err error) error { return &PhaseError{Phase: phase, Err: err} }

// Pipeline runs one complete analysis locally: load, profile, plan, analyze,
// narrate, write artifacts. No persistence and no object storage; the CLI
// uses it directly and the service wraps it.
type Pipeline struct {
	Loader      *csvdir.Loader
	Planner     *plan.Service
	Engine      *analyze.Engine
	Insights    *insights.Service
	Slides      *slides.Service
	Renderer    analysis.ChartRenderer
	Model       string
	Temperature float64
	Offline     bool
}

// Output of one pipeline execution. Paths are absolute inside OutDir.
type Output struct {
	Result      *analysis.Result
	SummaryPath string
	ReportPath  string
	SlidesPath  string
	Report      string
}

// Execute runs the whole pipeline. On failure nothing is written to outDir.
func (p *Pipeline) Execute(ctx context.Context, brief, inputDir, outDir string) (*Output, error) {
	tables, inputFiles, err := p.Loader.Load(inputDir)
	if err != nil {
		return nil, phaseErr("load", err)
	}
	profiles := dataset.ProfileAll(tables)

	var pl analysis.Plan
	if p.Offline {
		pl = plan.Fallback(brief, profiles)
	} else {
		pl, err = p.Planner.Generate(ctx, brief, profiles)
		if err != nil {
			return nil, phaseErr("plan", err)
		}
	}

	var invocations []analyze.Invocation
	if p.Offline {
		invocations = analyze.RunOffline(tables, profiles)
	} else {
		invocations, err = p.Engine.Run(ctx, pl, tables)
		if err != nil {
			return nil, phaseErr("analyze", err)
		}
	}
	facts := analyze.Convert(invocations)

	result := &analysis.Result{
		Plan:   pl,
		KPIs:   facts.KPIs,
		Tables: facts.Tables,
		Roles:  rolesFromProfiles(profiles),
		Metadata: &analysis.RunMetadata{
			RunTimestamp: time.Now().UTC().Format(time.RFC3339),
			Model:        p.Model,
			Temperature:  p.Temperature,
			Offline:      p.Offline,
			InputFiles:   inputFiles,
		},
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, phaseErr("analyze", err)
	}
	result.Charts = p.renderCharts(facts.Tables, outDir)

	report, err := p.Insights.BuildReport(ctx, brief, result, p.Offline)
	if err != nil {
		removeCharts(outDir, result.Charts)
		return nil, phaseErr("narrative", err)
	}

	summaryPath := filepath.Join(outDir, SummaryFilename)
	reportPath := filepath.Join(outDir, ReportFilename)
	if err := writeJSON(summaryPath, result); err != nil {
		removeCharts(outDir, result.Charts)
		return nil, phaseErr("narrative", err)
	}
	if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil {
		removeCharts(outDir, result.Charts)
		os.Remove(summaryPath)
		return nil, phaseErr("narrative", err)
	}

	slidesPath := p.writeSlideOutline(ctx, report, outDir)

	return &Output{Result: result, SummaryPath: summaryPath, ReportPath: reportPath, SlidesPath: slidesPath, Report: report}, nil
}

// writeSlideOutline writes the optional slide_outline.json. The outline never
// fails a run: a bad model turn falls back to the deterministic deck, exactly
// like an offline run.
func (p *Pipeline) writeSlideOutline(ctx context.Context, report, outDir string) string {
	deck := slides.Fallback()
	if !p.Offline && p.Slides != nil {
		generated, err := p.Slides.Outline(ctx, report)
		if err != nil {
			log.Printf("slide outline fell back to the deterministic deck: %v", err)
		} else {
			deck = generated
		}
	}
	slidesPath := filepath.Join(outDir, SlidesFilename)
	if err := writeJSON(slidesPath, deck); err != nil {
		log.Printf("slide outline not written: %v", err)
		return ""
	}
	return slidesPath
}

// renderCharts draws one chart per chartable fact table. Rendering failures
// only drop the chart, never the run.
func (p *Pipeline) renderCharts(tables []analysis.NamedTable, outDir string) []analysis.ChartInfo {
	if p.Renderer == nil {
		return nil
	}
	var charts []analysis.ChartInfo
	for _, t := range tables {
		chartType := chartTypeFor(t)
		if chartType == "" {
			continue
		}
		filename := fmt.Sprintf("chart_%02d.svg", len(charts)+1)
		outPath := filepath.Join(outDir, filename)

		var err error
		if chartType == "line" {
			err = p.Renderer.RenderLine(t, outPath)
		} else {
			err = p.Renderer.RenderBar(t, outPath)
		}
		if err != nil {
			log.Printf("chart render skipped for %q: %v", t.Title, err)
			continue
		}
		charts = append(charts, analysis.ChartInfo{
			Title:       t.Title,
			ChartType:   chartType,
			Filename:    filename,
			Description: t.Description,
		})
	}
	return charts
}

// chartTypeFor: time series tables become line charts, rankings become bars.
func chartTypeFor(t analysis.NamedTable) string {
	if len(t.Rows) < 2 || len(t.Columns) != 2 {
		return ""
	}
	if strings.Contains(t.Title, "over time") {
		return "line"
	}
	if strings.HasPrefix(t.Title, "Top ") {
		return "bar"
	}
	return ""
}

// removeCharts keeps a failed run artifact-free.
func removeCharts(outDir string, charts []analysis.ChartInfo) {
	for _, c := range charts {
		os.Remove(filepath.Join(outDir, c.Filename))
	}
}

func rolesFromProfiles(profiles map[string]dataset.TableProfile) analysis.ColumnRoles {
	roles := make(analysis.ColumnRoles, len(profiles))
	for name, tp := range profiles {
		cols := make(map[string]analysis.ColumnRole, len(tp.Columns))
		for _, c := range tp.Columns {
			cols[c.Name] = analysis.ColumnRole{Role: string(c.Role), Dtype: string(c.Type)}
		}
		roles[name] = cols
	}
	return roles
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
