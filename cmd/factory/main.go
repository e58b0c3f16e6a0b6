package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bryanwahyu/consulting-factory/internal/application/analyze"
	"github.com/bryanwahyu/consulting-factory/internal/application/insights"
	planapp "github.com/bryanwahyu/consulting-factory/internal/application/plan"
	"github.com/bryanwahyu/consulting-factory/internal/application/slides"
	"github.com/bryanwahyu/consulting-factory/internal/config"
	"github.com/bryanwahyu/consulting-factory/internal/domain/dataset"
	aiclient "github.com/bryanwahyu/consulting-factory/internal/infra/ai/openai"
	"github.com/bryanwahyu/consulting-factory/internal/infra/ai/prompt"
	"github.com/bryanwahyu/consulting-factory/internal/infra/charts"
	"github.com/bryanwahyu/consulting-factory/internal/infra/dataset/csvdir"

	"github.com/bryanwahyu/consulting-factory/internal/application/runs"
)

// Slide outlines read better with a slightly looser temperature than the
// analytical calls.
const slidesTemperature = 0.4

// Local pipeline runner. No database and no object storage; artifacts land in
// the output directory only.
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "show-plan":
		cmdShowPlan(os.Args[2:])
	case "validate":
		cmdValidate(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  factory run -brief "..." -input DIR [-out DIR] [-config FILE] [-offline]
  factory show-plan -brief "..." -input DIR [-config FILE] [-offline]
  factory validate -dir DIR`)
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	brief := fs.String("brief", "", "business brief for the analysis")
	input := fs.String("input", "", "directory containing the input CSV files")
	out := fs.String("out", "reports/local", "output directory for artifacts")
	cfgPath := fs.String("config", "", "optional config.yaml path")
	offline := fs.Bool("offline", false, "run without any model calls")
	fs.Parse(args)

	pipeline := buildPipeline(*cfgPath, *offline)
	output, err := pipeline.Execute(context.Background(), *brief, *input, *out)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	fmt.Printf("summary: %s\n", output.SummaryPath)
	fmt.Printf("report:  %s\n", output.ReportPath)
	if output.SlidesPath != "" {
		fmt.Printf("slides:  %s\n", output.SlidesPath)
	}
	fmt.Printf("facts:   %d KPIs, %d tables, %d charts\n",
		len(output.Result.KPIs), len(output.Result.Tables), len(output.Result.Charts))
}

// cmdValidate cross-checks an existing run directory: report content against
// the serialized summary, chart files against their references.
func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	dir := fs.String("dir", "", "run output directory holding the artifacts")
	fs.Parse(args)

	failures, err := runs.ValidateArtifacts(*dir)
	if err != nil {
		log.Fatalf("validate failed: %v", err)
	}
	if len(failures) > 0 {
		for _, f := range failures {
			fmt.Fprintln(os.Stderr, f)
		}
		os.Exit(1)
	}
	fmt.Println("artifacts are consistent")
}

func cmdShowPlan(args []string) {
	fs := flag.NewFlagSet("show-plan", flag.ExitOnError)
	brief := fs.String("brief", "", "business brief for the analysis")
	input := fs.String("input", "", "directory containing the input CSV files")
	cfgPath := fs.String("config", "", "optional config.yaml path")
	offline := fs.Bool("offline", false, "derive the plan without any model calls")
	fs.Parse(args)

	pipeline := buildPipeline(*cfgPath, *offline)
	tables, _, err := pipeline.Loader.Load(*input)
	if err != nil {
		log.Fatalf("load failed: %v", err)
	}
	profiles := dataset.ProfileAll(tables)

	fmt.Println(prompt.FormatSchemaCompact(profiles))

	pl := planapp.Fallback(*brief, profiles)
	if !*offline {
		pl, err = pipeline.Planner.Generate(context.Background(), *brief, profiles)
		if err != nil {
			log.Fatalf("plan failed: %v", err)
		}
	}

	fmt.Printf("\nPlan: %s\n", pl.Title)
	for _, obj := range pl.Objectives {
		fmt.Printf("  objective: %s\n", obj)
	}
	for _, step := range pl.Steps {
		fmt.Printf("  step %s: %s\n", step.ID, step.Description)
	}
}

func buildPipeline(cfgPath string, offline bool) *runs.Pipeline {
	cfg := defaultConfig()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			log.Fatalf("config load error: %v", err)
		}
		cfg = loaded
	}
	if offline {
		cfg.Pipeline.Offline = true
	}

	client := aiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	return &runs.Pipeline{
		Loader:      csvdir.NewLoader(),
		Planner:     planapp.NewService(client, cfg.OpenAI.Temperature, cfg.OpenAI.MaxTokens),
		Engine:      analyze.NewEngine(client, cfg.Pipeline.MaxRounds, cfg.OpenAI.Temperature, cfg.OpenAI.MaxTokens),
		Insights:    insights.NewService(client, cfg.OpenAI.Temperature, cfg.OpenAI.MaxTokens),
		Slides:      slides.NewService(client, slidesTemperature, cfg.OpenAI.MaxTokens),
		Renderer:    charts.NewRenderer(),
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		Offline:     cfg.Pipeline.Offline,
	}
}

// defaultConfig mirrors config.Load defaults for config-less local runs.
func defaultConfig() *config.Config {
	cfg := &config.Config{}
	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAI.Model = "gpt-4o-mini"
	cfg.OpenAI.Temperature = 0.3
	cfg.OpenAI.MaxTokens = 1500
	cfg.Pipeline.ReportsDir = "reports"
	cfg.Pipeline.MaxRounds = 10
	return cfg
}
