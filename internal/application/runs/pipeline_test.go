package runs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/consulting-factory/internal/application/insights"
	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/infra/charts"
	"github.com/bryanwahyu/consulting-factory/internal/infra/dataset/csvdir"
)

const salesCSV = `order_date,region,revenue,churned
2024-01-05,north,10,true
2024-01-20,south,20,false
2024-02-03,north,30,true
2024-02-21,north,10,true
`

// offline pipeline end to end, no model and no network
func offlinePipeline() *Pipeline {
	return &Pipeline{
		Loader:      csvdir.NewLoader(),
		Insights:    insights.NewService(nil, 0.3, 1500),
		Renderer:    charts.NewRenderer(),
		Model:       "gpt-4o-mini",
		Temperature: 0.3,
		Offline:     true,
	}
}

func writeSales(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.csv"), []byte(salesCSV), 0o644))
	return dir
}

func TestExecuteOfflineWritesArtifacts(t *testing.T) {
	inputDir := writeSales(t)
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := offlinePipeline().Execute(context.Background(), "revenue check", inputDir, outDir)
	require.NoError(t, err)

	// canonical artifacts on disk
	data, err := os.ReadFile(out.SummaryPath)
	require.NoError(t, err)
	var result analysis.Result
	require.NoError(t, json.Unmarshal(data, &result))

	report, err := os.ReadFile(out.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "# Consulting Report")
	assert.Contains(t, string(report), "Offline mode enabled")

	// facts from the deterministic schedule
	assert.NotEmpty(t, result.KPIs)
	assert.NotEmpty(t, result.Tables)
	require.NotNil(t, result.Metadata)
	assert.True(t, result.Metadata.Offline)
	require.Len(t, result.Metadata.InputFiles, 1)
	assert.Len(t, result.Metadata.InputFiles[0].SHA256, 64)

	// roles recorded for every column
	require.Contains(t, result.Roles, "sales.csv")
	assert.Equal(t, "measure", result.Roles["sales.csv"]["revenue"].Role)
	assert.Equal(t, "time", result.Roles["sales.csv"]["order_date"].Role)
}

func TestExecuteOfflineWritesFallbackSlideOutline(t *testing.T) {
	inputDir := writeSales(t)
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := offlinePipeline().Execute(context.Background(), "revenue check", inputDir, outDir)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(outDir, SlidesFilename), out.SlidesPath)
	data, err := os.ReadFile(out.SlidesPath)
	require.NoError(t, err)

	var deck analysis.SlideDeckOutline
	require.NoError(t, json.Unmarshal(data, &deck))
	require.NotEmpty(t, deck.Slides)
	assert.Equal(t, "Executive summary", deck.Slides[0].Title)
}

func TestExecuteOfflineRendersCharts(t *testing.T) {
	inputDir := writeSales(t)
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := offlinePipeline().Execute(context.Background(), "revenue check", inputDir, outDir)
	require.NoError(t, err)

	require.NotEmpty(t, out.Result.Charts)
	for _, c := range out.Result.Charts {
		_, statErr := os.Stat(filepath.Join(outDir, c.Filename))
		assert.NoError(t, statErr)
	}
}

func TestExecuteSummaryRoundTrips(t *testing.T) {
	inputDir := writeSales(t)
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := offlinePipeline().Execute(context.Background(), "revenue check", inputDir, outDir)
	require.NoError(t, err)

	data, err := os.ReadFile(out.SummaryPath)
	require.NoError(t, err)
	var decoded analysis.Result
	require.NoError(t, json.Unmarshal(data, &decoded))

	reencoded, err := json.Marshal(&decoded)
	require.NoError(t, err)
	original, err := json.Marshal(out.Result)
	require.NoError(t, err)
	assert.JSONEq(t, string(original), string(reencoded))
}

func TestExecuteMissingInputDirFailsInLoadPhase(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")

	_, err := offlinePipeline().Execute(context.Background(), "brief", "/nonexistent/input", outDir)
	require.Error(t, err)

	var pe *PhaseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "load", pe.Phase)

	// failed runs leave no artifacts
	_, statErr := os.Stat(filepath.Join(outDir, SummaryFilename))
	assert.True(t, os.IsNotExist(statErr))
}
