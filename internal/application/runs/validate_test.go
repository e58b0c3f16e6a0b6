package runs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runOffline(t *testing.T) string {
	t.Helper()
	inputDir := writeSales(t)
	outDir := filepath.Join(t.TempDir(), "out")
	_, err := offlinePipeline().Execute(context.Background(), "revenue check", inputDir, outDir)
	require.NoError(t, err)
	return outDir
}

func TestValidateArtifactsPassesOnFreshRun(t *testing.T) {
	outDir := runOffline(t)

	failures, err := ValidateArtifacts(outDir)
	require.NoError(t, err)
	assert.Empty(t, failures)
}

func TestValidateArtifactsFlagsTamperedReport(t *testing.T) {
	outDir := runOffline(t)
	reportPath := filepath.Join(outDir, ReportFilename)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	tampered := strings.ReplaceAll(string(data), "## Data highlights", "## Nothing to see")
	tampered = strings.ReplaceAll(tampered, "**", "")
	require.NoError(t, os.WriteFile(reportPath, []byte(tampered), 0o644))

	failures, err := ValidateArtifacts(outDir)
	require.NoError(t, err)
	assert.NotEmpty(t, failures)
}

func TestValidateArtifactsFlagsMissingChartFile(t *testing.T) {
	outDir := runOffline(t)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	removed := false
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".svg") {
			require.NoError(t, os.Remove(filepath.Join(outDir, e.Name())))
			removed = true
			break
		}
	}
	require.True(t, removed, "expected at least one chart in the run dir")

	failures, err := ValidateArtifacts(outDir)
	require.NoError(t, err)
	assert.NotEmpty(t, failures)
}

func TestValidateArtifactsErrorsOnMissingSummary(t *testing.T) {
	_, err := ValidateArtifacts(t.TempDir())
	assert.Error(t, err)
}
