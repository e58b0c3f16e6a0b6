package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/consulting-factory/internal/domain/dataset"
)

func TestRunOfflineScheduleCoversRoles(t *testing.T) {
	tables := map[string]*dataset.Table{"sales": salesTable()}
	profiles := dataset.ProfileAll(tables)

	acc := RunOffline(tables, profiles)
	require.NotEmpty(t, acc)

	tools := make([]string, 0, len(acc))
	for _, inv := range acc {
		assert.False(t, IsError(inv.Result), "tool %s failed: %v", inv.Tool, inv.Result)
		tools = append(tools, inv.Tool)
	}

	// one measure, one dimension, one time column and a churn flag in the
	// fixture means the full schedule fires
	assert.Equal(t, []string{
		ToolDataframeSummary,
		ToolRevenueSummary,
		ToolTopCategories,
		ToolTimeSeries,
		ToolChurnMetrics,
	}, tools)
}

func TestRunOfflineIsDeterministic(t *testing.T) {
	tables := map[string]*dataset.Table{"sales": salesTable()}
	profiles := dataset.ProfileAll(tables)

	first := RunOffline(tables, profiles)
	second := RunOffline(tables, profiles)
	assert.Equal(t, first, second)
}

func TestRunOfflineSummaryOnlyWithoutMeasures(t *testing.T) {
	tbl := &dataset.Table{
		Name:    "notes",
		Columns: []string{"category"},
		Rows:    [][]string{{"a"}, {"b"}, {"a"}},
		Kinds:   []dataset.Kind{dataset.KindObject},
	}
	tables := map[string]*dataset.Table{"notes": tbl}
	profiles := dataset.ProfileAll(tables)

	acc := RunOffline(tables, profiles)
	require.Len(t, acc, 1)
	assert.Equal(t, ToolDataframeSummary, acc[0].Tool)
}
