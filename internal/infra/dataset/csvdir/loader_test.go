package csvdir

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/domain/dataset"
)

const salesCSV = `order_date,region,revenue,note
2024-01-05,north,10,first
2024-01-20,south,20,
2024-02-03,north,30,big deal
`

func writeInput(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadParsesAndSniffsKinds(t *testing.T) {
	dir := writeInput(t, map[string]string{"sales.csv": salesCSV})

	tables, profiles, err := NewLoader().Load(dir)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	tbl := tables["sales.csv"]
	require.NotNil(t, tbl)
	assert.Equal(t, []string{"order_date", "region", "revenue", "note"}, tbl.Columns)
	assert.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, dataset.KindDatetime, tbl.Kind("order_date"))
	assert.Equal(t, dataset.KindObject, tbl.Kind("region"))
	assert.Equal(t, dataset.KindNumeric, tbl.Kind("revenue"))

	require.Len(t, profiles, 1)
	assert.Equal(t, "sales.csv", profiles[0].Filename)
	assert.Equal(t, 3, profiles[0].Rows)
	assert.Equal(t, 4, profiles[0].Columns)
}

func TestLoadDigestsOnDiskBytes(t *testing.T) {
	dir := writeInput(t, map[string]string{"sales.csv": salesCSV})

	_, profiles, err := NewLoader().Load(dir)
	require.NoError(t, err)

	sum := sha256.Sum256([]byte(salesCSV))
	assert.Equal(t, hex.EncodeToString(sum[:]), profiles[0].SHA256)
}

func TestLoadSkipsNonCSVFiles(t *testing.T) {
	dir := writeInput(t, map[string]string{
		"sales.csv":  salesCSV,
		"readme.txt": "not data",
	})

	tables, _, err := NewLoader().Load(dir)
	require.NoError(t, err)
	assert.Len(t, tables, 1)
}

func TestLoadEmptyDirFails(t *testing.T) {
	dir := t.TempDir()
	_, _, err := NewLoader().Load(dir)
	assert.ErrorIs(t, err, analysis.ErrNoInputTables)
}

func TestLoadRaggedRowsPadded(t *testing.T) {
	dir := writeInput(t, map[string]string{"ragged.csv": "a,b,c\n1,2\n3,4,5,6\n"})

	tables, _, err := NewLoader().Load(dir)
	require.NoError(t, err)

	tbl := tables["ragged.csv"]
	require.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, []string{"1", "2", ""}, tbl.Rows[0])
	assert.Equal(t, []string{"3", "4", "5"}, tbl.Rows[1])
}

func TestSniffDateNameRequired(t *testing.T) {
	// parseable dates in a column without a date-like name stay object
	dir := writeInput(t, map[string]string{"t.csv": "label\n2024-01-05\n2024-01-06\n"})

	tables, _, err := NewLoader().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dataset.KindObject, tables["t.csv"].Kind("label"))
}
