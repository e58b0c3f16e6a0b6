// Package csvdir loads a directory of delimited tabular files into in-memory
// tables, with SHA-256 provenance over the exact on-disk bytes.
package csvdir

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/domain/dataset"
)

// date-like name markers, same heuristic the planner stats rely on
var dateMarkers = []string{"date", "_at", "_on"}

type Loader struct{}

func NewLoader() *Loader { return &Loader{} }

// Load reads every *.csv in dir. Zero parseable tables is a configuration
// error, surfaced immediately.
func (l *Loader) Load(dir string) (map[string]*dataset.Table, []analysis.InputFileProfile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read input dir %s: %w", dir, err)
	}

	tables := map[string]*dataset.Table{}
	var profiles []analysis.InputFileProfile

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		t, err := parseCSV(name, raw)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		// digest of on-disk bytes, not of the in-memory table
		sum := sha256.Sum256(raw)
		profiles = append(profiles, analysis.InputFileProfile{
			Filename: name,
			Rows:     t.RowCount(),
			Columns:  len(t.Columns),
			SHA256:   hex.EncodeToString(sum[:]),
		})
		tables[name] = t
	}

	if len(tables) == 0 {
		return nil, nil, fmt.Errorf("%w in %s", analysis.ErrNoInputTables, dir)
	}
	return tables, profiles, nil
}

func parseCSV(name string, raw []byte) (*dataset.Table, error) {
	r := csv.NewReader(strings.NewReader(string(raw)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	header := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, len(header))
		for i := range header {
			if i < len(rec) {
				row[i] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}

	t := &dataset.Table{Name: name, Columns: header, Rows: rows}
	t.Kinds = sniffKinds(t)
	return t, nil
}

// sniffKinds detects the native kind per column: date-named columns whose
// values parse as dates become datetime (the only load-time coercion),
// fully numeric columns become numeric, everything else stays object.
func sniffKinds(t *dataset.Table) []dataset.Kind {
	kinds := make([]dataset.Kind, len(t.Columns))
	for i, col := range t.Columns {
		kinds[i] = sniffColumn(col, t.Column(col))
	}
	return kinds
}

func sniffColumn(name string, cells []string) dataset.Kind {
	if isDateName(name) && allParse(cells, func(c string) bool {
		_, ok := dataset.ParseDate(c)
		return ok
	}) {
		return dataset.KindDatetime
	}
	if allParse(cells, func(c string) bool {
		_, ok := dataset.ParseNumber(c)
		return ok
	}) {
		return dataset.KindNumeric
	}
	return dataset.KindObject
}

func isDateName(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range dateMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// allParse: every non-empty cell satisfies the predicate, and at least one
// non-empty cell exists.
func allParse(cells []string, ok func(string) bool) bool {
	seen := false
	for _, c := range cells {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if !ok(c) {
			return false
		}
		seen = true
	}
	return seen
}
