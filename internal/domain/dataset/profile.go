package dataset

import (
	"math"
	"sort"
	"strings"
)

// InferredType is the semantic column type used by planning and analysis.
type InferredType string

const (
	TypeNumeric     InferredType = "numeric"
	TypeCategorical InferredType = "categorical"
	TypeDatetime    InferredType = "datetime"
	TypeText        InferredType = "text"
)

// Role is derived 1:1 from InferredType and never mutated independently.
type Role string

const (
	RoleMeasure   Role = "measure"
	RoleDimension Role = "dimension"
	RoleTime      Role = "time"
	RoleText      Role = "text"
)

// ColumnProfile carries the per-column stats embedded into LLM prompts.
// Stats are populated only for the fields relevant to the inferred type.
type ColumnProfile struct {
	Name         string       `json:"name"`
	Type         InferredType `json:"type"`
	Role         Role         `json:"role"`
	NonNullCount int          `json:"non_null_count"`
	MissingRatio float64      `json:"missing_ratio"`
	UniqueCount  int          `json:"unique_count"`
	Min          float64      `json:"min,omitempty"`
	Max          float64      `json:"max,omitempty"`
	Mean         float64      `json:"mean,omitempty"`
	TopValues    []string     `json:"top_values,omitempty"`
	MinDate      string       `json:"min_date,omitempty"`
	MaxDate      string       `json:"max_date,omitempty"`
}

// TableProfile is the schema profile of one table.
type TableProfile struct {
	Table    string          `json:"table"`
	RowCount int             `json:"row_count"`
	Columns  []ColumnProfile `json:"columns"`
}

const (
	uniqueRatioThreshold     = 0.9
	highCardinalityThreshold = 50
	topValueCount            = 5
)

// isIdentifierName flags id-style names: an `id` suffix or an embedded `_id`,
// case-insensitive. Identifier columns are never measures.
func isIdentifierName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, "id") || strings.Contains(lower, "_id")
}

// RoleFor maps an inferred type to its analytical role. Pure; column names
// and brief content never influence the mapping.
func RoleFor(t InferredType) Role {
	switch t {
	case TypeDatetime:
		return RoleTime
	case TypeNumeric:
		return RoleMeasure
	case TypeCategorical:
		return RoleDimension
	default:
		return RoleText
	}
}

// InferType applies the classification rules in priority order, first match
// wins:
//  1. native datetime column -> datetime
//  2. numeric with <=2 distinct values -> categorical (boolean-ish flags)
//  3. numeric with unique ratio > 0.9 or identifier name -> text (IDs)
//  4. remaining numeric -> numeric
//  5. object with unique ratio > 0.9 or identifier name -> text
//  6. object with unique count above the high-cardinality threshold -> text
//  7. remaining object -> categorical
func InferType(name string, kind Kind, nonNull, unique int) InferredType {
	if kind == KindDatetime {
		return TypeDatetime
	}
	ratio := 0.0
	if nonNull > 0 {
		ratio = float64(unique) / float64(nonNull)
	}
	if kind == KindNumeric {
		if unique <= 2 {
			return TypeCategorical
		}
		if ratio > uniqueRatioThreshold || isIdentifierName(name) {
			return TypeText
		}
		return TypeNumeric
	}
	if ratio > uniqueRatioThreshold || isIdentifierName(name) {
		return TypeText
	}
	if unique > highCardinalityThreshold {
		return TypeText
	}
	return TypeCategorical
}

// Profile computes one ColumnProfile per column of a table.
func Profile(t *Table) TableProfile {
	tp := TableProfile{Table: t.Name, RowCount: t.RowCount()}
	for _, col := range t.Columns {
		tp.Columns = append(tp.Columns, profileColumn(t, col))
	}
	return tp
}

// ProfileAll profiles every table, keyed by table name.
func ProfileAll(tables map[string]*Table) map[string]TableProfile {
	out := make(map[string]TableProfile, len(tables))
	for name, t := range tables {
		out[name] = Profile(t)
	}
	return out
}

func profileColumn(t *Table, col string) ColumnProfile {
	cells := t.Column(col)
	total := len(cells)

	nonNull := 0
	uniques := map[string]int{}
	for _, c := range cells {
		if strings.TrimSpace(c) == "" {
			continue
		}
		nonNull++
		uniques[c]++
	}

	missing := 0.0
	if total > 0 {
		missing = round3(float64(total-nonNull) / float64(total))
	}

	p := ColumnProfile{
		Name:         col,
		NonNullCount: nonNull,
		MissingRatio: missing,
		UniqueCount:  len(uniques),
	}
	p.Type = InferType(col, t.Kind(col), nonNull, len(uniques))
	p.Role = RoleFor(p.Type)

	switch p.Type {
	case TypeNumeric:
		nums := t.NumericColumn(col)
		if len(nums) > 0 {
			minV, maxV, sum := nums[0], nums[0], 0.0
			for _, v := range nums {
				minV = math.Min(minV, v)
				maxV = math.Max(maxV, v)
				sum += v
			}
			p.Min = round2(minV)
			p.Max = round2(maxV)
			p.Mean = round2(sum / float64(len(nums)))
		}
	case TypeCategorical:
		p.TopValues = topValues(uniques, topValueCount)
	case TypeDatetime:
		var minT, maxT string
		for _, c := range cells {
			d, ok := ParseDate(c)
			if !ok {
				continue
			}
			s := d.Format("2006-01-02")
			if minT == "" || s < minT {
				minT = s
			}
			if s > maxT {
				maxT = s
			}
		}
		p.MinDate = minT
		p.MaxDate = maxT
	}
	return p
}

// topValues ranks by count desc, ties broken by value for determinism.
func topValues(counts map[string]int, n int) []string {
	type kv struct {
		val   string
		count int
	}
	pairs := make([]kv, 0, len(counts))
	for v, c := range counts {
		pairs = append(pairs, kv{v, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].val < pairs[j].val
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.val)
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
