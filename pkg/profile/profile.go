// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package profile infers column types and computes descriptive
// statistics over a column's values. Profiles are derived snapshots:
// recomputed on demand, never persisted.
package profile

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/axiomhq/hyperloglog"
)

// InferredType is the detected data type of a column.
type InferredType uint8

const (
	TypeInteger InferredType = iota
	TypeFloat
	TypeBoolean
	TypeDate
	TypeText
	TypeEmpty
	TypeMixed
)

func (t InferredType) String() string {
	switch t {
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeBoolean:
		return "Boolean"
	case TypeDate:
		return "Date"
	case TypeText:
		return "Text"
	case TypeEmpty:
		return "Empty"
	case TypeMixed:
		return "Mixed"
	}
	return "Unknown"
}

// dominanceThreshold is the fraction of non-null values a candidate
// type must exceed to claim the column. A heuristic kept for
// compatibility, not tuned.
const dominanceThreshold = 0.8

// exactCardinalityLimit bounds the exact value-count map. Columns
// with more distinct values fall back to a hyperloglog estimate, so
// profiling stays bounded in memory on unbounded-cardinality input.
const exactCardinalityLimit = 1 << 14

// ValueCount is one entry of the top-values ranking.
type ValueCount struct {
	Value string
	Count int
}

// NumericStats aggregates the values that parsed as numbers. StdDev
// is the population standard deviation.
type NumericStats struct {
	Min    float64
	Max    float64
	Sum    float64
	Mean   float64
	StdDev float64
}

// ColumnProfile is a derived, read-only snapshot of one column.
type ColumnProfile struct {
	ColumnIndex int
	Header      string
	DataType    InferredType
	TotalCount  int
	NullCount   int
	// UniqueCount is exact up to exactCardinalityLimit distinct
	// values; past that it is a hyperloglog estimate.
	UniqueCount      int
	UniqueIsEstimate bool
	// Numeric is nil when no value parsed as a number.
	Numeric *NumericStats
	// TopValues holds at most 5 values, by descending count, ties by
	// value.
	TopValues []ValueCount
	// NullRows marks the row positions that held null values.
	NullRows *roaring.Bitmap
}

// NullPercentage returns the null share of the column as a percentage.
func (p *ColumnProfile) NullPercentage() float64 {
	if p.TotalCount == 0 {
		return 0
	}
	return float64(p.NullCount) / float64(p.TotalCount) * 100
}

// isNull reports whether a trimmed value is a null marker.
func isNull(trimmed string) bool {
	return trimmed == "" ||
		strings.EqualFold(trimmed, "null") ||
		strings.EqualFold(trimmed, "na") ||
		strings.EqualFold(trimmed, "n/a")
}

// AnalyzeColumn profiles one column's ordered values.
func AnalyzeColumn(header string, colIndex int, values []string) *ColumnProfile {
	p := &ColumnProfile{
		ColumnIndex: colIndex,
		Header:      header,
		TotalCount:  len(values),
		NullRows:    roaring.New(),
	}
	if len(values) == 0 {
		p.DataType = TypeEmpty
		return p
	}

	nonNull := make([]string, 0, len(values))
	counts := make(map[string]int)
	sketch := hyperloglog.New14()
	overflowed := false

	for i, val := range values {
		trimmed := strings.TrimSpace(val)
		if isNull(trimmed) {
			p.NullCount++
			p.NullRows.Add(uint32(i))
			continue
		}
		nonNull = append(nonNull, trimmed)
		sketch.Insert([]byte(trimmed))
		if _, seen := counts[trimmed]; seen || len(counts) < exactCardinalityLimit {
			counts[trimmed]++
		} else {
			overflowed = true
		}
	}

	if overflowed {
		p.UniqueCount = int(sketch.Estimate())
		p.UniqueIsEstimate = true
	} else {
		p.UniqueCount = len(counts)
	}
	p.TopValues = topValues(counts, 5)

	dataType, numeric := inferType(nonNull)
	p.DataType = dataType
	if len(numeric) > 0 {
		p.Numeric = computeStats(numeric)
	}
	return p
}

func topValues(counts map[string]int, n int) []ValueCount {
	ranked := make([]ValueCount, 0, len(counts))
	for value, count := range counts {
		ranked = append(ranked, ValueCount{Value: value, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Value < ranked[j].Value
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// inferType classifies the non-null values and returns the values
// that parsed as numbers. Priority and thresholds follow the original
// heuristics: each candidate needs a strict 80% majority, integers
// claim boolean-looking 1/0 first, and a single residual text value
// is enough to classify an undominated column as Text.
func inferType(values []string) (InferredType, []float64) {
	if len(values) == 0 {
		return TypeEmpty, nil
	}

	var intCount, floatCount, boolCount, dateCount, textCount int
	var numeric []float64

	for _, val := range values {
		if _, err := strconv.ParseInt(val, 10, 64); err == nil {
			intCount++
			if n, err := strconv.ParseFloat(val, 64); err == nil {
				numeric = append(numeric, n)
			}
			continue
		}
		if n, err := strconv.ParseFloat(val, 64); err == nil {
			floatCount++
			numeric = append(numeric, n)
			continue
		}
		if isBoolWord(val) {
			boolCount++
			continue
		}
		if isDateLike(val) {
			dateCount++
			continue
		}
		textCount++
	}

	total := float64(len(values))
	intRatio := float64(intCount) / total
	floatRatio := float64(floatCount) / total
	boolRatio := float64(boolCount) / total
	dateRatio := float64(dateCount) / total

	switch {
	case intRatio > dominanceThreshold:
		return TypeInteger, numeric
	case intRatio+floatRatio > dominanceThreshold:
		return TypeFloat, numeric
	case boolRatio > dominanceThreshold:
		return TypeBoolean, nil
	case dateRatio > dominanceThreshold:
		return TypeDate, nil
	case textCount > 0:
		return TypeText, nil
	default:
		return TypeMixed, numeric
	}
}

func isBoolWord(val string) bool {
	switch strings.ToLower(val) {
	case "true", "false", "yes", "no", "1", "0":
		return true
	}
	return false
}

// isDateLike matches a loose 3-part numeric pattern separated by `-`
// or `/`, e.g. 2024-01-31 or 31/01/2024.
func isDateLike(val string) bool {
	if !strings.ContainsAny(val, "-/") {
		return false
	}
	parts := strings.Split(strings.ReplaceAll(val, "/", "-"), "-")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if _, err := strconv.ParseUint(part, 10, 32); err != nil {
			return false
		}
	}
	return true
}

func computeStats(numeric []float64) *NumericStats {
	stats := &NumericStats{Min: numeric[0], Max: numeric[0]}
	for _, n := range numeric {
		stats.Sum += n
		if n < stats.Min {
			stats.Min = n
		}
		if n > stats.Max {
			stats.Max = n
		}
	}
	count := float64(len(numeric))
	stats.Mean = stats.Sum / count

	var variance float64
	for _, n := range numeric {
		d := n - stats.Mean
		variance += d * d
	}
	variance /= count
	stats.StdDev = math.Sqrt(variance)
	return stats
}
