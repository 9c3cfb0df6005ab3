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

package profile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntegerColumn(t *testing.T) {
	p := AnalyzeColumn("Numbers", 0, []string{"1", "2", "3", "4", "5"})
	require.Equal(t, TypeInteger, p.DataType)
	require.Equal(t, 5, p.TotalCount)
	require.Equal(t, 0, p.NullCount)
	require.Equal(t, 5, p.UniqueCount)
	require.NotNil(t, p.Numeric)
	require.Equal(t, 1.0, p.Numeric.Min)
	require.Equal(t, 5.0, p.Numeric.Max)
	require.Equal(t, 15.0, p.Numeric.Sum)
	require.Equal(t, 3.0, p.Numeric.Mean)
	require.InDelta(t, 1.4142, p.Numeric.StdDev, 1e-4)
}

func TestNullCount(t *testing.T) {
	p := AnalyzeColumn("WithNulls", 0, []string{"1", "", "3", "null", "5"})
	require.Equal(t, 5, p.TotalCount)
	require.Equal(t, 2, p.NullCount)
	require.Equal(t, 40.0, p.NullPercentage())
	require.Equal(t, []uint32{1, 3}, p.NullRows.ToArray())
}

func TestNullVocabulary(t *testing.T) {
	p := AnalyzeColumn("n", 0, []string{"  ", "NULL", "Na", "N/A", "x"})
	require.Equal(t, 4, p.NullCount)
}

func TestFloatColumn(t *testing.T) {
	p := AnalyzeColumn("f", 0, []string{"1.5", "2", "3.25", "4", "bad"})
	// 2 ints + 2 floats = 80% exactly, not enough; add one more float
	require.Equal(t, TypeText, p.DataType)

	p = AnalyzeColumn("f", 0, []string{"1.5", "2", "3.25", "4", "5.5"})
	require.Equal(t, TypeFloat, p.DataType)
	require.Equal(t, 16.25, p.Numeric.Sum)
}

func TestBooleanColumn(t *testing.T) {
	p := AnalyzeColumn("b", 0, []string{"true", "FALSE", "yes", "no", "true"})
	require.Equal(t, TypeBoolean, p.DataType)
	require.Nil(t, p.Numeric)
}

func TestDateColumn(t *testing.T) {
	p := AnalyzeColumn("d", 0, []string{"2024-01-01", "2024-1-2", "01/02/2024", "2024-12-31", "3-4-5"})
	require.Equal(t, TypeDate, p.DataType)
	require.Nil(t, p.Numeric)
}

func TestDateDominanceBoundary(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"}

	// 4 of 5 is exactly 80%: the strict threshold is not met
	p := AnalyzeColumn("d", 0, append(append([]string{}, dates...), "free text"))
	require.Equal(t, TypeText, p.DataType)

	// 5 of 6 clears it
	p = AnalyzeColumn("d", 0, append(append([]string{}, dates...), "2024-01-05", "free text"))
	require.Equal(t, TypeDate, p.DataType)
}

func TestEmptyColumn(t *testing.T) {
	p := AnalyzeColumn("e", 3, nil)
	require.Equal(t, TypeEmpty, p.DataType)
	require.Equal(t, 0, p.TotalCount)
	require.Equal(t, 0.0, p.NullPercentage())
	require.Equal(t, 3, p.ColumnIndex)
}

func TestAllNullColumn(t *testing.T) {
	p := AnalyzeColumn("n", 0, []string{"", "null", "NA"})
	require.Equal(t, TypeEmpty, p.DataType)
	require.Equal(t, 3, p.NullCount)
	require.Equal(t, 0, p.UniqueCount)
}

func TestMixedColumn(t *testing.T) {
	// ints and bool words only, no residual text, no dominant type
	p := AnalyzeColumn("m", 0, []string{"1", "2", "3", "yes", "no", "maybe"})
	require.Equal(t, TypeText, p.DataType)

	p = AnalyzeColumn("m", 0, []string{"7", "8", "9", "yes", "no"})
	require.Equal(t, TypeMixed, p.DataType)
	require.NotNil(t, p.Numeric)
}

func TestValuesAreTrimmedForClassification(t *testing.T) {
	p := AnalyzeColumn("t", 0, []string{" 1 ", "2", " 3"})
	require.Equal(t, TypeInteger, p.DataType)
}

func TestTopValues(t *testing.T) {
	values := []string{"b", "a", "b", "c", "a", "b", "d", "e", "f"}
	p := AnalyzeColumn("t", 0, values)
	require.Len(t, p.TopValues, 5)
	require.Equal(t, ValueCount{Value: "b", Count: 3}, p.TopValues[0])
	require.Equal(t, ValueCount{Value: "a", Count: 2}, p.TopValues[1])
	// ties rank by value for stability
	require.Equal(t, ValueCount{Value: "c", Count: 1}, p.TopValues[2])
	require.Equal(t, ValueCount{Value: "d", Count: 1}, p.TopValues[3])
}

func TestUniqueCountExact(t *testing.T) {
	values := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		values = append(values, fmt.Sprintf("v%d", i%250))
	}
	p := AnalyzeColumn("u", 0, values)
	require.Equal(t, 250, p.UniqueCount)
	require.False(t, p.UniqueIsEstimate)
}

func TestUniqueCountEstimateOnOverflow(t *testing.T) {
	n := exactCardinalityLimit * 2
	values := make([]string, 0, n)
	for i := 0; i < n; i++ {
		values = append(values, fmt.Sprintf("value-%d", i))
	}
	p := AnalyzeColumn("u", 0, values)
	require.True(t, p.UniqueIsEstimate)
	// hyperloglog at precision 14 stays well within 2% here
	require.InEpsilon(t, n, p.UniqueCount, 0.02)
}

func TestPopulationStdDev(t *testing.T) {
	p := AnalyzeColumn("s", 0, []string{"2", "4", "4", "4", "5", "5", "7", "9"})
	// the textbook population example: variance 4, stddev 2
	require.Equal(t, 2.0, p.Numeric.StdDev)
}
