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

package csvparser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"doubled quote", `a,"say ""hi""",b`, []string{"a", `say "hi"`, "b"}},
		{"quoted newline", "a,\"b\nc\",d", []string{"a", "b\nc", "d"}},
		{"empty fields", "a,,c,", []string{"a", "", "c", ""}},
		{"whitespace kept", " a , b ", []string{" a ", " b "}},
		{"trailing lf", "a,b\n", []string{"a", "b"}},
		{"trailing crlf", "a,b\r\n", []string{"a", "b"}},
		{"empty", "", nil},
		{"lone newline", "\n", nil},
		{"single field", "x", []string{"x"}},
		{"unterminated quote", `a,"bc`, []string{"a", "bc"}},
		{"quote mid field", `a"b,c`, []string{"ab,c"}},
		{"multibyte", "日,本,語", []string{"日", "本", "語"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseLine(tt.line))
		})
	}
}

func TestEncodeLine(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   string
	}{
		{"simple", []string{"a", "b", "c"}, "a,b,c"},
		{"comma", []string{"a", "b,c"}, `a,"b,c"`},
		{"quote", []string{`say "hi"`}, `"say ""hi"""`},
		{"newline", []string{"a\nb"}, "\"a\nb\""},
		{"empty fields", []string{"", ""}, ","},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EncodeLine(tt.fields))
		})
	}
}

func TestSplitRecords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"no terminator", "a,b", []string{"a,b"}},
		{"terminated", "a,b\n1,2\n", []string{"a,b", "1,2"}},
		{"quoted newline", "a,\"b\nc\"\n1,2", []string{"a,\"b\nc\"", "1,2"}},
		{"empty line", "a\n\nb", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SplitRecords(tt.text))
		})
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	rows := [][]string{
		{"plain", "with,comma", `with "quote"`, "with\nnewline"},
		{"", " padded ", "ümlaut"},
		{"solo"},
	}
	for _, fields := range rows {
		require.Equal(t, fields, ParseLine(EncodeLine(fields)))
	}
}
