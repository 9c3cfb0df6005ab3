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

// Package csvparser splits one record's text into fields and encodes
// fields back into record text. Parsing is deliberately lenient: an
// unterminated quote is closed implicitly at end of input instead of
// failing, because a live editor has to stay usable on imperfect data.
package csvparser

import (
	"strings"
)

// ParseLine splits one record into its ordered fields. Fields are
// comma separated; a field may be quoted with `"`, a doubled quote
// inside a quoted field is one literal quote, and a comma or newline
// inside a quoted field is literal. A single trailing record
// terminator (\n or \r\n) is ignored. Interior whitespace is kept;
// value-level trimming belongs to the caller. An empty record yields
// no fields.
func ParseLine(line string) []string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	if line == "" {
		return nil
	}

	fields := make([]string, 0, strings.Count(line, ",")+1)
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"' && !inQuotes:
			inQuotes = true
		case c == '"' && inQuotes:
			if i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = false
			}
		case c == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	// An unterminated quote falls through here: end of input closes it.
	fields = append(fields, current.String())
	return fields
}

// SplitRecords splits flattened CSV text into records on newlines
// outside quoted spans, using the same naive quote toggle as the file
// indexer. Record terminators are not included; a trailing newline
// does not produce an empty final record.
func SplitRecords(text string) []string {
	if text == "" {
		return nil
	}
	var records []string
	start := 0
	inQuotes := false
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"':
			inQuotes = !inQuotes
		case '\n':
			if !inQuotes {
				records = append(records, text[start:i])
				start = i + 1
			}
		}
	}
	if start < len(text) {
		records = append(records, text[start:])
	}
	return records
}

// NeedsQuoting reports whether a field must be quoted when encoded.
func NeedsQuoting(field string) bool {
	return strings.ContainsAny(field, ",\"\n")
}

// EncodeLine renders fields as one record, without a terminator.
// Fields containing a comma, quote, or newline are wrapped in quotes
// with interior quotes doubled.
func EncodeLine(fields []string) string {
	var b strings.Builder
	EncodeLineTo(&b, fields)
	return b.String()
}

// EncodeLineTo appends the encoded record to b.
func EncodeLineTo(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		if NeedsQuoting(field) {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		} else {
			b.WriteString(field)
		}
	}
}
