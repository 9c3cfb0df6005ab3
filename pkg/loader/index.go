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

package loader

// buildIndex scans data once and returns the byte offset of every
// record start. A record ends at a \n outside a quoted span; the quote
// state is a naive toggle on each `"` byte, matching the per-record
// parser's model. Bare \r bytes never terminate a record; the count of
// unquoted bare \r bytes is returned so callers can detect old
// Mac-style files that collapse into one giant record.
func buildIndex(data []byte) (offsets []int64, bareCR int) {
	if len(data) == 0 {
		return nil, 0
	}

	// The first record always starts at 0.
	offsets = append(offsets, 0)

	inQuote := false
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '"':
			inQuote = !inQuote
		case '\n':
			if !inQuote && i+1 < len(data) {
				offsets = append(offsets, int64(i+1))
			}
		case '\r':
			if !inQuote && (i+1 >= len(data) || data[i+1] != '\n') {
				bareCR++
			}
		}
	}
	return offsets, bareCR
}
