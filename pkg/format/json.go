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

package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The archive metadata serializes the overlay as an object keyed by
// "row,col" strings. Keys are emitted in (row, col) order.

var _ json.Marshaler = (*FormatMap)(nil)
var _ json.Unmarshaler = (*FormatMap)(nil)

func (f *FormatMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var rangeErr error
	f.Range(func(row, col int, format CellFormat) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(fmt.Sprintf("%d,%d", row, col))
		if err != nil {
			rangeErr = err
			return false
		}
		value, err := json.Marshal(format)
		if err != nil {
			rangeErr = err
			return false
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
		return true
	})
	if rangeErr != nil {
		return nil, rangeErr
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f *FormatMap) UnmarshalJSON(data []byte) error {
	raw := map[string]CellFormat{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if f.tree == nil {
		*f = *NewFormatMap()
	} else {
		f.tree.Clear(false)
	}
	for key, format := range raw {
		parts := strings.Split(key, ",")
		if len(parts) != 2 {
			return fmt.Errorf("bad cell key %q", key)
		}
		row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return fmt.Errorf("bad cell key %q", key)
		}
		col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return fmt.Errorf("bad cell key %q", key)
		}
		f.Set(row, col, format)
	}
	return nil
}
