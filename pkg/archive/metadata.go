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

package archive

import (
	"github.com/matrixorigin/csvi/pkg/format"
)

// CurrentVersion is the archive schema version written by this build.
const CurrentVersion = 1

// ViewSettings restores the editor's viewport on load.
type ViewSettings struct {
	ScrollPosition float32 `json:"scroll_position"`
	// SelectedCell is (row, col) or null when nothing is selected.
	SelectedCell *[2]int `json:"selected_cell"`
	ZoomLevel    float32 `json:"zoom_level"`
}

// Metadata is the structured entry of a csvi archive: everything
// beyond the flattened grid text that a document needs to restore.
type Metadata struct {
	Version      uint32            `json:"version"`
	Formatting   *format.FormatMap `json:"formatting"`
	ColumnNames  []string          `json:"column_names"`
	ColumnWidths []float32         `json:"column_widths"`
	ViewSettings ViewSettings      `json:"view_settings"`
}

// NewMetadata returns an empty metadata document at the current
// schema version.
func NewMetadata() *Metadata {
	return &Metadata{
		Version:    CurrentVersion,
		Formatting: format.NewFormatMap(),
	}
}
