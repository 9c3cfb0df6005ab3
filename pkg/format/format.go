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

// Package format is the sparse per-cell formatting overlay. Only
// cells that deviate from default formatting have an entry, so memory
// stays proportional to formatted cells rather than grid size. The
// overlay knows nothing about grid structure: the caller must invoke
// the matching shift operation exactly once per structural grid edit.
package format

import (
	"github.com/google/btree"
)

// CellFormat is the visual attribute set of one cell. Nil colors mean
// "default".
type CellFormat struct {
	Background *[4]uint8 `json:"bg_color"`
	TextColor  *[4]uint8 `json:"text_color"`
	Bold       bool      `json:"bold"`
	Italic     bool      `json:"italic"`
}

// WithBackground returns a format with only the background set (RGBA).
func WithBackground(color [4]uint8) CellFormat {
	return CellFormat{Background: &color}
}

// WithTextColor returns a format with only the text color set (RGBA).
func WithTextColor(color [4]uint8) CellFormat {
	return CellFormat{TextColor: &color}
}

// Bold returns a bold-only format.
func Bold() CellFormat {
	return CellFormat{Bold: true}
}

type cellItem struct {
	row, col int
	format   CellFormat
}

func (c cellItem) Less(than btree.Item) bool {
	o := than.(cellItem)
	if c.row != o.row {
		return c.row < o.row
	}
	return c.col < o.col
}

// FormatMap stores cell formats keyed by (row, col), ordered by key.
type FormatMap struct {
	tree *btree.BTree
}

func NewFormatMap() *FormatMap {
	return &FormatMap{tree: btree.New(32)}
}

func (f *FormatMap) Get(row, col int) (CellFormat, bool) {
	item := f.tree.Get(cellItem{row: row, col: col})
	if item == nil {
		return CellFormat{}, false
	}
	return item.(cellItem).format, true
}

func (f *FormatMap) Set(row, col int, format CellFormat) {
	f.tree.ReplaceOrInsert(cellItem{row: row, col: col, format: format})
}

func (f *FormatMap) Remove(row, col int) {
	f.tree.Delete(cellItem{row: row, col: col})
}

func (f *FormatMap) Clear() {
	f.tree.Clear(false)
}

func (f *FormatMap) Len() int {
	return f.tree.Len()
}

func (f *FormatMap) IsEmpty() bool {
	return f.tree.Len() == 0
}

// Range visits entries in (row, col) order until fn returns false.
func (f *FormatMap) Range(fn func(row, col int, format CellFormat) bool) {
	f.tree.Ascend(func(item btree.Item) bool {
		c := item.(cellItem)
		return fn(c.row, c.col, c.format)
	})
}

// rebuild replaces all entries with the result of applying transform
// to each; transform returns false to drop an entry.
func (f *FormatMap) rebuild(transform func(c cellItem) (cellItem, bool)) {
	items := make([]cellItem, 0, f.tree.Len())
	f.tree.Ascend(func(item btree.Item) bool {
		items = append(items, item.(cellItem))
		return true
	})
	f.tree.Clear(false)
	for _, c := range items {
		if next, keep := transform(c); keep {
			f.tree.ReplaceOrInsert(next)
		}
	}
}

// ShiftRowsUp re-indexes the overlay after deleting grid row
// deletedRow: entries on that row are dropped, entries below move up.
func (f *FormatMap) ShiftRowsUp(deletedRow int) {
	f.rebuild(func(c cellItem) (cellItem, bool) {
		if c.row == deletedRow {
			return c, false
		}
		if c.row > deletedRow {
			c.row--
		}
		return c, true
	})
}

// ShiftRowsDown re-indexes the overlay after inserting a grid row at
// insertedRow: entries at or below it move down.
func (f *FormatMap) ShiftRowsDown(insertedRow int) {
	f.rebuild(func(c cellItem) (cellItem, bool) {
		if c.row >= insertedRow {
			c.row++
		}
		return c, true
	})
}

// ShiftColsLeft re-indexes the overlay after deleting grid column
// deletedCol: entries on that column are dropped, entries right of it
// move left.
func (f *FormatMap) ShiftColsLeft(deletedCol int) {
	f.rebuild(func(c cellItem) (cellItem, bool) {
		if c.col == deletedCol {
			return c, false
		}
		if c.col > deletedCol {
			c.col--
		}
		return c, true
	})
}

// ShiftColsRight re-indexes the overlay after inserting a grid column
// at insertedCol: entries at or right of it move right.
func (f *FormatMap) ShiftColsRight(insertedCol int) {
	f.rebuild(func(c cellItem) (cellItem, bool) {
		if c.col >= insertedCol {
			c.col++
		}
		return c, true
	})
}
