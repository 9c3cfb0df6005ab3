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

// Package grid holds the in-memory editable row/column matrix and its
// undo/redo command log. Every mutating operation is recorded as a
// self-inverting Command; out-of-range mutation is a silent no-op.
package grid

import (
	"fmt"
	"strings"

	"github.com/matrixorigin/csvi/pkg/csvparser"
)

const defaultMaxHistory = 100

// Grid is an editable matrix of field strings. Invariant: every row
// has exactly len(headers) fields.
type Grid struct {
	headers  []string
	rows     [][]string
	modified bool

	undoStack  []Command
	redoStack  []Command
	maxHistory int
}

// New creates an empty grid with generated headers.
func New(cols, rows int) *Grid {
	g := &Grid{maxHistory: defaultMaxHistory}
	g.headers = make([]string, cols)
	for i := range g.headers {
		g.headers[i] = generatedHeader(i)
	}
	g.rows = make([][]string, rows)
	for i := range g.rows {
		g.rows[i] = make([]string, cols)
	}
	return g
}

// FromCSV builds a grid from flattened CSV text. The first record
// becomes the header row. Ragged input is normalized to the widest
// record: headers are extended with generated names and short rows are
// padded with empty fields, so the grid invariant holds.
func FromCSV(text string) *Grid {
	g := &Grid{maxHistory: defaultMaxHistory}
	records := csvparser.SplitRecords(text)
	if len(records) == 0 {
		return g
	}

	g.headers = csvparser.ParseLine(records[0])
	g.rows = make([][]string, 0, len(records)-1)
	width := len(g.headers)
	for _, record := range records[1:] {
		row := csvparser.ParseLine(record)
		if row == nil {
			row = []string{}
		}
		if len(row) > width {
			width = len(row)
		}
		g.rows = append(g.rows, row)
	}

	for len(g.headers) < width {
		g.headers = append(g.headers, generatedHeader(len(g.headers)))
	}
	for i, row := range g.rows {
		for len(row) < width {
			row = append(row, "")
		}
		g.rows[i] = row
	}
	return g
}

func generatedHeader(i int) string {
	return fmt.Sprintf("Column %d", i+1)
}

// ToCSV flattens the grid: the header line followed by one line per
// row, each terminated by \n, fields quoted as needed.
func (g *Grid) ToCSV() string {
	var b strings.Builder
	csvparser.EncodeLineTo(&b, g.headers)
	b.WriteByte('\n')
	for _, row := range g.rows {
		csvparser.EncodeLineTo(&b, row)
		b.WriteByte('\n')
	}
	return b.String()
}

// SetMaxHistory bounds the undo log. Values below 1 are ignored.
func (g *Grid) SetMaxHistory(n int) {
	if n >= 1 {
		g.maxHistory = n
	}
}

func (g *Grid) Rows() int { return len(g.rows) }
func (g *Grid) Cols() int { return len(g.headers) }

func (g *Grid) Cell(row, col int) (string, bool) {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.headers) {
		return "", false
	}
	return g.rows[row][col], true
}

func (g *Grid) Header(col int) (string, bool) {
	if col < 0 || col >= len(g.headers) {
		return "", false
	}
	return g.headers[col], true
}

// Headers returns a copy of the header row.
func (g *Grid) Headers() []string {
	return append([]string(nil), g.headers...)
}

// Row returns a copy of row i, or nil when out of range.
func (g *Grid) Row(i int) []string {
	if i < 0 || i >= len(g.rows) {
		return nil
	}
	return append([]string(nil), g.rows[i]...)
}

// Column returns a copy of column col's values, one per row, or nil
// when out of range.
func (g *Grid) Column(col int) []string {
	if col < 0 || col >= len(g.headers) {
		return nil
	}
	values := make([]string, len(g.rows))
	for i, row := range g.rows {
		values[i] = row[col]
	}
	return values
}

func (g *Grid) Modified() bool { return g.modified }
func (g *Grid) MarkSaved()     { g.modified = false }

func (g *Grid) CanUndo() bool  { return len(g.undoStack) > 0 }
func (g *Grid) CanRedo() bool  { return len(g.redoStack) > 0 }
func (g *Grid) UndoCount() int { return len(g.undoStack) }
func (g *Grid) RedoCount() int { return len(g.redoStack) }

// SetCell sets a cell value. Out-of-range input is a no-op.
func (g *Grid) SetCell(row, col int, value string) {
	old, ok := g.Cell(row, col)
	if !ok {
		return
	}
	cmd := Command{Op: OpSetCell, Row: row, Col: col, Old: old, New: value}
	g.apply(cmd)
	g.record(cmd)
}

// SetHeader renames a column. Out-of-range input is a no-op.
func (g *Grid) SetHeader(col int, name string) {
	old, ok := g.Header(col)
	if !ok {
		return
	}
	cmd := Command{Op: OpSetHeader, Col: col, Old: old, New: name}
	g.apply(cmd)
	g.record(cmd)
}

// InsertRowAfter inserts an empty row immediately after the given
// index, or appends when after is negative or out of range. It
// returns the index of the new row.
func (g *Grid) InsertRowAfter(after int) int {
	at := len(g.rows)
	if after >= 0 && after < len(g.rows) {
		at = after + 1
	}
	cmd := Command{Op: OpInsertRow, At: at, RowData: make([]string, len(g.headers))}
	g.apply(cmd)
	g.record(cmd)
	return at
}

// DeleteRow removes a row, recording its content for undo. It reports
// whether a row was removed.
func (g *Grid) DeleteRow(row int) bool {
	if row < 0 || row >= len(g.rows) {
		return false
	}
	cmd := Command{Op: OpDeleteRow, At: row, RowData: g.rows[row]}
	g.apply(cmd)
	g.record(cmd)
	return true
}

// InsertColumnAfter inserts a column with a generated header
// immediately after the given index, or appends when after is
// negative or out of range. It returns the index of the new column.
func (g *Grid) InsertColumnAfter(after int) int {
	at := len(g.headers)
	if after >= 0 && after < len(g.headers) {
		at = after + 1
	}
	cmd := Command{Op: OpInsertColumn, At: at, Header: generatedHeader(len(g.headers))}
	g.apply(cmd)
	g.record(cmd)
	return at
}

// DeleteColumn removes a column from the headers and every row,
// recording the header and the full column for undo. It reports
// whether a column was removed.
func (g *Grid) DeleteColumn(col int) bool {
	if col < 0 || col >= len(g.headers) {
		return false
	}
	cmd := Command{
		Op:      OpDeleteColumn,
		At:      col,
		Header:  g.headers[col],
		ColData: g.Column(col),
	}
	g.apply(cmd)
	g.record(cmd)
	return true
}

// Undo reverts the most recent command. It returns that command and
// whether one was available.
func (g *Grid) Undo() (Command, bool) {
	if len(g.undoStack) == 0 {
		return Command{}, false
	}
	cmd := g.undoStack[len(g.undoStack)-1]
	g.undoStack = g.undoStack[:len(g.undoStack)-1]
	g.apply(cmd.Invert())
	g.redoStack = append(g.redoStack, cmd)
	g.modified = true
	return cmd, true
}

// Redo re-applies the most recently undone command. It returns that
// command and whether one was available.
func (g *Grid) Redo() (Command, bool) {
	if len(g.redoStack) == 0 {
		return Command{}, false
	}
	cmd := g.redoStack[len(g.redoStack)-1]
	g.redoStack = g.redoStack[:len(g.redoStack)-1]
	g.apply(cmd)
	g.undoStack = append(g.undoStack, cmd)
	g.modified = true
	return cmd, true
}

// record pushes cmd onto the undo stack. Any new command invalidates
// the redo chain and evicts the oldest history entry past the bound.
func (g *Grid) record(cmd Command) {
	g.undoStack = append(g.undoStack, cmd)
	g.redoStack = nil
	if len(g.undoStack) > g.maxHistory {
		g.undoStack = g.undoStack[1:]
	}
	g.modified = true
}

// apply mutates the matrix without touching the history stacks.
// Inserted row and column data is copied so commands on the stacks
// never alias live grid state.
func (g *Grid) apply(cmd Command) {
	switch cmd.Op {
	case OpSetCell:
		if cmd.Row >= 0 && cmd.Row < len(g.rows) && cmd.Col >= 0 && cmd.Col < len(g.headers) {
			g.rows[cmd.Row][cmd.Col] = cmd.New
		}
	case OpSetHeader:
		if cmd.Col >= 0 && cmd.Col < len(g.headers) {
			g.headers[cmd.Col] = cmd.New
		}
	case OpInsertRow:
		if cmd.At < 0 || cmd.At > len(g.rows) {
			return
		}
		row := make([]string, len(g.headers))
		copy(row, cmd.RowData)
		g.rows = append(g.rows, nil)
		copy(g.rows[cmd.At+1:], g.rows[cmd.At:])
		g.rows[cmd.At] = row
	case OpDeleteRow:
		if cmd.At < 0 || cmd.At >= len(g.rows) {
			return
		}
		g.rows = append(g.rows[:cmd.At], g.rows[cmd.At+1:]...)
	case OpInsertColumn:
		if cmd.At < 0 || cmd.At > len(g.headers) {
			return
		}
		g.headers = append(g.headers, "")
		copy(g.headers[cmd.At+1:], g.headers[cmd.At:])
		g.headers[cmd.At] = cmd.Header
		for i, row := range g.rows {
			value := ""
			if i < len(cmd.ColData) {
				value = cmd.ColData[i]
			}
			row = append(row, "")
			copy(row[cmd.At+1:], row[cmd.At:])
			row[cmd.At] = value
			g.rows[i] = row
		}
	case OpDeleteColumn:
		if cmd.At < 0 || cmd.At >= len(g.headers) {
			return
		}
		g.headers = append(g.headers[:cmd.At], g.headers[cmd.At+1:]...)
		for i, row := range g.rows {
			g.rows[i] = append(row[:cmd.At], row[cmd.At+1:]...)
		}
	}
}
