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

package grid

// Op identifies one kind of reversible grid mutation.
type Op uint8

const (
	OpSetCell Op = iota
	OpSetHeader
	OpInsertRow
	OpDeleteRow
	OpInsertColumn
	OpDeleteColumn
)

func (op Op) String() string {
	switch op {
	case OpSetCell:
		return "set-cell"
	case OpSetHeader:
		return "set-header"
	case OpInsertRow:
		return "insert-row"
	case OpDeleteRow:
		return "delete-row"
	case OpInsertColumn:
		return "insert-column"
	case OpDeleteColumn:
		return "delete-column"
	}
	return "unknown"
}

// Command is one entry of the edit log. It carries enough state to
// construct its own inverse: cell and header edits remember both
// values, structural edits remember the removed data.
type Command struct {
	Op  Op
	Row int
	Col int
	// Old and New are the values swapped by set-cell and set-header.
	Old string
	New string
	// At is the position of a structural edit.
	At int
	// RowData is the full content of an inserted or deleted row.
	RowData []string
	// Header and ColData describe an inserted or deleted column;
	// ColData holds one value per row at deletion time.
	Header  string
	ColData []string
}

// Invert returns the command that exactly undoes c.
func (c Command) Invert() Command {
	switch c.Op {
	case OpSetCell:
		return Command{Op: OpSetCell, Row: c.Row, Col: c.Col, Old: c.New, New: c.Old}
	case OpSetHeader:
		return Command{Op: OpSetHeader, Col: c.Col, Old: c.New, New: c.Old}
	case OpInsertRow:
		return Command{Op: OpDeleteRow, At: c.At, RowData: c.RowData}
	case OpDeleteRow:
		return Command{Op: OpInsertRow, At: c.At, RowData: c.RowData}
	case OpInsertColumn:
		return Command{Op: OpDeleteColumn, At: c.At, Header: c.Header, ColData: c.ColData}
	case OpDeleteColumn:
		return Command{Op: OpInsertColumn, At: c.At, Header: c.Header, ColData: c.ColData}
	}
	return c
}
