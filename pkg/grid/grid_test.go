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

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func snapshot(g *Grid) [][]string {
	rows := make([][]string, 0, g.Rows()+1)
	rows = append(rows, g.Headers())
	for i := 0; i < g.Rows(); i++ {
		rows = append(rows, g.Row(i))
	}
	return rows
}

func TestNew(t *testing.T) {
	g := New(3, 2)
	require.Equal(t, 3, g.Cols())
	require.Equal(t, 2, g.Rows())
	require.Equal(t, []string{"Column 1", "Column 2", "Column 3"}, g.Headers())
	cell, ok := g.Cell(1, 2)
	require.True(t, ok)
	require.Equal(t, "", cell)
	require.False(t, g.Modified())
}

func TestFromCSV(t *testing.T) {
	g := FromCSV("name,age\nalice,30\nbob,41\n")
	require.Equal(t, []string{"name", "age"}, g.Headers())
	require.Equal(t, 2, g.Rows())
	require.Equal(t, []string{"alice", "30"}, g.Row(0))
	require.Equal(t, []string{"bob", "41"}, g.Row(1))
}

func TestFromCSVQuotedNewline(t *testing.T) {
	g := FromCSV("a,b\n\"line1\nline2\",x\n")
	require.Equal(t, 1, g.Rows())
	require.Equal(t, []string{"line1\nline2", "x"}, g.Row(0))
}

func TestFromCSVRagged(t *testing.T) {
	g := FromCSV("a,b\n1\n1,2,3\n")
	require.Equal(t, []string{"a", "b", "Column 3"}, g.Headers())
	require.Equal(t, []string{"1", "", ""}, g.Row(0))
	require.Equal(t, []string{"1", "2", "3"}, g.Row(1))
}

func TestFromCSVEmpty(t *testing.T) {
	g := FromCSV("")
	require.Equal(t, 0, g.Cols())
	require.Equal(t, 0, g.Rows())
}

func TestToCSVQuoting(t *testing.T) {
	g := New(2, 1)
	g.SetCell(0, 0, "with,comma")
	g.SetCell(0, 1, `with "quote"`)
	require.Equal(t, "Column 1,Column 2\n\"with,comma\",\"with \"\"quote\"\"\"\n", g.ToCSV())
}

func TestToCSVFromCSVRoundTrip(t *testing.T) {
	text := "a,b,c\n1,\"x,y\",3\n\"multi\nline\",,z\n"
	require.Equal(t, text, FromCSV(text).ToCSV())
}

func TestSetCell(t *testing.T) {
	g := New(2, 2)
	g.SetCell(0, 1, "hello")
	cell, _ := g.Cell(0, 1)
	require.Equal(t, "hello", cell)
	require.True(t, g.Modified())
	require.Equal(t, 1, g.UndoCount())

	// out of range is a silent no-op and records nothing
	g.SetCell(5, 0, "x")
	g.SetCell(0, 5, "x")
	g.SetCell(-1, 0, "x")
	require.Equal(t, 1, g.UndoCount())
}

func TestSetHeader(t *testing.T) {
	g := New(2, 0)
	g.SetHeader(0, "id")
	name, _ := g.Header(0)
	require.Equal(t, "id", name)
	g.SetHeader(9, "nope")
	require.Equal(t, 1, g.UndoCount())
}

func TestInsertRow(t *testing.T) {
	g := FromCSV("h\na\nb\n")
	require.Equal(t, 1, g.InsertRowAfter(0))
	require.Equal(t, 3, g.Rows())
	require.Equal(t, []string{""}, g.Row(1))

	// negative appends
	require.Equal(t, 3, g.InsertRowAfter(-1))
	// out of range appends
	require.Equal(t, 4, g.InsertRowAfter(99))
	require.Equal(t, 5, g.Rows())
}

func TestDeleteRow(t *testing.T) {
	g := FromCSV("h\na\nb\n")
	require.True(t, g.DeleteRow(0))
	require.Equal(t, 1, g.Rows())
	require.Equal(t, []string{"b"}, g.Row(0))
	require.False(t, g.DeleteRow(5))
}

func TestInsertColumn(t *testing.T) {
	g := FromCSV("a,b\n1,2\n")
	require.Equal(t, 1, g.InsertColumnAfter(0))
	require.Equal(t, []string{"a", "Column 3", "b"}, g.Headers())
	require.Equal(t, []string{"1", "", "2"}, g.Row(0))
}

func TestDeleteColumnUndoRestoresData(t *testing.T) {
	g := FromCSV("a,b,c\n1,2,3\n4,5,6\n")
	before := snapshot(g)

	require.True(t, g.DeleteColumn(1))
	require.Equal(t, []string{"a", "c"}, g.Headers())
	require.Equal(t, []string{"1", "3"}, g.Row(0))

	_, ok := g.Undo()
	require.True(t, ok)
	require.Equal(t, before, snapshot(g))
}

func TestUndoRedoEverySingleCommand(t *testing.T) {
	ops := []struct {
		name string
		run  func(g *Grid)
	}{
		{"set-cell", func(g *Grid) { g.SetCell(1, 1, "changed") }},
		{"set-header", func(g *Grid) { g.SetHeader(0, "renamed") }},
		{"insert-row", func(g *Grid) { g.InsertRowAfter(0) }},
		{"delete-row", func(g *Grid) { g.DeleteRow(1) }},
		{"insert-column", func(g *Grid) { g.InsertColumnAfter(1) }},
		{"delete-column", func(g *Grid) { g.DeleteColumn(0) }},
	}
	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			g := FromCSV("a,b,c\n1,2,3\n4,5,6\n")
			before := snapshot(g)

			op.run(g)
			after := snapshot(g)
			require.NotEqual(t, before, after)

			_, ok := g.Undo()
			require.True(t, ok)
			require.Equal(t, before, snapshot(g))

			_, ok = g.Redo()
			require.True(t, ok)
			require.Equal(t, after, snapshot(g))
		})
	}
}

func TestUndoEmptyStack(t *testing.T) {
	g := New(1, 1)
	_, ok := g.Undo()
	require.False(t, ok)
	_, ok = g.Redo()
	require.False(t, ok)
}

func TestNewEditClearsRedo(t *testing.T) {
	g := New(1, 1)
	g.SetCell(0, 0, "first")
	_, ok := g.Undo()
	require.True(t, ok)
	require.True(t, g.CanRedo())

	g.SetCell(0, 0, "second")
	require.False(t, g.CanRedo())
	_, ok = g.Redo()
	require.False(t, ok)
}

func TestHistoryBound(t *testing.T) {
	g := New(1, 1)
	g.SetMaxHistory(5)
	for i := 0; i < 20; i++ {
		g.SetCell(0, 0, fmt.Sprintf("v%d", i))
	}
	require.Equal(t, 5, g.UndoCount())

	// only the newest five edits unwind
	for i := 0; i < 5; i++ {
		_, ok := g.Undo()
		require.True(t, ok)
	}
	_, ok := g.Undo()
	require.False(t, ok)
	cell, _ := g.Cell(0, 0)
	require.Equal(t, "v14", cell)
}

func TestUndoDeleteColumnAfterRowInsert(t *testing.T) {
	// rows added after the deletion get empty defaults on undo
	g := FromCSV("a,b\n1,2\n")
	require.True(t, g.DeleteColumn(1))
	g.InsertRowAfter(-1)
	// unwind the insert, then the delete
	_, ok := g.Undo()
	require.True(t, ok)
	_, ok = g.Undo()
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, g.Headers())
	require.Equal(t, []string{"1", "2"}, g.Row(0))
}

func TestModifiedFlag(t *testing.T) {
	g := New(1, 1)
	require.False(t, g.Modified())
	g.SetCell(0, 0, "x")
	require.True(t, g.Modified())
	g.MarkSaved()
	require.False(t, g.Modified())
	g.Undo()
	require.True(t, g.Modified())
}

func TestCommandInvertIsInvolution(t *testing.T) {
	cmds := []Command{
		{Op: OpSetCell, Row: 1, Col: 2, Old: "a", New: "b"},
		{Op: OpSetHeader, Col: 0, Old: "x", New: "y"},
		{Op: OpInsertRow, At: 3, RowData: []string{"1", "2"}},
		{Op: OpDeleteRow, At: 0, RowData: []string{"1"}},
		{Op: OpInsertColumn, At: 1, Header: "h", ColData: []string{"v"}},
		{Op: OpDeleteColumn, At: 2, Header: "h", ColData: []string{"v", "w"}},
	}
	for _, cmd := range cmds {
		require.Equal(t, cmd, cmd.Invert().Invert(), "%s", cmd.Op)
	}
}
