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

// Package document binds one open file to its grid, formatting
// overlay, and view state. A freshly opened file is served read-only
// straight from the mapped store; the first edit materializes it into
// the grid, which then becomes the single source of truth. Every
// structural edit, and its undo or redo, applies the matching overlay
// shift exactly once, which is the re-index contract the overlay
// expects from its caller.
//
// A Document is single-writer: it may be used from any one goroutine
// at a time, but never mutated from two concurrently.
package document

import (
	"context"
	"strings"

	"github.com/matrixorigin/csvi/pkg/archive"
	"github.com/matrixorigin/csvi/pkg/config"
	"github.com/matrixorigin/csvi/pkg/csvparser"
	"github.com/matrixorigin/csvi/pkg/format"
	"github.com/matrixorigin/csvi/pkg/grid"
	"github.com/matrixorigin/csvi/pkg/loader"
	"github.com/matrixorigin/csvi/pkg/logutil"
	"github.com/matrixorigin/csvi/pkg/profile"
	"go.uber.org/zap"
)

// Document is one open tabular document.
type Document struct {
	path   string
	params *config.EngineParameters

	store  *loader.Store
	reader *loader.PagedReader

	grid         *grid.Grid
	formats      *format.FormatMap
	widths       []float32
	view         archive.ViewSettings
	materialized bool
}

func defaultParams(params *config.EngineParameters) *config.EngineParameters {
	if params == nil {
		params = &config.EngineParameters{}
	}
	params.SetDefaultValues()
	return params
}

// New creates an empty in-memory document with the given shape.
func New(cols, rows int, params *config.EngineParameters) *Document {
	params = defaultParams(params)
	g := grid.New(cols, rows)
	g.SetMaxHistory(params.MaxHistory)
	return &Document{
		params:       params,
		grid:         g,
		formats:      format.NewFormatMap(),
		materialized: true,
	}
}

// Open loads a document from path: a .csvi archive restores grid,
// formatting, and view state; any other file is indexed and served
// read-only until the first edit.
func Open(ctx context.Context, path string, params *config.EngineParameters) (*Document, error) {
	params = defaultParams(params)
	if archive.IsArchivePath(path) {
		return openArchive(ctx, path, params)
	}

	store, err := loader.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	reader := loader.NewPagedReader(store)
	reader.SetPageSize(params.PageSize)

	return &Document{
		path:    path,
		params:  params,
		store:   store,
		reader:  reader,
		formats: format.NewFormatMap(),
		widths: store.EstimateColumnWidthsSample(
			params.WidthSampleRows, params.MinColumnWidth, params.MaxColumnWidth),
	}, nil
}

func openArchive(ctx context.Context, path string, params *config.EngineParameters) (*Document, error) {
	data, metadata, err := archive.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	g := grid.FromCSV(data)
	g.SetMaxHistory(params.MaxHistory)
	return &Document{
		path:         path,
		params:       params,
		grid:         g,
		formats:      metadata.Formatting,
		widths:       metadata.ColumnWidths,
		view:         metadata.ViewSettings,
		materialized: true,
	}, nil
}

func (d *Document) Path() string { return d.path }

// Materialized reports whether the grid holds the content, as opposed
// to the read-only store.
func (d *Document) Materialized() bool { return d.materialized }

// Rows returns the data row count, excluding the header row.
func (d *Document) Rows() int {
	if d.materialized {
		return d.grid.Rows()
	}
	if n := d.store.NumRecords(); n > 1 {
		return n - 1
	}
	return 0
}

func (d *Document) Cols() int {
	if d.materialized {
		return d.grid.Cols()
	}
	return d.store.NumColumns()
}

// Headers returns the column names.
func (d *Document) Headers() []string {
	if d.materialized {
		return d.grid.Headers()
	}
	rows := d.reader.Rows(0, 1)
	if len(rows) == 0 {
		return nil
	}
	return csvparser.ParseLine(rows[0])
}

// Cell returns a data cell's value.
func (d *Document) Cell(row, col int) (string, bool) {
	if d.materialized {
		return d.grid.Cell(row, col)
	}
	fields := d.Window(row, 1)
	if len(fields) == 0 || col < 0 || col >= len(fields[0]) {
		return "", false
	}
	return fields[0][col], true
}

// Window returns up to count parsed data rows starting at data row
// start. Out of range input returns fewer rows, possibly none.
func (d *Document) Window(start, count int) [][]string {
	if start < 0 || count <= 0 {
		return nil
	}
	if d.materialized {
		end := start + count
		if end > d.grid.Rows() {
			end = d.grid.Rows()
		}
		if start >= end {
			return nil
		}
		rows := make([][]string, 0, end-start)
		for i := start; i < end; i++ {
			rows = append(rows, d.grid.Row(i))
		}
		return rows
	}
	// record 0 is the header row
	raw := d.reader.Rows(start+1, count)
	if len(raw) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(raw))
	for _, line := range raw {
		rows = append(rows, csvparser.ParseLine(line))
	}
	return rows
}

// Materialize pulls the whole file into the editable grid. It is
// invoked implicitly by the first edit; from then on the store is no
// longer consulted.
func (d *Document) Materialize() {
	if d.materialized {
		return
	}
	var b strings.Builder
	total := d.store.NumRecords()
	for start := 0; start < total; start += d.params.PageSize {
		for _, line := range d.reader.Rows(start, d.params.PageSize) {
			b.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				b.WriteByte('\n')
			}
		}
	}
	d.grid = grid.FromCSV(b.String())
	d.grid.SetMaxHistory(d.params.MaxHistory)
	d.materialized = true
	logutil.Info("materialized document",
		zap.String("file", d.path),
		zap.Int("rows", d.grid.Rows()),
		zap.Int("cols", d.grid.Cols()))
}

func (d *Document) SetCell(row, col int, value string) {
	d.Materialize()
	d.grid.SetCell(row, col, value)
}

func (d *Document) SetHeader(col int, name string) {
	d.Materialize()
	d.grid.SetHeader(col, name)
}

// InsertRowAfter inserts an empty row and shifts the overlay down.
func (d *Document) InsertRowAfter(after int) int {
	d.Materialize()
	at := d.grid.InsertRowAfter(after)
	d.formats.ShiftRowsDown(at)
	return at
}

// DeleteRow removes a row and shifts the overlay up, dropping any
// formatting on the deleted row.
func (d *Document) DeleteRow(row int) bool {
	d.Materialize()
	if !d.grid.DeleteRow(row) {
		return false
	}
	d.formats.ShiftRowsUp(row)
	return true
}

// InsertColumnAfter inserts a column and shifts the overlay right.
func (d *Document) InsertColumnAfter(after int) int {
	d.Materialize()
	at := d.grid.InsertColumnAfter(after)
	d.formats.ShiftColsRight(at)
	return at
}

// DeleteColumn removes a column and shifts the overlay left, dropping
// any formatting on the deleted column.
func (d *Document) DeleteColumn(col int) bool {
	d.Materialize()
	if !d.grid.DeleteColumn(col) {
		return false
	}
	d.formats.ShiftColsLeft(col)
	return true
}

// Undo reverts the last edit and mirrors any structural change into
// the overlay. It reports whether an edit was available.
func (d *Document) Undo() bool {
	if !d.materialized {
		return false
	}
	cmd, ok := d.grid.Undo()
	if !ok {
		return false
	}
	// the applied effect is the inverse of cmd
	switch cmd.Op {
	case grid.OpInsertRow:
		d.formats.ShiftRowsUp(cmd.At)
	case grid.OpDeleteRow:
		d.formats.ShiftRowsDown(cmd.At)
	case grid.OpInsertColumn:
		d.formats.ShiftColsLeft(cmd.At)
	case grid.OpDeleteColumn:
		d.formats.ShiftColsRight(cmd.At)
	}
	return true
}

// Redo re-applies the last undone edit and mirrors any structural
// change into the overlay. It reports whether an edit was available.
func (d *Document) Redo() bool {
	if !d.materialized {
		return false
	}
	cmd, ok := d.grid.Redo()
	if !ok {
		return false
	}
	switch cmd.Op {
	case grid.OpInsertRow:
		d.formats.ShiftRowsDown(cmd.At)
	case grid.OpDeleteRow:
		d.formats.ShiftRowsUp(cmd.At)
	case grid.OpInsertColumn:
		d.formats.ShiftColsRight(cmd.At)
	case grid.OpDeleteColumn:
		d.formats.ShiftColsLeft(cmd.At)
	}
	return true
}

func (d *Document) CanUndo() bool {
	return d.materialized && d.grid.CanUndo()
}

func (d *Document) CanRedo() bool {
	return d.materialized && d.grid.CanRedo()
}

func (d *Document) Modified() bool {
	return d.materialized && d.grid.Modified()
}

func (d *Document) SetCellFormat(row, col int, f format.CellFormat) {
	d.formats.Set(row, col, f)
}

func (d *Document) CellFormat(row, col int) (format.CellFormat, bool) {
	return d.formats.Get(row, col)
}

func (d *Document) RemoveCellFormat(row, col int) {
	d.formats.Remove(row, col)
}

// Formats exposes the overlay for read-only traversal.
func (d *Document) Formats() *format.FormatMap { return d.formats }

func (d *Document) ColumnWidths() []float32 { return d.widths }

func (d *Document) View() archive.ViewSettings     { return d.view }
func (d *Document) SetView(v archive.ViewSettings) { d.view = v }

// ProfileColumn profiles one column. Materialized documents profile
// every row; unmaterialized ones profile a bounded sample of raw
// records. Returns nil when col is out of range.
func (d *Document) ProfileColumn(col int) *profile.ColumnProfile {
	if col < 0 || col >= d.Cols() {
		return nil
	}
	if d.materialized {
		header, _ := d.grid.Header(col)
		return profile.AnalyzeColumn(header, col, d.grid.Column(col))
	}

	headers := d.Headers()
	header := ""
	if col < len(headers) {
		header = headers[col]
	}
	count := d.Rows()
	if count > d.params.ProfileSampleRows {
		count = d.params.ProfileSampleRows
	}
	values := make([]string, 0, count)
	for _, row := range d.Window(0, count) {
		value := ""
		if col < len(row) {
			value = row[col]
		}
		values = append(values, value)
	}
	return profile.AnalyzeColumn(header, col, values)
}

// SaveArchive flattens the document into a csvi archive at path and
// clears the modified flag on success.
func (d *Document) SaveArchive(ctx context.Context, path string) error {
	d.Materialize()
	metadata := &archive.Metadata{
		Version:      archive.CurrentVersion,
		Formatting:   d.formats,
		ColumnNames:  d.grid.Headers(),
		ColumnWidths: d.widths,
		ViewSettings: d.view,
	}
	if err := archive.Save(ctx, path, d.grid.ToCSV(), metadata); err != nil {
		return err
	}
	d.grid.MarkSaved()
	d.path = path
	return nil
}

// ExportCSV writes the plain flattened grid with no formatting.
func (d *Document) ExportCSV(ctx context.Context, path string) error {
	d.Materialize()
	return archive.ExportCSV(ctx, path, d.grid.ToCSV())
}

// ExportJSON writes the rows as a JSON array of objects keyed by
// header name.
func (d *Document) ExportJSON(ctx context.Context, path string) error {
	d.Materialize()
	rows := make([][]string, 0, d.grid.Rows())
	for i := 0; i < d.grid.Rows(); i++ {
		rows = append(rows, d.grid.Row(i))
	}
	return archive.ExportJSON(ctx, path, d.grid.Headers(), rows)
}

// Close releases the store and reader. The grid, if materialized,
// stays usable.
func (d *Document) Close() error {
	var err error
	if d.reader != nil {
		err = d.reader.Close()
	}
	if d.store != nil {
		if cerr := d.store.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
