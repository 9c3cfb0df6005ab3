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

// Package loader serves records of a delimited file without parsing
// it eagerly. Open maps the file read-only, builds the record offset
// table in one pass, and from then on any record is an O(1) slice of
// the mapping. No mutation path exists after indexing, so concurrent
// readers need no locking.
package loader

import (
	"context"
	"os"

	"github.com/matrixorigin/csvi/pkg/common/moerr"
	"github.com/matrixorigin/csvi/pkg/logutil"
	"go.uber.org/zap"
)

const (
	defaultWidthSampleRows = 100
	defaultMinColumnWidth  = 50
	defaultMaxColumnWidth  = 400
	// Rough pixel width of one character cell in the default font.
	charPixelWidth = 8
	// Columns never estimate narrower than this many characters.
	minSampledChars = 10
)

// Store is a read-only record store backed by a mapped file, or a
// synthetic empty store for documents that have no file yet.
type Store struct {
	path    string
	m       *mapping
	offsets []int64

	synthetic bool
	synthRows int
	synthCols int
}

// Open maps path read-only and indexes its records.
func Open(ctx context.Context, path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, moerr.NewFileNotFound(ctx, path)
		}
		return nil, moerr.NewFileReadFailed(ctx, path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, moerr.NewFileReadFailed(ctx, path, err)
	}
	if st.IsDir() {
		return nil, moerr.NewInvalidPath(ctx, path)
	}

	var data []byte
	mapped := false
	if size := st.Size(); size > 0 {
		data, mapped, err = mapFile(f, int(size))
		if err != nil {
			return nil, moerr.NewMmapFailed(ctx, path, err)
		}
	}

	offsets, bareCR := buildIndex(data)
	if len(offsets) == 1 && bareCR > 0 {
		logutil.Warn("file uses bare \\r line endings and indexed as a single record",
			zap.String("file", path),
			zap.Int("bareCR", bareCR))
	}
	logutil.Info("indexed file",
		zap.String("file", path),
		zap.Int("records", len(offsets)),
		zap.Int64("bytes", st.Size()))

	return &Store{
		path:    path,
		m:       newMapping(data, mapped),
		offsets: offsets,
	}, nil
}

// NewEmpty returns a synthetic store with a declared shape and no
// backing bytes, for newly created documents.
func NewEmpty(rows, cols int) *Store {
	return &Store{
		synthetic: true,
		synthRows: rows,
		synthCols: cols,
	}
}

// NumRecords returns the total record count.
func (s *Store) NumRecords() int {
	if s.synthetic {
		return s.synthRows
	}
	return len(s.offsets)
}

// Record returns the raw bytes of record i, including its terminating
// newline if present, or nil when i is out of range or the trailing
// span is empty. The returned slice aliases the mapping and must not
// be modified.
func (s *Store) Record(i int) []byte {
	if s.synthetic || i < 0 || i >= len(s.offsets) {
		return nil
	}
	start := int(s.offsets[i])
	end := len(s.m.data)
	if i+1 < len(s.offsets) {
		end = int(s.offsets[i+1])
	}
	if start >= len(s.m.data) || start >= end {
		return nil
	}
	return s.m.data[start:end]
}

// NumColumns returns the declared column count in synthetic mode, and
// otherwise derives it from a quote-aware comma count over record 0.
func (s *Store) NumColumns() int {
	if s.synthetic {
		return s.synthCols
	}
	line := s.Record(0)
	if line == nil {
		return 0
	}
	count := 1
	inQuote := false
	for _, b := range line {
		switch b {
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				count++
			}
		}
	}
	return count
}

// EstimateColumnWidths samples the first 100 records and maps each
// column's maximum field length to a pixel width clamped to [50, 400].
func (s *Store) EstimateColumnWidths() []float32 {
	return s.EstimateColumnWidthsSample(
		defaultWidthSampleRows, defaultMinColumnWidth, defaultMaxColumnWidth)
}

// EstimateColumnWidthsSample is EstimateColumnWidths with an explicit
// sample size and clamp range.
func (s *Store) EstimateColumnWidthsSample(sampleRows int, minWidth, maxWidth float32) []float32 {
	numCols := s.NumColumns()
	if numCols == 0 {
		return nil
	}

	maxLens := make([]int, numCols)
	for i := range maxLens {
		maxLens[i] = minSampledChars
	}

	records := s.NumRecords()
	if records > sampleRows {
		records = sampleRows
	}
	for i := 0; i < records; i++ {
		line := s.Record(i)
		if line == nil {
			continue
		}
		colIdx := 0
		inQuote := false
		currentLen := 0
		flush := func() {
			if colIdx < numCols && currentLen > maxLens[colIdx] {
				maxLens[colIdx] = currentLen
			}
			colIdx++
			currentLen = 0
		}
		for _, b := range line {
			switch b {
			case '"':
				inQuote = !inQuote
			case ',':
				if !inQuote {
					flush()
				} else {
					currentLen++
				}
			case '\n', '\r':
				if inQuote {
					currentLen++
				}
			default:
				currentLen++
			}
		}
		flush()
	}

	widths := make([]float32, numCols)
	for i, l := range maxLens {
		w := float32(l) * charPixelWidth
		if w < minWidth {
			w = minWidth
		}
		if w > maxWidth {
			w = maxWidth
		}
		widths[i] = w
	}
	return widths
}

// Close releases the store's reference on the mapping. Readers that
// retained the mapping keep it alive past this call.
func (s *Store) Close() error {
	if s.synthetic || s.m == nil {
		return nil
	}
	return s.m.release()
}
