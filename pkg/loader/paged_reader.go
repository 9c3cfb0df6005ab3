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

import (
	"strings"
	"unicode/utf8"
)

const defaultPageSize = 100

// PagedReader serves bounded windows of a store's records as text, so
// a consumer's page size stays decoupled from per-record fetch cost.
// It holds its own reference on the mapping: rows handed out stay
// valid even if the store is closed while a page is in flight.
type PagedReader struct {
	store    *Store
	pageSize int
}

// NewPagedReader wraps store. The reader must be closed independently
// of the store.
func NewPagedReader(store *Store) *PagedReader {
	if store.m != nil {
		store.m.retain()
	}
	return &PagedReader{store: store, pageSize: defaultPageSize}
}

// NewEmptyPagedReader returns a reader over a zero-record store.
func NewEmptyPagedReader() *PagedReader {
	return &PagedReader{store: NewEmpty(0, 0), pageSize: defaultPageSize}
}

func (r *PagedReader) SetPageSize(size int) {
	if size > 0 {
		r.pageSize = size
	}
}

func (r *PagedReader) PageSize() int {
	return r.pageSize
}

// Rows returns up to count records starting at start, decoded lossily
// to valid UTF-8. Out-of-range input is not an error; the result is
// simply shorter, possibly empty.
func (r *PagedReader) Rows(start, count int) []string {
	if start < 0 || count <= 0 {
		return nil
	}
	total := r.store.NumRecords()
	end := start + count
	if end > total {
		end = total
	}
	if start >= end {
		return nil
	}

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		bytes := r.store.Record(i)
		if bytes == nil {
			break
		}
		rows = append(rows, strings.ToValidUTF8(string(bytes), string(utf8.RuneError)))
	}
	return rows
}

// Page returns the n-th window of pageSize records.
func (r *PagedReader) Page(n int) []string {
	return r.Rows(n*r.pageSize, r.pageSize)
}

// Close drops the reader's reference on the mapping.
func (r *PagedReader) Close() error {
	if r.store.m == nil {
		return nil
	}
	return r.store.m.release()
}
