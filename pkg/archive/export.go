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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matrixorigin/csvi/pkg/common/moerr"
	"github.com/pierrec/lz4"
)

// ExportCSV writes the flattened grid text alone, with no container
// and no formatting. A destination ending in .lz4 is transparently
// compressed.
func ExportCSV(ctx context.Context, path string, csvData string) error {
	f, err := os.Create(path)
	if err != nil {
		return moerr.NewFileWriteFailed(ctx, path, err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".lz4") {
		zw := lz4.NewWriter(f)
		if _, err = zw.Write([]byte(csvData)); err != nil {
			return moerr.NewFileWriteFailed(ctx, path, err)
		}
		if err = zw.Close(); err != nil {
			return moerr.NewFileWriteFailed(ctx, path, err)
		}
	} else if _, err = f.WriteString(csvData); err != nil {
		return moerr.NewFileWriteFailed(ctx, path, err)
	}
	if err = f.Close(); err != nil {
		return moerr.NewFileWriteFailed(ctx, path, err)
	}
	return nil
}

// ExportJSON writes rows as one JSON array of objects keyed by header
// name, falling back to a positional name when a row is wider than
// the header list.
func ExportJSON(ctx context.Context, path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return moerr.NewFileWriteFailed(ctx, path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err = w.WriteString("["); err != nil {
		return moerr.NewFileWriteFailed(ctx, path, err)
	}
	for i, row := range rows {
		if i > 0 {
			if _, err = w.WriteString(","); err != nil {
				return moerr.NewFileWriteFailed(ctx, path, err)
			}
		}
		obj := make(map[string]string, len(row))
		for j, field := range row {
			key := fmt.Sprintf("Col %d", j)
			if j < len(headers) {
				key = headers[j]
			}
			obj[key] = field
		}
		encoded, err := json.Marshal(obj)
		if err != nil {
			return moerr.NewInternalError(ctx, "serialize row %d: %v", i, err)
		}
		if _, err = w.Write(encoded); err != nil {
			return moerr.NewFileWriteFailed(ctx, path, err)
		}
	}
	if _, err = w.WriteString("]"); err != nil {
		return moerr.NewFileWriteFailed(ctx, path, err)
	}
	if err = w.Flush(); err != nil {
		return moerr.NewFileWriteFailed(ctx, path, err)
	}
	return nil
}
