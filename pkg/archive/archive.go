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

// Package archive reads and writes the .csvi container: a compressed
// archive holding exactly two named entries, the flattened grid text
// and a metadata document. Load failures distinguish "not a valid
// archive" from plain io errors so callers can react to each.
package archive

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matrixorigin/csvi/pkg/common/moerr"
	"github.com/matrixorigin/csvi/pkg/format"
	"github.com/matrixorigin/csvi/pkg/logutil"
	"go.uber.org/zap"
)

const (
	// DataEntryName is the archive entry holding the flattened grid.
	DataEntryName = "data.csv"
	// MetadataEntryName is the archive entry holding the Metadata.
	MetadataEntryName = "metadata.json"
)

// IsArchivePath reports whether path names a csvi archive.
func IsArchivePath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csvi")
}

// Save writes csvData and metadata as a csvi archive at path,
// replacing any existing file.
func Save(ctx context.Context, path string, csvData string, metadata *Metadata) error {
	f, err := os.Create(path)
	if err != nil {
		return moerr.NewFileWriteFailed(ctx, path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(DataEntryName)
	if err != nil {
		return moerr.NewFileWriteFailed(ctx, path, err)
	}
	if _, err = io.WriteString(w, csvData); err != nil {
		return moerr.NewFileWriteFailed(ctx, path, err)
	}

	metadataJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return moerr.NewInternalError(ctx, "serialize metadata: %v", err)
	}
	w, err = zw.Create(MetadataEntryName)
	if err != nil {
		return moerr.NewFileWriteFailed(ctx, path, err)
	}
	if _, err = w.Write(metadataJSON); err != nil {
		return moerr.NewFileWriteFailed(ctx, path, err)
	}

	if err = zw.Close(); err != nil {
		return moerr.NewFileWriteFailed(ctx, path, err)
	}
	if err = f.Close(); err != nil {
		return moerr.NewFileWriteFailed(ctx, path, err)
	}

	logutil.Info("saved archive",
		zap.String("file", path),
		zap.Int("dataBytes", len(csvData)),
		zap.Int("formatEntries", metadata.Formatting.Len()))
	return nil
}

// Load reads a csvi archive back. Both named entries must be present
// and parseable; a missing entry or bad metadata is a structural
// error, distinct from io failures.
func Load(ctx context.Context, path string) (string, *Metadata, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return "", nil, moerr.NewFileNotFound(ctx, path)
		case errors.Is(err, zip.ErrFormat):
			return "", nil, moerr.NewInvalidArchive(ctx, path, err)
		default:
			return "", nil, moerr.NewFileReadFailed(ctx, path, err)
		}
	}
	defer r.Close()

	dataBytes, err := readEntry(ctx, &r.Reader, DataEntryName)
	if err != nil {
		return "", nil, err
	}
	metadataBytes, err := readEntry(ctx, &r.Reader, MetadataEntryName)
	if err != nil {
		return "", nil, err
	}

	metadata := &Metadata{}
	if err := json.Unmarshal(metadataBytes, metadata); err != nil {
		return "", nil, moerr.NewBadMetadata(ctx, err)
	}
	if metadata.Formatting == nil {
		metadata.Formatting = format.NewFormatMap()
	}
	return string(dataBytes), metadata, nil
}

func readEntry(ctx context.Context, r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, moerr.NewInvalidArchive(ctx, name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, moerr.NewInvalidArchive(ctx, name, err)
		}
		return data, nil
	}
	return nil, moerr.NewArchiveEntryMissing(ctx, name)
}
