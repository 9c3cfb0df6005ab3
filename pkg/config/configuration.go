// Copyright 2021 Matrix Origin
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

package config

import (
	"context"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/matrixorigin/csvi/pkg/common/moerr"
	"github.com/matrixorigin/csvi/pkg/logutil"
)

// EngineParameters of the tabular engine
type EngineParameters struct {
	//rows per page served by the windowed reader. default: 100
	PageSize int `toml:"pageSize"`

	//undo history bound of the editable grid. default: 100
	MaxHistory int `toml:"maxHistory"`

	//rows sampled when profiling an unmaterialized file. default: 10000
	ProfileSampleRows int `toml:"profileSampleRows"`

	//rows scanned for column width estimation. default: 100
	WidthSampleRows int `toml:"widthSampleRows"`

	//lower bound of an estimated column width in pixels. default: 50
	MinColumnWidth float32 `toml:"minColumnWidth"`

	//upper bound of an estimated column width in pixels. default: 400
	MaxColumnWidth float32 `toml:"maxColumnWidth"`

	//logging configuration
	Log logutil.LogConfig `toml:"log"`
}

// SetDefaultValues fills zero fields with their defaults.
func (ep *EngineParameters) SetDefaultValues() {
	if ep.PageSize <= 0 {
		ep.PageSize = 100
	}
	if ep.MaxHistory <= 0 {
		ep.MaxHistory = 100
	}
	if ep.ProfileSampleRows <= 0 {
		ep.ProfileSampleRows = 10000
	}
	if ep.WidthSampleRows <= 0 {
		ep.WidthSampleRows = 100
	}
	if ep.MinColumnWidth <= 0 {
		ep.MinColumnWidth = 50
	}
	if ep.MaxColumnWidth <= 0 {
		ep.MaxColumnWidth = 400
	}
	ep.Log.Adjust()
}

// LoadEngineParameters parses a toml configuration file. A missing or
// unparseable file is surfaced, never silently defaulted; use
// SetDefaultValues on a zero value when no file is given.
func LoadEngineParameters(ctx context.Context, path string) (*EngineParameters, error) {
	ep := &EngineParameters{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, moerr.NewFileNotFound(ctx, path)
	}
	if _, err := toml.DecodeFile(path, ep); err != nil {
		return nil, moerr.NewBadConfig(ctx, "parse %s: %v", path, err)
	}
	ep.SetDefaultValues()
	return ep, nil
}
