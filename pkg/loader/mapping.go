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
	"sync/atomic"
)

// mapping is the shared, immutable view of a file's bytes. The bytes
// are never written after construction, so any number of readers may
// hold a reference concurrently; the last release unmaps.
type mapping struct {
	data   []byte
	mapped bool
	refs   int32
}

func newMapping(data []byte, mapped bool) *mapping {
	return &mapping{data: data, mapped: mapped, refs: 1}
}

func (m *mapping) retain() {
	atomic.AddInt32(&m.refs, 1)
}

func (m *mapping) release() error {
	if atomic.AddInt32(&m.refs, -1) != 0 {
		return nil
	}
	if m.mapped {
		data := m.data
		m.data = nil
		return unmapFile(data)
	}
	m.data = nil
	return nil
}
