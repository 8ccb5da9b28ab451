// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package fileconv

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Options is an open bag of per-job conversion options. Strategies read
// the keys they honor and ignore the rest, so callers can pass options for
// a different category without failing the job.
type Options map[string]any

// String returns the option as a string, or def when absent or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Bool returns the option as a bool, or def when absent.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// Int returns the option as an int, accepting int and numeric strings.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Job is one requested single-file conversion. Immutable once handed to
// the engine.
type Job struct {
	// ID correlates log lines and results. Assigned by the engine when
	// empty.
	ID string

	// Filename is the original upload name; its extension infers Source
	// when Source is unset.
	Filename string

	// Data is the raw source payload.
	Data []byte

	// Source and Target are the conversion endpoints. Category selects the
	// registry table; when zero it is inferred from Source.
	Source   Format
	Target   Format
	Category Category

	// Options are strategy-specific knobs (delimiter, sheet name, ...).
	Options Options
}

// OutputFilename suggests a name for the converted artifact: the original
// base name with the target format's extension.
func (j Job) OutputFilename() string {
	base := strings.TrimSuffix(filepath.Base(j.Filename), filepath.Ext(j.Filename))
	if base == "" || base == "." {
		base = "output"
	}
	return base + j.Target.Ext()
}

// Result is the per-job outcome. Output is populated only on success; Err
// only on failure.
type Result struct {
	JobID      string
	Output     []byte
	OutputName string
	MIMEType   string
	Duration   time.Duration
	Err        error
}

// Succeeded reports whether the job produced an artifact.
func (r Result) Succeeded() bool { return r.Err == nil }

// Summary aggregates a batch's outcomes for reporting upward.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Summarize counts successes and failures over a result set.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Succeeded() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
