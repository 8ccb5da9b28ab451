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
	"errors"
	"fmt"
	"strings"
)

// UnsupportedConversionError is returned when the registry has no entry for
// the requested (category, source, target) triple. No external tool is
// started when this error is produced.
type UnsupportedConversionError struct {
	Category Category
	Source   Format
	Target   Format
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("unsupported conversion: %s %s -> %s", e.Category, e.Source, e.Target)
}

// InvalidInputError is returned when the source payload is empty, corrupt,
// or its content does not match the declared source format.
type InvalidInputError struct {
	Format Format
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s input", e.Format)
	}
	return fmt.Sprintf("invalid %s input: %s", e.Format, e.Reason)
}

// ToolExecutionError is returned when an external tool exits non-zero,
// times out, or fails to produce the expected output artifact. Stderr
// carries the tool's diagnostic text.
type ToolExecutionError struct {
	Tool   ToolID
	Err    error
	Stderr string
}

func (e *ToolExecutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s execution failed: %v", e.Tool, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, "\n%s", s)
	}
	return b.String()
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// MissingDependencyError is returned when the external tool a strategy
// needs is not installed on the host. It is distinct from
// ToolExecutionError so callers can surface an installation problem rather
// than a conversion problem.
type MissingDependencyError struct {
	Tool ToolID
	Err  error
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%s is not available: %v", e.Tool, e.Err)
}

func (e *MissingDependencyError) Unwrap() error { return e.Err }

// IsUnsupportedConversion reports whether the error is an UnsupportedConversionError.
func IsUnsupportedConversion(err error) bool {
	var target *UnsupportedConversionError
	return errors.As(err, &target)
}

// IsInvalidInput reports whether the error is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// IsToolExecution reports whether the error is a ToolExecutionError.
func IsToolExecution(err error) bool {
	var target *ToolExecutionError
	return errors.As(err, &target)
}

// IsMissingDependency reports whether the error is a MissingDependencyError.
func IsMissingDependency(err error) bool {
	var target *MissingDependencyError
	return errors.As(err, &target)
}
