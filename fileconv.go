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

// Package fileconv converts documents, presentations, and spreadsheets
// between file formats. A static registry maps each supported
// (category, source, target) pair to a strategy: pandoc, a headless
// office suite, or an in-process library. Jobs run in scoped temporary
// workspaces and fail independently, so one bad file never aborts a batch.
package fileconv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single external tool invocation.
const DefaultTimeout = 2 * time.Minute

// Engine is the conversion dispatcher. Safe for concurrent use: all
// mutable state after New is per-job.
type Engine struct {
	registry *Registry
	tools    map[ToolID]ToolRunner
	logger   *slog.Logger
	timeout  time.Duration
	workers  int
	tempDir  string

	pandocPath string
	librePath  string

	mu      sync.Mutex
	checked map[ToolID]error
}

// New creates an Engine with the default registry and built-in tool
// runners.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: NewRegistry(),
		tools:    map[ToolID]ToolRunner{},
		checked:  map[ToolID]error{},
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	if _, ok := e.tools[ToolPandoc]; !ok {
		e.tools[ToolPandoc] = newPandocRunner(e.pandocPath)
	}
	if _, ok := e.tools[ToolLibreOffice]; !ok {
		e.tools[ToolLibreOffice] = newLibreOfficeRunner(e.librePath)
	}
	if _, ok := e.tools[ToolNative]; !ok {
		e.tools[ToolNative] = newNativeRunner()
	}
	return e
}

// Registry exposes the supported-format table, for listing sources and
// targets in a UI or CLI.
func (e *Engine) Registry() *Registry { return e.registry }

// RegisterTool replaces the runner for a tool. Useful for substituting a
// different converter binary or a stub in tests.
func (e *Engine) RegisterTool(id ToolID, r ToolRunner) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tools[id] = r
	delete(e.checked, id)
}

// CheckDependencies probes every registered tool and returns the
// availability error per tool (nil means available). Call at startup to
// surface missing binaries before accepting jobs.
func (e *Engine) CheckDependencies() map[ToolID]error {
	out := map[ToolID]error{}
	e.mu.Lock()
	ids := make([]ToolID, 0, len(e.tools))
	for id := range e.tools {
		ids = append(ids, id)
	}
	e.mu.Unlock()
	for _, id := range ids {
		out[id] = e.checkTool(id)
	}
	return out
}

// ConvertFile reads a file from disk and converts it, inferring the
// source format and category from the filename.
func (e *Engine) ConvertFile(ctx context.Context, path string, target Format, opts Options) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{
			JobID: uuid.NewString(),
			Err:   &InvalidInputError{Reason: fmt.Sprintf("read %s: %v", path, err)},
		}
	}
	return e.Convert(ctx, Job{
		Filename: filepath.Base(path),
		Data:     data,
		Target:   target,
		Options:  opts,
	})
}

// Convert runs a single job and returns its result. All four failure
// kinds land in Result.Err; Convert never panics the batch or leaks the
// job's workspace.
func (e *Engine) Convert(ctx context.Context, job Job) Result {
	start := time.Now()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Source == "" {
		if f, ok := FormatForFilename(job.Filename); ok {
			job.Source = f
		}
	}
	if job.Category == 0 {
		job.Category = DefaultCategory(job.Source)
	}

	res := e.convert(ctx, job)
	res.JobID = job.ID
	res.Duration = time.Since(start)

	if res.Err != nil {
		e.logger.Error("conversion failed",
			"job", job.ID,
			"file", job.Filename,
			"source", job.Source,
			"target", job.Target,
			"category", job.Category.String(),
			"duration", res.Duration,
			"error", res.Err)
	} else {
		e.logger.Info("conversion succeeded",
			"job", job.ID,
			"file", job.Filename,
			"source", job.Source,
			"target", job.Target,
			"category", job.Category.String(),
			"duration", res.Duration,
			"bytes", len(res.Output))
	}
	return res
}

func (e *Engine) convert(ctx context.Context, job Job) Result {
	entry, ok := e.registry.Lookup(job.Category, job.Source, job.Target)
	if !ok {
		// Fail fast: no workspace, no subprocess.
		if job.Source == "" {
			job.Source = Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(job.Filename)), "."))
		}
		return Result{Err: &UnsupportedConversionError{
			Category: job.Category,
			Source:   job.Source,
			Target:   job.Target,
		}}
	}

	if err := validatePayload(job.Data, job.Source); err != nil {
		return Result{Err: err}
	}

	e.mu.Lock()
	runner := e.tools[entry.Tool]
	e.mu.Unlock()
	if runner == nil {
		return Result{Err: &MissingDependencyError{Tool: entry.Tool, Err: errors.New("no runner registered")}}
	}
	if err := e.checkTool(entry.Tool); err != nil {
		return Result{Err: &MissingDependencyError{Tool: entry.Tool, Err: err}}
	}

	ws, err := newWorkspace(e.tempDir, job)
	if err != nil {
		// Infrastructure failures (disk full, unwritable temp dir) surface
		// with the underlying message preserved.
		return Result{Err: &ToolExecutionError{Tool: entry.Tool, Err: err}}
	}
	defer ws.Close()

	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	if err := runner.Run(runCtx, ws, job, entry); err != nil {
		return Result{Err: classifyRunError(entry.Tool, err)}
	}

	output, err := os.ReadFile(ws.OutputPath)
	if err != nil {
		// Some tools pick their own output name; look for it.
		if alt, ok := ws.Locate(job.Target); ok {
			output, err = os.ReadFile(alt)
		}
	}
	if err != nil {
		return Result{Err: &ToolExecutionError{
			Tool: entry.Tool,
			Err:  errors.New("tool produced no output artifact"),
		}}
	}

	return Result{
		Output:     output,
		OutputName: job.OutputFilename(),
		MIMEType:   mimeForFormat(job.Target),
	}
}

// checkTool memoizes tool availability per engine. A replaced runner
// resets its cached result.
func (e *Engine) checkTool(id ToolID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err, ok := e.checked[id]; ok {
		return err
	}
	runner := e.tools[id]
	if runner == nil {
		return errors.New("no runner registered")
	}
	err := runner.Check()
	e.checked[id] = err
	return err
}

// classifyRunError maps a runner error onto the failure taxonomy. Typed
// errors pass through; timeouts and anything untyped become tool
// execution failures.
func classifyRunError(tool ToolID, err error) error {
	var (
		unsupported *UnsupportedConversionError
		invalid     *InvalidInputError
		toolErr     *ToolExecutionError
		missing     *MissingDependencyError
	)
	switch {
	case errors.As(err, &unsupported), errors.As(err, &invalid),
		errors.As(err, &toolErr), errors.As(err, &missing):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return &ToolExecutionError{Tool: tool, Err: fmt.Errorf("timed out: %w", err)}
	default:
		return &ToolExecutionError{Tool: tool, Err: err}
	}
}
