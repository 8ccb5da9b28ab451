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
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// libreOfficeRunner converts office formats via a headless LibreOffice.
type libreOfficeRunner struct {
	path string
}

func newLibreOfficeRunner(path string) *libreOfficeRunner {
	return &libreOfficeRunner{path: path}
}

// binary resolves the office-suite executable. soffice is preferred; some
// distributions only ship the libreoffice wrapper.
func (l *libreOfficeRunner) binary() (string, error) {
	if l.path != "" {
		return exec.LookPath(l.path)
	}
	if p, err := exec.LookPath("soffice"); err == nil {
		return p, nil
	}
	return exec.LookPath("libreoffice")
}

func (l *libreOfficeRunner) Check() error {
	_, err := l.binary()
	return err
}

func (l *libreOfficeRunner) Run(ctx context.Context, ws *Workspace, job Job, entry StrategyEntry) error {
	bin, err := l.binary()
	if err != nil {
		return &MissingDependencyError{Tool: ToolLibreOffice, Err: err}
	}

	convertTo := string(job.Target)
	if job.Target == FormatJPG && entry.Honors(OptImageQuality) {
		if q := job.Options.Int(OptImageQuality, 90); q >= 1 && q <= 100 {
			if filter := jpegExportFilter(job.Source); filter != "" {
				convertTo = fmt.Sprintf(`jpg:%s:{"Quality":{"type":"long","value":%d}}`, filter, q)
			}
		}
	}

	args := []string{
		"--headless",
		"--norestore",
		// Isolated profile per workspace so parallel jobs don't contend
		// for the user-installation lock.
		"-env:UserInstallation=file://" + filepath.Join(ws.Dir, "profile"),
		"--convert-to", convertTo,
		"--outdir", ws.Dir,
		ws.InputPath,
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &ToolExecutionError{Tool: ToolLibreOffice, Err: err, Stderr: stderr.String()}
	}

	// LibreOffice names the artifact after the input file; move it to the
	// path the dispatcher expects.
	produced := strings.TrimSuffix(ws.InputPath, filepath.Ext(ws.InputPath)) + job.Target.Ext()
	if produced != ws.OutputPath {
		if _, err := os.Stat(produced); err == nil {
			if err := os.Rename(produced, ws.OutputPath); err != nil {
				return &ToolExecutionError{Tool: ToolLibreOffice, Err: err}
			}
		}
	}
	return nil
}

// jpegExportFilter picks the export filter matching the application that
// imports the source format.
func jpegExportFilter(source Format) string {
	switch source {
	case FormatPPT, FormatPPTX:
		return "impress_jpg_Export"
	case FormatPDF:
		return "draw_jpg_Export"
	}
	return ""
}
