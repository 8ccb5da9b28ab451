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
	"os"
	"os/exec"
)

// pandocRunner converts markup documents by shelling out to pandoc.
type pandocRunner struct {
	path string
}

func newPandocRunner(path string) *pandocRunner {
	if path == "" {
		path = "pandoc"
	}
	return &pandocRunner{path: path}
}

func (p *pandocRunner) Check() error {
	_, err := exec.LookPath(p.path)
	return err
}

func (p *pandocRunner) Run(ctx context.Context, ws *Workspace, job Job, entry StrategyEntry) error {
	args := []string{"-f", pandocReader(job.Source)}

	// PDF output has no -t name; pandoc picks the engine from the output
	// extension.
	if job.Target != FormatPDF {
		args = append(args, "-t", pandocWriter(job.Target))
	}

	if job.Options.Bool(OptPreserveFormatting, true) && entry.Honors(OptPreserveFormatting) {
		switch job.Target {
		case FormatMarkdown:
			args = append(args, "--wrap=none", "--markdown-headings=atx")
		case FormatHTML:
			args = append(args, "--standalone", "--embed-resources")
		}
	}
	if entry.Honors(OptStyleTemplate) && (job.Target == FormatDocx || job.Target == FormatPPTX) {
		if tpl := job.Options.String(OptStyleTemplate, ""); tpl != "" {
			if _, err := os.Stat(tpl); err == nil {
				args = append(args, "--reference-doc="+tpl)
			}
		}
	}

	args = append(args, "-o", ws.OutputPath, ws.InputPath)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.path, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &ToolExecutionError{Tool: ToolPandoc, Err: err, Stderr: stderr.String()}
	}
	return nil
}

// pandocReader maps a source format onto a pandoc reader name. Plain text
// has no reader of its own; the markdown reader accepts it verbatim.
func pandocReader(f Format) string {
	switch f {
	case FormatMarkdown, FormatTxt:
		return "markdown"
	case FormatDoc:
		return "docx"
	default:
		return string(f)
	}
}

// pandocWriter maps a target format onto a pandoc writer name.
func pandocWriter(f Format) string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatTxt:
		return "plain"
	default:
		return string(f)
	}
}
