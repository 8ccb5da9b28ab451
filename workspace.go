package fileconv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the scoped temporary directory one job converts inside.
// The input payload is materialized at InputPath before the strategy runs;
// the strategy must leave its artifact at OutputPath. The whole directory
// is removed when the dispatcher returns, success or failure.
type Workspace struct {
	Dir        string
	InputPath  string
	OutputPath string
}

func newWorkspace(baseDir string, job Job) (*Workspace, error) {
	dir, err := os.MkdirTemp(baseDir, "fileconv-*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	ws := &Workspace{
		Dir:        dir,
		InputPath:  filepath.Join(dir, "input"+job.Source.Ext()),
		OutputPath: filepath.Join(dir, "output"+job.Target.Ext()),
	}

	if err := os.WriteFile(ws.InputPath, job.Data, 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("write input: %w", err)
	}
	return ws, nil
}

// Close removes the workspace directory and everything in it.
func (w *Workspace) Close() error {
	return os.RemoveAll(w.Dir)
}

// Locate finds the artifact a tool produced when it chose its own output
// name (LibreOffice derives the name from the input file). Returns the
// first match for the target extension that is not the input file.
func (w *Workspace) Locate(target Format) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(w.Dir, "*"+target.Ext()))
	if err != nil {
		return "", false
	}
	for _, m := range matches {
		if m != w.InputPath {
			return m, true
		}
	}
	return "", false
}

// ToolRunner executes one conversion strategy inside a job's workspace.
// Implementations must confine side effects to the workspace directory.
type ToolRunner interface {
	// Run converts the workspace input into the workspace output path.
	Run(ctx context.Context, ws *Workspace, job Job, entry StrategyEntry) error

	// Check reports whether the tool is usable on this host. A non-nil
	// error means every job routed to this tool fails with
	// MissingDependencyError.
	Check() error
}
