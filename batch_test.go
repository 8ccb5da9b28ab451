package fileconv

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestConvertAllFaultIsolation(t *testing.T) {
	const n = 8
	const bad = 3

	e := New(WithLogger(quietLogger()), WithTempDir(t.TempDir()))

	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{
			ID:       fmt.Sprintf("job-%d", i),
			Filename: fmt.Sprintf("data-%d.csv", i),
			Data:     []byte(fmt.Sprintf("a,b\n%d,%d\n", i, i*2)),
			Target:   FormatMarkdown,
		}
	}
	// Job at position bad requests an unsupported conversion.
	jobs[bad].Filename = "broken.xyz"
	jobs[bad].Target = FormatPDF

	results, summary := e.ConvertAll(context.Background(), jobs)

	if len(results) != n {
		t.Fatalf("got %d results for %d jobs", len(results), n)
	}
	if summary.Total != n || summary.Succeeded != n-1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	for i, res := range results {
		if res.JobID != fmt.Sprintf("job-%d", i) {
			t.Errorf("result %d has job ID %s: order not preserved", i, res.JobID)
		}
		if i == bad {
			if !IsUnsupportedConversion(res.Err) {
				t.Errorf("job %d: want UnsupportedConversionError, got %v", i, res.Err)
			}
			continue
		}
		if res.Err != nil {
			t.Errorf("job %d failed: %v", i, res.Err)
			continue
		}
		if !strings.Contains(string(res.Output), fmt.Sprintf("| %d |", i)) {
			t.Errorf("job %d output does not contain its own data:\n%s", i, res.Output)
		}
	}
}

func TestConvertAllEmpty(t *testing.T) {
	e := New(WithLogger(quietLogger()))
	results, summary := e.ConvertAll(context.Background(), nil)
	if len(results) != 0 || summary.Total != 0 {
		t.Fatalf("results=%v summary=%+v", results, summary)
	}
}

func TestConvertAllSingleWorker(t *testing.T) {
	e := New(WithLogger(quietLogger()), WithWorkers(1), WithTempDir(t.TempDir()))

	jobs := []Job{
		{Filename: "a.csv", Data: []byte("x,y\n1,2\n"), Target: FormatJSON},
		{Filename: "b.csv", Data: []byte("x,y\n3,4\n"), Target: FormatJSON},
		{Filename: "c.csv", Data: []byte("x,y\n5,6\n"), Target: FormatJSON},
	}

	results, summary := e.ConvertAll(context.Background(), jobs)
	if summary.Succeeded != 3 {
		t.Fatalf("summary = %+v", summary)
	}
	for i, want := range []string{`"1"`, `"3"`, `"5"`} {
		if !strings.Contains(string(results[i].Output), want) {
			t.Errorf("result %d missing %s:\n%s", i, want, results[i].Output)
		}
	}
}

func TestConvertAllInFlightJobSurvivesCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	release := make(chan struct{})

	e := New(WithLogger(quietLogger()), WithWorkers(1), WithTempDir(t.TempDir()))
	e.RegisterTool(ToolPandoc, runnerFunc(func(ctx context.Context, ws *Workspace, job Job, entry StrategyEntry) error {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return err
		}
		return os.WriteFile(ws.OutputPath, []byte("<p>done</p>"), 0o600)
	}))

	var results []Result
	done := make(chan struct{})
	go func() {
		results, _ = e.ConvertAll(ctx, []Job{mdJob("report.md")})
		close(done)
	}()

	// Cancel the batch while the job is inside the runner, then let the
	// runner proceed.
	<-started
	cancel()
	close(release)
	<-done

	if results[0].Err != nil {
		t.Fatalf("in-flight job killed by batch cancellation: %v", results[0].Err)
	}
	if string(results[0].Output) != "<p>done</p>" {
		t.Errorf("output = %q", results[0].Output)
	}
}

func TestConvertAllCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(WithLogger(quietLogger()), WithWorkers(1), WithTempDir(t.TempDir()))
	jobs := []Job{
		{Filename: "a.csv", Data: []byte("x\n1\n"), Target: FormatJSON},
		{Filename: "b.csv", Data: []byte("x\n2\n"), Target: FormatJSON},
	}

	results, _ := e.ConvertAll(ctx, jobs)
	if len(results) != 2 {
		t.Fatalf("got %d results, want one per job", len(results))
	}
	for i, res := range results {
		if res.JobID == "" {
			t.Errorf("result %d missing job ID", i)
		}
	}
}
