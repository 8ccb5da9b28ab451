package fileconv

import (
	"context"
	"fmt"
)

// nativeRunner converts in-process, without spawning a subprocess. It is
// always available.
type nativeRunner struct{}

func newNativeRunner() *nativeRunner { return &nativeRunner{} }

func (n *nativeRunner) Check() error { return nil }

func (n *nativeRunner) Run(_ context.Context, ws *Workspace, job Job, _ StrategyEntry) error {
	switch job.Category {
	case CategorySpreadsheet:
		return convertTable(ws, job)
	case CategoryDocument:
		switch {
		case job.Source == FormatHTML && job.Target == FormatMarkdown:
			return convertHTMLDoc(ws, job)
		case job.Source == FormatPDF:
			return convertPDFText(ws, job)
		case job.Source == FormatRSS || job.Source == FormatAtom:
			return convertFeedDoc(ws, job)
		}
	}
	return fmt.Errorf("no native strategy for %s %s -> %s", job.Category, job.Source, job.Target)
}
