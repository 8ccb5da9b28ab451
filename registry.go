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

import "sort"

// ToolID identifies the conversion strategy backing a registry entry.
type ToolID int

const (
	// ToolPandoc shells out to pandoc for markup-to-markup conversions.
	ToolPandoc ToolID = iota + 1
	// ToolLibreOffice shells out to a headless office suite for binary
	// office formats and renders.
	ToolLibreOffice
	// ToolNative converts in-process without spawning a subprocess.
	ToolNative
)

func (t ToolID) String() string {
	switch t {
	case ToolPandoc:
		return "pandoc"
	case ToolLibreOffice:
		return "libreoffice"
	case ToolNative:
		return "native"
	}
	return "unknown"
}

// Job option keys honored by strategies. Unknown keys are ignored.
const (
	OptPreserveFormatting = "preserve_formatting"
	OptStyleTemplate      = "style_template"
	OptImageQuality       = "image_quality"
	OptSheetName          = "sheet_name"
	OptDelimiter          = "delimiter"
	OptEncoding           = "encoding"
)

// StrategyEntry is one row of the registry: which tool converts a
// (source, target) pair within a category, and which option keys that
// strategy honors.
type StrategyEntry struct {
	Category Category
	Source   Format
	Target   Format
	Tool     ToolID
	Options  []string
}

// Honors reports whether the strategy reads the given option key. Keys it
// does not honor are silently ignored by the runner.
func (s StrategyEntry) Honors(key string) bool {
	for _, k := range s.Options {
		if k == key {
			return true
		}
	}
	return false
}

type pairKey struct {
	category Category
	source   Format
	target   Format
}

// Registry is the static table of supported conversions. Built once at
// engine construction, read-only afterwards.
type Registry struct {
	entries map[pairKey]StrategyEntry
}

// Lookup resolves a (category, source, target) triple to its strategy.
// The second return value is false when the pair is not supported.
func (r *Registry) Lookup(category Category, source, target Format) (StrategyEntry, bool) {
	e, ok := r.entries[pairKey{category, source, target}]
	return e, ok
}

// Sources returns the sorted source formats supported in a category.
func (r *Registry) Sources(category Category) []Format {
	seen := map[Format]bool{}
	for k := range r.entries {
		if k.category == category {
			seen[k.source] = true
		}
	}
	return sortedFormats(seen)
}

// Targets returns the sorted target formats a source can convert to within
// a category.
func (r *Registry) Targets(category Category, source Format) []Format {
	seen := map[Format]bool{}
	for k := range r.entries {
		if k.category == category && k.source == source {
			seen[k.target] = true
		}
	}
	return sortedFormats(seen)
}

func sortedFormats(set map[Format]bool) []Format {
	out := make([]Format, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) add(category Category, source Format, tool ToolID, opts []string, targets ...Format) {
	for _, target := range targets {
		r.entries[pairKey{category, source, target}] = StrategyEntry{
			Category: category,
			Source:   source,
			Target:   target,
			Tool:     tool,
			Options:  opts,
		}
	}
}

var (
	docOpts   = []string{OptPreserveFormatting, OptStyleTemplate}
	imgOpts   = []string{OptImageQuality}
	tableOpts = []string{OptSheetName, OptDelimiter, OptEncoding}
)

// NewRegistry builds the default conversion table.
//
// Document pairs follow pandoc's reader/writer matrix; PDF sources go
// through LibreOffice (pandoc has no PDF reader) except text extraction,
// which stays in-process. Legacy .doc input is LibreOffice-only for the
// same reason. Spreadsheet pairs stay in-process wherever the XLSX/XLS
// libraries cover both ends; .xls and .ods outputs and .ods inputs need
// the office suite.
func NewRegistry() *Registry {
	r := &Registry{entries: map[pairKey]StrategyEntry{}}

	// Documents.
	r.add(CategoryDocument, FormatMarkdown, ToolPandoc, docOpts,
		FormatDocx, FormatPDF, FormatTxt, FormatHTML, FormatODT, FormatRTF)
	r.add(CategoryDocument, FormatDocx, ToolPandoc, docOpts,
		FormatMarkdown, FormatPDF, FormatTxt, FormatHTML, FormatODT, FormatRTF)
	r.add(CategoryDocument, FormatTxt, ToolPandoc, docOpts,
		FormatMarkdown, FormatDocx, FormatPDF, FormatHTML, FormatODT, FormatRTF)
	r.add(CategoryDocument, FormatODT, ToolPandoc, docOpts,
		FormatMarkdown, FormatDocx, FormatPDF, FormatTxt, FormatHTML, FormatRTF)
	r.add(CategoryDocument, FormatRTF, ToolPandoc, docOpts,
		FormatMarkdown, FormatDocx, FormatPDF, FormatTxt, FormatHTML, FormatODT)
	r.add(CategoryDocument, FormatHTML, ToolPandoc, docOpts,
		FormatDocx, FormatPDF, FormatTxt, FormatODT, FormatRTF)
	r.add(CategoryDocument, FormatHTML, ToolNative, nil, FormatMarkdown)
	r.add(CategoryDocument, FormatDoc, ToolLibreOffice, nil,
		FormatDocx, FormatPDF, FormatTxt, FormatHTML, FormatODT, FormatRTF)
	r.add(CategoryDocument, FormatPDF, ToolLibreOffice, nil,
		FormatDocx, FormatHTML, FormatODT, FormatRTF)
	r.add(CategoryDocument, FormatPDF, ToolNative, nil, FormatTxt, FormatMarkdown)
	r.add(CategoryDocument, FormatRSS, ToolNative, nil, FormatMarkdown)
	r.add(CategoryDocument, FormatAtom, ToolNative, nil, FormatMarkdown)

	// Presentations.
	r.add(CategoryPresentation, FormatPPT, ToolLibreOffice, nil,
		FormatPPTX, FormatPDF, FormatHTML)
	r.add(CategoryPresentation, FormatPPT, ToolLibreOffice, imgOpts,
		FormatPNG, FormatJPG)
	r.add(CategoryPresentation, FormatPPTX, ToolLibreOffice, nil,
		FormatPPT, FormatPDF, FormatHTML)
	r.add(CategoryPresentation, FormatPPTX, ToolLibreOffice, imgOpts,
		FormatPNG, FormatJPG)
	r.add(CategoryPresentation, FormatPDF, ToolLibreOffice, nil, FormatHTML)
	r.add(CategoryPresentation, FormatPDF, ToolLibreOffice, imgOpts,
		FormatPNG, FormatJPG)
	r.add(CategoryPresentation, FormatHTML, ToolPandoc, docOpts, FormatPPTX)

	// Spreadsheets. Identity pairs for csv/tsv are deliberate: they
	// re-encode with a different delimiter or encoding.
	for _, src := range []Format{FormatCSV, FormatTSV, FormatXLSX, FormatXLS, FormatJSON} {
		r.add(CategorySpreadsheet, src, ToolNative, tableOpts,
			FormatCSV, FormatTSV, FormatXLSX, FormatJSON, FormatHTML, FormatMarkdown)
	}
	delete(r.entries, pairKey{CategorySpreadsheet, FormatXLSX, FormatXLSX})
	delete(r.entries, pairKey{CategorySpreadsheet, FormatJSON, FormatJSON})
	r.add(CategorySpreadsheet, FormatCSV, ToolLibreOffice, nil, FormatXLS, FormatODS)
	r.add(CategorySpreadsheet, FormatXLSX, ToolLibreOffice, nil, FormatXLS, FormatODS)
	r.add(CategorySpreadsheet, FormatXLS, ToolLibreOffice, nil, FormatODS)
	r.add(CategorySpreadsheet, FormatODS, ToolLibreOffice, nil,
		FormatCSV, FormatXLSX, FormatXLS, FormatHTML)

	return r
}
