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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// convertTable is the native spreadsheet strategy: decode the source into
// rows of cells, re-encode into the target format. Row and column counts
// survive any native round trip.
func convertTable(ws *Workspace, job Job) error {
	rows, err := readTable(ws, job)
	if err != nil {
		return &InvalidInputError{Format: job.Source, Reason: err.Error()}
	}

	out, err := encodeTable(rows, job)
	if err != nil {
		return err
	}
	return os.WriteFile(ws.OutputPath, out, 0o600)
}

func readTable(ws *Workspace, job Job) ([][]string, error) {
	switch job.Source {
	case FormatCSV:
		return readDelimited(job, ',')
	case FormatTSV:
		return readDelimited(job, '\t')
	case FormatXLSX:
		return readXLSX(job)
	case FormatXLS:
		return readXLS(ws.InputPath, job)
	case FormatJSON:
		return readJSONRecords(job.Data)
	}
	return nil, fmt.Errorf("no native reader for %s", job.Source)
}

func readDelimited(job Job, defaultComma rune) ([][]string, error) {
	text := decodeText(job.Data, job.Options.String(OptEncoding, ""))
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delimiterOption(job.Options, defaultComma)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", job.Source, err)
	}
	return rows, nil
}

func readXLSX(job Job) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(job.Data))
	if err != nil {
		return nil, fmt.Errorf("open XLSX: %w", err)
	}
	defer f.Close()

	sheet := job.Options.String(OptSheetName, "")
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// readXLS opens the legacy workbook from disk; the XLS library has no
// reader-based API.
func readXLS(path string, job Job) ([][]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open XLS: %w", err)
	}

	wanted := job.Options.String(OptSheetName, "")
	var sheet *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		s := wb.GetSheet(i)
		if s == nil {
			continue
		}
		if wanted == "" || s.Name == wanted {
			sheet = s
			break
		}
	}
	if sheet == nil {
		if wanted != "" {
			return nil, fmt.Errorf("sheet %q not found", wanted)
		}
		return nil, fmt.Errorf("workbook has no sheets")
	}

	var rows [][]string
	for rowIdx := 0; rowIdx <= int(sheet.MaxRow); rowIdx++ {
		row := sheet.Row(rowIdx)
		if row == nil {
			continue
		}
		var cells []string
		lastCol := row.LastCol()
		for colIdx := 0; colIdx < lastCol; colIdx++ {
			cells = append(cells, row.Col(colIdx))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// readJSONRecords accepts an array of flat objects. The header is the
// union of keys across records, sorted so column order is stable across
// runs.
func readJSONRecords(data []byte) ([][]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("parse JSON records: %w", err)
	}

	var header []string
	seen := map[string]bool{}
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		// Object key order is lost in decoding; sort for determinism.
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, header)
	for _, rec := range records {
		cells := make([]string, len(header))
		for i, k := range header {
			cells[i] = jsonCellString(rec[k])
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func jsonCellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

func encodeTable(rows [][]string, job Job) ([]byte, error) {
	switch job.Target {
	case FormatCSV:
		return writeDelimited(rows, delimiterOption(job.Options, ','))
	case FormatTSV:
		return writeDelimited(rows, delimiterOption(job.Options, '\t'))
	case FormatXLSX:
		return writeXLSX(rows, job.Options.String(OptSheetName, "Sheet1"))
	case FormatJSON:
		return writeJSONRecords(rows)
	case FormatHTML:
		return writeHTMLTable(rows), nil
	case FormatMarkdown:
		return []byte(normalizeText(renderMarkdownTable(rows)) + "\n"), nil
	}
	return nil, fmt.Errorf("no native writer for %s", job.Target)
}

func writeDelimited(rows [][]string, comma rune) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = comma
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("encode delimited: %w", err)
	}
	return buf.Bytes(), nil
}

func writeXLSX(rows [][]string, sheet string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, fmt.Errorf("name sheet: %w", err)
		}
	}
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = c
		}
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

// writeJSONRecords inverts readJSONRecords: the first row becomes the
// keys, each following row one object.
func writeJSONRecords(rows [][]string) ([]byte, error) {
	records := make([]map[string]string, 0, max(len(rows)-1, 0))
	if len(rows) > 0 {
		header := rows[0]
		for _, row := range rows[1:] {
			rec := make(map[string]string, len(header))
			for i, k := range header {
				if i < len(row) {
					rec[k] = row[i]
				} else {
					rec[k] = ""
				}
			}
			records = append(records, rec)
		}
	}
	return json.MarshalIndent(records, "", "  ")
}

func writeHTMLTable(rows [][]string) []byte {
	var b strings.Builder
	b.WriteString("<table>\n")
	for i, row := range rows {
		tag := "td"
		if i == 0 {
			tag = "th"
		}
		b.WriteString("  <tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<%s>%s</%s>", tag, html.EscapeString(cell), tag)
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")
	return []byte(b.String())
}

// renderMarkdownTable renders rows as a markdown table; the first row is
// the header. Ragged rows are padded to the header width.
func renderMarkdownTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	numCols := len(rows[0])

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = strings.ReplaceAll(row[i], "|", `\|`)
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	b.WriteString("|")
	for i := 0; i < numCols; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return b.String()
}

func delimiterOption(opts Options, def rune) rune {
	s := opts.String(OptDelimiter, "")
	if s == "" {
		return def
	}
	r := []rune(s)
	return r[0]
}
