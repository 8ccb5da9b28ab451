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
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Category groups formats by the kind of content they carry. Every job
// belongs to exactly one category and the registry is keyed by it.
type Category int

const (
	CategoryDocument Category = iota + 1
	CategoryPresentation
	CategorySpreadsheet
)

func (c Category) String() string {
	switch c {
	case CategoryDocument:
		return "document"
	case CategoryPresentation:
		return "presentation"
	case CategorySpreadsheet:
		return "spreadsheet"
	}
	return "unknown"
}

// Format identifies a supported file format. The set is closed: anything
// not enumerated here is rejected at parse time, never guessed at.
type Format string

const (
	// Document formats.
	FormatMarkdown Format = "md"
	FormatDocx     Format = "docx"
	FormatDoc      Format = "doc"
	FormatPDF      Format = "pdf"
	FormatTxt      Format = "txt"
	FormatHTML     Format = "html"
	FormatODT      Format = "odt"
	FormatRTF      Format = "rtf"
	FormatRSS      Format = "rss"
	FormatAtom     Format = "atom"

	// Presentation formats.
	FormatPPT  Format = "ppt"
	FormatPPTX Format = "pptx"
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"

	// Spreadsheet formats.
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatJSON Format = "json"
	FormatODS  Format = "ods"
)

func (f Format) String() string { return string(f) }

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ParseFormat maps a format name or file extension (with or without the
// leading dot) to a Format. Returns false for anything outside the closed
// set.
func ParseFormat(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	switch s {
	case "md", "markdown":
		return FormatMarkdown, true
	case "docx":
		return FormatDocx, true
	case "doc":
		return FormatDoc, true
	case "pdf":
		return FormatPDF, true
	case "txt", "text":
		return FormatTxt, true
	case "html", "htm":
		return FormatHTML, true
	case "odt":
		return FormatODT, true
	case "rtf":
		return FormatRTF, true
	case "rss":
		return FormatRSS, true
	case "atom":
		return FormatAtom, true
	case "ppt":
		return FormatPPT, true
	case "pptx":
		return FormatPPTX, true
	case "png":
		return FormatPNG, true
	case "jpg", "jpeg":
		return FormatJPG, true
	case "csv":
		return FormatCSV, true
	case "tsv":
		return FormatTSV, true
	case "xlsx":
		return FormatXLSX, true
	case "xls":
		return FormatXLS, true
	case "json":
		return FormatJSON, true
	case "ods":
		return FormatODS, true
	}
	return "", false
}

// FormatForFilename infers the source format from a filename's extension.
func FormatForFilename(name string) (Format, bool) {
	return ParseFormat(filepath.Ext(name))
}

// DefaultCategory returns the category a source format is handled under
// when the caller does not specify one. Formats that can appear in more
// than one category (pdf, html) default to the document pipeline, matching
// the upload-by-extension behavior of the app this engine serves.
func DefaultCategory(f Format) Category {
	switch f {
	case FormatPPT, FormatPPTX:
		return CategoryPresentation
	case FormatCSV, FormatTSV, FormatXLSX, FormatXLS, FormatJSON, FormatODS:
		return CategorySpreadsheet
	default:
		return CategoryDocument
	}
}

// formatMIMEPrefixes lists the content-sniffed MIME types a payload
// claiming a given binary container format must match. Text formats are
// not listed; they cannot be reliably sniffed and are validated by their
// decoders instead.
var formatMIMEPrefixes = map[Format][]string{
	FormatPDF:  {"application/pdf"},
	FormatDocx: {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	FormatXLSX: {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/zip"},
	FormatPPTX: {"application/vnd.openxmlformats-officedocument.presentationml.presentation", "application/zip"},
	FormatXLS:  {"application/vnd.ms-excel", "application/x-ole-storage"},
	FormatDoc:  {"application/msword", "application/x-ole-storage"},
	FormatODT:  {"application/vnd.oasis.opendocument.text", "application/zip"},
	FormatODS:  {"application/vnd.oasis.opendocument.spreadsheet", "application/zip"},
	FormatPNG:  {"image/png"},
	FormatJPG:  {"image/jpeg"},
}

// validatePayload rejects payloads whose sniffed content type contradicts
// the declared source format. Empty payloads are always rejected.
func validatePayload(data []byte, f Format) error {
	if len(data) == 0 {
		return &InvalidInputError{Format: f, Reason: "empty payload"}
	}
	prefixes, ok := formatMIMEPrefixes[f]
	if !ok {
		return nil
	}
	detected := mimetype.Detect(data).String()
	for _, p := range prefixes {
		if strings.HasPrefix(detected, p) {
			return nil
		}
	}
	return &InvalidInputError{Format: f, Reason: "content sniffed as " + detected}
}

// mimeForFormat returns a MIME type for download/preview headers.
func mimeForFormat(f Format) string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPPTX:
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatXLS:
		return "application/vnd.ms-excel"
	case FormatODT:
		return "application/vnd.oasis.opendocument.text"
	case FormatODS:
		return "application/vnd.oasis.opendocument.spreadsheet"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatTSV:
		return "text/tab-separated-values; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatTxt:
		return "text/plain; charset=utf-8"
	case FormatRTF:
		return "application/rtf"
	case FormatPNG:
		return "image/png"
	case FormatJPG:
		return "image/jpeg"
	}
	return "application/octet-stream"
}
