package fileconv

import "testing"

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name     string
		category Category
		source   Format
		target   Format
		wantTool ToolID
	}{
		{"md to pdf", CategoryDocument, FormatMarkdown, FormatPDF, ToolPandoc},
		{"md to docx", CategoryDocument, FormatMarkdown, FormatDocx, ToolPandoc},
		{"docx to md", CategoryDocument, FormatDocx, FormatMarkdown, ToolPandoc},
		{"html to md is native", CategoryDocument, FormatHTML, FormatMarkdown, ToolNative},
		{"html to docx is pandoc", CategoryDocument, FormatHTML, FormatDocx, ToolPandoc},
		{"legacy doc needs office suite", CategoryDocument, FormatDoc, FormatPDF, ToolLibreOffice},
		{"pdf to docx needs office suite", CategoryDocument, FormatPDF, FormatDocx, ToolLibreOffice},
		{"pdf to txt is native", CategoryDocument, FormatPDF, FormatTxt, ToolNative},
		{"rss to md is native", CategoryDocument, FormatRSS, FormatMarkdown, ToolNative},
		{"pptx to pdf", CategoryPresentation, FormatPPTX, FormatPDF, ToolLibreOffice},
		{"pptx to jpg", CategoryPresentation, FormatPPTX, FormatJPG, ToolLibreOffice},
		{"pdf slides to png", CategoryPresentation, FormatPDF, FormatPNG, ToolLibreOffice},
		{"html to pptx", CategoryPresentation, FormatHTML, FormatPPTX, ToolPandoc},
		{"csv to xlsx is native", CategorySpreadsheet, FormatCSV, FormatXLSX, ToolNative},
		{"xls to csv is native", CategorySpreadsheet, FormatXLS, FormatCSV, ToolNative},
		{"csv to ods needs office suite", CategorySpreadsheet, FormatCSV, FormatODS, ToolLibreOffice},
		{"ods to xlsx needs office suite", CategorySpreadsheet, FormatODS, FormatXLSX, ToolLibreOffice},
		{"csv re-encode", CategorySpreadsheet, FormatCSV, FormatCSV, ToolNative},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entry, ok := r.Lookup(tc.category, tc.source, tc.target)
			if !ok {
				t.Fatalf("Lookup(%s, %s, %s) not found", tc.category, tc.source, tc.target)
			}
			if entry.Tool != tc.wantTool {
				t.Errorf("tool = %s, want %s", entry.Tool, tc.wantTool)
			}
		})
	}
}

func TestRegistryClosedWorld(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name     string
		category Category
		source   Format
		target   Format
	}{
		{"unknown source", CategoryDocument, Format("xyz"), FormatPDF},
		{"pdf to pptx", CategoryDocument, FormatPDF, FormatPPTX},
		{"xlsx identity", CategorySpreadsheet, FormatXLSX, FormatXLSX},
		{"json to ods", CategorySpreadsheet, FormatJSON, FormatODS},
		{"doc to md", CategoryDocument, FormatDoc, FormatMarkdown},
		{"spreadsheet pair in document category", CategoryDocument, FormatCSV, FormatXLSX},
		{"pptx in spreadsheet category", CategorySpreadsheet, FormatPPTX, FormatPDF},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := r.Lookup(tc.category, tc.source, tc.target); ok {
				t.Errorf("Lookup(%s, %s, %s) unexpectedly supported", tc.category, tc.source, tc.target)
			}
		})
	}
}

func TestRegistryListings(t *testing.T) {
	r := NewRegistry()

	sources := r.Sources(CategorySpreadsheet)
	want := map[Format]bool{FormatCSV: true, FormatTSV: true, FormatXLSX: true, FormatXLS: true, FormatJSON: true, FormatODS: true}
	if len(sources) != len(want) {
		t.Fatalf("spreadsheet sources = %v", sources)
	}
	for _, s := range sources {
		if !want[s] {
			t.Errorf("unexpected source %s", s)
		}
	}

	targets := r.Targets(CategoryPresentation, FormatPPTX)
	if len(targets) != 5 {
		t.Errorf("pptx targets = %v, want 5 entries", targets)
	}
}

func TestStrategyEntryHonors(t *testing.T) {
	r := NewRegistry()

	entry, ok := r.Lookup(CategorySpreadsheet, FormatCSV, FormatXLSX)
	if !ok {
		t.Fatal("csv -> xlsx missing")
	}
	if !entry.Honors(OptDelimiter) || !entry.Honors(OptSheetName) {
		t.Errorf("spreadsheet entry should honor delimiter and sheet options: %v", entry.Options)
	}
	if entry.Honors(OptImageQuality) {
		t.Error("spreadsheet entry should not honor image quality")
	}
}
