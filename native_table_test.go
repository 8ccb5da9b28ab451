package fileconv

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func convertOK(t *testing.T, e *Engine, job Job) Result {
	t.Helper()
	res := e.Convert(context.Background(), job)
	if res.Err != nil {
		t.Fatalf("Convert %s -> %s: %v", job.Source, job.Target, res.Err)
	}
	return res
}

func TestTableCSVToXLSX(t *testing.T) {
	e := New(WithLogger(quietLogger()), WithTempDir(t.TempDir()))

	res := convertOK(t, e, Job{
		Filename: "data.csv",
		Data:     []byte("name,qty\nwidget,3\ngadget,7\n"),
		Target:   FormatXLSX,
		Options:  Options{OptDelimiter: ","},
	})

	f, err := excelize.OpenReader(bytes.NewReader(res.Output))
	if err != nil {
		t.Fatalf("output is not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if len(rows[0]) != 2 {
		t.Fatalf("got %d columns, want 2", len(rows[0]))
	}
	if rows[1][0] != "widget" || rows[2][1] != "7" {
		t.Errorf("cell values wrong: %v", rows)
	}
}

func TestTableCSVToXLSXSheetName(t *testing.T) {
	e := New(WithLogger(quietLogger()), WithTempDir(t.TempDir()))

	res := convertOK(t, e, Job{
		Filename: "data.csv",
		Data:     []byte("a,b\n1,2\n"),
		Target:   FormatXLSX,
		Options:  Options{OptSheetName: "Inventory"},
	})

	f, err := excelize.OpenReader(bytes.NewReader(res.Output))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Inventory" {
		t.Errorf("sheets = %v, want [Inventory]", got)
	}
}

func TestTableXLSXToCSVRoundTrip(t *testing.T) {
	e := New(WithLogger(quietLogger()), WithTempDir(t.TempDir()))

	original := "city,pop\noslo,700000\nbergen,290000\n"
	xlsxRes := convertOK(t, e, Job{
		Filename: "cities.csv",
		Data:     []byte(original),
		Target:   FormatXLSX,
	})
	csvRes := convertOK(t, e, Job{
		Filename: "cities.xlsx",
		Data:     xlsxRes.Output,
		Target:   FormatCSV,
	})

	if string(csvRes.Output) != original {
		t.Errorf("round trip changed data:\n%q\n%q", original, csvRes.Output)
	}
}

func TestTableDelimiterReencode(t *testing.T) {
	e := New(WithLogger(quietLogger()), WithTempDir(t.TempDir()))

	res := convertOK(t, e, Job{
		Filename: "data.csv",
		Data:     []byte("a;b\n1;2\n"),
		Target:   FormatTSV,
		Options:  Options{OptDelimiter: ";"},
	})
	if got := string(res.Output); got != "a\tb\n1\t2\n" {
		t.Errorf("tsv output = %q", got)
	}
}

func TestTableCSVToMarkdown(t *testing.T) {
	e := New(WithLogger(quietLogger()), WithTempDir(t.TempDir()))

	res := convertOK(t, e, Job{
		Filename: "data.csv",
		Data:     []byte("name,qty\nwidget,3\n"),
		Target:   FormatMarkdown,
	})

	md := string(res.Output)
	for _, want := range []string{"| name | qty |", "| --- | --- |", "| widget | 3 |"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestTableCSVToHTMLEscapes(t *testing.T) {
	e := New(WithLogger(quietLogger()), WithTempDir(t.TempDir()))

	res := convertOK(t, e, Job{
		Filename: "data.csv",
		Data:     []byte("tag\n<script>\n"),
		Target:   FormatHTML,
	})

	html := string(res.Output)
	if !strings.Contains(html, "<th>tag</th>") {
		t.Errorf("missing header cell:\n%s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("cell content not escaped:\n%s", html)
	}
}

func TestTableJSONRecords(t *testing.T) {
	e := New(WithLogger(quietLogger()), WithTempDir(t.TempDir()))

	t.Run("json to csv", func(t *testing.T) {
		res := convertOK(t, e, Job{
			Filename: "data.json",
			Data:     []byte(`[{"a":1,"b":"x"},{"a":2,"b":"y"}]`),
			Target:   FormatCSV,
		})
		want := "a,b\n1,x\n2,y\n"
		if string(res.Output) != want {
			t.Errorf("csv = %q, want %q", res.Output, want)
		}
	})

	t.Run("csv to json", func(t *testing.T) {
		res := convertOK(t, e, Job{
			Filename: "data.csv",
			Data:     []byte("a,b\n1,x\n"),
			Target:   FormatJSON,
		})
		out := string(res.Output)
		for _, want := range []string{`"a": "1"`, `"b": "x"`} {
			if !strings.Contains(out, want) {
				t.Errorf("json missing %s:\n%s", want, out)
			}
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		res := e.Convert(context.Background(), Job{
			Filename: "data.json",
			Data:     []byte(`{"not": "an array"}`),
			Target:   FormatCSV,
		})
		if !IsInvalidInput(res.Err) {
			t.Fatalf("want InvalidInputError, got %v", res.Err)
		}
	})
}

func TestTableEncodingOption(t *testing.T) {
	e := New(WithLogger(quietLogger()), WithTempDir(t.TempDir()))

	// "héllo" in Latin-1.
	data := append([]byte("word\nh"), 0xE9)
	data = append(data, []byte("llo\n")...)

	res := convertOK(t, e, Job{
		Filename: "data.csv",
		Data:     data,
		Target:   FormatJSON,
		Options:  Options{OptEncoding: "iso-8859-1"},
	})
	if !strings.Contains(string(res.Output), "héllo") {
		t.Errorf("latin-1 payload not decoded:\n%s", res.Output)
	}
}
