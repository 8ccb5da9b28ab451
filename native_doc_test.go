package fileconv

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestHTMLToMarkdown(t *testing.T) {
	e := New(WithLogger(quietLogger()), WithTempDir(t.TempDir()))

	html := `<!DOCTYPE html>
<html>
<head><title>Quarterly Report</title><style>body { color: red; }</style></head>
<body>
<h1>Results</h1>
<p>Revenue was <strong>up</strong> this quarter.</p>
<script>alert("hi")</script>
</body>
</html>`

	res := convertOK(t, e, Job{
		Filename: "report.html",
		Data:     []byte(html),
		Target:   FormatMarkdown,
	})

	md := string(res.Output)
	for _, want := range []string{"# Results", "**up**"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	for _, forbidden := range []string{"alert", "color: red"} {
		if strings.Contains(md, forbidden) {
			t.Errorf("markdown contains stripped content %q:\n%s", forbidden, md)
		}
	}
	if res.OutputName != "report.md" {
		t.Errorf("OutputName = %q", res.OutputName)
	}
}

func TestHTMLTitleBecomesHeading(t *testing.T) {
	e := New(WithLogger(quietLogger()), WithTempDir(t.TempDir()))

	res := convertOK(t, e, Job{
		Filename: "page.html",
		Data:     []byte(`<html><head><title>About Us</title></head><body><p>Plain paragraph.</p></body></html>`),
		Target:   FormatMarkdown,
	})

	md := string(res.Output)
	if !strings.HasPrefix(md, "# About Us") {
		t.Errorf("title not promoted to heading:\n%s", md)
	}
}

func TestRSSToMarkdown(t *testing.T) {
	e := New(WithLogger(quietLogger()), WithTempDir(t.TempDir()))

	rss := `<?xml version="1.0"?>
<rss version="2.0">
<channel>
<title>Release Notes</title>
<description>Product updates</description>
<item>
<title>Version 2.0</title>
<link>https://example.com/v2</link>
<description>&lt;p&gt;New &lt;em&gt;batch&lt;/em&gt; mode.&lt;/p&gt;</description>
</item>
</channel>
</rss>`

	res := convertOK(t, e, Job{
		Filename: "feed.rss",
		Data:     []byte(rss),
		Target:   FormatMarkdown,
	})

	md := string(res.Output)
	for _, want := range []string{"# Release Notes", "## Version 2.0", "*batch*", "https://example.com/v2"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestPDFInvalidPayload(t *testing.T) {
	e := New(WithLogger(quietLogger()), WithTempDir(t.TempDir()))

	res := e.Convert(context.Background(), Job{
		Filename: "broken.pdf",
		Data:     []byte("this is not a pdf"),
		Target:   FormatTxt,
	})
	if !IsInvalidInput(res.Err) {
		t.Fatalf("want InvalidInputError, got %v", res.Err)
	}
}

func TestPDFToText(t *testing.T) {
	path := "testdata/test.pdf"
	data, err := os.ReadFile(path)
	if err != nil {
		t.Skipf("test fixture %s not found", path)
	}

	e := New(WithLogger(quietLogger()), WithTempDir(t.TempDir()))
	res := convertOK(t, e, Job{
		Filename: "test.pdf",
		Data:     data,
		Target:   FormatTxt,
	})
	if len(res.Output) == 0 {
		t.Error("empty text output")
	}
}
