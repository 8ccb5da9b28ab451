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
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/ledongthuc/pdf"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
)

var (
	reScript  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	reStyle   = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	reDataURI = regexp.MustCompile(`(data:[a-zA-Z0-9/+.-]+;base64,)[A-Za-z0-9+/=]{64,}`)
)

// convertHTMLDoc is the native HTML -> Markdown strategy.
func convertHTMLDoc(ws *Workspace, job Job) error {
	htmlStr := decodeText(job.Data, job.Options.String(OptEncoding, ""))

	// Script and style bodies are noise in markdown output.
	htmlStr = reScript.ReplaceAllString(htmlStr, "")
	htmlStr = reStyle.ReplaceAllString(htmlStr, "")

	md, err := htmlToMarkdown(htmlStr)
	if err != nil {
		return &InvalidInputError{Format: FormatHTML, Reason: err.Error()}
	}

	// Base64 data URIs bloat the output; keep just the prefix.
	md = reDataURI.ReplaceAllString(md, "${1}...")
	md = normalizeText(md)

	// Surface the document title when the body has no heading of its own.
	if title := extractHTMLTitle(htmlStr); title != "" && !strings.HasPrefix(md, "#") {
		md = "# " + title + "\n\n" + md
	}

	return os.WriteFile(ws.OutputPath, []byte(md+"\n"), 0o600)
}

// extractHTMLTitle returns the text of the first <title> element.
func extractHTMLTitle(htmlStr string) string {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				title = n.FirstChild.Data
			}
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(title)
}

func htmlToMarkdown(htmlStr string) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle("atx"),
			),
			table.NewTablePlugin(),
		),
	)
	return conv.ConvertString(htmlStr)
}

// convertPDFText is the native PDF -> text/markdown strategy: row-ordered
// text extraction, no layout reconstruction.
func convertPDFText(ws *Workspace, job Job) error {
	r, err := pdf.NewReader(bytes.NewReader(job.Data), int64(len(job.Data)))
	if err != nil {
		return &InvalidInputError{Format: FormatPDF, Reason: err.Error()}
	}

	var out strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text := extractPageText(page)
		if text == "" {
			continue
		}
		out.WriteString(text)
		out.WriteString("\n\n")
	}

	text := normalizeText(out.String())
	if text == "" {
		return &InvalidInputError{Format: FormatPDF, Reason: "no extractable text"}
	}
	return os.WriteFile(ws.OutputPath, []byte(text+"\n"), 0o600)
}

// extractPageText joins a page's rows top to bottom. Empty fragments
// between words mark word boundaries in the underlying content stream.
func extractPageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}

	var out strings.Builder
	for _, row := range rows {
		var line strings.Builder
		boundary := false
		for _, word := range row.Content {
			if word.S == "" {
				boundary = true
				continue
			}
			if line.Len() > 0 && boundary && !strings.HasSuffix(line.String(), " ") {
				line.WriteString(" ")
			}
			line.WriteString(word.S)
			boundary = false
		}
		if text := strings.TrimSpace(line.String()); text != "" {
			out.WriteString(text)
			out.WriteString("\n")
		}
	}
	return strings.TrimSpace(out.String())
}

// convertFeedDoc is the native RSS/Atom -> Markdown strategy: feed title
// and description as headings, one section per item, HTML item bodies
// converted to markdown.
func convertFeedDoc(ws *Workspace, job Job) error {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(job.Data))
	if err != nil {
		return &InvalidInputError{Format: job.Source, Reason: err.Error()}
	}

	var b strings.Builder
	if feed.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", feed.Title)
	}
	if feed.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", feed.Description)
	}

	for _, item := range feed.Items {
		if item.Title != "" {
			fmt.Fprintf(&b, "## %s\n\n", item.Title)
		}
		switch {
		case item.Published != "":
			fmt.Fprintf(&b, "Published: %s\n\n", item.Published)
		case item.Updated != "":
			fmt.Fprintf(&b, "Updated: %s\n\n", item.Updated)
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}
		if content != "" {
			if strings.Contains(content, "<") && strings.Contains(content, ">") {
				if md, err := htmlToMarkdown(content); err == nil {
					content = md
				}
			}
			b.WriteString(content)
			b.WriteString("\n\n")
		}
		if item.Link != "" {
			fmt.Fprintf(&b, "[Read more](%s)\n\n", item.Link)
		}
	}

	return os.WriteFile(ws.OutputPath, []byte(normalizeText(b.String())+"\n"), 0o600)
}
