package fileconv

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// normalizeText cleans up the output of in-process strategies so every
// native target ships the same shape of text: valid UTF-8, LF line
// endings, no control characters outside tab and newline, no trailing
// whitespace on a line, and at most one blank line in a row.
func normalizeText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.Map(func(r rune) rune {
		if r != '\n' && r != '\t' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	var b strings.Builder
	b.Grow(len(s))
	pendingBlank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			pendingBlank = b.Len() > 0
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
			if pendingBlank {
				b.WriteByte('\n')
			}
		}
		pendingBlank = false
		b.WriteString(line)
	}
	return strings.TrimSpace(b.String())
}
