package fileconv

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// decodeText decodes a raw payload to UTF-8. An explicit charset (the
// encoding job option) wins; otherwise the charset is detected. Outputs
// are always written as UTF-8.
func decodeText(data []byte, charset string) string {
	if charset != "" {
		if enc := lookupEncoding(charset); enc != nil {
			if decoded, err := enc.NewDecoder().Bytes(data); err == nil {
				return string(decoded)
			}
		}
	}
	return decodeWithDetection(data)
}

// decodeWithDetection detects the charset of data and decodes it to UTF-8.
func decodeWithDetection(data []byte) string {
	// Clean ASCII or valid multi-byte UTF-8 passes through untouched.
	if utf8.Valid(data) && !hasHighBytes(data) {
		return string(data)
	}
	if utf8.Valid(data) && !strings.ContainsRune(string(data), '�') {
		return string(data)
	}

	detector := chardet.NewTextDetector()
	results, err := detector.DetectAll(data)
	if err == nil {
		bestScore := -1 << 31
		best := ""
		for _, r := range results {
			enc := lookupEncoding(r.Charset)
			if enc == nil {
				continue
			}
			decoded, err := enc.NewDecoder().Bytes(data)
			if err != nil {
				continue
			}
			s := string(decoded)
			score := r.Confidence - 10*strings.Count(s, "�")
			if score > bestScore {
				bestScore = score
				best = s
			}
		}
		if best != "" {
			return best
		}
	}

	return string(data)
}

func hasHighBytes(data []byte) bool {
	for _, b := range data {
		if b > 0x7F {
			return true
		}
	}
	return false
}

// lookupEncoding maps charset names to Go encoding implementations.
func lookupEncoding(charset string) encoding.Encoding {
	switch strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(charset, "-", ""), "_", "")) {
	case "utf8", "utf8bom", "ascii", "usascii":
		return unicode.UTF8
	case "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "iso88591", "latin1":
		return charmap.ISO8859_1
	case "iso88592":
		return charmap.ISO8859_2
	case "iso88595":
		return charmap.ISO8859_5
	case "iso88597":
		return charmap.ISO8859_7
	case "iso88599":
		return charmap.ISO8859_9
	case "iso885915":
		return charmap.ISO8859_15
	case "windows1250", "cp1250":
		return charmap.Windows1250
	case "windows1251", "cp1251":
		return charmap.Windows1251
	case "windows1252", "cp1252":
		return charmap.Windows1252
	case "koi8r":
		return charmap.KOI8R
	case "shiftjis", "sjis", "cp932", "windows31j":
		return japanese.ShiftJIS
	case "eucjp":
		return japanese.EUCJP
	case "iso2022jp":
		return japanese.ISO2022JP
	case "euckr", "cp949":
		return korean.EUCKR
	case "gb2312", "gbk", "cp936", "gb18030":
		return simplifiedchinese.GBK
	case "big5", "cp950":
		return traditionalchinese.Big5
	}
	return nil
}
