package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/MabelHsu/ig-fb-view-analyzer/internal/analysis"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

// Parse decodes delimited text. UTF-8 (with or without BOM) and BOM-marked
// UTF-16 are read as is; anything else is taken as Windows-1252, the
// encoding spreadsheet tools fall back to on Windows.
func (csvParser) Parse(name string, content []byte, opt Options) (*analysis.Table, error) {
	text, err := decodeText(content)
	if err != nil {
		return nil, &analysis.DecodeError{Name: name, Err: err}
	}
	delim := opt.Delimiter
	if delim == 0 {
		if strings.HasSuffix(strings.ToLower(name), ".tsv") {
			delim = '\t'
		} else {
			delim = sniffDelimiter(text)
		}
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, &analysis.DecodeError{Name: name, Err: fmt.Errorf("read csv: %w", err)}
	}
	for len(records) > 0 && blank(records[0]) {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, &analysis.DecodeError{Name: name, Err: ErrNoHeader}
	}
	return analysis.NewTable(name, records[0], records[1:]), nil
}

func decodeText(data []byte) ([]byte, error) {
	if utf8.Valid(data) || hasUTF16BOM(data) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return nil, fmt.Errorf("decode utf-8: %w", err)
		}
		data = out
	} else {
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode windows-1252: %w", err)
		}
		data = out
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, ErrBinary
	}
	return data, nil
}

func hasUTF16BOM(b []byte) bool {
	return bytes.HasPrefix(b, []byte{0xFF, 0xFE}) || bytes.HasPrefix(b, []byte{0xFE, 0xFF})
}

// sniffDelimiter picks the separator that occurs most often, outside quotes,
// in the first non-empty line. Ties keep the comma.
func sniffDelimiter(text []byte) rune {
	line := firstLine(text)
	counts := map[rune]int{}
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case r == ',' || r == ';' || r == '\t' || r == '|':
			counts[r]++
		}
	}
	best := ','
	for _, r := range []rune{';', '\t', '|'} {
		if counts[r] > counts[best] {
			best = r
		}
	}
	return best
}

func firstLine(text []byte) string {
	for _, l := range strings.Split(string(text), "\n") {
		if strings.TrimSpace(l) != "" {
			return l
		}
	}
	return ""
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
