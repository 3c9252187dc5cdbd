package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MabelHsu/ig-fb-view-analyzer/internal/analysis"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

// Parse reads the selected sheet (the first one by default). The first
// non-blank row is the header. Cells come back as displayed in the workbook.
func (xlsxParser) Parse(name string, content []byte, opt Options) (*analysis.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &analysis.DecodeError{Name: name, Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &analysis.DecodeError{Name: name, Err: fmt.Errorf("workbook has no sheets")}
	}
	sheet := sheets[0]
	if opt.Sheet != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, &analysis.ConfigError{
				Field:   "sheet",
				Message: fmt.Sprintf("sheet %q not found; available: %s", opt.Sheet, strings.Join(sheets, ", ")),
			}
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &analysis.DecodeError{Name: name, Err: fmt.Errorf("read sheet %s: %w", sheet, err)}
	}
	for len(rows) > 0 && blank(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, &analysis.DecodeError{Name: name, Err: ErrNoHeader}
	}
	label := name
	if len(sheets) > 1 {
		label = fmt.Sprintf("%s (sheet: %s)", name, sheet)
	}
	return analysis.NewTable(label, rows[0], rows[1:]), nil
}
