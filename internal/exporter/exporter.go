// Package exporter writes the detail extract of a report as files that
// spreadsheet tools open without an import wizard.
package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MabelHsu/ig-fb-view-analyzer/internal/analysis"
	"github.com/MabelHsu/ig-fb-view-analyzer/internal/utils"
)

// Default file names offered for downloads.
const (
	DefaultCSVName  = "filtered_details.csv"
	DefaultXLSXName = "filtered_details.xlsx"
	detailSheet     = "Detail"
)

// utf8BOM lets Excel recognize the file as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteDetailCSV writes the full detail extract as comma-separated text
// prefixed with a UTF-8 byte order mark.
func WriteDetailCSV(w io.Writer, d *analysis.Detail) error {
	if d == nil {
		return fmt.Errorf("no detail extract to export")
	}
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, rec := range d.Rows {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDetailXLSX writes the full detail extract as a single-sheet workbook.
func WriteDetailXLSX(w io.Writer, d *analysis.Detail) error {
	if d == nil {
		return fmt.Errorf("no detail extract to export")
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), detailSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(detailSheet)
	if err != nil {
		return fmt.Errorf("open sheet writer: %w", err)
	}
	if err := sw.SetRow("A1", toCells(d.Columns)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range d.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(rec)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile exports d to path, choosing the format by extension
// (.xlsx for a workbook, anything else for CSV).
func WriteFile(path string, d *analysis.Detail) error {
	var buf bytes.Buffer
	var err error
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		err = WriteDetailXLSX(&buf, d)
	} else {
		err = WriteDetailCSV(&buf, d)
	}
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return err
	}
	slog.Debug("detail exported", slog.String("path", path), slog.Int("rows", len(d.Rows)))
	return nil
}

func toCells(rec []string) []interface{} {
	out := make([]interface{}, len(rec))
	for i, v := range rec {
		out[i] = v
	}
	return out
}
