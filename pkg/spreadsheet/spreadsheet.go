// Package spreadsheet reads and writes simple header-plus-rows tables as
// xlsx (via excelize) or csv.
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format names a file format.
type Format string

const (
	XLSX Format = "xlsx"
	CSV  Format = "csv"
)

// ErrUnsupportedFormat is returned for extensions other than .xlsx and .csv.
var ErrUnsupportedFormat = errors.New("spreadsheet: unsupported format (use .xlsx or .csv)")

// FormatFromFilename picks the format from name's extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return XLSX, nil
	case ".csv":
		return CSV, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// ContentType is the MIME type to send with a download.
func (f Format) ContentType() string {
	if f == CSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Table is the first sheet of a workbook: a header row and the data rows
// beneath it. Rows may be shorter than Header when trailing cells are empty.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of the header matching name (case-insensitive,
// surrounding space ignored), or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Cell returns row[col] or "" when the row is short or col is -1.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Read parses r in format f. An empty file yields an empty Table.
func Read(r io.Reader, f Format) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch f {
	case XLSX:
		rows, err = readXLSX(r)
	case CSV:
		rows, err = readCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	t := &Table{}
	if len(rows) == 0 {
		return t, nil
	}
	t.Header, t.Rows = rows[0], rows[1:]
	return t, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: open xlsx: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := wb.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: read csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// Write encodes header and rows to w. Cell values keep their Go type in xlsx
// (numbers stay numeric) and are formatted with %v in csv.
func Write(w io.Writer, f Format, sheet string, header []string, rows [][]interface{}) error {
	switch f {
	case XLSX:
		return writeXLSX(w, sheet, header, rows)
	case CSV:
		return writeCSV(w, header, rows)
	default:
		return ErrUnsupportedFormat
	}
}

func writeXLSX(w io.Writer, sheet string, header []string, rows [][]interface{}) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := wb.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("spreadsheet: name sheet: %w", err)
		}
	}

	sw, err := wb.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("spreadsheet: stream writer: %w", err)
	}

	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := sw.SetRow("A1", head); err != nil {
		return fmt.Errorf("spreadsheet: write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("spreadsheet: write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("spreadsheet: flush: %w", err)
	}
	if _, err := wb.WriteTo(w); err != nil {
		return fmt.Errorf("spreadsheet: write xlsx: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]interface{}) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	rec := make([]string, 0, len(header))
	for _, row := range rows {
		rec = rec[:0]
		for _, v := range row {
			if v == nil {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, fmt.Sprint(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
