package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// Table is a parsed upload: a header row plus data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

var ErrEmptyFile = errors.New("file contains no data rows")

// ReadFile parses an uploaded spreadsheet. The format is picked from the
// file name extension: .csv, .xlsx or .xls.
func ReadFile(name string, r io.Reader) (Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return readCSV(r)
	case ".xlsx", ".xls":
		return readXLSX(r)
	default:
		return Table{}, fmt.Errorf("unsupported file format %q: want .csv, .xlsx or .xls", name)
	}
}

// readCSV decodes CSV content. Uploads from the field frequently arrive in
// GBK or GB2312 rather than UTF-8, so non-UTF-8 content is run through the
// GBK decoder (a superset of GB2312).
func readCSV(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Table{}, ErrEmptyFile
	}

	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), data)
		if err != nil {
			return Table{}, fmt.Errorf("unrecognized encoding: not UTF-8, GBK or GB2312: %w", err)
		}
		data = decoded
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse csv: %w", err)
	}

	return tableFromRecords(records)
}

func readXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, ErrEmptyFile
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	return tableFromRecords(records)
}

func tableFromRecords(records [][]string) (Table, error) {
	// Drop fully blank rows.
	filtered := records[:0]
	for _, rec := range records {
		blank := true
		for _, cell := range rec {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			filtered = append(filtered, rec)
		}
	}

	if len(filtered) < 2 {
		return Table{}, ErrEmptyFile
	}

	header := make([]string, len(filtered[0]))
	for i, h := range filtered[0] {
		header[i] = strings.TrimSpace(h)
	}

	return Table{Header: header, Rows: filtered[1:]}, nil
}
